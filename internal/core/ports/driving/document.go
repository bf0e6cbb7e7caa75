package driving

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// DocumentService loads saves into parsed documents.
type DocumentService interface {
	// Load reads and parses the save at path. Documents are cached by
	// content hash, so reloading an unchanged file reuses the parsed tree.
	Load(ctx context.Context, path string) (*domain.SaveDocument, error)

	// Open returns the cached document for the save at path when one is
	// held. Otherwise it returns the raw save unparsed, for callers that
	// only stream a few sections.
	Open(ctx context.Context, path string) (*domain.SaveDocument, *domain.RawSave, error)

	// Parse builds a document from gamestate text already in memory.
	// The document is not cached.
	Parse(ctx context.Context, name, text string) (*domain.SaveDocument, error)

	// Cached lists the documents currently held, most recently used first.
	Cached() []domain.DocumentInfo

	// Evict drops a cached document by content hash.
	Evict(hash string) bool

	// Purge drops every cached document.
	Purge()
}
