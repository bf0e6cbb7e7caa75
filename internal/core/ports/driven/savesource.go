package driven

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// SaveSource reads save files from storage.
type SaveSource interface {
	// Read loads and decodes the save at path.
	// Returns domain.ErrBinarySave for binary saves and domain.ErrNotFound
	// when the file does not exist.
	Read(ctx context.Context, path string) (*domain.RawSave, error)

	// Hash returns the content hash of the file without decoding it.
	Hash(ctx context.Context, path string) (string, error)
}
