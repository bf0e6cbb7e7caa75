package driving

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// ExtractionService runs extractors against documents.
type ExtractionService interface {
	// Extract runs one category command for the document's player.
	// The result is the command's view type.
	Extract(ctx context.Context, doc *domain.SaveDocument, command string) (any, error)

	// Empire looks up a country by name. Not finding one is reported as
	// Found=false, not as an error.
	Empire(ctx context.Context, doc *domain.SaveDocument, name string) (*domain.EmpireLookup, error)

	// Search scans the save text for a query.
	Search(ctx context.Context, doc *domain.SaveDocument, query string, opts domain.SearchOptions) (*domain.SearchResult, error)

	// Commands lists the category commands Extract accepts.
	Commands() []string
}

// BriefingService composes category views into a briefing.
type BriefingService interface {
	// Brief runs every briefing command. A failing command leaves its slot
	// empty and marks the briefing partial; it does not fail the briefing.
	Brief(ctx context.Context, doc *domain.SaveDocument) (*domain.Briefing, error)
}
