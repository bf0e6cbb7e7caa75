package driven

import "github.com/custodia-labs/empire-ledger/internal/core/domain"

// Extractor builds one category view from a document.
// Extractors are pure: the same document and options always produce the
// same view, and the view never references the document's tree.
type Extractor interface {
	// Name returns the command the extractor serves.
	Name() string

	// Extract builds the view. The concrete type is the command's view
	// type from the domain package, returned by pointer.
	Extract(doc *domain.SaveDocument, opts domain.ExtractOptions) (any, error)
}

// ExtractorRegistry looks up extractors by command name.
type ExtractorRegistry interface {
	// Get returns the extractor for a command.
	Get(name string) (Extractor, bool)

	// Names returns registered command names in registration order.
	Names() []string
}
