package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/extractors"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService runs registered extractors for a document's player.
type ExtractionService struct {
	registry  driven.ExtractorRegistry
	listLimit int
	search    domain.SearchSettings
}

// NewExtractionService creates an extraction service. Settings supply the
// list bound and search defaults.
func NewExtractionService(registry driven.ExtractorRegistry, settings domain.Settings) *ExtractionService {
	return &ExtractionService{
		registry:  registry,
		listLimit: settings.Extract.ListLimit,
		search:    settings.Search,
	}
}

// Extract runs one category command.
func (s *ExtractionService) Extract(ctx context.Context, doc *domain.SaveDocument, command string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := s.registry.Get(command)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, command)
	}
	opts, err := s.options(doc, command)
	if err != nil {
		return nil, err
	}
	defer logger.Elapsed(command, time.Now())
	return e.Extract(doc, opts)
}

// Empire looks up a country by name.
func (s *ExtractionService) Empire(ctx context.Context, doc *domain.SaveDocument, name string) (*domain.EmpireLookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := s.options(doc, domain.CommandEmpire)
	if err != nil {
		return nil, err
	}
	return extractors.Empire(doc, opts, name)
}

// Search scans the save text. Zero options take the configured defaults.
func (s *ExtractionService) Search(ctx context.Context, doc *domain.SaveDocument, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = s.search.MaxResults
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = s.search.ContextChars
	}
	if opts.MaxOutput <= 0 {
		opts.MaxOutput = s.search.MaxOutput
	}
	return extractors.Search(doc, query, opts)
}

// Commands lists registered category commands.
func (s *ExtractionService) Commands() []string {
	return s.registry.Names()
}

// options resolves the player for a command. Metadata is the only command
// that does not need one.
func (s *ExtractionService) options(doc *domain.SaveDocument, command string) (domain.ExtractOptions, error) {
	if doc == nil {
		return domain.ExtractOptions{}, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	opts := domain.ExtractOptions{ListLimit: s.listLimit}
	player, err := doc.PlayerID()
	switch {
	case err == nil:
		opts.PlayerID = player
	case command != domain.CommandMetadata:
		return opts, fmt.Errorf("%s: %w", command, err)
	}
	return opts, nil
}
