package services

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// Ensure BriefingService implements the interface.
var _ driving.BriefingService = (*BriefingService)(nil)

// BriefingService runs every briefing command concurrently and assembles
// the results. The document is read-only, so extractors share it freely.
type BriefingService struct {
	extraction driving.ExtractionService
	workers    int
}

// NewBriefingService creates a briefing service.
func NewBriefingService(extraction driving.ExtractionService) *BriefingService {
	return &BriefingService{
		extraction: extraction,
		workers:    min(runtime.GOMAXPROCS(0), len(domain.BriefingLayout)),
	}
}

type slotResult struct {
	view any
	err  error
}

// Brief runs the briefing layout. Command failures are recorded in the
// briefing; only cancellation fails the call.
func (s *BriefingService) Brief(ctx context.Context, doc *domain.SaveDocument) (*domain.Briefing, error) {
	logger.Section("Briefing")
	results := make([]slotResult, len(domain.BriefingLayout))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, slot := range domain.BriefingLayout {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			view, err := s.extraction.Extract(gctx, doc, slot.Command)
			results[i] = slotResult{view: view, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &domain.Briefing{}
	for i, slot := range domain.BriefingLayout {
		r := results[i]
		if r.err == nil {
			r.err = b.Place(slot.Command, r.view)
		}
		if r.err != nil {
			logger.Warn("briefing: %s failed: %v", slot.Command, r.err)
			b.Fail(slot.Command, r.err)
		}
	}
	return b, nil
}
