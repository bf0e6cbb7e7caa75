package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records briefings as snapshots and diffs them.
// Writes for one profile are serialized; different profiles proceed in
// parallel.
type HistoryService struct {
	briefing   driving.BriefingService
	extraction driving.ExtractionService
	store      driven.SnapshotStore
	differ     driving.Differ
	metrics    driven.Metrics
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHistoryService creates a history service. The briefing and
// extraction services should be configured without list bounds so that
// diffs see whole collections. metrics may be nil.
func NewHistoryService(
	briefing driving.BriefingService,
	extraction driving.ExtractionService,
	store driven.SnapshotStore,
	differ driving.Differ,
	metrics driven.Metrics,
) *HistoryService {
	return &HistoryService{
		briefing:   briefing,
		extraction: extraction,
		store:      store,
		differ:     differ,
		metrics:    orNopMetrics(metrics),
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Record briefs the document and appends a snapshot.
func (s *HistoryService) Record(ctx context.Context, doc *domain.SaveDocument) (*domain.Snapshot, bool, error) {
	if doc == nil {
		return nil, false, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	existing, err := s.store.GetByHash(ctx, doc.Hash())
	switch {
	case err == nil:
		logger.Debug("snapshot for %s already recorded as %s", short(doc.Hash()), existing.ID)
		s.metrics.ObserveSnapshot(false)
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, fmt.Errorf("history: %w", err)
	}

	logger.Section("Recording snapshot")
	briefing, err := s.briefing.Brief(ctx, doc)
	if err != nil {
		return nil, false, fmt.Errorf("history: %w", err)
	}
	var situation *domain.Situation
	if v, err := s.extraction.Extract(ctx, doc, domain.CommandSituation); err == nil {
		situation, _ = v.(*domain.Situation)
	} else {
		logger.Warn("history: situation unavailable: %v", err)
	}

	snap := &domain.Snapshot{
		ID:          uuid.NewString(),
		ContentHash: doc.Hash(),
		CapturedAt:  s.now().UTC(),
		Briefing:    *briefing,
		Situation:   situation,
	}
	info := doc.Info()
	if !info.Date.IsZero() {
		snap.GameDate = info.Date.String()
	}
	if ps := briefing.Meta.PlayerStatus; ps != nil {
		snap.EmpireName = ps.EmpireName
	}
	player, _ := doc.PlayerID()
	snap.ProfileID = domain.ProfileID(info.CampaignID, player, snap.EmpireName)

	unlock := s.lock(snap.ProfileID)
	defer unlock()

	stored, created, err := s.store.Append(ctx, snap)
	if err != nil {
		return nil, false, fmt.Errorf("history: %w", err)
	}
	s.metrics.ObserveSnapshot(created)
	if created {
		logger.Info("recorded snapshot %s for %s at %s", stored.ID, stored.EmpireName, stored.GameDate)
	}
	return stored, created, nil
}

// lock takes the profile's write lock and returns its release.
func (s *HistoryService) lock(profileID string) func() {
	s.mu.Lock()
	m, ok := s.locks[profileID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[profileID] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// List returns a profile's snapshots, newest first.
func (s *HistoryService) List(ctx context.Context, profileID string, limit int) ([]domain.Snapshot, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput)
	}
	return s.store.List(ctx, profileID, limit)
}

// Get returns one snapshot.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: snapshot id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Latest returns the newest snapshot of a profile.
func (s *HistoryService) Latest(ctx context.Context, profileID string) (*domain.Snapshot, error) {
	snaps, err := s.List(ctx, profileID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: no snapshots for profile %s", domain.ErrNotFound, profileID)
	}
	return &snaps[0], nil
}

// Profiles lists profiles that have snapshots.
func (s *HistoryService) Profiles(ctx context.Context) ([]string, error) {
	return s.store.Profiles(ctx)
}

// Diff compares two stored snapshots.
func (s *HistoryService) Diff(ctx context.Context, fromID, toID string) (*domain.Diff, error) {
	from, err := s.Get(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.Get(ctx, toID)
	if err != nil {
		return nil, err
	}
	return s.differ.Diff(from, to), nil
}

// DiffLatest compares the two newest snapshots of a profile.
func (s *HistoryService) DiffLatest(ctx context.Context, profileID string) (*domain.Diff, error) {
	snaps, err := s.List(ctx, profileID, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, fmt.Errorf("%w: profile %s has fewer than two snapshots", domain.ErrNotFound, profileID)
	}
	return s.differ.Diff(&snaps[1], &snaps[0]), nil
}
