package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Snapshot
	byHash map[string]string
	order  []string
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		byID:   make(map[string]*domain.Snapshot),
		byHash: make(map[string]string),
	}
}

// Append stores a snapshot unless its content hash is already present.
func (s *SnapshotStore) Append(_ context.Context, snap *domain.Snapshot) (*domain.Snapshot, bool, error) {
	if snap == nil || snap.ID == "" || snap.ContentHash == "" {
		return nil, false, fmt.Errorf("%w: snapshot needs an id and a content hash", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byHash[snap.ContentHash]; ok {
		existing := *s.byID[id]
		return &existing, false, nil
	}
	if _, ok := s.byID[snap.ID]; ok {
		return nil, false, fmt.Errorf("%w: duplicate snapshot id %s", domain.ErrInvalidInput, snap.ID)
	}
	stored := *snap
	s.byID[snap.ID] = &stored
	s.byHash[snap.ContentHash] = snap.ID
	s.order = append(s.order, snap.ID)
	out := stored
	return &out, true, nil
}

// Get retrieves a snapshot by ID.
func (s *SnapshotStore) Get(_ context.Context, id string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *snap
	return &out, nil
}

// GetByHash retrieves a snapshot by content hash.
func (s *SnapshotStore) GetByHash(ctx context.Context, hash string) (*domain.Snapshot, error) {
	s.mu.RLock()
	id, ok := s.byHash[hash]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

// List returns a profile's snapshots, newest game date first. Snapshots
// of the same day are ordered by insertion, newest first.
func (s *SnapshotStore) List(_ context.Context, profileID string, limit int) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Snapshot
	for i := len(s.order) - 1; i >= 0; i-- {
		snap := s.byID[s.order[i]]
		if snap.ProfileID == profileID {
			result = append(result, *snap)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GameDay() > result[j].GameDay()
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Profiles returns every profile id that has snapshots, sorted.
func (s *SnapshotStore) Profiles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, snap := range s.byID {
		seen[snap.ProfileID] = struct{}{}
	}
	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	sort.Strings(result)
	return result, nil
}
