package driven

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// SnapshotStore persists snapshots. Snapshots are never updated or deleted.
type SnapshotStore interface {
	// Append stores a snapshot. When a snapshot with the same content hash
	// exists it is returned unchanged with created=false.
	Append(ctx context.Context, snap *domain.Snapshot) (stored *domain.Snapshot, created bool, err error)

	// Get retrieves a snapshot by ID.
	Get(ctx context.Context, id string) (*domain.Snapshot, error)

	// GetByHash retrieves a snapshot by content hash.
	GetByHash(ctx context.Context, hash string) (*domain.Snapshot, error)

	// List returns a profile's snapshots, newest game date first.
	// A limit of zero or less returns all of them.
	List(ctx context.Context, profileID string, limit int) ([]domain.Snapshot, error)

	// Profiles returns every profile id that has snapshots.
	Profiles(ctx context.Context) ([]string, error)
}
