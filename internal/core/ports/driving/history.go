package driving

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// HistoryService records snapshots and compares them.
type HistoryService interface {
	// Record briefs the document and appends a snapshot. A document whose
	// content hash is already stored returns the existing snapshot with
	// created=false.
	Record(ctx context.Context, doc *domain.SaveDocument) (snap *domain.Snapshot, created bool, err error)

	// List returns a profile's snapshots, newest first.
	List(ctx context.Context, profileID string, limit int) ([]domain.Snapshot, error)

	// Get returns one snapshot.
	Get(ctx context.Context, id string) (*domain.Snapshot, error)

	// Latest returns the newest snapshot of a profile.
	Latest(ctx context.Context, profileID string) (*domain.Snapshot, error)

	// Profiles lists profiles that have snapshots.
	Profiles(ctx context.Context) ([]string, error)

	// Diff compares two snapshots by id.
	Diff(ctx context.Context, fromID, toID string) (*domain.Diff, error)

	// DiffLatest compares the two newest snapshots of a profile.
	DiffLatest(ctx context.Context, profileID string) (*domain.Diff, error)
}

// Differ compares two snapshots.
type Differ interface {
	Diff(from, to *domain.Snapshot) *domain.Diff
}
