package driving

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Watcher follows a save directory and records snapshots as saves change.
type Watcher interface {
	// Watch blocks until ctx is done, calling fn for every save that
	// settled after a change.
	Watch(ctx context.Context, dir string, fn func(WatchEvent)) error
}

// WatchEvent reports one processed save.
type WatchEvent struct {
	// Path is the save file.
	Path string

	// Snapshot is the recorded snapshot.
	Snapshot *domain.Snapshot

	// Created is false when the save was already recorded.
	Created bool

	// Diff compares the snapshot with the profile's previous one, if any.
	Diff *domain.Diff

	// Err is set when the save could not be loaded or recorded.
	Err error
}
