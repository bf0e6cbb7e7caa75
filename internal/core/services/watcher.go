package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// Ensure SaveWatcher implements the interface.
var _ driving.Watcher = (*SaveWatcher)(nil)

// SaveWatcher records a snapshot whenever a save in a directory settles
// after being written.
type SaveWatcher struct {
	documents driving.DocumentService
	history   driving.HistoryService
	debounce  time.Duration
}

// NewSaveWatcher creates a watcher. A file is processed once no event has
// touched it for the debounce period.
func NewSaveWatcher(documents driving.DocumentService, history driving.HistoryService, debounce time.Duration) *SaveWatcher {
	if debounce <= 0 {
		debounce = domain.DefaultSettings().Watch.Debounce
	}
	return &SaveWatcher{documents: documents, history: history, debounce: debounce}
}

// Watch follows dir and its immediate subdirectories, where the game
// keeps one folder per campaign.
func (s *SaveWatcher) Watch(ctx context.Context, dir string, fn func(driving.WatchEvent)) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := fw.Add(filepath.Join(dir, e.Name())); err != nil {
				logger.Warn("watch: cannot follow %s: %v", e.Name(), err)
			}
		}
	}
	logger.Info("watching %s", dir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(s.debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(dir) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := fw.Add(event.Name); err != nil {
						logger.Warn("watch: cannot follow %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !isSaveFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < s.debounce {
					continue
				}
				delete(pending, path)
				if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
					continue
				}
				fn(s.process(ctx, path))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// process loads a settled save, records it and diffs it against the
// profile's previous snapshot.
func (s *SaveWatcher) process(ctx context.Context, path string) driving.WatchEvent {
	ev := driving.WatchEvent{Path: path}
	doc, err := s.documents.Load(ctx, path)
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.Snapshot, ev.Created, ev.Err = s.history.Record(ctx, doc)
	if ev.Err != nil || !ev.Created {
		return ev
	}
	latest, err := s.history.Latest(ctx, ev.Snapshot.ProfileID)
	if err != nil || latest.ID != ev.Snapshot.ID {
		return ev
	}
	if d, err := s.history.DiffLatest(ctx, ev.Snapshot.ProfileID); err == nil {
		ev.Diff = d
	}
	return ev
}

// isSaveFile matches save archives and extracted gamestate files.
func isSaveFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".sav") || base == "gamestate"
}
