// Command ledger reads Stellaris saves and tracks an empire over time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/config/file"
	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/metrics"
	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/savefile"
	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/empire-ledger/internal/adapters/driving/cli"
	"github.com/custodia-labs/empire-ledger/internal/core/services"
	"github.com/custodia-labs/empire-ledger/internal/extractors"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// version is set at build time.
var version = "dev"

type processEnv struct {
	Verbose bool `env:"LEDGER_VERBOSE"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var pe processEnv
	if err := env.Parse(&pe); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	logger.SetVerbose(pe.Verbose)

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	prom := metrics.NewPrometheus()
	registry := extractors.Defaults()

	documents := services.NewDocumentService(savefile.New(), prom, settings.Cache.Documents)
	extraction := services.NewExtractionService(registry, settings)
	briefing := services.NewBriefingService(extraction)

	// Snapshots keep whole collections so diffs see every entry.
	unboundedSettings := settings
	unboundedSettings.Extract.ListLimit = 0
	unbounded := services.NewExtractionService(registry, unboundedSettings)
	history := services.NewHistoryService(
		services.NewBriefingService(unbounded),
		unbounded,
		store,
		services.NewSnapshotDiffer(settings.Diff),
		prom,
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Documents:  documents,
		History:    history,
		Dispatcher: services.NewDispatcher(documents, extraction, briefing, history, prom, settings.Boundary),
		Settings:   settingsService,
		Watcher:    services.NewSaveWatcher(documents, history, settings.Watch.Debounce),
		Metrics:    prom.Handler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx)
}
