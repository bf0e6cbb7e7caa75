// Package cli provides the ledger command tree.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Global flags.
var (
	verbose      bool
	outputFormat string
)

// Output formats for --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// Services wired by main.
var (
	documentService driving.DocumentService
	historyService  driving.HistoryService
	dispatcher      driving.Dispatcher
	settingsService driving.SettingsService
	saveWatcher     driving.Watcher
	metricsHandler  http.Handler
)

// Services holds the driving ports the commands use.
type Services struct {
	Documents  driving.DocumentService
	History    driving.HistoryService
	Dispatcher driving.Dispatcher
	Settings   driving.SettingsService
	Watcher    driving.Watcher
	Metrics    http.Handler
}

// SetServices injects the services used by commands.
func SetServices(s Services) {
	documentService = s.Documents
	historyService = s.History
	dispatcher = s.Dispatcher
	settingsService = s.Settings
	saveWatcher = s.Watcher
	metricsHandler = s.Metrics
}

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Read Stellaris saves and track an empire over time",
	Long: `ledger parses Stellaris save files and answers questions about the
player's empire: wars, fleets, economy, diplomacy, leaders, technology,
planets and starbases. Snapshots of each save are kept so that changes
between saves can be reported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output on stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "output format: text, json or yaml")
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
