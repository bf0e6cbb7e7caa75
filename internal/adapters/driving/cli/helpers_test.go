package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/savefile"
	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/services"
	"github.com/custodia-labs/empire-ledger/internal/extractors"
)

// saveText renders a small save for country 0 with the given leaders,
// written as "id:name:class:level".
func saveText(date string, leaders ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "version=\"Corvus v3.12.4\"\ndate=%q\n", date)
	b.WriteString("player={ { name=\"Ada\" country=0 } }\n")
	b.WriteString("galaxy={ name=\"test-galaxy\" }\n")
	b.WriteString("country={\n\t0={\n\t\tname=\"Test Empire\"\n\t\tmilitary_power=5000\n\t}\n}\n")
	b.WriteString("war={\n}\n")
	b.WriteString("leaders={\n")
	for _, l := range leaders {
		parts := strings.Split(l, ":")
		fmt.Fprintf(&b, "\t%s={ name=%q class=%s level=%s country=0 }\n", parts[0], parts[1], parts[2], parts[3])
	}
	b.WriteString("}\n")
	return b.String()
}

// writeSave writes a gamestate file into dir and returns its path.
func writeSave(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

// testEnv holds the services wired for a command test.
type testEnv struct {
	dir      string
	savePath string
	history  *services.HistoryService
	settings *services.SettingsService
}

// setupTestServices wires real services over in-memory stores and a
// save file in a temp directory.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:      dir,
		savePath: writeSave(t, dir, "empire.sav", saveText("2240.01.01", "7:Ossa:admiral:3", "9:Vell:scientist:1")),
	}

	settings := domain.DefaultSettings()
	settings.Boundary.RateLimit = 0

	documents := services.NewDocumentService(savefile.New(), nil, 4)
	extraction := services.NewExtractionService(extractors.Defaults(), settings)
	unboundedSettings := settings
	unboundedSettings.Extract.ListLimit = 0
	unbounded := services.NewExtractionService(extractors.Defaults(), unboundedSettings)
	env.history = services.NewHistoryService(
		services.NewBriefingService(unbounded), unbounded, memory.NewSnapshotStore(),
		services.NewSnapshotDiffer(settings.Diff), nil,
	)
	env.settings = services.NewSettingsService(memory.NewConfigStore())

	SetServices(Services{
		Documents:  documents,
		History:    env.history,
		Dispatcher: services.NewDispatcher(documents, extraction, services.NewBriefingService(extraction), env.history, nil, settings.Boundary),
		Settings:   env.settings,
		Watcher:    services.NewSaveWatcher(documents, env.history, 0),
	})
	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags()
	})
	return env
}

// resetFlags restores flag variables, which keep their values between
// executions of the shared command tree.
func resetFlags() {
	verbose = false
	outputFormat = outputText
	playerFlag = -1
	searchLimit = 5
	searchContext = 200
	iterBatchSize = 0
	historyLimit = 0
	historyProfile = ""
	serveHTTPAddr = ""
	serveWatchDir = ""
}

// execute runs the command tree and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func bytesReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
