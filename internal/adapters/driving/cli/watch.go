package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Record a snapshot every time a save is written",
	Long: `Follows a save directory and its campaign folders. Each new or changed
save is recorded once it settles, and the changes since the previous
snapshot of the same empire are printed. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if saveWatcher == nil {
		return errors.New("watcher not configured")
	}
	p := newPrinter(cmd.OutOrStdout())
	logger.Info("watching %s", args[0])
	err := saveWatcher.Watch(cmd.Context(), args[0], func(ev driving.WatchEvent) {
		printWatchEvent(p, ev)
	})
	if errors.Is(err, cmd.Context().Err()) {
		return nil
	}
	return err
}

func printWatchEvent(p *printer, ev driving.WatchEvent) {
	if ev.Err != nil {
		p.Line(p.Bad(fmt.Sprintf("%s: %v", ev.Path, ev.Err)))
		return
	}
	s := ev.Snapshot
	if !ev.Created {
		p.Line(p.Muted(fmt.Sprintf("%s: already recorded as %s", ev.Path, s.ID)))
		return
	}
	p.Line(p.Good(fmt.Sprintf("Recorded %s at %s", s.EmpireName, s.GameDate)))
	if ev.Diff != nil {
		renderDiff(p, ev.Diff)
	}
	p.Blank()
}
