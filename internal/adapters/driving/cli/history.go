package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

var (
	historyLimit   int
	historyProfile string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Record and compare snapshots of saves",
	Long: `Snapshots hold the full briefing of a save. Saves of the same campaign
and player share a profile, and consecutive snapshots of a profile can be
compared to see what changed.`,
}

var historyRecordCmd = &cobra.Command{
	Use:   "record [path]",
	Short: "Record a snapshot of a save",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRecord,
}

var historyListCmd = &cobra.Command{
	Use:   "list [profile-id]",
	Short: "List profiles, or the snapshots of one profile",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [snapshot-id]",
	Short: "Print a recorded snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff [from-id] [to-id]",
	Short: "Compare two snapshots",
	Long: `Compares two snapshots by id. With --profile, compares the two newest
snapshots of that profile instead.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if historyProfile != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runHistoryDiff,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum snapshots to list (0 = all)")
	historyDiffCmd.Flags().StringVar(&historyProfile, "profile", "", "compare the latest two snapshots of this profile")
	historyCmd.AddCommand(historyRecordCmd, historyListCmd, historyShowCmd, historyDiffCmd)
	rootCmd.AddCommand(historyCmd)
}

type snapshotSummary struct {
	ID          string `json:"id"`
	GameDate    string `json:"game_date"`
	ContentHash string `json:"content_hash"`
	ProfileID   string `json:"profile_id"`
	EmpireName  string `json:"empire_name"`
	CapturedAt  string `json:"captured_at"`
	Partial     bool   `json:"partial"`
}

func runHistoryRecord(cmd *cobra.Command, args []string) error {
	recordArgs := map[string]any{"path": args[0]}
	if outputFormat != outputText {
		return runData(cmd, domain.CommandHistoryRecord, recordArgs)
	}
	data, err := dispatch(cmd.Context(), domain.CommandHistoryRecord, recordArgs, nil)
	if err != nil {
		return err
	}
	result, err := decodeData[struct {
		Snapshot snapshotSummary `json:"snapshot"`
		Created  bool            `json:"created"`
	}](data)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	s := result.Snapshot
	if result.Created {
		p.Title("Recorded " + s.EmpireName + " at " + s.GameDate)
	} else {
		p.Title("Already recorded: " + s.EmpireName + " at " + s.GameDate)
	}
	p.Field("Snapshot", s.ID)
	p.Field("Profile", s.ProfileID)
	if s.Partial {
		p.Field("Briefing", p.Warn("partial"))
	}
	return nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	listArgs := map[string]any{"limit": historyLimit}
	if len(args) == 1 {
		listArgs["profile_id"] = args[0]
	}
	if outputFormat != outputText {
		return runData(cmd, domain.CommandHistoryList, listArgs)
	}
	data, err := dispatch(cmd.Context(), domain.CommandHistoryList, listArgs, nil)
	if err != nil {
		return err
	}
	list, err := decodeData[struct {
		Profiles  []string          `json:"profiles"`
		ProfileID string            `json:"profile_id"`
		Snapshots []snapshotSummary `json:"snapshots"`
	}](data)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(args) == 0 {
		if len(list.Profiles) == 0 {
			p.Line("No snapshots recorded.")
			return nil
		}
		p.Title("Profiles")
		for _, id := range list.Profiles {
			p.Line(id)
		}
		return nil
	}

	if len(list.Snapshots) == 0 {
		p.Line("No snapshots for profile " + list.ProfileID + ".")
		return nil
	}
	p.Title(list.Snapshots[0].EmpireName)
	for _, s := range list.Snapshots {
		p.Line(fmt.Sprintf("%s  %s  %s", s.GameDate, s.ID, p.Muted(capturedAgo(s.CapturedAt))))
	}
	return nil
}

// capturedAgo renders an RFC 3339 time relative to now.
func capturedAgo(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return "captured " + humanize.Time(t)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	snap, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", args[0], err)
	}
	return printJSON(cmd, snap)
}

func runHistoryDiff(cmd *cobra.Command, args []string) error {
	diffArgs := map[string]any{}
	if historyProfile != "" {
		diffArgs["profile_id"] = historyProfile
	} else {
		diffArgs["from"] = args[0]
		diffArgs["to"] = args[1]
	}
	if outputFormat != outputText {
		return runData(cmd, domain.CommandHistoryDiff, diffArgs)
	}
	data, err := dispatch(cmd.Context(), domain.CommandHistoryDiff, diffArgs, nil)
	if err != nil {
		return err
	}
	diff, err := decodeData[domain.Diff](data)
	if err != nil {
		return err
	}
	renderDiff(newPrinter(cmd.OutOrStdout()), diff)
	return nil
}
