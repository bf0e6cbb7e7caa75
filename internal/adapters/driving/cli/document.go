package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

var parseCmd = &cobra.Command{
	Use:   "parse [path]",
	Short: "Parse a save and report what was read",
	Long: `Loads a save file or gamestate and prints its metadata and any
top-level sections that could not be parsed. Damaged sections do not stop
the rest of the save from loading.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var extractCmd = &cobra.Command{
	Use:   "extract [command] [path]",
	Short: "Run one extractor command on a save",
	Long: `Runs a category command and prints its JSON output.

Commands: ` + strings.Join(domain.CategoryCommands, ", "),
	Args:      cobra.ExactArgs(2),
	ValidArgs: domain.CategoryCommands,
	RunE:      runExtract,
}

var briefingCmd = &cobra.Command{
	Use:   "briefing [path]",
	Short: "Print the full briefing of a save",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(cmd, domain.CommandFullBriefing, documentArgs(args[0]))
	},
}

var empireCmd = &cobra.Command{
	Use:   "empire [path] [name]",
	Short: "Look up another empire by name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(cmd, domain.CommandEmpire, map[string]any{"path": args[0], "name": args[1]})
	},
}

func init() {
	for _, c := range []*cobra.Command{extractCmd, briefingCmd} {
		addPlayerFlag(c)
	}
	rootCmd.AddCommand(parseCmd, extractCmd, briefingCmd, empireCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	doc, err := documentService.Load(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	info := doc.Info()
	failures := doc.Failures()
	if outputFormat == outputJSON {
		return printJSON(cmd, map[string]any{"info": info, "sections": doc.Root().Len(), "failures": failures})
	}

	p := newPrinter(cmd.OutOrStdout())
	p.Title(info.SaveName)
	p.Field("Path", info.Path)
	p.Field("Size", humanize.Bytes(uint64(len(doc.Text()))))
	p.Field("Version", info.Version)
	p.Field("Date", info.Date.String())
	if info.PlayerResolved {
		p.Field("Player", strconv.FormatInt(info.PlayerID, 10))
	} else {
		p.Field("Player", p.Warn("(none)"))
	}
	p.Field("Campaign", info.CampaignID)
	p.Field("Hash", info.ContentHash)
	p.Field("Sections", strconv.Itoa(doc.Root().Len()))
	if len(failures) == 0 {
		p.Field("Status", p.Good("complete"))
		return nil
	}

	p.Field("Status", p.Bad(fmt.Sprintf("%d damaged section(s)", len(failures))))
	for _, f := range failures {
		p.Line(fmt.Sprintf("  %s: %s at offset %d: %s", f.Section, f.Kind, f.Offset, f.Message))
	}
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	command := args[0]
	if !slices.Contains(domain.CategoryCommands, command) {
		return fmt.Errorf("unknown command %q (one of: %s)", command, strings.Join(domain.CategoryCommands, ", "))
	}
	return runData(cmd, command, documentArgs(args[1]))
}
