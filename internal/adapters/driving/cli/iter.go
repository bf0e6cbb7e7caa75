package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

var iterBatchSize int

var iterCmd = &cobra.Command{
	Use:   "iter [path] [section]",
	Short: "Stream the entries of a top-level section as JSON lines",
	Long: `Prints one {"key","value"} JSON object per line for every entry of the
section. Entries are read without building the rest of the save. When the
section is damaged, the entries before the damage are printed and the
command fails.`,
	Args: cobra.ExactArgs(2),
	RunE: runIter,
}

func init() {
	iterCmd.Flags().IntVar(&iterBatchSize, "batch-size", 0, "entries per frame (default from settings)")
	rootCmd.AddCommand(iterCmd)
}

func runIter(cmd *cobra.Command, args []string) error {
	iterArgs := map[string]any{
		"path":    args[0],
		"section": args[1],
		"format":  domain.FormatJSONL,
	}
	if iterBatchSize > 0 {
		iterArgs["batch_size"] = iterBatchSize
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	data, err := dispatch(cmd.Context(), domain.CommandIterSection, iterArgs, func(frame domain.StreamFrame) error {
		for _, e := range frame.Entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	summary, err := decodeData[domain.StreamSummary](data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d entries in %d batches\n", summary.Section, summary.Count, summary.Batches)
	return nil
}
