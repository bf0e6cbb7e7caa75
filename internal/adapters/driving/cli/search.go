package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

var (
	searchLimit   int
	searchContext int
)

var searchCmd = &cobra.Command{
	Use:   "search [path] [query]",
	Short: "Search the raw text of a save",
	Long: `Finds occurrences of the query in the gamestate text and prints the
surrounding context. Matching is case-insensitive. The number of matches
and the context size are bounded.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of matches (at most 10)")
	searchCmd.Flags().IntVar(&searchContext, "context", 200, "characters of context per match (at most 500)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	searchArgs := map[string]any{
		"path":          args[0],
		"query":         args[1],
		"max_results":   searchLimit,
		"context_chars": searchContext,
	}
	if outputFormat != outputText {
		return runData(cmd, domain.CommandSearch, searchArgs)
	}

	data, err := dispatch(cmd.Context(), domain.CommandSearch, searchArgs, nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	result, err := decodeData[domain.SearchResult](data)
	if err != nil {
		return err
	}
	return outputSearchTable(cmd, result)
}

func outputSearchTable(cmd *cobra.Command, result *domain.SearchResult) error {
	out := cmd.OutOrStdout()
	if len(result.Matches) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Results for %q (%d found):\n\n", result.Query, result.TotalFound)
	for i, m := range result.Matches {
		fmt.Fprintf(out, "  [%d] offset %d\n", i+1, m.Position)
		fmt.Fprintf(out, "      %s\n\n", strings.Join(strings.Fields(m.Context), " "))
	}
	if result.Truncated {
		fmt.Fprintln(out, "Output truncated; narrow the query or lower --context.")
	}
	return nil
}
