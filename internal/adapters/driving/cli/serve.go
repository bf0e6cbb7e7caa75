package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/empire-ledger/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/empire-ledger/internal/adapters/driving/jsonl"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

var (
	serveHTTPAddr    string
	serveWatchDir    string
	serveConcurrency int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer requests over stdio or HTTP",
	Long: `Reads one JSON request per line from stdin and writes one JSON response
per line to stdout. Streamed commands write their frames before the final
response.

With --http, requests are accepted as POST /v1/requests instead, and
metrics are served at /metrics. With --watch, a save directory is followed
at the same time and snapshots are recorded as saves are written.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "listen address, for example :8080 (default: stdio)")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "", "save directory to follow while serving")
	serveCmd.Flags().IntVar(&serveConcurrency, "concurrency", jsonl.DefaultConcurrency, "requests handled at once on stdio")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if dispatcher == nil {
		return errors.New("dispatcher not configured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if serveWatchDir != "" {
		if saveWatcher == nil {
			return errors.New("watcher not configured")
		}
		g.Go(func() error {
			err := saveWatcher.Watch(ctx, serveWatchDir, logWatchEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if serveHTTPAddr != "" {
		g.Go(func() error {
			return httpapi.NewServer(dispatcher, metricsHandler).ListenAndServe(ctx, serveHTTPAddr)
		})
	} else {
		session := jsonl.NewSession(dispatcher, cmd.InOrStdin(), cmd.OutOrStdout(), serveConcurrency)
		g.Go(func() error {
			// The watcher stops with the session once stdin closes.
			defer cancel()
			return session.Serve(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// logWatchEvent reports watcher activity on stderr so it never mixes
// with responses on stdout.
func logWatchEvent(ev driving.WatchEvent) {
	switch {
	case ev.Err != nil:
		logger.Warn("%s: %v", ev.Path, ev.Err)
	case ev.Created:
		logger.Info("recorded %s at %s", ev.Snapshot.EmpireName, ev.Snapshot.GameDate)
	}
}

