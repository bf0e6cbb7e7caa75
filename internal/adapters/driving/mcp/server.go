package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Version is the MCP server version.
const Version = "0.1.0"

// serverName identifies the ledger to MCP clients.
const serverName = "empire-ledger"

// keepAlive is how often idle sessions are pinged.
const keepAlive = 30 * time.Second

// Server exposes the request boundary as MCP tools and the snapshot
// history as resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates the ledger MCP server. Tools are registered for every
// command the dispatcher accepts; snapshot resources only when History is
// set.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Title:   "Empire Ledger",
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions(ports),
		HasTools:     true,
		HasResources: true,
		KeepAlive:    keepAlive,
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients how the tools fit together.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("Empire Ledger reads Stellaris saves. Every tool takes the path of a .sav archive or an extracted gamestate file.\n\n")
	fmt.Fprintf(&b, "Start with %s for a compact read of the player's position, or %s for every category at once. ",
		domain.CommandSituation, domain.CommandFullBriefing)
	fmt.Fprintf(&b, "Category tools (%s) return one view each; list fields are capped and carry truncated=true when cut, while count fields stay exact.\n\n",
		strings.Join(domain.CategoryCommands, ", "))
	fmt.Fprintf(&b, "For data no category covers, use %s to find text, then %s to read one entry of a top-level section.\n",
		domain.CommandSearch, domain.CommandGetEntry)
	if ports.History != nil {
		fmt.Fprintf(&b, "\nSnapshots: %s stores the save's briefing, %s compares the latest two of a profile. ",
			domain.CommandHistoryRecord, domain.CommandHistoryDiff)
		fmt.Fprintf(&b, "Recorded snapshots are readable under %sprofiles.\n", uriScheme)
	}
	return b.String()
}

// Run serves MCP over stdio until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx ends.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
