package mcp

import (
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Dispatcher runs every tool call through the request boundary.
	Dispatcher driving.Dispatcher

	// History backs the snapshot resources. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Dispatcher == nil {
		return ErrMissingDispatcher
	}
	return nil
}
