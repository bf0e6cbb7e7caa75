// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// ledger. Extractor commands are tools; snapshot history is exposed as
// resources.
package mcp

import "errors"

// ErrMissingDispatcher is returned when the dispatcher is not provided.
var ErrMissingDispatcher = errors.New("mcp: dispatcher is required")
