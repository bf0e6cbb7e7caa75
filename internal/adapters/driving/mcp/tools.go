package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// DocumentInput selects a save and optionally overrides the player.
type DocumentInput struct {
	Path     string `json:"path" jsonschema:"path to a .sav archive or a gamestate file"`
	PlayerID *int64 `json:"player_id,omitempty" jsonschema:"country id to read as the player (default: the save's player)"`
}

// EmpireInput looks up another empire by name.
type EmpireInput struct {
	Path string `json:"path" jsonschema:"path to a .sav archive or a gamestate file"`
	Name string `json:"name" jsonschema:"empire name, case-insensitive"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Path         string `json:"path" jsonschema:"path to a .sav archive or a gamestate file"`
	Query        string `json:"query" jsonschema:"text to find in the raw gamestate"`
	MaxResults   int    `json:"max_results,omitempty" jsonschema:"maximum matches, at most 10"`
	ContextChars int    `json:"context_chars,omitempty" jsonschema:"characters of context around each match, at most 500"`
}

// EntryInput reads one key of a top-level section.
type EntryInput struct {
	Path    string `json:"path" jsonschema:"path to a .sav archive or a gamestate file"`
	Section string `json:"section" jsonschema:"top-level section such as country or fleet"`
	Key     string `json:"key" jsonschema:"entry key, usually a numeric id"`
}

// DiffInput compares two snapshots, or the latest two of a profile.
type DiffInput struct {
	From      string `json:"from,omitempty" jsonschema:"older snapshot id"`
	To        string `json:"to,omitempty" jsonschema:"newer snapshot id"`
	ProfileID string `json:"profile_id,omitempty" jsonschema:"profile whose latest two snapshots are compared"`
}

var commandDescriptions = map[string]string{
	domain.CommandMetadata:       "Save version, name, date, DLCs, campaign and player ids",
	domain.CommandPlayerStatus:   "Player empire power, fleets, starbases and colonies",
	domain.CommandWars:           "Wars the player takes part in, with sides and exhaustion",
	domain.CommandFleets:         "Player military fleets and ship counts",
	domain.CommandResources:      "Stockpiles and monthly income, expenses and net",
	domain.CommandDiplomacy:      "Relations, treaties, allies, rivals and federation",
	domain.CommandLeaders:        "Player leaders with class, level and traits",
	domain.CommandTechnology:     "Completed and in-progress research",
	domain.CommandPlanets:        "Player colonies with population and districts",
	domain.CommandStarbases:      "Player starbases with modules and defense score",
	domain.CommandPolitics:       "Government, ethics, civics, policies and factions",
	domain.CommandSpecies:        "Every species in the galaxy with class and traits",
	domain.CommandMegastructures: "Player megastructures and repairable ruins",
	domain.CommandSituation:      "Compact read of game phase, wars, contacts and crisis",
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	for _, command := range domain.CategoryCommands {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        command,
			Description: commandDescriptions[command],
		}, s.documentTool(command))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        domain.CommandFullBriefing,
		Description: "Every category in one aggregate; failed categories are listed in errors",
	}, s.documentTool(domain.CommandFullBriefing))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        domain.CommandEmpire,
		Description: "Look up another empire by name",
	}, handle[EmpireInput](s, domain.CommandEmpire))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        domain.CommandSearch,
		Description: "Bounded text search over the raw gamestate",
	}, handle[SearchInput](s, domain.CommandSearch))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        domain.CommandGetEntry,
		Description: "Read one entry of a top-level section",
	}, handle[EntryInput](s, domain.CommandGetEntry))

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        domain.CommandHistoryRecord,
			Description: "Record a snapshot of the save; duplicates return the stored snapshot",
		}, handle[DocumentInput](s, domain.CommandHistoryRecord))

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        domain.CommandHistoryDiff,
			Description: "What changed between two snapshots",
		}, handle[DiffInput](s, domain.CommandHistoryDiff))
	}
}

func (s *Server) documentTool(command string) mcp.ToolHandlerFor[DocumentInput, any] {
	return handle[DocumentInput](s, command)
}

// handle sends the tool input through the dispatcher as the arguments of
// command and returns the response data as text.
func handle[In any](s *Server, command string) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		text, err := s.call(ctx, command, input)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (s *Server) call(ctx context.Context, command string, input any) (string, error) {
	args, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encoding arguments: %w", err)
	}
	resp := s.ports.Dispatcher.Dispatch(ctx, domain.Request{
		RequestID: uuid.NewString(),
		Command:   command,
		Arguments: args,
	}, nil)
	if !resp.OK {
		if resp.Error == nil {
			return "", errors.New("request failed")
		}
		return "", resp.Err()
	}
	return string(resp.Data), nil
}
