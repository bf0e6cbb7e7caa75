package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// uriScheme is the URI scheme for ledger resources.
const uriScheme = "ledger://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "commands",
		Name:        "commands",
		Description: "Commands accepted by the request boundary",
		MIMEType:    "application/json",
	}, s.handleCommandsResource)

	if s.ports.History == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "profiles",
		Name:        "profiles",
		Description: "Campaign profiles that have recorded snapshots",
		MIMEType:    "application/json",
	}, s.handleProfilesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "profiles/{profileId}/snapshots",
		Name:        "profile-snapshots",
		Description: "Snapshots of a profile, newest game date first",
		MIMEType:    "application/json",
	}, s.handleSnapshotsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "snapshots/{snapshotId}",
		Name:        "snapshot",
		Description: "A recorded snapshot with its full briefing",
		MIMEType:    "application/json",
	}, s.handleSnapshotResource)
}

func (s *Server) handleCommandsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Dispatcher.Commands())
}

func (s *Server) handleProfilesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	profiles, err := s.ports.History.Profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	if profiles == nil {
		profiles = []string{}
	}
	return jsonResource(req.Params.URI, profiles)
}

// snapshotInfo is the list form of a snapshot, without the briefing.
type snapshotInfo struct {
	ID          string `json:"id"`
	GameDate    string `json:"game_date"`
	EmpireName  string `json:"empire_name"`
	ContentHash string `json:"content_hash"`
	URI         string `json:"uri"`
}

func (s *Server) handleSnapshotsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	profileID := extractProfileID(req.Params.URI)
	if profileID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	snaps, err := s.ports.History.List(ctx, profileID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	infos := make([]snapshotInfo, len(snaps))
	for i := range snaps {
		infos[i] = snapshotInfo{
			ID:          snaps[i].ID,
			GameDate:    snaps[i].GameDate,
			EmpireName:  snaps[i].EmpireName,
			ContentHash: snaps[i].ContentHash,
			URI:         uriScheme + "snapshots/" + snaps[i].ID,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleSnapshotResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSnapshotID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	snap, err := s.ports.History.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return jsonResource(req.Params.URI, snap)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProfileID extracts the profile ID from ledger://profiles/{profileId}/snapshots.
func extractProfileID(uri string) string {
	const prefix = uriScheme + "profiles/"
	const suffix = "/snapshots"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, suffix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractSnapshotID extracts the snapshot ID from ledger://snapshots/{snapshotId}.
func extractSnapshotID(uri string) string {
	id, ok := strings.CutPrefix(uri, uriScheme+"snapshots/")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
