package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractProfileID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid", "ledger://profiles/ab12/snapshots", "ab12"},
		{"invalid prefix", "file://profiles/ab12/snapshots", ""},
		{"missing suffix", "ledger://profiles/ab12", ""},
		{"nested", "ledger://profiles/a/b/snapshots", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProfileID(tt.uri))
		})
	}
}

func TestExtractSnapshotID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid", "ledger://snapshots/s-1", "s-1"},
		{"invalid prefix", "ledger://snapshot/s-1", ""},
		{"nested", "ledger://snapshots/s-1/briefing", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSnapshotID(tt.uri))
		})
	}
}

func TestServer_handleCommandsResource(t *testing.T) {
	server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}})
	require.NoError(t, err)

	result, err := server.handleCommandsResource(context.Background(), makeReadResourceRequest("ledger://commands"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.JSONEq(t, `["wars","metadata"]`, result.Contents[0].Text)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
}

func TestServer_handleProfilesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no profiles is an empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, History: &mockHistoryService{}})
		require.NoError(t, err)

		result, err := server.handleProfilesResource(ctx, makeReadResourceRequest("ledger://profiles"))

		require.NoError(t, err)
		assert.JSONEq(t, `[]`, result.Contents[0].Text)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, History: history})
		require.NoError(t, err)

		_, err = server.handleProfilesResource(ctx, makeReadResourceRequest("ledger://profiles"))

		assert.ErrorContains(t, err, "database error")
	})
}

func TestServer_handleSnapshotsResource(t *testing.T) {
	history := &mockHistoryService{snapshots: []domain.Snapshot{
		{ID: "s2", GameDate: "2240.01.01", EmpireName: "Test Empire", ContentHash: "h2"},
		{ID: "s1", GameDate: "2230.01.01", EmpireName: "Test Empire", ContentHash: "h1"},
	}}
	server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, History: history})
	require.NoError(t, err)

	result, err := server.handleSnapshotsResource(context.Background(),
		makeReadResourceRequest("ledger://profiles/p1/snapshots"))

	require.NoError(t, err)
	text := result.Contents[0].Text
	assert.Contains(t, text, `"uri": "ledger://snapshots/s2"`)
	assert.Less(t, strings.Index(text, "s2"), strings.Index(text, "s1"))

	_, err = server.handleSnapshotsResource(context.Background(), makeReadResourceRequest("ledger://profiles/p1"))
	assert.Error(t, err)
}

func TestServer_handleSnapshotResource(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		history := &mockHistoryService{snapshot: &domain.Snapshot{ID: "s1", ProfileID: "p1"}}
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, History: history})
		require.NoError(t, err)

		result, err := server.handleSnapshotResource(ctx, makeReadResourceRequest("ledger://snapshots/s1"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"profile_id": "p1"`)
	})

	t.Run("missing", func(t *testing.T) {
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, History: &mockHistoryService{}})
		require.NoError(t, err)

		_, err = server.handleSnapshotResource(ctx, makeReadResourceRequest("ledger://snapshots/nope"))

		assert.Error(t, err)
	})
}
