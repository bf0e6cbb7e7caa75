package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/parser"
)

func TestExtractionService_Extract(t *testing.T) {
	svc := newTestExtraction(50)
	doc := buildSave(t, "h1", saveText("2240.01.01", "7:Ossa:admiral:3"))

	v, err := svc.Extract(context.Background(), doc, domain.CommandLeaders)

	require.NoError(t, err)
	leaders, ok := v.(*domain.LeadersView)
	require.True(t, ok)
	assert.Equal(t, "Ossa", leaders.Leaders[0].Name)
}

func TestExtractionService_ListLimit(t *testing.T) {
	svc := newTestExtraction(1)
	doc := buildSave(t, "h1", saveText("2240.01.01", "7:Ossa:admiral:3", "9:Vell:scientist:1"))

	v, err := svc.Extract(context.Background(), doc, domain.CommandLeaders)

	require.NoError(t, err)
	leaders := v.(*domain.LeadersView)
	assert.Len(t, leaders.Leaders, 1)
	assert.Equal(t, 2, leaders.Count)
	assert.True(t, leaders.Truncated)
}

func TestExtractionService_Errors(t *testing.T) {
	svc := newTestExtraction(50)
	ctx := context.Background()
	noPlayer := parser.Build("date=\"2240.01.01\"\ncountry={ }\n", "", domain.DocumentInfo{ContentHash: "np"})

	tests := []struct {
		name    string
		doc     *domain.SaveDocument
		command string
		wantErr error
	}{
		{"unknown command", noPlayer, "nonsense", domain.ErrUnknownCommand},
		{"player required", noPlayer, domain.CommandLeaders, domain.ErrPlayerUnresolved},
		{"nil document", nil, domain.CommandLeaders, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Extract(ctx, tt.doc, tt.command)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractionService_MetadataWithoutPlayer(t *testing.T) {
	svc := newTestExtraction(50)
	doc := parser.Build("date=\"2240.01.01\"\n", "", domain.DocumentInfo{ContentHash: "np"})

	v, err := svc.Extract(context.Background(), doc, domain.CommandMetadata)

	require.NoError(t, err)
	assert.Equal(t, "2240.01.01", v.(*domain.Metadata).Date)
}

func TestExtractionService_PlayerOverride(t *testing.T) {
	svc := newTestExtraction(50)
	doc := buildSave(t, "h1", saveText("2240.01.01", "7:Ossa:admiral:3"))

	v, err := svc.Extract(context.Background(), doc.WithPlayer(5), domain.CommandLeaders)

	require.NoError(t, err)
	assert.Equal(t, 0, v.(*domain.LeadersView).Count)
}

func TestExtractionService_SearchDefaults(t *testing.T) {
	svc := newTestExtraction(50)
	doc := buildSave(t, "h1", saveText("2240.01.01", "7:Ossa:admiral:3"))

	res, err := svc.Search(context.Background(), doc, "ossa", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalFound)
	require.Len(t, res.Matches, 1)
	assert.Contains(t, res.Matches[0].Context, "Ossa")
}

func TestExtractionService_Commands(t *testing.T) {
	svc := newTestExtraction(50)

	assert.Equal(t, domain.CategoryCommands, svc.Commands())
}
