package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

func TestBriefingService_AllSlotsPresent(t *testing.T) {
	svc := NewBriefingService(newTestExtraction(50))
	doc := buildSave(t, "h1", saveText("2240.01.01", "7:Ossa:admiral:3"))

	b, err := svc.Brief(context.Background(), doc)
	require.NoError(t, err)

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))

	for _, slot := range domain.BriefingLayout {
		rawSection, ok := top[slot.Section]
		require.True(t, ok, slot.Section)
		var section map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rawSection, &section))
		_, ok = section[slot.Command]
		assert.True(t, ok, "%s.%s", slot.Section, slot.Command)
	}
	assert.Contains(t, top, "partial")
}

func TestBriefingService_EmbeddedMatchesStandalone(t *testing.T) {
	extraction := newTestExtraction(50)
	svc := NewBriefingService(extraction)
	doc := buildSave(t, "h1", saveText("2240.01.01", "7:Ossa:admiral:3", "9:Vell:scientist:1"))
	ctx := context.Background()

	b, err := svc.Brief(ctx, doc)
	require.NoError(t, err)

	standalone, err := extraction.Extract(ctx, doc, domain.CommandLeaders)
	require.NoError(t, err)
	want, err := json.Marshal(standalone)
	require.NoError(t, err)
	got, err := json.Marshal(b.Leadership.Leaders)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
	assert.Equal(t, string(want), string(got))
}

func TestBriefingService_FailedCommandIsRecorded(t *testing.T) {
	svc := NewBriefingService(newTestExtraction(50))
	doc := buildSave(t, "h1", saveText("2240.01.01"))

	b, err := svc.Brief(context.Background(), doc)
	require.NoError(t, err)

	assert.True(t, b.Partial)
	assert.Nil(t, b.Territory.Planets)
	require.Contains(t, b.Errors, domain.CommandPlanets)
	assert.Equal(t, domain.KindSectionNotFound, b.Errors[domain.CommandPlanets].Kind)
	assert.NotNil(t, b.Meta.Metadata)
	assert.NotNil(t, b.Leadership.Leaders)
}

func TestBriefingService_RepeatedWarBlocks(t *testing.T) {
	text := saveText("2240.01.01") +
		"war={\n\t0={\n\t\tname=\"W0\"\n\t\tattackers={ { country=5 } }\n\t}\n}\n" +
		"war={\n\t1={\n\t\tname=\"W1\"\n\t\tattackers={ { country=0 } }\n\t}\n}\n"
	svc := NewBriefingService(newTestExtraction(50))
	doc := buildSave(t, "h1", text)

	b, err := svc.Brief(context.Background(), doc)
	require.NoError(t, err)

	require.NotNil(t, b.Military.Wars)
	assert.Equal(t, 2, b.Military.Wars.AllWarsCount)
	assert.True(t, b.Military.Wars.PlayerAtWar)
	assert.Equal(t, []string{"W1"}, b.Military.Wars.Wars)
}

func TestBriefingService_Canceled(t *testing.T) {
	svc := NewBriefingService(newTestExtraction(50))
	doc := buildSave(t, "h1", saveText("2240.01.01"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Brief(ctx, doc)

	assert.ErrorIs(t, err, context.Canceled)
}
