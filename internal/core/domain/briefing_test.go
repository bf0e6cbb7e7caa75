package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBriefing_PlaceEveryLayoutSlot tests that every slot accepts its view
func TestBriefing_PlaceEveryLayoutSlot(t *testing.T) {
	views := map[string]any{
		CommandMetadata:       &Metadata{},
		CommandPlayerStatus:   &PlayerStatus{},
		CommandWars:           &WarsView{},
		CommandFleets:         &FleetsView{},
		CommandResources:      &ResourceLedger{},
		CommandTechnology:     &TechnologyView{},
		CommandPlanets:        &PlanetsView{},
		CommandDiplomacy:      &DiplomacyView{},
		CommandStarbases:      &StarbasesView{},
		CommandLeaders:        &LeadersView{},
		CommandMegastructures: &MegastructuresView{},
		CommandPolitics:       &PoliticsView{},
		CommandSpecies:        &SpeciesView{},
	}

	var b Briefing
	for _, slot := range BriefingLayout {
		require.NoError(t, b.Place(slot.Command, views[slot.Command]), slot.Command)
	}
	assert.False(t, b.Partial)
	assert.NotNil(t, b.Leadership.Leaders)
	assert.NotNil(t, b.Society.Politics)
	assert.NotNil(t, b.Territory.Megastructures)
}

// TestBriefing_PlaceWrongType tests mismatched views are rejected
func TestBriefing_PlaceWrongType(t *testing.T) {
	var b Briefing
	assert.ErrorIs(t, b.Place(CommandWars, &FleetsView{}), ErrInvalidInput)
	assert.ErrorIs(t, b.Place(CommandSearch, &SearchResult{}), ErrUnknownCommand)
}

// TestBriefing_Fail tests the partial indicator
func TestBriefing_Fail(t *testing.T) {
	var b Briefing
	b.Fail(CommandLeaders, &SectionNotFoundError{Section: "leaders"})

	assert.True(t, b.Partial)
	require.Contains(t, b.Errors, CommandLeaders)
	assert.Equal(t, KindSectionNotFound, b.Errors[CommandLeaders].Kind)
	assert.Nil(t, b.Leadership.Leaders)
}

// TestProfileID tests profile derivation
func TestProfileID(t *testing.T) {
	a := ProfileID("galaxy-1", 0, "")
	assert.Len(t, a, 16)
	assert.Equal(t, a, ProfileID("galaxy-1", 0, "Other Name"))
	assert.NotEqual(t, a, ProfileID("galaxy-1", 1, ""))
	assert.Equal(t, ProfileID("", 0, "United Nations"), ProfileID("", 5, "  united nations "))
}

// TestSettings_Defaults tests defaults are valid
func TestSettings_Defaults(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, FixedFromInt(20), s.Diff.ResourceFloor("energy"))
	assert.Equal(t, FixedFromInt(10), s.Diff.ResourceFloor("unity"))

	s.Search.MaxResults = MaxSearchResults + 1
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
}
