package domain

import "fmt"

// Briefing embeds each command's output under the command's own name.
// A command that failed is null and listed in Errors.
type Briefing struct {
	Meta       MetaSection             `json:"meta"`
	Military   MilitarySection         `json:"military"`
	Economy    EconomySection          `json:"economy"`
	Territory  TerritorySection        `json:"territory"`
	Diplomacy  DiplomacySection        `json:"diplomacy"`
	Defense    DefenseSection          `json:"defense"`
	Leadership LeadershipSection       `json:"leadership"`
	Society    SocietySection          `json:"society"`
	Partial    bool                    `json:"partial"`
	Errors     map[string]CommandError `json:"errors,omitempty"`
}

// MetaSection holds file metadata and player status.
type MetaSection struct {
	Metadata     *Metadata     `json:"metadata"`
	PlayerStatus *PlayerStatus `json:"player_status"`
}

// MilitarySection holds wars and fleets.
type MilitarySection struct {
	Wars   *WarsView   `json:"wars"`
	Fleets *FleetsView `json:"fleets"`
}

// EconomySection holds resources and technology.
type EconomySection struct {
	Resources  *ResourceLedger `json:"resources"`
	Technology *TechnologyView `json:"technology"`
}

// TerritorySection holds planets and megastructures.
type TerritorySection struct {
	Planets        *PlanetsView        `json:"planets"`
	Megastructures *MegastructuresView `json:"megastructures"`
}

// DiplomacySection holds diplomacy.
type DiplomacySection struct {
	Diplomacy *DiplomacyView `json:"diplomacy"`
}

// DefenseSection holds starbases.
type DefenseSection struct {
	Starbases *StarbasesView `json:"starbases"`
}

// LeadershipSection holds leaders.
type LeadershipSection struct {
	Leaders *LeadersView `json:"leaders"`
}

// SocietySection holds politics and species.
type SocietySection struct {
	Politics *PoliticsView `json:"politics"`
	Species  *SpeciesView  `json:"species"`
}

// CommandError records why a briefing slot is empty.
type CommandError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Place stores a command's view in its slot. The view's type must match
// the command.
func (b *Briefing) Place(command string, view any) error {
	ok := false
	switch command {
	case CommandMetadata:
		b.Meta.Metadata, ok = view.(*Metadata)
	case CommandPlayerStatus:
		b.Meta.PlayerStatus, ok = view.(*PlayerStatus)
	case CommandWars:
		b.Military.Wars, ok = view.(*WarsView)
	case CommandFleets:
		b.Military.Fleets, ok = view.(*FleetsView)
	case CommandResources:
		b.Economy.Resources, ok = view.(*ResourceLedger)
	case CommandTechnology:
		b.Economy.Technology, ok = view.(*TechnologyView)
	case CommandPlanets:
		b.Territory.Planets, ok = view.(*PlanetsView)
	case CommandDiplomacy:
		b.Diplomacy.Diplomacy, ok = view.(*DiplomacyView)
	case CommandStarbases:
		b.Defense.Starbases, ok = view.(*StarbasesView)
	case CommandLeaders:
		b.Leadership.Leaders, ok = view.(*LeadersView)
	case CommandMegastructures:
		b.Territory.Megastructures, ok = view.(*MegastructuresView)
	case CommandPolitics:
		b.Society.Politics, ok = view.(*PoliticsView)
	case CommandSpecies:
		b.Society.Species, ok = view.(*SpeciesView)
	default:
		return fmt.Errorf("%w: %s has no briefing slot", ErrUnknownCommand, command)
	}
	if !ok {
		return fmt.Errorf("%w: %s returned %T", ErrInvalidInput, command, view)
	}
	return nil
}

// Fail marks a slot as failed.
func (b *Briefing) Fail(command string, err error) {
	if b.Errors == nil {
		b.Errors = make(map[string]CommandError)
	}
	b.Errors[command] = CommandError{Kind: ErrorKind(err), Message: err.Error()}
	b.Partial = true
}
