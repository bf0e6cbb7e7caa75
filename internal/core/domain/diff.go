package domain

// Diff compares two snapshots. It is derived on demand and never stored.
type Diff struct {
	From        SnapshotRef               `json:"from"`
	To          SnapshotRef               `json:"to"`
	Collections map[string]CollectionDiff `json:"collections"`
	Scalars     []ScalarDelta             `json:"scalars"`
	Transitions []Transition              `json:"transitions"`
	Events      []DiffEvent               `json:"events"`
}

// Empty reports whether nothing significant changed.
func (d *Diff) Empty() bool {
	for _, c := range d.Collections {
		if len(c.Gained)+len(c.Lost)+len(c.Changed) > 0 {
			return false
		}
	}
	return len(d.Scalars) == 0 && len(d.Transitions) == 0
}

// CollectionDiff compares a keyed collection.
type CollectionDiff struct {
	Gained  []DiffItem    `json:"gained"`
	Lost    []DiffItem    `json:"lost"`
	Changed []ChangedItem `json:"changed"`
}

// DiffItem identifies an entry by key and display name.
type DiffItem struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ChangedItem is an entry present on both sides with different fields.
type ChangedItem struct {
	Key    string        `json:"key"`
	Name   string        `json:"name"`
	Fields []FieldChange `json:"fields"`
}

// FieldChange is one changed field.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ScalarDelta is a significant change in a numeric aggregate.
type ScalarDelta struct {
	Name  string `json:"name"`
	From  Fixed  `json:"from"`
	To    Fixed  `json:"to"`
	Delta Fixed  `json:"delta"`
}

// Transition edges.
const (
	EdgeStarted = "started"
	EdgeEnded   = "ended"
	EdgeChanged = "changed"
)

// Transition is a boolean or categorical field that flipped.
type Transition struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
	Edge  string `json:"edge"`
}

// Event types derived from collection changes.
const (
	EventWarStarted     = "war_started"
	EventWarEnded       = "war_ended"
	EventLeaderGained   = "leader_gained"
	EventLeaderLost     = "leader_lost"
	EventPlanetGained   = "planet_gained"
	EventPlanetLost     = "planet_lost"
	EventStarbaseGained = "starbase_gained"
	EventStarbaseLost   = "starbase_lost"

	EventMegastructureStarted  = "megastructure_started"
	EventMegastructureUpgraded = "megastructure_upgraded"
	EventMegastructureLost     = "megastructure_lost"
	EventPolicyChanged         = "policy_changed"
)

// DiffEvent is a named change, the unit a narrator consumes.
type DiffEvent struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
}
