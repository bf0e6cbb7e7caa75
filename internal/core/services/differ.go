package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
)

// Ensure SnapshotDiffer implements the interface.
var _ driving.Differ = (*SnapshotDiffer)(nil)

// Diff collection names.
const (
	CollectionLeaders   = "leaders"
	CollectionPlanets   = "planets"
	CollectionWars      = "wars"
	CollectionStarbases = "starbases"

	CollectionMegastructures = "megastructures"
	CollectionPolicies       = "policies"
)

// Diff scalar and transition names.
const (
	ScalarMilitaryPower    = "military_power"
	scalarNetPrefix        = "net_monthly."
	TransitionPlayerAtWar  = "player_at_war"
	TransitionFederation   = "federation"
	TransitionCrisisActive = "crisis_active"
)

// SnapshotDiffer derives a structured diff between two snapshots.
// Collections missing on either side (a failed command) are not compared.
type SnapshotDiffer struct {
	thresholds domain.DiffThresholds
}

// NewSnapshotDiffer creates a differ with significance thresholds.
func NewSnapshotDiffer(thresholds domain.DiffThresholds) *SnapshotDiffer {
	return &SnapshotDiffer{thresholds: thresholds}
}

// keyed is one comparable collection entry.
type keyed struct {
	name   string
	fields map[string]string
}

// collectionEvents names the event emitted for each kind of change. An
// empty type emits nothing.
type collectionEvents struct {
	gained, lost, changed string
}

// Diff compares from to to.
func (d *SnapshotDiffer) Diff(from, to *domain.Snapshot) *domain.Diff {
	out := &domain.Diff{
		From:        from.Ref(),
		To:          to.Ref(),
		Collections: map[string]domain.CollectionDiff{},
		Scalars:     []domain.ScalarDelta{},
		Transitions: []domain.Transition{},
		Events:      []domain.DiffEvent{},
	}
	a, b := &from.Briefing, &to.Briefing

	if l1, l2 := a.Leadership.Leaders, b.Leadership.Leaders; l1 != nil && l2 != nil {
		d.collection(out, CollectionLeaders, leaderEntries(l1), leaderEntries(l2),
			collectionEvents{gained: domain.EventLeaderGained, lost: domain.EventLeaderLost})
	}
	if p1, p2 := a.Territory.Planets, b.Territory.Planets; p1 != nil && p2 != nil {
		d.collection(out, CollectionPlanets, planetEntries(p1), planetEntries(p2),
			collectionEvents{gained: domain.EventPlanetGained, lost: domain.EventPlanetLost})
	}
	if w1, w2 := a.Military.Wars, b.Military.Wars; w1 != nil && w2 != nil {
		d.collection(out, CollectionWars, warEntries(w1), warEntries(w2),
			collectionEvents{gained: domain.EventWarStarted, lost: domain.EventWarEnded})
	}
	if s1, s2 := a.Defense.Starbases, b.Defense.Starbases; s1 != nil && s2 != nil {
		d.collection(out, CollectionStarbases, starbaseEntries(s1), starbaseEntries(s2),
			collectionEvents{gained: domain.EventStarbaseGained, lost: domain.EventStarbaseLost})
	}
	if m1, m2 := a.Territory.Megastructures, b.Territory.Megastructures; m1 != nil && m2 != nil {
		d.collection(out, CollectionMegastructures, megastructureEntries(m1), megastructureEntries(m2),
			collectionEvents{
				gained:  domain.EventMegastructureStarted,
				lost:    domain.EventMegastructureLost,
				changed: domain.EventMegastructureUpgraded,
			})
	}
	if p1, p2 := a.Society.Politics, b.Society.Politics; p1 != nil && p2 != nil {
		d.collection(out, CollectionPolicies, policyEntries(p1), policyEntries(p2),
			collectionEvents{gained: domain.EventPolicyChanged, changed: domain.EventPolicyChanged})
	}

	if p1, p2 := a.Meta.PlayerStatus, b.Meta.PlayerStatus; p1 != nil && p2 != nil {
		if d.militarySignificant(p1.MilitaryPower, p2.MilitaryPower) {
			out.Scalars = append(out.Scalars, delta(ScalarMilitaryPower, p1.MilitaryPower, p2.MilitaryPower))
		}
	}
	if r1, r2 := a.Economy.Resources, b.Economy.Resources; r1 != nil && r2 != nil {
		for _, name := range unionKeys(r1.NetMonthly, r2.NetMonthly) {
			x, y := r1.NetMonthly[name], r2.NetMonthly[name]
			if d.resourceSignificant(name, x, y) {
				out.Scalars = append(out.Scalars, delta(scalarNetPrefix+name, x, y))
			}
		}
	}

	if w1, w2 := a.Military.Wars, b.Military.Wars; w1 != nil && w2 != nil {
		flag(out, TransitionPlayerAtWar, w1.PlayerAtWar, w2.PlayerAtWar)
	}
	if d1, d2 := a.Diplomacy.Diplomacy, b.Diplomacy.Diplomacy; d1 != nil && d2 != nil {
		federation(out, d1.Federation, d2.Federation)
	}
	if from.Situation != nil && to.Situation != nil {
		flag(out, TransitionCrisisActive, from.Situation.CrisisActive, to.Situation.CrisisActive)
	}
	return out
}

func (d *SnapshotDiffer) collection(out *domain.Diff, name string, before, after map[string]keyed, events collectionEvents) {
	c := domain.CollectionDiff{
		Gained:  []domain.DiffItem{},
		Lost:    []domain.DiffItem{},
		Changed: []domain.ChangedItem{},
	}
	for _, key := range sortedIDs(after) {
		prev, ok := before[key]
		cur := after[key]
		if !ok {
			c.Gained = append(c.Gained, domain.DiffItem{Key: key, Name: cur.name})
			event(out, events.gained, cur.name)
			continue
		}
		if fields := changedFields(prev.fields, cur.fields); len(fields) > 0 {
			c.Changed = append(c.Changed, domain.ChangedItem{Key: key, Name: cur.name, Fields: fields})
			event(out, events.changed, cur.name)
		}
	}
	for _, key := range sortedIDs(before) {
		if _, ok := after[key]; ok {
			continue
		}
		prev := before[key]
		c.Lost = append(c.Lost, domain.DiffItem{Key: key, Name: prev.name})
		event(out, events.lost, prev.name)
	}
	out.Collections[name] = c
}

func event(out *domain.Diff, kind, subject string) {
	if kind != "" {
		out.Events = append(out.Events, domain.DiffEvent{Type: kind, Subject: subject})
	}
}

func changedFields(before, after map[string]string) []domain.FieldChange {
	var out []domain.FieldChange
	for _, f := range unionKeys(before, after) {
		if before[f] != after[f] {
			out = append(out, domain.FieldChange{Field: f, From: before[f], To: after[f]})
		}
	}
	return out
}

// militarySignificant reports a large absolute change, or a change that
// is both large in relative terms and above a floor.
func (d *SnapshotDiffer) militarySignificant(from, to domain.Fixed) bool {
	change := to.Sub(from).Abs()
	if change == 0 {
		return false
	}
	if change >= d.thresholds.MilitaryAbs {
		return true
	}
	return change >= d.thresholds.MilitaryMin && relative(from, change) >= d.thresholds.MilitaryRel
}

// resourceSignificant always reports a net crossing zero; otherwise the
// change must clear the resource's floor and the relative threshold.
func (d *SnapshotDiffer) resourceSignificant(name string, from, to domain.Fixed) bool {
	change := to.Sub(from).Abs()
	if change == 0 {
		return false
	}
	if (from < 0) != (to < 0) {
		return true
	}
	return change >= d.thresholds.ResourceFloor(name) && relative(from, change) >= d.thresholds.ResourceRel
}

// relative is change as a share of base. Any change from zero counts fully.
func relative(base, change domain.Fixed) float64 {
	if base == 0 {
		return 1
	}
	return change.Float64() / base.Abs().Float64()
}

func delta(name string, from, to domain.Fixed) domain.ScalarDelta {
	return domain.ScalarDelta{Name: name, From: from, To: to, Delta: to.Sub(from)}
}

func flag(out *domain.Diff, field string, from, to bool) {
	if from == to {
		return
	}
	edge := domain.EdgeEnded
	if to {
		edge = domain.EdgeStarted
	}
	out.Transitions = append(out.Transitions, domain.Transition{
		Field: field,
		From:  strconv.FormatBool(from),
		To:    strconv.FormatBool(to),
		Edge:  edge,
	})
}

func federation(out *domain.Diff, from, to *int64) {
	text := func(id *int64) string {
		if id == nil {
			return ""
		}
		return strconv.FormatInt(*id, 10)
	}
	a, b := text(from), text(to)
	if a == b {
		return
	}
	edge := domain.EdgeChanged
	switch {
	case a == "":
		edge = domain.EdgeStarted
	case b == "":
		edge = domain.EdgeEnded
	}
	out.Transitions = append(out.Transitions, domain.Transition{Field: TransitionFederation, From: a, To: b, Edge: edge})
}

func leaderEntries(v *domain.LeadersView) map[string]keyed {
	out := make(map[string]keyed, len(v.Leaders))
	for _, l := range v.Leaders {
		out[strconv.FormatInt(l.ID, 10)] = keyed{name: l.Name, fields: map[string]string{
			"name":   l.Name,
			"class":  l.Class,
			"level":  strconv.FormatInt(l.Level, 10),
			"traits": strings.Join(l.Traits, ","),
		}}
	}
	return out
}

func planetEntries(v *domain.PlanetsView) map[string]keyed {
	out := make(map[string]keyed, len(v.Planets))
	for _, p := range v.Planets {
		out[strconv.FormatInt(p.ID, 10)] = keyed{name: p.Name, fields: map[string]string{
			"name":       p.Name,
			"type":       p.Type,
			"size":       strconv.FormatInt(p.Size, 10),
			"population": strconv.FormatInt(p.Population, 10),
			"districts":  strconv.Itoa(p.Districts),
		}}
	}
	return out
}

func warEntries(v *domain.WarsView) map[string]keyed {
	out := make(map[string]keyed, len(v.Details))
	for _, w := range v.Details {
		out[w.Name] = keyed{name: w.Name, fields: map[string]string{
			"our_side":          w.OurSide,
			"attacker_war_goal": w.AttackerWarGoal,
			"attackers":         joinIDs(w.Attackers),
			"defenders":         joinIDs(w.Defenders),
		}}
	}
	return out
}

func starbaseEntries(v *domain.StarbasesView) map[string]keyed {
	out := make(map[string]keyed, len(v.Starbases))
	for _, s := range v.Starbases {
		name := fmt.Sprintf("%s in system %d", s.Level, s.SystemID)
		out[strconv.FormatInt(s.ID, 10)] = keyed{name: name, fields: map[string]string{
			"level":         s.Level,
			"modules":       strings.Join(s.Modules, ","),
			"buildings":     strings.Join(s.Buildings, ","),
			"defense_score": strconv.FormatInt(s.DefenseScore, 10),
		}}
	}
	return out
}

func megastructureEntries(v *domain.MegastructuresView) map[string]keyed {
	out := make(map[string]keyed, len(v.Megastructures))
	for _, m := range v.Megastructures {
		out[strconv.FormatInt(m.ID, 10)] = keyed{name: m.DisplayType, fields: map[string]string{
			"type":   m.Type,
			"status": m.Status,
		}}
	}
	return out
}

// policyEntries keys policies by name; the selected option is the only field.
func policyEntries(v *domain.PoliticsView) map[string]keyed {
	out := make(map[string]keyed, len(v.Policies))
	for policy, selected := range v.Policies {
		out[policy] = keyed{name: policy, fields: map[string]string{"selected": selected}}
	}
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// sortedIDs orders keys numerically when they are ids, else lexically.
func sortedIDs(m map[string]keyed) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func unionKeys[V any](a, b map[string]V) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
