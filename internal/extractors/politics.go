package extractors

import (
	"slices"
	"sort"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Authorities that make an empire a gestalt.
const (
	authorityMachine = "machine_intelligence"
	authorityHive    = "hive_mind"
	ethicGestalt     = "gestalt_consciousness"
)

// Politics reads the player's government, ethics, policies and factions.
func Politics(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.PoliticsView, error) {
	s := newScope(doc, opts)
	country, err := s.playerCountry()
	if err != nil {
		return nil, err
	}

	view := &domain.PoliticsView{
		Ethics:   []string{},
		Civics:   []string{},
		Policies: map[string]string{},
		Factions: []domain.Faction{},
	}
	if ethos, ok := country.Get("ethos"); ok {
		for _, e := range ethos.GetAll("ethic") {
			if name, ok := e.Text(); ok {
				view.Ethics = append(view.Ethics, strings.TrimPrefix(name, "ethic_"))
			}
		}
	}
	if gov, ok := country.Get("government"); ok {
		view.Government = strings.TrimPrefix(getText(gov, "type"), "gov_")
		view.Authority = strings.TrimPrefix(getText(gov, "authority"), "auth_")
		civics, _ := gov.Get("civics")
		for _, c := range texts(civics) {
			view.Civics = append(view.Civics, strings.TrimPrefix(c, "civic_"))
		}
	}
	policies, _ := country.Get("active_policies")
	for p := range policies.Items() {
		policy, selected := getText(p, "policy"), getText(p, "selected")
		if policy != "" && selected != "" {
			view.Policies[policy] = selected
		}
	}

	view.IsGestalt = slices.Contains(view.Ethics, ethicGestalt)
	switch view.Authority {
	case authorityMachine:
		view.IsGestalt, view.IsMachine = true, true
	case authorityHive:
		view.IsGestalt, view.IsHiveMind = true, true
	}
	if view.IsGestalt {
		return view, nil
	}

	factions := s.factions()
	view.FactionCount = len(factions)
	view.Factions, view.Truncated = bounded(factions, s.limit)
	return view, nil
}

// factions lists the player's factions, strongest support first. A save
// without pop_factions has none.
func (s *scope) factions() []domain.Faction {
	out := []domain.Faction{}
	table, err := s.table(sectionPopFactions)
	if err != nil {
		return out
	}
	for id, f := range table.Mappings() {
		if owner, ok := getID(f, "country"); !ok || owner != s.player {
			continue
		}
		kind := getText(f, "type")
		if kind == "" {
			kind = "unknown"
		}
		members, _ := f.Get("members")
		out = append(out, domain.Faction{
			ID:             id,
			Type:           kind,
			Name:           factionName(f),
			SupportPercent: getFixed(f, "support_percent"),
			SupportPower:   getFixed(f, "support_power"),
			Approval:       getFixed(f, "faction_approval"),
			MembersCount:   len(ids(members)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SupportPercent > out[j].SupportPercent })
	return out
}
