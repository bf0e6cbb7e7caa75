package extractors

import (
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Megastructure build states.
const (
	megaComplete          = "complete"
	megaRuined            = "ruined"
	megaRestored          = "restored"
	megaUnderConstruction = "under_construction"
)

// stageMarkers appear in the type of a megastructure still being built.
var stageMarkers = []string{"_0", "_1", "_2", "_3", "_4", "_site"}

// stageSuffixes are trimmed to group stages under one display type.
var stageSuffixes = []string{"_ruined", "_restored", "_0", "_1", "_2", "_3", "_4", "_5", "_site"}

// Megastructures lists the player's megastructures and every ruin in the
// galaxy that could be repaired.
func Megastructures(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.MegastructuresView, error) {
	s := newScope(doc, opts)
	table, err := s.table(sectionMegastructures)
	if err != nil {
		return nil, err
	}

	view := &domain.MegastructuresView{
		Megastructures:  []domain.Megastructure{},
		ByType:          map[string]int{},
		RuinedAvailable: []domain.RuinedMegastructure{},
	}
	for id, m := range table.Mappings() {
		kind := getText(m, "type")
		if kind == "" {
			continue
		}
		var planet *int64
		if p, ok := getID(m, "planet"); ok {
			planet = &p
		}
		owner, owned := getID(m, "owner")
		ruined := strings.Contains(kind, "ruined")
		if ruined {
			ruin := domain.RuinedMegastructure{ID: id, Type: kind, PlanetID: planet}
			if owned {
				ruin.Owner = &owner
			}
			view.RuinedAvailable = append(view.RuinedAvailable, ruin)
		}
		if !owned || owner != s.player {
			continue
		}

		family := megastructureFamily(kind)
		view.Megastructures = append(view.Megastructures, domain.Megastructure{
			ID:          id,
			Type:        kind,
			DisplayType: family,
			Status:      megastructureStatus(kind, ruined),
			PlanetID:    planet,
		})
		view.ByType[family]++
	}
	view.Count = len(view.Megastructures)
	view.Megastructures, view.Truncated = bounded(view.Megastructures, s.limit)
	return view, nil
}

func megastructureStatus(kind string, ruined bool) string {
	switch {
	case ruined:
		return megaRuined
	case strings.Contains(kind, "_restored"):
		return megaRestored
	}
	for _, marker := range stageMarkers {
		if strings.Contains(kind, marker) {
			return megaUnderConstruction
		}
	}
	return megaComplete
}

// megastructureFamily drops the first matching stage suffix, so
// dyson_sphere_2 and dyson_sphere_5 group as dyson_sphere.
func megastructureFamily(kind string) string {
	for _, suffix := range stageSuffixes {
		if strings.HasSuffix(kind, suffix) {
			return strings.TrimSuffix(kind, suffix)
		}
	}
	return kind
}
