package extractors

import (
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Game phases by in-game year.
const (
	PhaseEarly    = "early"
	PhaseMidEarly = "mid_early"
	PhaseMidLate  = "mid_late"
	PhaseLate     = "late"
	PhaseEndgame  = "endgame"

	defaultYear = 2200
)

// crisisTypes maps a country type to the crisis it belongs to.
var crisisTypes = map[string]string{
	"swarm_species":              "prethoryn",
	"extradimensional":           "unbidden",
	"extradimensional_2":         "aberrant",
	"extradimensional_3":         "vehement",
	"ai_empire_01":               "contingency",
	"contingency_machine_empire": "contingency",
}

// spaceFauna country types are never a crisis.
var spaceFauna = map[string]bool{
	"swarm":   true,
	"amoeba":  true,
	"tiyanki": true,
	"crystal": true,
	"drone":   true,
	"cloud":   true,
}

// primaryCrises order the crisis reported when several are present.
var primaryCrises = []string{"prethoryn", "contingency", "unbidden"}

// deficitResources are checked for negative monthly nets.
var deficitResources = []string{"energy", "minerals", "food", "consumer_goods", "alloys"}

// Situation is a compact read of the game state. It degrades instead of
// failing: a category that cannot be read contributes zero values.
func Situation(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.Situation, error) {
	year := doc.Info().Date.Year
	if year == 0 {
		year = defaultYear
	}
	sit := &domain.Situation{
		GamePhase: GamePhase(year),
		Year:      year,
		Wars:      []string{},
		Allies:    []domain.CountryRef{},
		Rivals:    []domain.CountryRef{},
	}

	if wars, err := Wars(doc, opts); err == nil {
		sit.AtWar = wars.PlayerAtWar
		sit.WarCount = wars.Count
		sit.Wars = wars.Wars
	}
	if dip, err := Diplomacy(doc, opts); err == nil {
		sit.ContactCount = dip.RelationCount
		sit.ContactsMade = dip.RelationCount > 0
		sit.Allies = dip.Allies
		sit.Rivals = dip.Rivals
	}
	if res, err := Resources(doc, opts); err == nil {
		net := res.NetMonthly
		sit.Economy = domain.SituationEconomy{
			EnergyNet:        net["energy"],
			MineralsNet:      net["minerals"],
			FoodNet:          net["food"],
			AlloysNet:        net["alloys"],
			ConsumerGoodsNet: net["consumer_goods"],
			ResearchNet:      res.Summary.ResearchTotal,
		}
		for _, name := range deficitResources {
			if net[name] < 0 {
				sit.Economy.ResourcesInDeficit++
			}
		}
	}

	sit.CrisisType = newScope(doc, opts).crisis()
	sit.CrisisActive = sit.CrisisType != ""
	return sit, nil
}

// GamePhase buckets an in-game year.
func GamePhase(year int) string {
	switch {
	case year < 2230:
		return PhaseEarly
	case year < 2300:
		return PhaseMidEarly
	case year < 2350:
		return PhaseMidLate
	case year < 2400:
		return PhaseLate
	default:
		return PhaseEndgame
	}
}

// crisis returns the active crisis, or "" when there is none.
func (s *scope) crisis() string {
	table, err := s.countryTable()
	if err != nil {
		return ""
	}
	var found []string
	present := map[string]bool{}
	for _, c := range table.Mappings() {
		kind := getText(c, "country_type")
		if kind == "" {
			kind = getText(c, "type")
		}
		if kind == "" || spaceFauna[kind] {
			continue
		}
		crisis, ok := crisisTypes[kind]
		if !ok {
			name, _ := c.Get("name")
			if !strings.Contains(strings.ToLower(getText(name, "key")), "prethoryn") {
				continue
			}
			crisis = "prethoryn"
		}
		if !present[crisis] {
			present[crisis] = true
			found = append(found, crisis)
		}
	}
	for _, p := range primaryCrises {
		if present[p] {
			return p
		}
	}
	if len(found) > 0 {
		return found[0]
	}
	return ""
}
