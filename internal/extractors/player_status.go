package extractors

import (
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// PlayerStatus reports the player's headline numbers.
func PlayerStatus(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.PlayerStatus, error) {
	s := newScope(doc, opts)
	country, err := s.playerCountry()
	if err != nil {
		return nil, err
	}

	st := &domain.PlayerStatus{
		PlayerID:      s.player,
		EmpireName:    s.empireName(),
		MilitaryPower: getFixed(country, "military_power"),
		EconomyPower:  getFixed(country, "economy_power"),
		TechPower:     getFixed(country, "tech_power"),
		VictoryRank:   getInt(country, "victory_rank"),
		FleetSize:     getInt(country, "fleet_size"),
	}
	if d := doc.Info().Date; !d.IsZero() {
		st.Date = d.String()
	}
	controlled, _ := country.Get("controlled_planets")
	st.CelestialBodiesInTerritory = len(ids(controlled))

	if census, err := s.fleetCensus(); err == nil {
		st.FleetCount = len(census.military)
		st.MilitaryFleetCount = len(census.military)
		st.MilitaryShips = census.ships
	}
	if bases, err := s.starbases(); err == nil {
		for _, sb := range bases {
			switch {
			case isOutpost(sb.Level):
				st.OutpostCount++
			case isUpgraded(sb.Level):
				st.StarbaseCount++
			}
		}
	}
	if colonies, err := s.colonies(); err == nil {
		st.Colonies = colonySummary(colonies)
	}
	return st, nil
}

func colonySummary(colonies []domain.Planet) domain.ColonySummary {
	var sum domain.ColonySummary
	for _, p := range colonies {
		bucket := &sum.Planets
		if strings.HasPrefix(p.Type, habitatPrefix) {
			bucket = &sum.Habitats
		}
		bucket.Count++
		bucket.Population += p.Population
		sum.TotalPopulation += p.Population
	}
	sum.TotalCount = len(colonies)
	if sum.TotalCount > 0 {
		sum.AvgPopsPerColony = domain.FixedFromInt(sum.TotalPopulation) / domain.Fixed(sum.TotalCount)
	}
	return sum
}
