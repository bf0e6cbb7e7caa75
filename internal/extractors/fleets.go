package extractors

import (
	"sort"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// militaryPowerFloor separates warships from construction and science
// fleets, which carry a token military_power.
var militaryPowerFloor = domain.FixedFromInt(100)

// fleetCensus is the owned-fleet tally shared by fleets and player_status.
type fleetCensus struct {
	military []domain.Fleet
	civilian int
	ships    int
}

func (s *scope) fleetCensus() (fleetCensus, error) {
	var out fleetCensus
	country, err := s.playerCountry()
	if err != nil {
		return out, err
	}
	table, err := s.table(sectionFleet)
	if err != nil {
		return out, err
	}

	owned, _ := country.Path("fleets_manager", "owned_fleets")
	for entry := range owned.Items() {
		id, ok := getID(entry, "fleet")
		if !ok {
			continue
		}
		fleet, ok := table.Get(id)
		if !ok || !fleet.IsMapping() {
			continue
		}
		if isYes(fleet, "station") {
			continue
		}
		if isYes(fleet, "civilian") {
			out.civilian++
			continue
		}
		power := getFixed(fleet, "military_power")
		if power <= militaryPowerFloor {
			out.civilian++
			continue
		}
		ships, _ := fleet.Get("ships")
		count := len(ids(ships))
		out.ships += count
		out.military = append(out.military, domain.Fleet{
			ID:            id,
			Name:          fleetName(fleet, id),
			ShipCount:     count,
			MilitaryPower: power,
		})
	}
	sort.Slice(out.military, func(i, j int) bool { return out.military[i].ID < out.military[j].ID })
	return out, nil
}

// Fleets summarizes the player's owned fleets.
func Fleets(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.FleetsView, error) {
	s := newScope(doc, opts)
	census, err := s.fleetCensus()
	if err != nil {
		return nil, err
	}

	list, truncated := bounded(census.military, s.limit)
	names := make([]string, 0, len(list))
	for _, f := range list {
		names = append(names, f.Name)
	}
	if list == nil {
		list = []domain.Fleet{}
	}
	return &domain.FleetsView{
		Count:              len(census.military),
		FleetNames:         names,
		MilitaryFleetCount: len(census.military),
		CivilianFleetCount: census.civilian,
		MilitaryShips:      census.ships,
		Fleets:             list,
		Truncated:          truncated,
	}, nil
}
