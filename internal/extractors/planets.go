package extractors

import (
	"sort"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// uninhabitable planet classes, after the pc_ prefix is removed. Stars are
// matched by suffix.
var uninhabitable = map[string]bool{
	"asteroid":    true,
	"barren":      true,
	"barren_cold": true,
	"molten":      true,
	"toxic":       true,
	"frozen":      true,
	"gas_giant":   true,
}

const habitatPrefix = "habitat"

// Planets lists the player's colonies by id.
func Planets(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.PlanetsView, error) {
	s := newScope(doc, opts)
	colonies, err := s.colonies()
	if err != nil {
		return nil, err
	}

	view := &domain.PlanetsView{Planets: colonies, ByType: map[string]int{}}
	for _, p := range colonies {
		view.TotalPopulation += p.Population
		view.ByType[p.Type]++
	}
	view.Count = len(colonies)
	view.Planets, view.Truncated = bounded(colonies, s.limit)
	return view, nil
}

// colonies returns every inhabitable planet the player owns, by id.
func (s *scope) colonies() ([]domain.Planet, error) {
	table, err := s.childTable(sectionPlanets, "planet")
	if err != nil {
		return nil, err
	}
	pops := s.populationByPlanet()

	out := []domain.Planet{}
	for id, p := range table.Mappings() {
		if owner, ok := getID(p, "owner"); !ok || owner != s.player {
			continue
		}
		kind := strings.TrimPrefix(getText(p, "planet_class"), "pc_")
		if strings.HasSuffix(kind, "_star") || uninhabitable[kind] {
			continue
		}
		districts, _ := p.Get("districts")
		out = append(out, domain.Planet{
			ID:         id,
			Name:       planetName(p),
			Type:       kind,
			Size:       getInt(p, "planet_size"),
			Population: pops[id],
			Stability:  getFixed(p, "stability"),
			Amenities:  getFixed(p, "amenities"),
			Crime:      getFixed(p, "crime"),
			Districts:  districts.Len(),
			IsHabitat:  strings.HasPrefix(kind, habitatPrefix),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// populationByPlanet sums pop group sizes per planet. A save without
// pop_groups reports zero population.
func (s *scope) populationByPlanet() map[int64]int64 {
	out := map[int64]int64{}
	table, err := s.table(sectionPopGroups)
	if err != nil {
		return out
	}
	for _, g := range table.Mappings() {
		planet, ok := getID(g, "planet")
		if !ok {
			continue
		}
		if size := getInt(g, "size"); size > 0 {
			out[planet] += size
		}
	}
	return out
}
