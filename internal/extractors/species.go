package extractors

import (
	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Species lists every species in the galaxy by id. Entries without a class
// are placeholders and are skipped.
func Species(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.SpeciesView, error) {
	s := newScope(doc, opts)
	table, err := s.table(sectionSpeciesDB)
	if err != nil {
		return nil, err
	}

	view := &domain.SpeciesView{Species: []domain.Species{}, ByClass: map[string]int{}}
	if country, err := s.playerCountry(); err == nil {
		if founder, ok := getID(country, "founder_species_ref"); ok {
			view.PlayerSpeciesID = &founder
		}
	}

	for id, sp := range table.Mappings() {
		class := getText(sp, "class")
		if class == "" {
			continue
		}
		entry := domain.Species{
			ID:              id,
			Name:            speciesName(sp, id),
			Class:           class,
			Portrait:        getText(sp, "portrait"),
			Traits:          speciesTraits(sp),
			IsPlayerSpecies: view.PlayerSpeciesID != nil && *view.PlayerSpeciesID == id,
		}
		if home, ok := getID(sp, "home_planet"); ok {
			entry.HomePlanetID = &home
		}
		view.Species = append(view.Species, entry)
		view.ByClass[class]++
	}
	view.Count = len(view.Species)
	view.Species, view.Truncated = bounded(view.Species, s.limit)
	return view, nil
}

// speciesTraits reads traits={ trait="trait_a" trait="trait_b" }.
func speciesTraits(sp domain.Node) []string {
	out := []string{}
	traits, _ := sp.Get("traits")
	for _, t := range traits.GetAll("trait") {
		if name, ok := t.Text(); ok {
			out = append(out, name)
		}
	}
	return out
}
