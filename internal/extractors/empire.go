package extractors

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// previewRunes bounds raw_data_preview.
const previewRunes = 500

// Empire finds a country by display name. An exact case-insensitive match
// wins over a substring match; ties go to the lowest id. No match is a
// normal result with Found=false.
func Empire(doc *domain.SaveDocument, opts domain.ExtractOptions, name string) (*domain.EmpireLookup, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, fmt.Errorf("%s: %w: empty empire name", domain.CommandEmpire, domain.ErrInvalidInput)
	}
	s := newScope(doc, opts)
	table, err := s.countryTable()
	if err != nil {
		return nil, err
	}

	names := s.countryNames()
	want := strings.ToLower(query)
	var (
		match int64
		found bool
	)
	for id := range table.Mappings() {
		got := strings.ToLower(names[id])
		if got == "" {
			continue
		}
		if got == want {
			match, found = id, true
			break
		}
		if !found && strings.Contains(got, want) {
			match, found = id, true
		}
	}

	result := &domain.EmpireLookup{Query: query}
	if !found {
		return result, nil
	}
	country, _ := table.Get(match)
	result.Found = true
	result.CountryID = match
	result.EmpireName = names[match]
	result.MilitaryPower = getFixed(country, "military_power")
	result.EconomyPower = getFixed(country, "economy_power")
	result.TechPower = getFixed(country, "tech_power")
	result.Opinion = s.opinionOf(match)
	result.RawDataPreview = preview(country, previewRunes)
	return result, nil
}

// opinionOf returns the player's current relation toward a country.
func (s *scope) opinionOf(target int64) *domain.Fixed {
	player, err := s.playerCountry()
	if err != nil {
		return nil
	}
	manager, _ := player.Get("relations_manager")
	for _, rel := range manager.GetAll("relation") {
		if id, ok := getID(rel, "country"); ok && id == target {
			v, ok := rel.Get("relation_current")
			if !ok {
				return nil
			}
			f, _ := v.Fixed()
			return &f
		}
	}
	return nil
}

// preview renders a node as JSON cut to at most limit runes.
func preview(n domain.Node, limit int) string {
	var buf bytes.Buffer
	n.AppendJSON(&buf)
	out := buf.String()
	if utf8.RuneCountInString(out) <= limit {
		return out
	}
	i := 0
	for pos := range out {
		if i == limit {
			return out[:pos] + "..."
		}
		i++
	}
	return out
}
