package extractors

import (
	"sort"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

const repeatablePrefix = "tech_repeatable_"

// researchAreas are the three research categories.
var researchAreas = []string{"physics", "society", "engineering"}

// Technology reports completed research, current research and repeatables.
func Technology(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.TechnologyView, error) {
	s := newScope(doc, opts)
	country, err := s.playerCountry()
	if err != nil {
		return nil, err
	}

	view := &domain.TechnologyView{
		Completed:   []string{},
		ByCategory:  map[string]domain.ResearchArea{},
		Repeatables: map[string]int{},
	}
	status, ok := country.Get("tech_status")
	if !ok {
		return view, nil
	}

	// Repeatables are written once per level, so occurrences are counted
	// before deduplication.
	var all []string
	for _, t := range status.GetAll("technology") {
		all = append(all, texts(t)...)
	}
	seen := make(map[string]struct{}, len(all))
	for _, tech := range all {
		if strings.HasPrefix(tech, repeatablePrefix) {
			view.Repeatables[strings.TrimPrefix(tech, repeatablePrefix)]++
			view.RepeatableLevels++
		}
		if _, dup := seen[tech]; dup {
			continue
		}
		seen[tech] = struct{}{}
		view.Completed = append(view.Completed, tech)
	}
	sort.Strings(view.Completed)
	view.CompletedCount = len(view.Completed)
	view.Completed, view.Truncated = bounded(view.Completed, s.limit)

	income := researchIncome(country)
	alternatives, _ := status.Get("alternatives")
	for _, area := range researchAreas {
		current := researchHead(status, area)
		switch area {
		case "physics":
			view.CurrentResearch.Physics = current
		case "society":
			view.CurrentResearch.Society = current
		case "engineering":
			view.CurrentResearch.Engineering = current
		}

		ra := domain.ResearchArea{ResearchSpeed: income[area]}
		if current != nil {
			ra.Current = current.Technology
		}
		alt, _ := alternatives.Get(area)
		ra.Available = texts(alt)
		sort.Strings(ra.Available)
		view.ByCategory[area] = ra
	}
	return view, nil
}

// researchHead returns the first entry of {area}_queue.
func researchHead(status domain.Node, area string) *domain.ResearchItem {
	queue, ok := status.Get(area + "_queue")
	if !ok {
		return nil
	}
	head, ok := queue.Item(0)
	if !ok {
		return nil
	}
	tech := getText(head, "technology")
	if tech == "" {
		return nil
	}
	return &domain.ResearchItem{Technology: tech, Progress: getFixed(head, "progress")}
}

// researchIncome sums monthly research income per area.
func researchIncome(country domain.Node) map[string]domain.Fixed {
	totals := map[string]domain.Fixed{}
	sumBudget(monthlyBudget(country), "income", totals)
	out := make(map[string]domain.Fixed, len(researchAreas))
	for _, area := range researchAreas {
		out[area] = totals[area+"_research"]
	}
	return out
}
