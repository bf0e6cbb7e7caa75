package extractors

import (
	"sort"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Leaders lists the player's leaders by id.
func Leaders(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.LeadersView, error) {
	s := newScope(doc, opts)
	table, err := s.table(sectionLeaders)
	if err != nil {
		return nil, err
	}

	view := &domain.LeadersView{Leaders: []domain.Leader{}, ByClass: map[string]int{}}
	for id, l := range table.Mappings() {
		if owner, ok := getID(l, "country"); !ok || owner != s.player {
			continue
		}
		class := getText(l, "class")
		if class == "" {
			continue
		}
		view.Leaders = append(view.Leaders, domain.Leader{
			ID:         id,
			Name:       leaderName(l, id),
			Class:      class,
			Level:      getInt(l, "level"),
			Age:        getInt(l, "age"),
			Traits:     leaderTraits(l),
			Experience: getFixed(l, "experience"),
		})
		view.ByClass[class]++
	}

	sort.Slice(view.Leaders, func(i, j int) bool { return view.Leaders[i].ID < view.Leaders[j].ID })
	view.Count = len(view.Leaders)
	view.Leaders, view.Truncated = bounded(view.Leaders, s.limit)
	return view, nil
}

// leaderTraits collects every traits entry; each is a single trait or a list.
func leaderTraits(l domain.Node) []string {
	out := []string{}
	for _, t := range l.GetAll("traits") {
		out = append(out, texts(t)...)
	}
	return out
}
