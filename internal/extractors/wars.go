package extractors

import (
	"slices"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Sides a player can take in a war.
const (
	sideAttacker = "attacker"
	sideDefender = "defender"
)

// Wars lists the wars the player takes part in.
func Wars(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.WarsView, error) {
	s := newScope(doc, opts)
	table, err := s.table(sectionWar)
	if err != nil {
		return nil, err
	}

	view := &domain.WarsView{Wars: []string{}, Details: []domain.War{}}
	for id, war := range table.Mappings() {
		view.AllWarsCount++
		attackers := participants(war, "attackers")
		defenders := participants(war, "defenders")

		var side string
		switch {
		case slices.Contains(attackers, s.player):
			side = sideAttacker
		case slices.Contains(defenders, s.player):
			side = sideDefender
		default:
			continue
		}

		w := domain.War{
			ID:                    id,
			Name:                  warName(war, id),
			OurSide:               side,
			Attackers:             attackers,
			Defenders:             defenders,
			AttackerWarExhaustion: getFixed(war, "attacker_war_exhaustion"),
			DefenderWarExhaustion: getFixed(war, "defender_war_exhaustion"),
		}
		if d, ok := war.Get("start_date"); ok {
			w.StartDate, _ = d.Text()
		}
		if goal, ok := war.Get("attacker_war_goal"); ok {
			w.AttackerWarGoal = getText(goal, "type")
		}
		view.Wars = append(view.Wars, w.Name)
		view.Details = append(view.Details, w)
	}
	view.Count = len(view.Details)
	view.PlayerAtWar = view.Count > 0
	return view, nil
}

// participants reads attackers={ { country=0 } { country=3 } }.
func participants(war domain.Node, key string) []int64 {
	out := []int64{}
	list, _ := war.Get(key)
	for p := range list.Items() {
		if id, ok := getID(p, "country"); ok {
			out = append(out, id)
		}
	}
	return out
}
