package extractors

import (
	"sort"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Relation flags. Those marked as treaties also appear in the treaty list.
const (
	flagDefensivePact     = "defensive_pact"
	flagNonAggressionPact = "non_aggression_pact"
	flagCommercialPact    = "commercial_pact"
	flagMigrationTreaty   = "migration_treaty"
	flagSensorLink        = "sensor_link"
	flagClosedBorders     = "closed_borders"
	flagRival             = "rival"
	flagResearchAgreement = "research_agreement"
	flagEmbassy           = "embassy"
	flagTruce             = "truce"
)

// relationFlag maps a yes-valued save key to the flag it sets.
type relationFlag struct {
	keys   []string
	flag   string
	treaty bool
}

var relationFlags = []relationFlag{
	{[]string{"alliance", "defensive_pact"}, flagDefensivePact, true},
	{[]string{"non_aggression_pact"}, flagNonAggressionPact, true},
	{[]string{"commercial_pact"}, flagCommercialPact, true},
	{[]string{"migration_treaty", "migration_pact"}, flagMigrationTreaty, true},
	{[]string{"sensor_link"}, flagSensorLink, true},
	{[]string{"closed_borders"}, flagClosedBorders, true},
	{[]string{"rival", "rivalry"}, flagRival, true},
	{[]string{"research_agreement"}, flagResearchAgreement, true},
	{[]string{"embassy"}, flagEmbassy, false},
	{[]string{"truce"}, flagTruce, false},
}

// Diplomacy reports the player's relations, treaties and federation.
func Diplomacy(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.DiplomacyView, error) {
	s := newScope(doc, opts)
	country, err := s.playerCountry()
	if err != nil {
		return nil, err
	}

	view := &domain.DiplomacyView{
		Relations: []domain.DiplomaticRelation{},
		Treaties:  []domain.Treaty{},
		Allies:    []domain.CountryRef{},
		Rivals:    []domain.CountryRef{},
	}
	if fed, ok := getID(country, "federation"); ok {
		view.Federation = &fed
	}

	manager, _ := country.Get("relations_manager")
	for _, rel := range manager.GetAll("relation") {
		if owner, ok := getID(rel, "owner"); !ok || owner != s.player {
			continue
		}
		target, ok := getID(rel, "country")
		if !ok {
			continue
		}
		r := domain.DiplomaticRelation{
			CountryID:  target,
			EmpireName: s.countryName(target),
			Trust:      getFixed(rel, "trust"),
			Opinion:    getFixed(rel, "relation_current"),
			HasContact: isYes(rel, "communications"),
			Flags:      []string{},
		}
		ref := domain.CountryRef{CountryID: target, EmpireName: r.EmpireName}
		for _, rf := range relationFlags {
			if !anyYes(rel, rf.keys) {
				continue
			}
			r.Flags = append(r.Flags, rf.flag)
			if rf.treaty {
				view.Treaties = append(view.Treaties, domain.Treaty{
					CountryID:  target,
					EmpireName: r.EmpireName,
					Type:       rf.flag,
				})
			}
			switch rf.flag {
			case flagDefensivePact:
				view.Allies = append(view.Allies, ref)
			case flagRival:
				view.Rivals = append(view.Rivals, ref)
			}
		}

		switch r.Opinion.Sign() {
		case 1:
			view.Summary.Positive++
		case -1:
			view.Summary.Negative++
		default:
			view.Summary.Neutral++
		}
		view.Relations = append(view.Relations, r)
	}

	sort.SliceStable(view.Relations, func(i, j int) bool {
		return view.Relations[i].CountryID < view.Relations[j].CountryID
	})
	view.RelationCount = len(view.Relations)
	view.Summary.TotalContacts = len(view.Relations)
	view.Relations, view.Truncated = bounded(view.Relations, s.limit)
	return view, nil
}

func anyYes(n domain.Node, keys []string) bool {
	for _, k := range keys {
		if isYes(n, k) {
			return true
		}
	}
	return false
}
