package extractors

import (
	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// trackedResources are the resources reported in stockpiles.
var trackedResources = []string{
	"energy", "minerals", "food", "consumer_goods", "alloys",
	"physics_research", "society_research", "engineering_research",
	"influence", "unity",
	"volatile_motes", "exotic_gases", "rare_crystals",
	"sr_living_metal", "sr_zro", "sr_dark_matter",
	"minor_artifacts", "astral_threads",
}

// Resources reports stockpiles and the monthly budget of the player.
func Resources(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.ResourceLedger, error) {
	s := newScope(doc, opts)
	country, err := s.playerCountry()
	if err != nil {
		return nil, err
	}
	return resourceLedger(country), nil
}

func resourceLedger(country domain.Node) *domain.ResourceLedger {
	ledger := &domain.ResourceLedger{
		Stockpiles:      map[string]domain.Fixed{},
		MonthlyIncome:   map[string]domain.Fixed{},
		MonthlyExpenses: map[string]domain.Fixed{},
		NetMonthly:      map[string]domain.Fixed{},
	}

	if stock, ok := stockpile(country); ok {
		for _, name := range trackedResources {
			if v, ok := stock.Get(name); ok {
				ledger.Stockpiles[name], _ = v.Fixed()
			}
		}
	}

	budget := monthlyBudget(country)
	sumBudget(budget, "income", ledger.MonthlyIncome)
	sumBudget(budget, "expenses", ledger.MonthlyExpenses)
	for name, v := range ledger.MonthlyIncome {
		ledger.NetMonthly[name] = v.Sub(ledger.MonthlyExpenses[name])
	}
	for name, v := range ledger.MonthlyExpenses {
		if _, ok := ledger.MonthlyIncome[name]; !ok {
			ledger.NetMonthly[name] = domain.Fixed(0).Sub(v)
		}
	}

	net := ledger.NetMonthly
	ledger.Summary = domain.ResourceSummary{
		EnergyNet:        net["energy"],
		MineralsNet:      net["minerals"],
		FoodNet:          net["food"],
		AlloysNet:        net["alloys"],
		ConsumerGoodsNet: net["consumer_goods"],
		InfluenceNet:     net["influence"],
		UnityNet:         net["unity"],
		ResearchTotal:    net["physics_research"].Add(net["society_research"]).Add(net["engineering_research"]),
		VolatileMotesNet: net["volatile_motes"],
		ExoticGasesNet:   net["exotic_gases"],
		RareCrystalsNet:  net["rare_crystals"],
	}
	return ledger
}

// stockpile returns standard_economy_module.resources, which newer saves
// nest under modules.
func stockpile(country domain.Node) (domain.Node, bool) {
	if n, ok := country.Path("standard_economy_module", "resources"); ok {
		return n, true
	}
	return country.Path("modules", "standard_economy_module", "resources")
}

// monthlyBudget returns budget.current_month, or budget itself in older saves.
func monthlyBudget(country domain.Node) domain.Node {
	budget, ok := country.Get("budget")
	if !ok {
		return domain.Node{}
	}
	if month, ok := budget.Get("current_month"); ok {
		return month
	}
	return budget
}

// sumBudget folds income={ source={ energy=10 } other={ energy=5 } } into
// per-resource totals.
func sumBudget(budget domain.Node, key string, into map[string]domain.Fixed) {
	block, ok := budget.Get(key)
	if !ok {
		return
	}
	for _, source := range block.Entries() {
		for name, v := range source.Entries() {
			if f, ok := v.Fixed(); ok {
				into[name] = into[name].Add(f)
			}
		}
	}
}
