package domain

// Category views are plain values. They are built fresh by each
// extraction and never reference the source tree.

// Metadata describes the save file itself.
type Metadata struct {
	Version       string           `json:"version"`
	Name          string           `json:"name"`
	Date          string           `json:"date"`
	RequiredDLCs  []string         `json:"required_dlcs"`
	CampaignID    string           `json:"campaign_id"`
	PlayerID      int64            `json:"player_id"`
	ContentHash   string           `json:"content_hash"`
	SectionErrors []SectionFailure `json:"section_errors"`
}

// PlayerStatus is the player's headline numbers.
type PlayerStatus struct {
	PlayerID                   int64         `json:"player_id"`
	EmpireName                 string        `json:"empire_name"`
	Date                       string        `json:"date"`
	MilitaryPower              Fixed         `json:"military_power"`
	EconomyPower               Fixed         `json:"economy_power"`
	TechPower                  Fixed         `json:"tech_power"`
	VictoryRank                int64         `json:"victory_rank"`
	FleetCount                 int           `json:"fleet_count"`
	FleetSize                  int64         `json:"fleet_size"`
	MilitaryFleetCount         int           `json:"military_fleet_count"`
	MilitaryShips              int           `json:"military_ships"`
	StarbaseCount              int           `json:"starbase_count"`
	OutpostCount               int           `json:"outpost_count"`
	CelestialBodiesInTerritory int           `json:"celestial_bodies_in_territory"`
	Colonies                   ColonySummary `json:"colonies"`
}

// ColonySummary aggregates colonized planets.
type ColonySummary struct {
	TotalCount       int          `json:"total_count"`
	TotalPopulation  int64        `json:"total_population"`
	AvgPopsPerColony Fixed        `json:"avg_pops_per_colony"`
	Habitats         ColonyBucket `json:"habitats"`
	Planets          ColonyBucket `json:"planets"`
}

// ColonyBucket counts one kind of colony.
type ColonyBucket struct {
	Count      int   `json:"count"`
	Population int64 `json:"population"`
}

// War is one war entity.
type War struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	StartDate             string  `json:"start_date"`
	OurSide               string  `json:"our_side"`
	Attackers             []int64 `json:"attackers"`
	Defenders             []int64 `json:"defenders"`
	AttackerWarGoal       string  `json:"attacker_war_goal"`
	AttackerWarExhaustion Fixed   `json:"attacker_war_exhaustion"`
	DefenderWarExhaustion Fixed   `json:"defender_war_exhaustion"`
}

// WarsView lists wars involving the player.
// Count is player-scoped; AllWarsCount is galaxy-wide.
type WarsView struct {
	Wars         []string `json:"wars"`
	Count        int      `json:"count"`
	PlayerAtWar  bool     `json:"player_at_war"`
	AllWarsCount int      `json:"all_wars_count"`
	Details      []War    `json:"details"`
}

// Fleet is one owned military fleet.
type Fleet struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ShipCount     int    `json:"ship_count"`
	MilitaryPower Fixed  `json:"military_power"`
}

// FleetsView summarizes owned fleets. Fleets lists military fleets only;
// stations are excluded and civilian fleets are counted.
type FleetsView struct {
	Count              int      `json:"count"`
	FleetNames         []string `json:"fleet_names"`
	MilitaryFleetCount int      `json:"military_fleet_count"`
	CivilianFleetCount int      `json:"civilian_fleet_count"`
	MilitaryShips      int      `json:"military_ships"`
	Fleets             []Fleet  `json:"fleets"`
	Truncated          bool     `json:"truncated"`
}

// ResourceLedger holds stockpiles and the monthly budget.
// NetMonthly is always MonthlyIncome minus MonthlyExpenses.
type ResourceLedger struct {
	Stockpiles      map[string]Fixed `json:"stockpiles"`
	MonthlyIncome   map[string]Fixed `json:"monthly_income"`
	MonthlyExpenses map[string]Fixed `json:"monthly_expenses"`
	NetMonthly      map[string]Fixed `json:"net_monthly"`
	Summary         ResourceSummary  `json:"summary"`
}

// ResourceSummary lifts the commonly used nets.
type ResourceSummary struct {
	EnergyNet        Fixed `json:"energy_net"`
	MineralsNet      Fixed `json:"minerals_net"`
	FoodNet          Fixed `json:"food_net"`
	AlloysNet        Fixed `json:"alloys_net"`
	ConsumerGoodsNet Fixed `json:"consumer_goods_net"`
	InfluenceNet     Fixed `json:"influence_net"`
	UnityNet         Fixed `json:"unity_net"`
	ResearchTotal    Fixed `json:"research_total"`
	VolatileMotesNet Fixed `json:"volatile_motes_net"`
	ExoticGasesNet   Fixed `json:"exotic_gases_net"`
	RareCrystalsNet  Fixed `json:"rare_crystals_net"`
}

// DiplomaticRelation is the player's stance toward one country.
type DiplomaticRelation struct {
	CountryID  int64    `json:"country_id"`
	EmpireName string   `json:"empire_name"`
	Opinion    Fixed    `json:"opinion"`
	Trust      Fixed    `json:"trust"`
	HasContact bool     `json:"has_contact"`
	Flags      []string `json:"flags"`
}

// CountryRef names a country.
type CountryRef struct {
	CountryID  int64  `json:"country_id"`
	EmpireName string `json:"empire_name"`
}

// Treaty is an active agreement with another country.
type Treaty struct {
	CountryID  int64  `json:"country_id"`
	EmpireName string `json:"empire_name"`
	Type       string `json:"type"`
}

// DiplomacySummary buckets relations by opinion sign.
type DiplomacySummary struct {
	Positive      int `json:"positive"`
	Negative      int `json:"negative"`
	Neutral       int `json:"neutral"`
	TotalContacts int `json:"total_contacts"`
}

// DiplomacyView is the player's diplomatic position.
type DiplomacyView struct {
	Relations     []DiplomaticRelation `json:"relations"`
	Treaties      []Treaty             `json:"treaties"`
	Allies        []CountryRef         `json:"allies"`
	Rivals        []CountryRef         `json:"rivals"`
	Federation    *int64               `json:"federation"`
	RelationCount int                  `json:"relation_count"`
	Summary       DiplomacySummary     `json:"summary"`
	Truncated     bool                 `json:"truncated"`
}

// Leader is one of the player's leaders.
type Leader struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Class      string   `json:"class"`
	Level      int64    `json:"level"`
	Age        int64    `json:"age"`
	Traits     []string `json:"traits"`
	Experience Fixed    `json:"experience"`
}

// LeadersView lists leaders.
type LeadersView struct {
	Leaders   []Leader       `json:"leaders"`
	Count     int            `json:"count"`
	ByClass   map[string]int `json:"by_class"`
	Truncated bool           `json:"truncated"`
}

// ResearchItem is the technology an area is researching.
type ResearchItem struct {
	Technology string `json:"technology"`
	Progress   Fixed  `json:"progress"`
}

// CurrentResearch holds the head of each area's queue.
type CurrentResearch struct {
	Physics     *ResearchItem `json:"physics"`
	Society     *ResearchItem `json:"society"`
	Engineering *ResearchItem `json:"engineering"`
}

// ResearchArea summarizes one research area.
type ResearchArea struct {
	Current       string   `json:"current"`
	ResearchSpeed Fixed    `json:"research_speed"`
	Available     []string `json:"available"`
}

// TechnologyView is the player's research state.
type TechnologyView struct {
	Completed        []string                `json:"completed"`
	CompletedCount   int                     `json:"completed_count"`
	CurrentResearch  CurrentResearch         `json:"current_research"`
	ByCategory       map[string]ResearchArea `json:"by_category"`
	Repeatables      map[string]int          `json:"repeatables"`
	RepeatableLevels int                     `json:"repeatable_levels"`
	Truncated        bool                    `json:"truncated"`
}

// Planet is one of the player's colonies.
type Planet struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	Population int64  `json:"population"`
	Stability  Fixed  `json:"stability"`
	Amenities  Fixed  `json:"amenities"`
	Crime      Fixed  `json:"crime"`
	Districts  int    `json:"districts"`
	IsHabitat  bool   `json:"is_habitat"`
}

// PlanetsView lists colonies.
type PlanetsView struct {
	Planets         []Planet       `json:"planets"`
	Count           int            `json:"count"`
	TotalPopulation int64          `json:"total_population"`
	ByType          map[string]int `json:"by_type"`
	Truncated       bool           `json:"truncated"`
}

// Starbase is one owned starbase.
type Starbase struct {
	ID           int64    `json:"id"`
	SystemID     int64    `json:"system_id"`
	Level        string   `json:"level"`
	Modules      []string `json:"modules"`
	Buildings    []string `json:"buildings"`
	DefenseScore int64    `json:"defense_score"`
}

// StarbasesView lists starbases.
type StarbasesView struct {
	Starbases []Starbase     `json:"starbases"`
	Count     int            `json:"count"`
	ByLevel   map[string]int `json:"by_level"`
	Truncated bool           `json:"truncated"`
}

// Faction is one of the player's political factions.
type Faction struct {
	ID             int64  `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	SupportPercent Fixed  `json:"support_percent"`
	SupportPower   Fixed  `json:"support_power"`
	Approval       Fixed  `json:"approval"`
	MembersCount   int    `json:"members_count"`
}

// PoliticsView is the player's government, ethics, policies and
// factions. Gestalt empires have no factions.
type PoliticsView struct {
	Government   string            `json:"government"`
	Authority    string            `json:"authority"`
	Ethics       []string          `json:"ethics"`
	Civics       []string          `json:"civics"`
	Policies     map[string]string `json:"policies"`
	IsGestalt    bool              `json:"is_gestalt"`
	IsMachine    bool              `json:"is_machine"`
	IsHiveMind   bool              `json:"is_hive_mind"`
	Factions     []Faction         `json:"factions"`
	FactionCount int               `json:"faction_count"`
	Truncated    bool              `json:"truncated"`
}

// Species is one entry of the species database.
type Species struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Class           string   `json:"class"`
	Portrait        string   `json:"portrait,omitempty"`
	Traits          []string `json:"traits"`
	HomePlanetID    *int64   `json:"home_planet_id,omitempty"`
	IsPlayerSpecies bool     `json:"is_player_species"`
}

// SpeciesView lists every species in the galaxy.
type SpeciesView struct {
	Species         []Species      `json:"species"`
	Count           int            `json:"count"`
	ByClass         map[string]int `json:"by_class"`
	PlayerSpeciesID *int64         `json:"player_species_id"`
	Truncated       bool           `json:"truncated"`
}

// Megastructure is one of the player's megastructures.
type Megastructure struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	DisplayType string `json:"display_type"`
	Status      string `json:"status"`
	PlanetID    *int64 `json:"planet_id,omitempty"`
}

// RuinedMegastructure is a ruin anywhere in the galaxy that could be
// repaired.
type RuinedMegastructure struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Owner    *int64 `json:"owner"`
	PlanetID *int64 `json:"planet_id,omitempty"`
}

// MegastructuresView lists owned megastructures and repairable ruins.
type MegastructuresView struct {
	Megastructures  []Megastructure       `json:"megastructures"`
	Count           int                   `json:"count"`
	ByType          map[string]int        `json:"by_type"`
	RuinedAvailable []RuinedMegastructure `json:"ruined_available"`
	Truncated       bool                  `json:"truncated"`
}

// EmpireLookup is the result of finding a country by name.
// Found=false is a normal outcome.
type EmpireLookup struct {
	Query          string `json:"query"`
	Found          bool   `json:"found"`
	CountryID      int64  `json:"country_id,omitempty"`
	EmpireName     string `json:"empire_name,omitempty"`
	MilitaryPower  Fixed  `json:"military_power"`
	EconomyPower   Fixed  `json:"economy_power"`
	TechPower      Fixed  `json:"tech_power"`
	Opinion        *Fixed `json:"opinion"`
	RawDataPreview string `json:"raw_data_preview,omitempty"`
}

// Err returns *EmpireNotFoundError when the lookup did not match.
func (l *EmpireLookup) Err() error {
	if l.Found {
		return nil
	}
	return &EmpireNotFoundError{Name: l.Query}
}

// SearchMatch is one hit with its surrounding text.
type SearchMatch struct {
	Position int    `json:"position"`
	Context  string `json:"context"`
}

// SearchResult is a bounded text search over the save.
type SearchResult struct {
	Query      string        `json:"query"`
	Matches    []SearchMatch `json:"matches"`
	TotalFound int           `json:"total_found"`
	Truncated  bool          `json:"truncated"`
}

// SituationEconomy lifts nets and counts deficits.
type SituationEconomy struct {
	EnergyNet          Fixed `json:"energy_net"`
	MineralsNet        Fixed `json:"minerals_net"`
	FoodNet            Fixed `json:"food_net"`
	AlloysNet          Fixed `json:"alloys_net"`
	ConsumerGoodsNet   Fixed `json:"consumer_goods_net"`
	ResearchNet        Fixed `json:"research_net"`
	ResourcesInDeficit int   `json:"resources_in_deficit"`
}

// Situation is a compact read of the game state.
type Situation struct {
	GamePhase    string           `json:"game_phase"`
	Year         int              `json:"year"`
	AtWar        bool             `json:"at_war"`
	WarCount     int              `json:"war_count"`
	Wars         []string         `json:"wars"`
	ContactsMade bool             `json:"contacts_made"`
	ContactCount int              `json:"contact_count"`
	Allies       []CountryRef     `json:"allies"`
	Rivals       []CountryRef     `json:"rivals"`
	CrisisActive bool             `json:"crisis_active"`
	CrisisType   string           `json:"crisis_type"`
	Economy      SituationEconomy `json:"economy"`
}
