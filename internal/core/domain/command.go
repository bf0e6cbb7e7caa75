package domain

// Extractor commands. Names are part of the wire contract.
const (
	CommandMetadata       = "metadata"
	CommandPlayerStatus   = "player_status"
	CommandWars           = "wars"
	CommandFleets         = "fleets"
	CommandResources      = "resources"
	CommandDiplomacy      = "diplomacy"
	CommandLeaders        = "leaders"
	CommandTechnology     = "technology"
	CommandPlanets        = "planets"
	CommandStarbases      = "starbases"
	CommandPolitics       = "politics"
	CommandSpecies        = "species"
	CommandMegastructures = "megastructures"
	CommandEmpire         = "empire"
	CommandSearch         = "search"
	CommandSituation      = "situation"
	CommandFullBriefing   = "full_briefing"
)

// Boundary-only commands.
const (
	CommandExtractSections = "extract_sections"
	CommandIterSection     = "iter_section"
	CommandGetEntry        = "get_entry"
	CommandGetEntries      = "get_entries"
	CommandCountKeys       = "count_keys"
	CommandContainsTokens  = "contains_tokens"
	CommandHistoryRecord   = "history_record"
	CommandHistoryList     = "history_list"
	CommandHistoryDiff     = "history_diff"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatJSONL = "jsonl"
)

// Briefing sections.
const (
	SectionMeta       = "meta"
	SectionMilitary   = "military"
	SectionEconomy    = "economy"
	SectionTerritory  = "territory"
	SectionDiplomacy  = "diplomacy"
	SectionDefense    = "defense"
	SectionLeadership = "leadership"
	SectionSociety    = "society"
)

// BriefingSlot places one command's output inside a briefing section.
type BriefingSlot struct {
	Section string
	Command string
}

// BriefingLayout lists every command a briefing embeds, in order.
var BriefingLayout = []BriefingSlot{
	{SectionMeta, CommandMetadata},
	{SectionMeta, CommandPlayerStatus},
	{SectionMilitary, CommandWars},
	{SectionMilitary, CommandFleets},
	{SectionEconomy, CommandResources},
	{SectionEconomy, CommandTechnology},
	{SectionTerritory, CommandPlanets},
	{SectionTerritory, CommandMegastructures},
	{SectionDiplomacy, CommandDiplomacy},
	{SectionDefense, CommandStarbases},
	{SectionLeadership, CommandLeaders},
	{SectionSociety, CommandPolitics},
	{SectionSociety, CommandSpecies},
}

// CategoryCommands are the document commands that take no extra arguments.
var CategoryCommands = []string{
	CommandMetadata,
	CommandPlayerStatus,
	CommandWars,
	CommandFleets,
	CommandResources,
	CommandDiplomacy,
	CommandLeaders,
	CommandTechnology,
	CommandPlanets,
	CommandStarbases,
	CommandPolitics,
	CommandSpecies,
	CommandMegastructures,
	CommandSituation,
}
