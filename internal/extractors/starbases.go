package extractors

import (
	"sort"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

const (
	levelOutpost      = "outpost"
	orbitalRingPrefix = "orbital_ring"
	platformScore     = 50
)

// moduleScore weights defensive starbase modules.
var moduleScore = map[string]int64{
	"gun_battery":     100,
	"hangar_bay":      80,
	"missile_battery": 90,
}

// levelScore is the defense bonus of each starbase level.
var levelScore = map[string]int64{
	levelOutpost:   0,
	"starport":     100,
	"starhold":     200,
	"starfortress": 400,
	"citadel":      800,
}

// Starbases lists the player's starbases and outposts by id.
func Starbases(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.StarbasesView, error) {
	s := newScope(doc, opts)
	list, err := s.starbases()
	if err != nil {
		return nil, err
	}
	view := &domain.StarbasesView{Starbases: list, ByLevel: map[string]int{}}
	for _, sb := range list {
		view.ByLevel[sb.Level]++
	}
	view.Count = len(list)
	view.Starbases, view.Truncated = bounded(list, s.limit)
	return view, nil
}

func (s *scope) starbases() ([]domain.Starbase, error) {
	table, err := s.childTable(sectionStarbaseMgr, "starbases")
	if err != nil {
		return nil, err
	}

	// Systems whose inhibitor_owners include the player contribute their
	// starbases; the galactic_object id is the system id.
	systemOf := map[int64]int64{}
	if systems, err := s.table(sectionGalacticObject); err == nil {
		for sysID, sys := range systems.Mappings() {
			owners, _ := sys.Get("inhibitor_owners")
			owned := false
			for _, o := range ids(owners) {
				if o == s.player {
					owned = true
					break
				}
			}
			if !owned {
				continue
			}
			list, _ := sys.Get("starbases")
			for _, sb := range ids(list) {
				systemOf[sb] = sysID
			}
		}
	}

	out := []domain.Starbase{}
	for id, sb := range table.Mappings() {
		sysID, inOwnedSystem := systemOf[id]
		if !inOwnedSystem {
			owner, ok := getID(sb, "owner")
			if !ok || owner != s.player {
				continue
			}
			sysID, _ = getID(sb, "system")
		}

		level := strings.TrimPrefix(getText(sb, "level"), "starbase_level_")
		if level == "" {
			level = "unknown"
		}
		modules, _ := sb.Get("modules")
		buildings, _ := sb.Get("buildings")
		orbitals, _ := sb.Get("orbitals")
		entry := domain.Starbase{
			ID:        id,
			SystemID:  sysID,
			Level:     level,
			Modules:   texts(modules),
			Buildings: texts(buildings),
		}
		entry.DefenseScore = defenseScore(entry, platforms(orbitals))
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// platforms counts occupied orbital slots.
func platforms(orbitals domain.Node) int {
	n := 0
	for _, v := range orbitals.Entries() {
		if id, ok := v.Int(); ok && id != domain.NullID {
			n++
		}
	}
	for v := range orbitals.Items() {
		if id, ok := v.Int(); ok && id != domain.NullID {
			n++
		}
	}
	return n
}

func defenseScore(sb domain.Starbase, platformCount int) int64 {
	var score int64
	for _, m := range sb.Modules {
		score += moduleScore[m]
	}
	return score + int64(platformCount)*platformScore + levelScore[sb.Level]
}

// isOutpost reports whether a starbase level is an unupgraded outpost.
func isOutpost(level string) bool { return level == levelOutpost }

// isUpgraded reports whether a level counts as a real starbase.
func isUpgraded(level string) bool {
	return level != levelOutpost && !strings.HasPrefix(level, orbitalRingPrefix)
}
