package extractors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Top-level sections read by extractors.
const (
	sectionCountry        = "country"
	sectionWar            = "war"
	sectionFleet          = "fleet"
	sectionLeaders        = "leaders"
	sectionPlanets        = "planets"
	sectionPopGroups      = "pop_groups"
	sectionStarbaseMgr    = "starbase_mgr"
	sectionGalacticObject = "galactic_object"
	sectionPopFactions    = "pop_factions"
	sectionSpeciesDB      = "species_db"
	sectionMegastructures = "megastructures"
)

// scope carries what every extractor needs about one call.
type scope struct {
	doc    *domain.SaveDocument
	player int64
	limit  int

	countries *idTable
	names     map[int64]string
}

func newScope(doc *domain.SaveDocument, opts domain.ExtractOptions) *scope {
	return &scope{doc: doc, player: opts.PlayerID, limit: opts.ListLimit}
}

// sections returns every occurrence of a top-level section. A save may
// repeat a key such as war or fleet at the top level.
func (s *scope) sections(key string) ([]domain.Node, error) {
	blocks := s.doc.Sections(key)
	if len(blocks) == 0 {
		_, err := s.doc.Section(key)
		return nil, err
	}
	return blocks, nil
}

// table returns a top-level section indexed by id, merged across repeats.
func (s *scope) table(key string) (idTable, error) {
	blocks, err := s.sections(key)
	if err != nil {
		return idTable{}, err
	}
	return newIDTable(blocks...), nil
}

// childTable indexes the child key of every occurrence of a top-level
// section, as in planets={ planet={...} } or starbase_mgr={ starbases={...} }.
func (s *scope) childTable(key, child string) (idTable, error) {
	blocks, err := s.sections(key)
	if err != nil {
		return idTable{}, err
	}
	var children []domain.Node
	for _, b := range blocks {
		children = append(children, b.GetAll(child)...)
	}
	return newIDTable(children...), nil
}

// countryTable returns the country section indexed by id.
func (s *scope) countryTable() (idTable, error) {
	if s.countries != nil {
		return *s.countries, nil
	}
	t, err := s.table(sectionCountry)
	if err != nil {
		return idTable{}, err
	}
	s.countries = &t
	return t, nil
}

// playerCountry returns the player's country block.
func (s *scope) playerCountry() (domain.Node, error) {
	t, err := s.countryTable()
	if err != nil {
		return domain.Node{}, err
	}
	c, ok := t.Get(s.player)
	if !ok || !c.IsMapping() {
		return domain.Node{}, fmt.Errorf("%w: player country %d", domain.ErrNotFound, s.player)
	}
	return c, nil
}

// countryNames maps every country id to a display name.
func (s *scope) countryNames() map[int64]string {
	if s.names != nil {
		return s.names
	}
	s.names = make(map[int64]string)
	t, err := s.countryTable()
	if err != nil {
		return s.names
	}
	for id, c := range t.Mappings() {
		if name := countryName(c); name != "" {
			s.names[id] = name
		}
	}
	return s.names
}

// countryName returns the display name of a country id.
func (s *scope) countryName(id int64) string {
	if name, ok := s.countryNames()[id]; ok {
		return name
	}
	return fmt.Sprintf("Empire %d", id)
}

// empireName returns the player's empire name, falling back to the save name.
func (s *scope) empireName() string {
	if name, ok := s.countryNames()[s.player]; ok {
		return name
	}
	if name := s.doc.Info().SaveName; name != "" {
		return name
	}
	return "Unknown"
}

// bounded truncates a list to the scope's limit and reports whether
// anything was cut.
func bounded[T any](list []T, limit int) ([]T, bool) {
	if limit > 0 && len(list) > limit {
		return list[:limit], true
	}
	return list, false
}

// Node accessors that default instead of failing.

func getFixed(n domain.Node, key string) domain.Fixed {
	v, ok := n.Get(key)
	if !ok {
		return 0
	}
	f, _ := v.Fixed()
	return f
}

func getInt(n domain.Node, key string) int64 {
	v, ok := n.Get(key)
	if !ok {
		return 0
	}
	if i, ok := v.Int(); ok {
		return i
	}
	// Fractional values are truncated toward zero.
	f, _ := v.Fixed()
	return f.Int64()
}

func getText(n domain.Node, key string) string {
	v, ok := n.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

func getID(n domain.Node, key string) (int64, bool) {
	v, ok := n.Get(key)
	if !ok {
		return 0, false
	}
	id, ok := v.Int()
	if !ok || id == domain.NullID {
		return 0, false
	}
	return id, true
}

func isYes(n domain.Node, key string) bool {
	v, ok := n.Get(key)
	if !ok {
		return false
	}
	b, _ := v.Bool()
	return b
}

// texts returns the scalar text of every value in a list, or of every
// value in a mapping such as modules={ 0=gun_battery 1=hangar_bay }.
func texts(n domain.Node) []string {
	out := []string{}
	switch {
	case n.IsList():
		for item := range n.Items() {
			if s, ok := item.Text(); ok {
				out = append(out, s)
			}
		}
	case n.IsMapping():
		for _, v := range n.Entries() {
			if s, ok := v.Text(); ok {
				out = append(out, s)
			}
		}
	case n.IsScalar():
		if s, ok := n.Text(); ok {
			out = append(out, s)
		}
	}
	return out
}

// ids returns the integer values of a list, skipping the null id.
func ids(n domain.Node) []int64 {
	var out []int64
	collect := func(v domain.Node) {
		if id, ok := v.Int(); ok && id != domain.NullID {
			out = append(out, id)
		}
	}
	switch {
	case n.IsList():
		for item := range n.Items() {
			collect(item)
		}
	case n.IsScalar():
		collect(n)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
