package extractors

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Localisation key prefixes.
const (
	prefixAwakened     = "AWAKENED_EMPIRE_"
	prefixFallen       = "FALLEN_EMPIRE_"
	prefixName         = "NAME_"
	prefixEmpireDesign = "EMPIRE_DESIGN_"
	markerCharacter    = "_CHR_"
)

var trailingNumber = regexp.MustCompile(`(\D)(\d+)$`)

// title capitalizes each word and lowercases the rest.
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

func spaced(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// countryName resolves a country's name block. Names are literal strings,
// localisation keys, or templates whose variables carry the parts.
func countryName(country domain.Node) string {
	name, ok := country.Get("name")
	if !ok {
		return ""
	}
	if s, ok := name.Str(); ok {
		return s
	}
	if !name.IsMapping() {
		return ""
	}
	if name.Has("variables") {
		return templateName(name)
	}
	key := getText(name, "key")
	if key == "" {
		return ""
	}
	return localizedName(key)
}

// localizedName turns a localisation key into readable text.
func localizedName(key string) string {
	switch {
	case strings.HasPrefix(key, prefixAwakened):
		return numberedOrTyped("Awakened Empire", key[len(prefixAwakened):])
	case strings.HasPrefix(key, prefixFallen):
		return numberedOrTyped("Fallen Empire", key[len(prefixFallen):])
	case strings.HasPrefix(key, prefixName):
		return spaced(key[len(prefixName):])
	case strings.HasPrefix(key, prefixEmpireDesign):
		part := trailingNumber.ReplaceAllString(key[len(prefixEmpireDesign):], "$1 $2")
		return title(spaced(part))
	}
	rest := key
	for _, prefix := range []string{"EMPIRE_", "COUNTRY_", "CIV_"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	return title(spaced(rest))
}

func numberedOrTyped(label, suffix string) string {
	if suffix != "" && strings.Trim(suffix, "0123456789") == "" {
		return label + " " + suffix
	}
	return fmt.Sprintf("%s (%s)", label, title(spaced(suffix)))
}

// templateName joins the literal values of a templated name block, e.g.
// %ADJECTIVE% with adjective=SPEC_Khessam and 1=State gives "Khessam State".
func templateName(name domain.Node) string {
	var parts []string
	var walk func(n domain.Node)
	walk = func(n domain.Node) {
		switch {
		case n.IsList():
			for item := range n.Items() {
				walk(item)
			}
		case n.IsMapping():
			for key, v := range n.Entries() {
				if key == "value" {
					literal := ""
					if s, ok := v.Str(); ok {
						literal = s
					} else {
						literal = getText(v, "key")
					}
					if literal != "" && !strings.HasPrefix(literal, "%") {
						if part := cleanTemplatePart(literal); part != "" {
							parts = append(parts, part)
						}
					}
				}
				walk(v)
			}
		}
	}
	walk(name)
	if len(parts) == 0 {
		return "Unknown Empire"
	}
	return strings.Join(parts, " ")
}

func cleanTemplatePart(s string) string {
	for _, prefix := range []string{"SPEC_", "ADJ_", "NAME_", "SUFFIX_"} {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(spaced(s))
}

// leaderName resolves name={ full_names={ key="HUMAN1_CHR_Miriam" } }.
func leaderName(leader domain.Node, id int64) string {
	fullNames, ok := leader.Path("name", "full_names")
	if !ok {
		if s, ok := leader.Get("name"); ok {
			if text, ok := s.Str(); ok {
				return text
			}
		}
		return fmt.Sprintf("Leader %d", id)
	}
	key := getText(fullNames, "key")
	if i := strings.LastIndex(key, markerCharacter); i >= 0 {
		return key[i+len(markerCharacter):]
	}
	if strings.HasPrefix(key, prefixName) {
		return spaced(key[len(prefixName):])
	}
	if vars, ok := fullNames.Get("variables"); ok {
		for v := range vars.Items() {
			if getText(v, "key") != "1" {
				continue
			}
			value, _ := v.Get("value")
			inner := getText(value, "key")
			if i := strings.LastIndex(inner, markerCharacter); i >= 0 {
				return inner[i+len(markerCharacter):]
			}
		}
	}
	if key != "" && !strings.HasPrefix(key, "%") {
		return key
	}
	return fmt.Sprintf("Leader %d", id)
}

// factionName resolves a faction's name block to its innermost literal,
// falling back to the block's own key.
func factionName(f domain.Node) string {
	name, ok := f.Get("name")
	if !ok {
		return "Unknown"
	}
	if s, ok := name.Str(); ok {
		return s
	}
	if vars, ok := name.Get("variables"); ok {
		if inner := innermostKey(vars); inner != "" {
			return inner
		}
	}
	if key := getText(name, "key"); key != "" {
		return key
	}
	return "Unknown"
}

// innermostKey follows variables={ { value={ key=... variables={...} } } }
// down to the first literal key.
func innermostKey(vars domain.Node) string {
	for v := range vars.Items() {
		value, _ := v.Get("value")
		if nested, ok := value.Get("variables"); ok {
			if key := innermostKey(nested); key != "" {
				return key
			}
			continue
		}
		if key := getText(value, "key"); key != "" && !strings.HasPrefix(key, "%") {
			return key
		}
	}
	return ""
}

// speciesName resolves name={ key="SPEC_Khessam" } or a literal name.
func speciesName(sp domain.Node, id int64) string {
	name, ok := sp.Get("name")
	if !ok {
		return fmt.Sprintf("Species %d", id)
	}
	if s, ok := name.Str(); ok {
		return s
	}
	key := getText(name, "key")
	if key == "" {
		return fmt.Sprintf("Species %d", id)
	}
	if part := cleanTemplatePart(key); part != "" && part != spaced(key) {
		return part
	}
	return key
}

// fleetName resolves a fleet's name block, including numbered %SEQ% names.
func fleetName(fleet domain.Node, id int64) string {
	fallback := fmt.Sprintf("Fleet %d", id)
	block, ok := fleet.Get("name")
	if !ok {
		return fallback
	}

	name, isString := block.Str()
	if !isString {
		if !block.IsMapping() {
			return fallback
		}
		name = getText(block, "key")
		if name == "" {
			name = fallback
		}
		if name == "%SEQ%" {
			vars, _ := block.Get("variables")
			for v := range vars.Items() {
				if getText(v, "key") != "num" {
					continue
				}
				value, _ := v.Get("value")
				num := getText(value, "key")
				if num == "" {
					num, _ = value.Text()
				}
				if num == "" {
					num = fmt.Sprint(id)
				}
				return "Fleet #" + num
			}
			return fallback
		}
	}

	switch {
	case strings.HasPrefix(name, "shipclass_"):
		name = strings.ReplaceAll(strings.ReplaceAll(name, "shipclass_", ""), "_name", "")
		return title(spaced(name))
	case strings.HasPrefix(name, prefixName):
		return spaced(strings.ReplaceAll(name, prefixName, ""))
	case strings.HasPrefix(name, "TRANS_"):
		return "Transport Fleet"
	case strings.HasSuffix(name, "_FLEET"):
		return title(spaced(strings.ReplaceAll(name, "_FLEET", ""))) + " Fleet"
	}
	return name
}

// planetName resolves a planet's name block.
func planetName(planet domain.Node) string {
	block, ok := planet.Get("name")
	if !ok {
		return "Unknown"
	}
	if s, ok := block.Str(); ok {
		return s
	}
	key := getText(block, "key")
	if key == "" {
		return "Unknown"
	}
	vars, _ := block.Get("variables")
	clean := func(s string) string {
		return spaced(strings.TrimPrefix(s, prefixName))
	}

	switch {
	case strings.HasPrefix(key, "NEW_COLONY_NAME_"):
		num := strings.TrimPrefix(key, "NEW_COLONY_NAME_")
		for v := range vars.Items() {
			if getText(v, "key") != "NAME" {
				continue
			}
			value, _ := v.Get("value")
			if system := clean(getText(value, "key")); system != "" {
				return system + " " + num
			}
		}
		return "Colony " + num
	case key == "HABITAT_PLANET_NAME":
		for v := range vars.Items() {
			vk := getText(v, "key")
			if !strings.Contains(vk, "solar_system") && vk != "NAME" {
				continue
			}
			value, _ := v.Get("value")
			if system := clean(getText(value, "key")); system != "" {
				return system + " Habitat"
			}
		}
		return "Habitat"
	case strings.HasPrefix(key, prefixName):
		return clean(key)
	case strings.Contains(key, "_PLANET_"):
		return spaced(key[strings.LastIndex(key, "_PLANET_")+len("_PLANET_"):])
	}
	return key
}

// warName resolves a war's name block.
func warName(war domain.Node, id int64) string {
	block, ok := war.Get("name")
	if ok {
		if s, ok := block.Str(); ok {
			return s
		}
		if key := getText(block, "key"); key != "" {
			return key
		}
	}
	return fmt.Sprintf("War #%d", id)
}
