package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

var eventVerbs = map[string]string{
	domain.EventWarStarted:            "War started",
	domain.EventWarEnded:              "War ended",
	domain.EventLeaderGained:          "New leader",
	domain.EventLeaderLost:            "Leader lost",
	domain.EventPlanetGained:          "Planet gained",
	domain.EventPlanetLost:            "Planet lost",
	domain.EventStarbaseGained:        "Starbase built",
	domain.EventStarbaseLost:          "Starbase lost",
	domain.EventMegastructureStarted:  "Megastructure started",
	domain.EventMegastructureUpgraded: "Megastructure upgraded",
	domain.EventMegastructureLost:     "Megastructure lost",
	domain.EventPolicyChanged:         "Policy changed",
}

// renderDiff prints a diff as a short report: events first, then
// transitions, scalar moves and field changes.
func renderDiff(p *printer, d *domain.Diff) {
	p.Title(fmt.Sprintf("%s -> %s", d.From.GameDate, d.To.GameDate))
	if d.Empty() {
		p.Line(p.Muted("No significant changes."))
		return
	}

	for _, e := range d.Events {
		verb := eventVerbs[e.Type]
		if verb == "" {
			verb = e.Type
		}
		line := verb + ": " + e.Subject
		switch e.Type {
		case domain.EventWarStarted, domain.EventLeaderLost, domain.EventPlanetLost, domain.EventStarbaseLost,
			domain.EventMegastructureLost:
			line = p.Bad(line)
		default:
			line = p.Good(line)
		}
		p.Line(line)
	}

	for _, t := range d.Transitions {
		p.Line(p.Warn(fmt.Sprintf("%s %s (%s -> %s)", label(t.Field), t.Edge, t.From, t.To)))
	}

	for _, s := range d.Scalars {
		p.Line(fmt.Sprintf("%s: %s -> %s (%s)", label(s.Name), s.From, s.To, signed(p, s.Delta)))
	}

	names := make([]string, 0, len(d.Collections))
	for name := range d.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, c := range d.Collections[name].Changed {
			fields := make([]string, len(c.Fields))
			for i, f := range c.Fields {
				fields[i] = fmt.Sprintf("%s %s -> %s", f.Field, f.From, f.To)
			}
			p.Line(fmt.Sprintf("%s %s: %s", strings.TrimSuffix(name, "s"), c.Name, strings.Join(fields, "; ")))
		}
	}
}

// label turns a snake_case field name into words.
func label(field string) string {
	return strings.ReplaceAll(strings.ReplaceAll(field, ".", " "), "_", " ")
}
