package parser

import (
	"time"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Build parses gamestate text and optional meta text into a document.
// info supplies the content hash and path; the rest is derived here.
func Build(text, metaText string, info domain.DocumentInfo) *domain.SaveDocument {
	root, errs := Parse(text)

	var meta domain.Node
	if metaText != "" {
		var metaErrs []error
		meta, metaErrs = Parse(metaText)
		for _, err := range metaErrs {
			errs = append(errs, inMeta(err))
		}
	}

	info.PlayerID, info.PlayerResolved = ResolvePlayer(root)
	info.Date = resolveDate(root, meta)
	info.CampaignID = firstString(root, "galaxy", "name")
	info.Version = firstString(root, "version")
	if info.Version == "" {
		info.Version = firstString(meta, "version")
	}
	info.SaveName = firstString(meta, "name")
	if info.SaveName == "" {
		info.SaveName = firstString(root, "name")
	}
	if info.LoadedAt.IsZero() {
		info.LoadedAt = time.Now()
	}
	return domain.NewSaveDocument(root, meta, text, errs, info)
}

// ResolvePlayer reads the first player entry's country id from
// player={ { name="..." country=N } }.
func ResolvePlayer(root domain.Node) (int64, bool) {
	player, ok := root.Get("player")
	if !ok {
		return 0, false
	}
	entry := player
	if player.IsList() {
		entry, ok = player.Item(0)
		if !ok {
			return 0, false
		}
	}
	country, ok := entry.Get("country")
	if !ok {
		return 0, false
	}
	id, ok := country.Int()
	if !ok || id == domain.NullID {
		return 0, false
	}
	return id, true
}

func resolveDate(root, meta domain.Node) domain.Date {
	for _, n := range []domain.Node{root, meta} {
		if v, ok := n.Get("date"); ok {
			if d, ok := v.Date(); ok {
				return d
			}
		}
	}
	return domain.Date{}
}

func firstString(n domain.Node, path ...string) string {
	v, ok := n.Path(path...)
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

// inMeta prefixes meta section names so they cannot shadow gamestate sections.
func inMeta(err error) error {
	switch e := err.(type) {
	case *domain.ParseError:
		cp := *e
		cp.Section = "meta." + cp.Section
		return &cp
	case *domain.StructuralError:
		cp := *e
		cp.Section = "meta." + cp.Section
		return &cp
	}
	return err
}
