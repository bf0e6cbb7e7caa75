package extractors

import (
	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Metadata describes the save itself. It needs no player and never fails
// on a partial document; failed sections are listed instead.
func Metadata(doc *domain.SaveDocument, opts domain.ExtractOptions) (*domain.Metadata, error) {
	info := doc.Info()
	m := &domain.Metadata{
		Version:       info.Version,
		Name:          info.SaveName,
		CampaignID:    info.CampaignID,
		PlayerID:      opts.PlayerID,
		ContentHash:   info.ContentHash,
		RequiredDLCs:  requiredDLCs(doc),
		SectionErrors: doc.Failures(),
	}
	if !info.Date.IsZero() {
		m.Date = info.Date.String()
	}
	return m, nil
}

// requiredDLCs reads required_dlcs from the gamestate, then from meta.
func requiredDLCs(doc *domain.SaveDocument) []string {
	for _, src := range []domain.Node{doc.Root(), doc.Meta()} {
		if n, ok := src.Get("required_dlcs"); ok {
			return texts(n)
		}
	}
	return []string{}
}
