package extractors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/parser"
)

// loadFixture builds the shared test save. Player country is 0.
func loadFixture(t *testing.T) *domain.SaveDocument {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "empire.sav.txt"))
	require.NoError(t, err)
	doc := parser.Build(string(data), "", domain.DocumentInfo{ContentHash: "fixture"})
	require.Empty(t, doc.Errors())
	return doc
}

func buildDoc(t *testing.T, text string) *domain.SaveDocument {
	t.Helper()
	return parser.Build(text, "", domain.DocumentInfo{ContentHash: "inline"})
}

func fx(t *testing.T, s string) domain.Fixed {
	t.Helper()
	f, err := domain.ParseFixed(s)
	require.NoError(t, err)
	return f
}

var playerOpts = domain.ExtractOptions{PlayerID: 0}
