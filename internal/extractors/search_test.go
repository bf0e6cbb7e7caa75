package extractors

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// TestSearch_FindsLeader tests a case-insensitive hit with context
func TestSearch_FindsLeader(t *testing.T) {
	doc := buildDoc(t, "leaders={\n\t1={\n\t\tname=\"Manon Vesh\"\n\t}\n}\n")

	res, err := Search(doc, "manon", domain.SearchOptions{ContextChars: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalFound)
	assert.False(t, res.Truncated)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	assert.Equal(t, strings.Index(doc.Text(), "Manon"), m.Position)
	assert.Contains(t, m.Context, "Manon Vesh")
}

// TestSearch_Truncation tests total counts beyond the result bound
func TestSearch_Truncation(t *testing.T) {
	doc := buildDoc(t, strings.Repeat("ship=\"alpha\"\n", 12))

	res, err := Search(doc, "alpha", domain.SearchOptions{MaxResults: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, res.TotalFound)
	assert.Len(t, res.Matches, 3)
	assert.True(t, res.Truncated)
}

// TestSearch_Caps tests parameters are clamped
func TestSearch_Caps(t *testing.T) {
	doc := buildDoc(t, strings.Repeat("k=\"beta\"\n", 40))

	res, err := Search(doc, "beta", domain.SearchOptions{MaxResults: 50, ContextChars: 5000})
	require.NoError(t, err)
	assert.Equal(t, 40, res.TotalFound)
	assert.Len(t, res.Matches, domain.MaxSearchResults)
}

// TestSearch_OutputBudget tests the context budget stops collection
func TestSearch_OutputBudget(t *testing.T) {
	doc := buildDoc(t, strings.Repeat("gamma ", 200))

	res, err := Search(doc, "gamma", domain.SearchOptions{MaxResults: 10, ContextChars: 100, MaxOutput: 150})
	require.NoError(t, err)
	assert.Equal(t, 200, res.TotalFound)
	assert.Len(t, res.Matches, 2)
	assert.True(t, res.Truncated)

	total := 0
	for _, m := range res.Matches {
		total += len([]rune(m.Context))
	}
	assert.LessOrEqual(t, total, 150)
}

// TestSearch_InvalidQuery tests queries with nothing searchable
func TestSearch_InvalidQuery(t *testing.T) {
	doc := buildDoc(t, "a=b\n")

	for _, q := range []string{"", "{}", "<>;|"} {
		_, err := Search(doc, q, domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, q)
	}
}

// TestSearch_SanitizesQuery tests stripped characters
func TestSearch_SanitizesQuery(t *testing.T) {
	doc := buildDoc(t, "name=\"Kel-Azaan\"\n")

	res, err := Search(doc, "{Kel-Azaan}", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Kel-Azaan", res.Query)
	assert.Equal(t, 1, res.TotalFound)
}

// TestSearch_RuneBoundaries tests context never splits a character
func TestSearch_RuneBoundaries(t *testing.T) {
	doc := buildDoc(t, "name=\"Ééééé target ééééé\"\n")

	res, err := Search(doc, "target", domain.SearchOptions{ContextChars: 3})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Contains(t, res.Matches[0].Context, "target")
	assert.True(t, utf8.ValidString(res.Matches[0].Context))
}
