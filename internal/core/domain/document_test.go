package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(errs ...error) *SaveDocument {
	root := NewMapping([]Entry{
		{Key: "date", Value: NewString("2250.01.01", true)},
		{Key: "war", Value: NewMapping(nil)},
	})
	return NewSaveDocument(root, Node{}, "date=\"2250.01.01\"", errs, DocumentInfo{
		ContentHash:    "abc",
		PlayerID:       3,
		PlayerResolved: true,
	})
}

// TestSaveDocument_Section tests present, failed and missing sections
func TestSaveDocument_Section(t *testing.T) {
	doc := newTestDocument(&StructuralError{Offset: 10, Section: "leaders", Msg: "unterminated block"})

	_, err := doc.Section("war")
	assert.NoError(t, err)

	_, err = doc.Section("leaders")
	assert.True(t, errors.Is(err, ErrStructural))

	_, err = doc.Section("planets")
	var nf *SectionNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "planets", nf.Section)
}

// TestSaveDocument_Failures tests the failure report
func TestSaveDocument_Failures(t *testing.T) {
	doc := newTestDocument(&ParseError{Offset: 4, Section: "meta", Msg: "bad"})
	assert.True(t, doc.Partial())

	failures := doc.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "meta", failures[0].Section)
	assert.Equal(t, KindParse, failures[0].Kind)
	assert.Equal(t, 4, failures[0].Offset)
}

// TestSaveDocument_WithPlayer tests the override leaves the original untouched
func TestSaveDocument_WithPlayer(t *testing.T) {
	doc := newTestDocument()
	other := doc.WithPlayer(9)

	id, err := other.PlayerID()
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	id, err = doc.PlayerID()
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, doc.Hash(), other.Hash())
}

// TestSaveDocument_UnresolvedPlayer tests the player error
func TestSaveDocument_UnresolvedPlayer(t *testing.T) {
	doc := NewSaveDocument(Node{}, Node{}, "", nil, DocumentInfo{})
	_, err := doc.PlayerID()
	assert.ErrorIs(t, err, ErrPlayerUnresolved)
}
