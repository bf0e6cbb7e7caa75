package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

const twoWars = `date="2250.01.01"
war={
	name="W1"
}
war={
	name="W2"
}
`

func nameOf(t *testing.T, n domain.Node) string {
	t.Helper()
	v, ok := n.Get("name")
	require.True(t, ok)
	s, ok := v.Str()
	require.True(t, ok)
	return s
}

// TestParse_DuplicateTopLevelKeys tests both war entries survive
func TestParse_DuplicateTopLevelKeys(t *testing.T) {
	root, errs := Parse(twoWars)
	require.Empty(t, errs)

	wars := root.GetAll("war")
	require.Len(t, wars, 2)
	assert.Equal(t, "W1", nameOf(t, wars[0]))
	assert.Equal(t, "W2", nameOf(t, wars[1]))
}

// TestParse_Shapes tests lists, mappings, mixed and operator-less blocks
func TestParse_Shapes(t *testing.T) {
	root, errs := Parse(`list={ 1 2 3 }
nested={ { country=0 } { country=4 } }
empty={ }
mixed={ 1 a=2 3 }
color=rgb { 10 20 30 }
traits={ trait="a" trait="b" }
`)
	require.Empty(t, errs)

	list, _ := root.Get("list")
	assert.True(t, list.IsList())
	assert.Equal(t, 3, list.Len())

	nested, _ := root.Get("nested")
	second, ok := nested.Item(1)
	require.True(t, ok)
	c, _ := second.Get("country")
	id, _ := c.Int()
	assert.Equal(t, int64(4), id)

	empty, _ := root.Get("empty")
	assert.True(t, empty.IsMapping())
	assert.Equal(t, 0, empty.Len())

	mixed, _ := root.Get("mixed")
	assert.True(t, mixed.IsMapping())
	assert.Len(t, mixed.GetAll(""), 2)

	color, _ := root.Get("color")
	rgb, ok := color.Get("rgb")
	require.True(t, ok)
	assert.Equal(t, 3, rgb.Len())

	traits, _ := root.Get("traits")
	assert.Len(t, traits.GetAll("trait"), 2)
}

// TestParse_TruncatedSectionRecovers tests one unterminated block costs only its section
func TestParse_TruncatedSectionRecovers(t *testing.T) {
	src := "date=\"2250.01.01\"\nleaders={\n\t1={\n\t\tname=\"A\"\n\t\tclass=admiral\nwar={\n\t0={\n\t\tname=\"W1\"\n\t}\n}\nplanets={\n\tcount=3\n}\n"

	root, errs := Parse(src)
	require.Len(t, errs, 1)

	var se *domain.StructuralError
	require.True(t, errors.As(errs[0], &se))
	assert.Equal(t, "leaders", se.Section)
	assert.Equal(t, strings.Index(src, "1={")+2, se.Offset)

	assert.Equal(t, []string{"date", "war", "planets"}, root.Keys())
	war, _ := root.Get("war")
	entry, _ := war.Get("0")
	assert.Equal(t, "W1", nameOf(t, entry))
}

// TestParse_TruncatedAtEnd tests a document cut off mid-brace
func TestParse_TruncatedAtEnd(t *testing.T) {
	src := "a={ b=1 }\nc={ d={ e=1 "
	root, errs := Parse(src)
	require.Len(t, errs, 1)

	var se *domain.StructuralError
	require.True(t, errors.As(errs[0], &se))
	assert.Equal(t, "c", se.Section)
	assert.Equal(t, strings.Index(src, "d={")+2, se.Offset)
	assert.True(t, root.Has("a"))
}

// TestParse_StrayClosingBrace tests an unmatched closing brace is reported and skipped
func TestParse_StrayClosingBrace(t *testing.T) {
	root, errs := Parse("a=1\n}\nb=2\n")
	require.Len(t, errs, 1)

	var se *domain.StructuralError
	require.True(t, errors.As(errs[0], &se))
	assert.Equal(t, 4, se.Offset)
	assert.Equal(t, "a", se.Section)
	assert.Equal(t, []string{"a", "b"}, root.Keys())
}

// earlyClose closes war one brace too soon; entry 1 is left dangling.
const earlyClose = "war={\n\t0={\n\t\tname=\"W0\"\n\t\t}\n\t}\n\t1={\n\t\tname=\"W1\"\n\t}\n}\nplanets={\n\tcount=3\n}\n"

// TestParse_EarlyClosingBrace tests damage after an extra brace is charged to its section
func TestParse_EarlyClosingBrace(t *testing.T) {
	root, errs := Parse(earlyClose)
	require.Len(t, errs, 1)

	var se *domain.StructuralError
	require.True(t, errors.As(errs[0], &se))
	assert.Equal(t, "war", se.Section)
	assert.Equal(t, strings.Index(earlyClose, "\t1={")+1, se.Offset)

	assert.Equal(t, []string{"war", "planets"}, root.Keys())
	war, _ := root.Get("war")
	assert.Equal(t, []string{"0"}, war.Keys())

	doc := Build(earlyClose, "", domain.DocumentInfo{})
	failures := doc.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "war", failures[0].Section)
}

// TestScan_EarlyClosingBraceSelection tests the error follows its section's selection
func TestScan_EarlyClosingBraceSelection(t *testing.T) {
	tests := []struct {
		name     string
		want     string
		wantErrs int
	}{
		{name: "damaged section selected", want: "war", wantErrs: 1},
		{name: "other section selected", want: "planets", wantErrs: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := 0
			for sec, err := range Scan(earlyClose, func(k string) bool { return k == tt.want }) {
				if err != nil {
					errs++
					assert.Equal(t, tt.want, sec.Key)
				}
			}
			assert.Equal(t, tt.wantErrs, errs)
		})
	}
}

// TestParse_LexicalErrorRecovers tests parse errors stay inside their section
func TestParse_LexicalErrorRecovers(t *testing.T) {
	src := "a={\n\tx=1.2.3.4\n}\nb=\"oops\nc=3\n"
	root, errs := Parse(src)
	require.Len(t, errs, 2)

	var pe *domain.ParseError
	require.True(t, errors.As(errs[0], &pe))
	assert.Equal(t, "a", pe.Section)
	assert.Equal(t, strings.Index(src, "1.2.3.4"), pe.Offset)

	require.True(t, errors.As(errs[1], &pe))
	assert.Equal(t, "b", pe.Section)

	assert.Equal(t, []string{"c"}, root.Keys())
}

// TestParse_Idempotent tests identical bytes give identical output
func TestParse_Idempotent(t *testing.T) {
	first, _ := Parse(twoWars)
	second, _ := Parse(twoWars)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, `{"date":"2250.01.01","war":[{"name":"W1"},{"name":"W2"}]}`, string(a))
}

// TestScan_SelectsSections tests only requested sections are built
func TestScan_SelectsSections(t *testing.T) {
	src := "a=1\nbroken={\n\tx=1.2.3.4\n}\nwar={ name=\"W1\" }\n"
	var keys []string
	for sec, err := range Scan(src, func(k string) bool { return k == "war" }) {
		require.NoError(t, err)
		keys = append(keys, sec.Key)
	}
	assert.Equal(t, []string{"war"}, keys)
}

// TestScan_Restartable tests the sequence can be consumed again
func TestScan_Restartable(t *testing.T) {
	seq := Sections(twoWars)
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 3, count())
	assert.Equal(t, 3, count())
}

// TestScan_EarlyStop tests breaking out of the sequence
func TestScan_EarlyStop(t *testing.T) {
	n := 0
	for range Sections(twoWars) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

// TestEntries_StreamsAcrossOccurrences tests entry streaming of a repeated section
func TestEntries_StreamsAcrossOccurrences(t *testing.T) {
	src := "fleet={\n\t0={ name=\"A\" }\n\t1={ name=\"B\" }\n}\nother=1\nfleet={\n\t2={ name=\"C\" }\n}\n"

	var keys []string
	for e, err := range Entries(src, "fleet") {
		require.NoError(t, err)
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"0", "1", "2"}, keys)

	n := 0
	for range Entries(src, "fleet") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

// TestEntries_EarlyClosingBrace tests entries before the damage arrive ahead of the error
func TestEntries_EarlyClosingBrace(t *testing.T) {
	var keys []string
	var got error
	for e, err := range Entries(earlyClose, "war") {
		if err != nil {
			got = err
			continue
		}
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"0"}, keys)
	var se *domain.StructuralError
	require.True(t, errors.As(got, &se))
	assert.Equal(t, "war", se.Section)
}

// TestEntries_MissingSection tests the not-found error
func TestEntries_MissingSection(t *testing.T) {
	var got error
	for _, err := range Entries("a=1\n", "fleet") {
		got = err
	}
	assert.ErrorIs(t, got, domain.ErrSectionNotFound)
}

// TestEntries_ScalarSection tests a scalar section yields nothing
func TestEntries_ScalarSection(t *testing.T) {
	n := 0
	for _, err := range Entries("war=none\n", "war") {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 0, n)
}
