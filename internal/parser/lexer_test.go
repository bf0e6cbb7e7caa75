package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

func collectTokens(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer(src)
	var toks []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// TestLexer_Classification tests scalar classification
func TestLexer_Classification(t *testing.T) {
	tests := []struct {
		src  string
		kind TokenKind
		text string
	}{
		{"pc_desert", TokString, "pc_desert"},
		{`"United Nations"`, TokString, "United Nations"},
		{"42", TokInt, "42"},
		{"-7", TokInt, "-7"},
		{"12.5", TokFixed, "12.5"},
		{"2250.1.1", TokDate, "2250.1.1"},
		{"3d_model", TokString, "3d_model"},
		{"18446744073709551616", TokString, "18446744073709551616"},
		{"-", TokString, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := collectTokens(t, tt.src)
			require.Len(t, toks, 1)
			assert.Equal(t, tt.kind, toks[0].Kind)
			assert.Equal(t, tt.text, toks[0].Text)
		})
	}
}

// TestLexer_Values tests decoded scalar payloads
func TestLexer_Values(t *testing.T) {
	toks := collectTokens(t, `a=-5 b=1.25 c=2250.3.15 d="q\"x\\y\n" e=0.1234567`)
	require.Len(t, toks, 15)

	assert.Equal(t, int64(-5), toks[2].Int)
	assert.Equal(t, domain.Fixed(125000), toks[5].Fixed)
	assert.Equal(t, domain.Date{Year: 2250, Month: 3, Day: 15}, toks[8].Date)
	assert.Equal(t, `q"x\y\n`, toks[11].Text)
	assert.True(t, toks[11].Quoted)
	assert.Equal(t, domain.Fixed(12345), toks[14].Fixed)
}

// TestLexer_Structure tests braces, comments and column tracking
func TestLexer_Structure(t *testing.T) {
	toks := collectTokens(t, "a={ # comment }\n\tb=1\n}\nc=2")
	kinds := make([]TokenKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{TokString, TokEquals, TokOpen, TokString, TokEquals, TokInt, TokClose, TokString, TokEquals, TokInt}, kinds)
	assert.True(t, toks[0].Col0)
	assert.False(t, toks[3].Col0)
	assert.True(t, toks[6].Col0)
	assert.True(t, toks[7].Col0)
}

// TestLexer_UnterminatedString tests the error offset of an open quote
func TestLexer_UnterminatedString(t *testing.T) {
	lex := NewLexer(`name="oops`)
	_, _ = lex.Next()
	_, _ = lex.Next()
	_, err := lex.Next()

	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 5, pe.Offset)
}

// TestLexer_MalformedNumbers tests rejected numeric literals
func TestLexer_MalformedNumbers(t *testing.T) {
	for _, src := range []string{"1.", "1..2", "1.2.3.4", "2250.13.1", "-2250.1.1"} {
		t.Run(src, func(t *testing.T) {
			lex := NewLexer("  " + src)
			_, err := lex.Next()
			var pe *domain.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, 2, pe.Offset)
		})
	}
}

// TestLexer_PeekAndUnread tests lookahead
func TestLexer_PeekAndUnread(t *testing.T) {
	lex := NewLexer("a = b")
	first, err := lex.Next()
	require.NoError(t, err)

	peeked, err := lex.Peek()
	require.NoError(t, err)
	assert.Equal(t, TokEquals, peeked.Kind)
	assert.True(t, lex.Pending())

	lex.Unread(first)
	again, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", again.Text)
	eq, _ := lex.Next()
	assert.Equal(t, TokEquals, eq.Kind)
}
