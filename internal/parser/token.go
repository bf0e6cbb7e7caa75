package parser

import (
	"fmt"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// TokenKind classifies a token.
type TokenKind uint8

// Token kinds.
const (
	TokEOF TokenKind = iota
	TokOpen
	TokClose
	TokEquals
	TokString
	TokInt
	TokFixed
	TokDate
)

// String returns a readable kind name.
func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokOpen:
		return "{"
	case TokClose:
		return "}"
	case TokEquals:
		return "="
	case TokString:
		return "string"
	case TokInt:
		return "int"
	case TokFixed:
		return "fixed"
	case TokDate:
		return "date"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// Token is one lexical unit.
type Token struct {
	Kind TokenKind

	// Text is the unescaped string for TokString and the source text
	// for every other scalar kind.
	Text string

	Quoted bool
	Int    int64
	Fixed  domain.Fixed
	Date   domain.Date

	// Offset is the byte offset of the token's first byte.
	Offset int

	// Col0 is set when the token starts a line with no indentation.
	Col0 bool
}

// IsScalar reports whether the token carries a value.
func (t Token) IsScalar() bool {
	return t.Kind >= TokString
}

// Node converts a scalar token to a node.
func (t Token) Node() domain.Node {
	switch t.Kind {
	case TokInt:
		return domain.NewInt(t.Int)
	case TokFixed:
		return domain.NewFixed(t.Fixed)
	case TokDate:
		return domain.NewDate(t.Date)
	default:
		return domain.NewString(t.Text, t.Quoted)
	}
}
