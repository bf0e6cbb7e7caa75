package parser

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Lexer splits save text into tokens. It keeps a small pushback stack so
// the builder can look ahead.
type Lexer struct {
	src    string
	pos    int
	pushed []Token
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Pos returns the offset of the next unread byte.
func (l *Lexer) Pos() int {
	if len(l.pushed) > 0 {
		return l.pushed[len(l.pushed)-1].Offset
	}
	return l.pos
}

// Unread pushes tokens back; they are returned again in the order given.
func (l *Lexer) Unread(toks ...Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		l.pushed = append(l.pushed, toks[i])
	}
}

// Pending reports whether pushed-back tokens are waiting.
func (l *Lexer) Pending() bool { return len(l.pushed) > 0 }

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	tok, err := l.Next()
	if err != nil {
		return tok, err
	}
	l.pushed = append(l.pushed, tok)
	return tok, nil
}

// NextIsOpen reports whether the next token is "{" without lexing it.
func (l *Lexer) NextIsOpen() bool {
	if n := len(l.pushed); n > 0 {
		return l.pushed[n-1].Kind == TokOpen
	}
	l.skipSpaceAndComments()
	return l.pos < len(l.src) && l.src[l.pos] == '{'
}

// Resync discards input up to the next line that starts with a key at
// column 0. Used after a lexical error.
func (l *Lexer) Resync(from int) {
	l.pushed = l.pushed[:0]
	i := from
	for {
		nl := strings.IndexByte(l.src[i:], '\n')
		if nl < 0 {
			l.pos = len(l.src)
			return
		}
		i += nl + 1
		if i < len(l.src) && !isSpace(l.src[i]) && l.src[i] != '}' && l.src[i] != '#' {
			l.pos = i
			return
		}
	}
}

// indented reports whether off is preceded on its line by blanks only,
// and by at least one.
func (l *Lexer) indented(off int) bool {
	i := off
	for i > 0 && (l.src[i-1] == ' ' || l.src[i-1] == '\t') {
		i--
	}
	return i < off && (i == 0 || l.src[i-1] == '\n')
}

// Next returns the next token. At end of input it returns a TokEOF token.
// On a lexical error the lexer has already moved past the bad token, or
// to the end of input for an unterminated string.
func (l *Lexer) Next() (Token, error) {
	if n := len(l.pushed); n > 0 {
		tok := l.pushed[n-1]
		l.pushed = l.pushed[:n-1]
		return tok, nil
	}

	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Offset: len(l.src)}, nil
	}

	start := l.pos
	col0 := start == 0 || l.src[start-1] == '\n'
	switch c := l.src[start]; c {
	case '{':
		l.pos++
		return Token{Kind: TokOpen, Offset: start, Col0: col0}, nil
	case '}':
		l.pos++
		return Token{Kind: TokClose, Offset: start, Col0: col0}, nil
	case '=':
		l.pos++
		return Token{Kind: TokEquals, Offset: start, Col0: col0}, nil
	case '"':
		return l.quoted(start, col0)
	}
	return l.bare(start, col0)
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '#':
			nl := strings.IndexByte(l.src[l.pos:], '\n')
			if nl < 0 {
				l.pos = len(l.src)
				return
			}
			l.pos += nl + 1
		default:
			return
		}
	}
}

// quoted reads a string. Only \" and \\ are escapes; any other backslash
// is kept as written.
func (l *Lexer) quoted(start int, col0 bool) (Token, error) {
	i := start + 1
	escaped := false
	for i < len(l.src) {
		c := l.src[i]
		if c == '\\' && i+1 < len(l.src) {
			escaped = true
			i += 2
			continue
		}
		if c == '"' {
			raw := l.src[start+1 : i]
			l.pos = i + 1
			if escaped {
				raw = unescape(raw)
			}
			return Token{Kind: TokString, Text: raw, Quoted: true, Offset: start, Col0: col0}, nil
		}
		i++
	}
	l.pos = len(l.src)
	return Token{}, &domain.ParseError{Offset: start, Msg: "unterminated quoted string"}
}

func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// bare reads an identifier or a number or date literal.
func (l *Lexer) bare(start int, col0 bool) (Token, error) {
	i := start
	for i < len(l.src) && !isDelimiter(l.src[i]) {
		i++
	}
	l.pos = i
	text := l.src[start:i]
	tok := Token{Kind: TokString, Text: text, Offset: start, Col0: col0}

	if !looksNumeric(text) {
		return tok, nil
	}
	switch strings.Count(text, ".") {
	case 0:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// Out of int64 range; keep the digits as text.
			return tok, nil
		}
		tok.Kind, tok.Int = TokInt, v
	case 1:
		v, err := domain.ParseFixed(truncateFraction(text))
		if err != nil {
			return Token{}, &domain.ParseError{Offset: start, Msg: "malformed number " + strconv.Quote(text)}
		}
		tok.Kind, tok.Fixed = TokFixed, v
	case 2:
		d, err := domain.ParseDate(text)
		if err != nil {
			return Token{}, &domain.ParseError{Offset: start, Msg: "malformed date " + strconv.Quote(text)}
		}
		tok.Kind, tok.Date = TokDate, d
	default:
		return Token{}, &domain.ParseError{Offset: start, Msg: "malformed number " + strconv.Quote(text)}
	}
	return tok, nil
}

// looksNumeric reports whether text is an optional sign followed only by
// digits and dots, starting with a digit.
func looksNumeric(text string) bool {
	body := text
	if body != "" && (body[0] == '-' || body[0] == '+') {
		body = body[1:]
	}
	if body == "" || body[0] < '0' || body[0] > '9' {
		return false
	}
	for i := 1; i < len(body); i++ {
		c := body[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// truncateFraction drops fractional digits beyond domain.FixedDigits.
func truncateFraction(text string) string {
	dot := strings.IndexByte(text, '.')
	if dot < 0 || len(text)-dot-1 <= domain.FixedDigits {
		return text
	}
	return text[:dot+1+domain.FixedDigits]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '{' || c == '}' || c == '=' || c == '"' || c == '#'
}
