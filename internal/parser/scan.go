package parser

import (
	"errors"
	"iter"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Section is one built top-level entry.
type Section struct {
	Key    string
	Offset int
	Value  domain.Node
}

// Sections yields every top-level section in order. Failed sections are
// yielded as errors and scanning continues with the next section. Each
// call of the returned sequence rescans src from the start.
func Sections(src string) iter.Seq2[Section, error] {
	return Scan(src, nil)
}

// Scan yields the top-level sections whose key satisfies want, building
// only those. A nil want selects every section. Errors in sections that
// were not selected are not reported.
func Scan(src string, want func(key string) bool) iter.Seq2[Section, error] {
	return func(yield func(Section, error) bool) {
		s := &scanner{lex: NewLexer(src)}
		for {
			key, offset, err := s.nextKey()
			if err != nil {
				owner := blamed(err)
				if (want == nil || (owner != "" && want(owner))) &&
					!yield(Section{Key: owner, Offset: errorOffset(err, offset)}, err) {
					return
				}
				continue
			}
			if key == "" {
				return
			}
			selected := want == nil || want(key)
			b := builder{lex: s.lex}
			v, err := b.value(selected)
			s.settle(key)
			if err != nil {
				s.recover(err)
				if selected && !yield(Section{Key: key, Offset: offset}, inSection(err, key)) {
					return
				}
				continue
			}
			if selected && !yield(Section{Key: key, Offset: offset, Value: v}, nil) {
				return
			}
		}
	}
}

// Entries streams the children of a top-level block one at a time, across
// every occurrence of the key. Bare values are yielded with an empty key.
// A missing section yields *domain.SectionNotFoundError.
func Entries(src, section string) iter.Seq2[domain.Entry, error] {
	return func(yield func(domain.Entry, error) bool) {
		s := &scanner{lex: NewLexer(src)}
		found := false
		for {
			key, _, err := s.nextKey()
			if err != nil {
				if blamed(err) == section && !yield(domain.Entry{}, err) {
					return
				}
				continue
			}
			if key == "" {
				break
			}
			b := builder{lex: s.lex}
			if key != section {
				_, err := b.value(false)
				s.settle(key)
				if err != nil {
					s.recover(err)
				}
				continue
			}
			found = true

			tok, err := s.lex.Next()
			if err != nil {
				s.settle(key)
				s.recover(err)
				if !yield(domain.Entry{}, inSection(err, key)) {
					return
				}
				continue
			}
			if tok.Kind != TokOpen {
				// Scalar section such as war=none holds no entries.
				s.settle(key)
				continue
			}
			stopped := false
			err = b.walk(tok.Offset, true, func(p part) bool {
				if !yield(domain.Entry{Key: p.key, Value: p.value}, nil) {
					stopped = true
					return false
				}
				return true
			})
			s.settle(key)
			if stopped {
				return
			}
			if err != nil {
				s.recover(err)
				if !yield(domain.Entry{}, inSection(err, key)) {
					return
				}
			}
		}
		if !found {
			yield(domain.Entry{}, &domain.SectionNotFoundError{Section: section})
		}
	}
}

// Parse builds every section. The returned mapping holds the sections that
// built; errs lists the ones that did not.
func Parse(src string) (domain.Node, []error) {
	var entries []domain.Entry
	var errs []error
	for sec, err := range Sections(src) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, domain.Entry{Key: sec.Key, Value: sec.Value})
	}
	return domain.NewMapping(entries), errs
}

// scanner walks top-level keys.
type scanner struct {
	lex *Lexer

	// last is the most recent top-level key. Damage found between
	// sections is charged to it.
	last string

	// closedEarly is set when last ended on an indented closing brace.
	// Indented keys after it were cut off from that section.
	closedEarly bool
}

// settle records the end of the section just read.
func (s *scanner) settle(key string) {
	s.last = key
	end := s.lex.Pos() - 1
	s.closedEarly = end >= 0 && end < len(s.lex.src) && s.lex.src[end] == '}' && s.lex.indented(end)
}

// orphan reports damage between sections, charged to the section before.
func (s *scanner) orphan(offset int, msg string) error {
	return &domain.StructuralError{Offset: offset, Msg: msg, Section: s.last}
}

// nextKey advances to the next "key =" or "key {" at the top level and
// returns the key. An empty key with a nil error means end of input.
func (s *scanner) nextKey() (string, int, error) {
	tok, err := s.lex.Next()
	if err != nil {
		s.recover(err)
		return "", 0, err
	}
	switch tok.Kind {
	case TokEOF:
		return "", tok.Offset, nil
	case TokClose:
		return "", tok.Offset, s.orphan(tok.Offset, "unmatched closing brace")
	case TokEquals:
		return "", tok.Offset, &domain.StructuralError{Offset: tok.Offset, Msg: "assignment without key"}
	case TokOpen:
		b := builder{lex: s.lex}
		if _, err := b.block(tok.Offset, false); err != nil {
			s.recover(err)
		}
		return "", tok.Offset, &domain.StructuralError{Offset: tok.Offset, Msg: "block without key"}
	}
	if s.closedEarly && s.last != "" && s.lex.indented(tok.Offset) {
		// The section closed on an extra brace; skip what was left of it.
		s.lex.Resync(tok.Offset)
		return "", tok.Offset, s.orphan(tok.Offset, "entry after its section closed")
	}

	next, err := s.lex.Peek()
	if err != nil {
		s.recover(err)
		return "", tok.Offset, err
	}
	switch {
	case next.Kind == TokEquals:
		_, _ = s.lex.Next()
	case next.Kind == TokOpen && tok.Kind == TokString && !tok.Quoted:
	default:
		return "", tok.Offset, &domain.StructuralError{Offset: tok.Offset, Msg: "value without key"}
	}
	return tok.Text, tok.Offset, nil
}

// recover repositions the lexer after an error. When the builder stopped
// on a top-level key it pushed that key back and scanning resumes there;
// otherwise the rest of the damaged line group is skipped.
func (s *scanner) recover(err error) {
	if s.lex.Pending() {
		return
	}
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		s.lex.Resync(pe.Offset)
		return
	}
	s.lex.Resync(s.lex.Pos())
}
