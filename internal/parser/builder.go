package parser

import (
	"errors"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// errStopped ends a block walk when the consumer stops iterating.
var errStopped = errors.New("stopped")

// part is one element of a block: a keyed pair or a bare value.
type part struct {
	key   string
	keyed bool
	value domain.Node
}

// builder assembles values from a lexer. With build=false it validates
// structure without allocating nodes.
type builder struct {
	lex *Lexer
}

// value reads one value: a scalar or a block.
func (b *builder) value(build bool) (domain.Node, error) {
	tok, err := b.lex.Next()
	if err != nil {
		return domain.Node{}, err
	}
	switch {
	case tok.Kind == TokOpen:
		return b.block(tok.Offset, build)
	case tok.Kind == TokString && !tok.Quoted && b.lex.NextIsOpen():
		// Tagged block, e.g. color=rgb { 10 20 30 }.
		open, _ := b.lex.Next()
		v, err := b.block(open.Offset, build)
		if err != nil || !build {
			return domain.Node{}, err
		}
		return domain.NewMapping([]domain.Entry{{Key: tok.Text, Value: v}}), nil
	case tok.IsScalar():
		if !build {
			return domain.Node{}, nil
		}
		return tok.Node(), nil
	case tok.Kind == TokEOF:
		return domain.Node{}, &domain.StructuralError{Offset: tok.Offset, Msg: "missing value at end of input"}
	default:
		return domain.Node{}, &domain.StructuralError{Offset: tok.Offset, Msg: "expected value, found " + tok.Kind.String()}
	}
}

// block reads the body of a block whose opening brace is at open.
func (b *builder) block(open int, build bool) (domain.Node, error) {
	var parts []part
	err := b.walk(open, build, func(p part) bool {
		if build {
			parts = append(parts, p)
		}
		return true
	})
	if err != nil || !build {
		return domain.Node{}, err
	}
	return assemble(parts), nil
}

// walk emits each element of a block until its closing brace.
func (b *builder) walk(open int, build bool, emit func(part) bool) error {
	for {
		tok, err := b.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokEOF:
			return &domain.StructuralError{Offset: open, Msg: "unterminated block"}
		case TokClose:
			return nil
		case TokEquals:
			// A stray "=" carries no value; skip it.
			continue
		case TokOpen:
			v, err := b.block(tok.Offset, build)
			if err != nil {
				return err
			}
			if !emit(part{value: v}) {
				return errStopped
			}
			continue
		}

		next, err := b.lex.Peek()
		if err != nil {
			return err
		}
		if tok.Col0 && next.Kind == TokEquals {
			// A top-level key: this block was never closed.
			b.lex.Unread(tok)
			return &domain.StructuralError{Offset: open, Msg: "unterminated block"}
		}

		var p part
		switch {
		case next.Kind == TokEquals:
			if _, err := b.lex.Next(); err != nil {
				return err
			}
			v, err := b.value(build)
			if err != nil {
				return err
			}
			p = part{key: tok.Text, keyed: true, value: v}
		case next.Kind == TokOpen && tok.Kind == TokString && !tok.Quoted:
			// Operator-less pair, e.g. rgb { 1 2 3 }.
			v, err := b.value(build)
			if err != nil {
				return err
			}
			p = part{key: tok.Text, keyed: true, value: v}
		default:
			if build {
				p = part{value: tok.Node()}
			}
		}
		if !emit(p) {
			return errStopped
		}
	}
}

// assemble turns block parts into a node. Only bare values make a List;
// otherwise a Mapping, with bare values stored under the empty key.
func assemble(parts []part) domain.Node {
	keyed := 0
	for _, p := range parts {
		if p.keyed {
			keyed++
		}
	}
	if keyed == 0 && len(parts) > 0 {
		items := make([]domain.Node, len(parts))
		for i, p := range parts {
			items[i] = p.value
		}
		return domain.NewList(items)
	}
	entries := make([]domain.Entry, len(parts))
	for i, p := range parts {
		entries[i] = domain.Entry{Key: p.key, Value: p.value}
	}
	return domain.NewMapping(entries)
}

// inSection stamps the section name on parse and structural errors.
func inSection(err error, section string) error {
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		cp := *pe
		if cp.Section == "" {
			cp.Section = section
		}
		return &cp
	}
	var se *domain.StructuralError
	if errors.As(err, &se) {
		cp := *se
		if cp.Section == "" {
			cp.Section = section
		}
		return &cp
	}
	return err
}

// blamed returns the section an error was charged to, if any.
func blamed(err error) string {
	var se *domain.StructuralError
	if errors.As(err, &se) {
		return se.Section
	}
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		return pe.Section
	}
	return ""
}

// errorOffset returns where recovery should resume scanning from.
func errorOffset(err error, fallback int) int {
	if off, ok := domain.ErrorOffset(err); ok {
		return off
	}
	return fallback
}
