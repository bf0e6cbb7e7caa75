package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/parser"
)

// Raw section access. These commands expose the tree without extraction.

// EntryResult is the data of get_entry.
type EntryResult struct {
	Found bool        `json:"found"`
	Entry domain.Node `json:"entry"`
}

// IterResult is the data of a non-streamed iter_section.
type IterResult struct {
	Section string               `json:"section"`
	Count   int                  `json:"count"`
	Entries []domain.StreamEntry `json:"entries"`
}

// extractSections returns the requested sections as one object in request
// order. Absent sections are omitted; a section that failed to build fails
// the request with its build error. When the save is not cached only the
// requested sections are built.
func (d *Dispatcher) extractSections(ctx context.Context, c *call) (any, error) {
	if len(c.args.Sections) == 0 {
		return nil, fmt.Errorf("%w: sections are required", domain.ErrInvalidInput)
	}
	doc, raw, err := d.open(ctx, c.args)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		return scanSections(ctx, raw.Gamestate, c.args.Sections)
	}
	entries := make([]domain.Entry, 0, len(c.args.Sections))
	for _, key := range c.args.Sections {
		n, err := doc.Section(key)
		switch {
		case err == nil:
			entries = append(entries, domain.Entry{Key: key, Value: n})
		case errors.Is(err, domain.ErrSectionNotFound):
			continue
		default:
			return nil, err
		}
	}
	return domain.NewMapping(entries), nil
}

// scanSections builds the first occurrence of each wanted key from text.
// A key whose every occurrence failed reports the first failure.
func scanSections(ctx context.Context, text string, keys []string) (domain.Node, error) {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	built := make(map[string]domain.Node, len(keys))
	failed := make(map[string]error)
	for sec, err := range parser.Scan(text, func(key string) bool { return wanted[key] }) {
		if cerr := ctx.Err(); cerr != nil {
			return domain.Node{}, cerr
		}
		if _, ok := built[sec.Key]; ok {
			continue
		}
		if err != nil {
			if _, ok := failed[sec.Key]; !ok {
				failed[sec.Key] = err
			}
			continue
		}
		built[sec.Key] = sec.Value
	}

	entries := make([]domain.Entry, 0, len(keys))
	for _, key := range keys {
		if n, ok := built[key]; ok {
			entries = append(entries, domain.Entry{Key: key, Value: n})
			continue
		}
		if err, ok := failed[key]; ok {
			return domain.Node{}, err
		}
	}
	return domain.NewMapping(entries), nil
}

// iterSection walks a section's children. With the jsonl format entries
// are streamed in batches after a header frame and the data is a summary.
// A save that is not cached is streamed from its text without building
// the document.
func (d *Dispatcher) iterSection(ctx context.Context, c *call) (any, error) {
	section := c.args.Section
	if section == "" {
		return nil, fmt.Errorf("%w: section is required", domain.ErrInvalidInput)
	}
	doc, raw, err := d.open(ctx, c.args)
	if err != nil {
		return nil, err
	}
	var entries iter.Seq2[domain.Entry, error]
	if raw != nil {
		entries = parser.Entries(raw.Gamestate, section)
	} else {
		entries = sectionEntries(doc, section)
	}

	if c.format != domain.FormatJSONL {
		out := IterResult{Section: section, Entries: []domain.StreamEntry{}}
		for e, err := range entries {
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, domain.StreamEntry{Key: e.Key, Value: e.Value})
		}
		out.Count = len(out.Entries)
		return out, nil
	}

	batch := c.args.BatchSize
	if batch <= 0 {
		batch = d.batchSize
	}
	header := domain.StreamFrame{RequestID: c.id, Stream: true, Command: c.command, Section: section}
	if err := c.frames.write(header); err != nil {
		return nil, err
	}
	summary := domain.StreamSummary{Section: section}
	pending := make([]domain.StreamEntry, 0, batch)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		summary.Batches++
		frame := domain.StreamFrame{RequestID: c.id, Batch: summary.Batches, Entries: pending}
		pending = make([]domain.StreamEntry, 0, batch)
		return c.frames.write(frame)
	}
	for e, err := range entries {
		if err != nil {
			if ferr := flush(); ferr != nil {
				return nil, ferr
			}
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pending = append(pending, domain.StreamEntry{Key: e.Key, Value: e.Value})
		summary.Count++
		if len(pending) >= batch {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return summary, nil
}

// sectionEntries yields the children of every occurrence of a section.
// A section with recorded damage is rescanned from the text, so entries
// before the damage are still delivered ahead of the error.
func sectionEntries(doc *domain.SaveDocument, section string) iter.Seq2[domain.Entry, error] {
	for _, f := range doc.Failures() {
		if f.Section == section {
			return parser.Entries(doc.Text(), section)
		}
	}
	return func(yield func(domain.Entry, error) bool) {
		occurrences := doc.Sections(section)
		if len(occurrences) == 0 {
			yield(domain.Entry{}, &domain.SectionNotFoundError{Section: section})
			return
		}
		for _, n := range occurrences {
			if n.IsList() {
				for item := range n.Items() {
					if !yield(domain.Entry{Value: item}, nil) {
						return
					}
				}
				continue
			}
			for k, v := range n.Entries() {
				if !yield(domain.Entry{Key: k, Value: v}, nil) {
					return
				}
			}
		}
	}
}

// getEntry returns one child of a section. A repeated key resolves to its
// last occurrence. A missing section or key is found=false.
func (d *Dispatcher) getEntry(ctx context.Context, c *call) (any, error) {
	if c.args.Section == "" || c.args.Key == "" {
		return nil, fmt.Errorf("%w: section and key are required", domain.ErrInvalidInput)
	}
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	n, err := doc.Section(c.args.Section)
	if err != nil {
		if errors.Is(err, domain.ErrSectionNotFound) {
			return EntryResult{}, nil
		}
		return nil, err
	}
	v, ok := n.Last(c.args.Key)
	return EntryResult{Found: ok, Entry: v}, nil
}

// getEntries fetches several children of a section. Each result carries
// its key under "_key"; with fields only those fields of a block are kept,
// otherwise the value is under "_value". Missing keys are skipped.
func (d *Dispatcher) getEntries(ctx context.Context, c *call) (any, error) {
	if c.args.Section == "" || len(c.args.Keys) == 0 {
		return nil, fmt.Errorf("%w: section and keys are required", domain.ErrInvalidInput)
	}
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	out := struct {
		Entries []domain.Node `json:"entries"`
	}{Entries: []domain.Node{}}

	n, err := doc.Section(c.args.Section)
	if err != nil {
		if errors.Is(err, domain.ErrSectionNotFound) {
			return out, nil
		}
		return nil, err
	}
	for _, key := range c.args.Keys {
		v, ok := n.Last(key)
		if !ok {
			continue
		}
		fields := []domain.Entry{{Key: "_key", Value: domain.NewString(key, true)}}
		if len(c.args.Fields) > 0 && v.IsMapping() {
			for _, f := range c.args.Fields {
				if fv, ok := v.Last(f); ok {
					fields = append(fields, domain.Entry{Key: f, Value: fv})
				}
			}
		} else {
			fields = append(fields, domain.Entry{Key: "_value", Value: v})
		}
		out.Entries = append(out.Entries, domain.NewMapping(fields))
	}
	return out, nil
}

// countKeys counts every occurrence of the given keys anywhere in the
// tree, repeated keys included.
func (d *Dispatcher) countKeys(ctx context.Context, c *call) (any, error) {
	if len(c.args.Keys) == 0 {
		return nil, fmt.Errorf("%w: keys are required", domain.ErrInvalidInput)
	}
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(c.args.Keys))
	for _, k := range c.args.Keys {
		counts[k] = 0
	}
	var walk func(n domain.Node)
	walk = func(n domain.Node) {
		switch {
		case n.IsMapping():
			for k, v := range n.Entries() {
				if _, ok := counts[k]; ok {
					counts[k]++
				}
				walk(v)
			}
		case n.IsList():
			for item := range n.Items() {
				walk(item)
			}
		}
	}
	walk(doc.Root())
	return struct {
		Counts map[string]int `json:"counts"`
	}{counts}, nil
}

// containsTokens reports which literal tokens occur in the save text.
func (d *Dispatcher) containsTokens(ctx context.Context, c *call) (any, error) {
	if len(c.args.Tokens) == 0 {
		return nil, fmt.Errorf("%w: tokens are required", domain.ErrInvalidInput)
	}
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	matches := make(map[string]bool, len(c.args.Tokens))
	for _, tok := range c.args.Tokens {
		matches[tok] = tok != "" && strings.Contains(text, tok)
	}
	return struct {
		Matches map[string]bool `json:"matches"`
	}{matches}, nil
}
