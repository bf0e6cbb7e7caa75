package extractors

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// Search bounds.
const (
	DefaultMaxResults   = 5
	DefaultContextChars = 200
	DefaultMaxOutput    = 4000
)

// Search finds a query in the decoded save text, case-insensitively for
// ASCII letters. Positions are byte offsets. TotalFound counts every
// occurrence; Matches stops at MaxResults or when the context budget
// MaxOutput would be exceeded.
func Search(doc *domain.SaveDocument, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	q := sanitizeQuery(query)
	if q == "" {
		return nil, fmt.Errorf("%s: %w: query has no searchable characters", domain.CommandSearch, domain.ErrInvalidInput)
	}
	opts = searchBounds(opts)

	text := doc.Text()
	haystack := asciiLower(text)
	needle := asciiLower(q)

	result := &domain.SearchResult{Query: q, Matches: []domain.SearchMatch{}}
	budget := opts.MaxOutput
	full := false
	for start := 0; start < len(haystack); {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			break
		}
		pos := start + i
		start = pos + 1
		result.TotalFound++
		if full {
			continue
		}
		if len(result.Matches) == opts.MaxResults {
			full = true
			continue
		}
		ctx := contextWindow(text, pos, len(needle), opts.ContextChars)
		size := utf8.RuneCountInString(ctx)
		if size > budget {
			full = true
			continue
		}
		budget -= size
		result.Matches = append(result.Matches, domain.SearchMatch{Position: pos, Context: ctx})
	}
	result.Truncated = len(result.Matches) < result.TotalFound
	return result, nil
}

func searchBounds(opts domain.SearchOptions) domain.SearchOptions {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	opts.MaxResults = min(opts.MaxResults, domain.MaxSearchResults)
	if opts.ContextChars <= 0 {
		opts.ContextChars = DefaultContextChars
	}
	opts.ContextChars = min(opts.ContextChars, domain.MaxSearchContextChars)
	if opts.MaxOutput <= 0 {
		opts.MaxOutput = DefaultMaxOutput
	}
	return opts
}

// sanitizeQuery keeps letters, digits, spaces and _-.,'" only.
func sanitizeQuery(q string) string {
	var b strings.Builder
	for _, r := range q {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" _-.,'\"", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// asciiLower lowercases A-Z only, so byte offsets are preserved.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// contextWindow returns the text around a match, widened to rune
// boundaries. Doubled braces are split so the excerpt cannot be read as a
// template.
func contextWindow(text string, pos, n, chars int) string {
	from := max(0, pos-chars/2)
	to := min(len(text), pos+n+chars/2)
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	ctx := text[from:to]
	ctx = strings.ReplaceAll(ctx, "{{", "{ {")
	return strings.ReplaceAll(ctx, "}}", "} }")
}
