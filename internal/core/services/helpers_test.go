package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/extractors"
	"github.com/custodia-labs/empire-ledger/internal/parser"
)

// saveText renders a small save for country 0 with the given leaders,
// written as "id:name:class:level".
func saveText(date string, leaders ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "version=\"Corvus v3.12.4\"\ndate=%q\n", date)
	b.WriteString("player={ { name=\"Ada\" country=0 } }\n")
	b.WriteString("galaxy={ name=\"test-galaxy\" }\n")
	b.WriteString("country={\n\t0={\n\t\tname=\"Test Empire\"\n\t\tmilitary_power=5000\n\t}\n}\n")
	b.WriteString("war={\n}\n")
	b.WriteString("leaders={\n")
	for _, l := range leaders {
		parts := strings.Split(l, ":")
		fmt.Fprintf(&b, "\t%s={ name=%q class=%s level=%s country=0 }\n", parts[0], parts[1], parts[2], parts[3])
	}
	b.WriteString("}\n")
	return b.String()
}

func buildSave(t *testing.T, hash, text string) *domain.SaveDocument {
	t.Helper()
	doc := parser.Build(text, "", domain.DocumentInfo{ContentHash: hash})
	require.Empty(t, doc.Errors())
	return doc
}

// newTestExtraction returns an extraction service over every extractor.
func newTestExtraction(listLimit int) *ExtractionService {
	settings := domain.DefaultSettings()
	settings.Extract.ListLimit = listLimit
	return NewExtractionService(extractors.Defaults(), settings)
}

// memorySource serves saves from a map of path to text.
type memorySource struct {
	files map[string]string
	reads int
}

func (m *memorySource) Read(_ context.Context, path string) (*domain.RawSave, error) {
	text, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.reads++
	return &domain.RawSave{
		Path:        path,
		Gamestate:   text,
		ContentHash: hashText(text),
		Encoding:    "utf-8",
		Size:        int64(len(text)),
	}, nil
}

func (m *memorySource) Hash(_ context.Context, path string) (string, error) {
	text, ok := m.files[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return hashText(text), nil
}
