package services

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
	"github.com/custodia-labs/empire-ledger/internal/parser"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultCachedDocuments is used when no capacity is configured.
const DefaultCachedDocuments = 4

// DocumentService loads saves and keeps recently used documents parsed.
// Entries are keyed by content hash and evicted least recently used first,
// or explicitly.
type DocumentService struct {
	source   driven.SaveSource
	metrics  driven.Metrics
	capacity int

	mu      sync.Mutex
	order   *list.List // of *domain.SaveDocument, most recent at front
	entries map[string]*list.Element

	loads singleflight.Group
}

// NewDocumentService creates a document service holding up to capacity
// parsed documents. metrics may be nil.
func NewDocumentService(source driven.SaveSource, metrics driven.Metrics, capacity int) *DocumentService {
	if capacity < 1 {
		capacity = DefaultCachedDocuments
	}
	return &DocumentService{
		source:   source,
		metrics:  orNopMetrics(metrics),
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Load reads, parses and caches the save at path.
func (s *DocumentService) Load(ctx context.Context, path string) (*domain.SaveDocument, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	hash, err := s.source.Hash(ctx, path)
	if err != nil {
		return nil, err
	}
	if doc, ok := s.lookup(hash); ok {
		logger.Debug("document cache hit: %s (%s)", path, short(hash))
		return doc, nil
	}

	// Concurrent loads of the same bytes share one parse.
	v, err, _ := s.loads.Do(hash, func() (any, error) {
		if doc, ok := s.lookup(hash); ok {
			return doc, nil
		}
		logger.Section("Loading save")
		raw, err := s.source.Read(ctx, path)
		if err != nil {
			return nil, err
		}
		doc, err := s.build(ctx, raw)
		if err != nil {
			return nil, err
		}
		s.store(doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.SaveDocument), nil
}

// Open returns the cached document for path, or the unparsed save when
// none is cached. Nothing is parsed or cached here.
func (s *DocumentService) Open(ctx context.Context, path string) (*domain.SaveDocument, *domain.RawSave, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	hash, err := s.source.Hash(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if doc, ok := s.lookup(hash); ok {
		logger.Debug("document cache hit: %s (%s)", path, short(hash))
		return doc, nil, nil
	}
	raw, err := s.source.Read(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return nil, raw, nil
}

// Parse builds an uncached document from text.
func (s *DocumentService) Parse(ctx context.Context, name, text string) (*domain.SaveDocument, error) {
	raw := &domain.RawSave{
		Path:        name,
		Gamestate:   text,
		ContentHash: hashText(text),
		Encoding:    "utf-8",
		Size:        int64(len(text)),
	}
	return s.build(ctx, raw)
}

func (s *DocumentService) build(ctx context.Context, raw *domain.RawSave) (*domain.SaveDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	doc := parser.Build(raw.Gamestate, raw.Meta, domain.DocumentInfo{
		ContentHash: raw.ContentHash,
		Path:        raw.Path,
	})
	elapsed := time.Since(start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failures := doc.Failures()
	for _, f := range failures {
		logger.Warn("section %q recovered: %s", f.Section, f.Message)
	}
	s.metrics.ObserveParse(len(raw.Gamestate), len(failures), elapsed)
	logger.Debug("parsed %s: %d bytes, %s, %d failed sections in %s",
		raw.Path, raw.Size, raw.Encoding, len(failures), elapsed.Round(time.Millisecond))
	return doc, nil
}

func (s *DocumentService) lookup(hash string) (*domain.SaveDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[hash]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*domain.SaveDocument), true
}

func (s *DocumentService) store(doc *domain.SaveDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[doc.Hash()]; ok {
		s.order.MoveToFront(el)
		return
	}
	s.entries[doc.Hash()] = s.order.PushFront(doc)
	for s.order.Len() > s.capacity {
		oldest := s.order.Back()
		evicted := s.order.Remove(oldest).(*domain.SaveDocument)
		delete(s.entries, evicted.Hash())
		logger.Debug("document cache evicted %s", short(evicted.Hash()))
	}
	s.metrics.SetCachedDocuments(s.order.Len())
}

// Cached lists cached documents, most recently used first.
func (s *DocumentService) Cached() []domain.DocumentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DocumentInfo, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*domain.SaveDocument).Info())
	}
	return out
}

// Evict drops one cached document.
func (s *DocumentService) Evict(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[hash]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.entries, hash)
	s.metrics.SetCachedDocuments(s.order.Len())
	return true
}

// Purge drops every cached document.
func (s *DocumentService) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Init()
	clear(s.entries)
	s.metrics.SetCachedDocuments(0)
}

// short abbreviates a content hash for logs.
func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
