package domain

import (
	"fmt"
	"time"
)

// Search bounds that callers cannot exceed.
const (
	MaxSearchResults      = 10
	MaxSearchContextChars = 500
)

// Settings is the resolved application configuration.
type Settings struct {
	// DataDir holds the snapshot database.
	DataDir string

	Extract  ExtractSettings
	Search   SearchSettings
	Boundary BoundarySettings
	Cache    CacheSettings
	Watch    WatchSettings
	Diff     DiffThresholds
}

// ExtractSettings bounds extractor payloads.
type ExtractSettings struct {
	// ListLimit truncates returned lists. Count fields stay exact.
	ListLimit int
}

// SearchSettings bounds text search.
type SearchSettings struct {
	MaxResults   int
	ContextChars int
	MaxOutput    int
}

// BoundarySettings configures request handling.
type BoundarySettings struct {
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	BatchSize int
}

// CacheSettings sizes the document cache.
type CacheSettings struct {
	Documents int
}

// WatchSettings configures save watching.
type WatchSettings struct {
	Debounce time.Duration
}

// DiffThresholds decide which scalar changes are significant.
type DiffThresholds struct {
	// MilitaryAbs is a military power delta that is always reported.
	MilitaryAbs Fixed
	// MilitaryRel and MilitaryMin must both be met otherwise.
	MilitaryRel float64
	MilitaryMin Fixed
	// ResourceRel is the share of the previous net a change must reach.
	ResourceRel float64
	// ResourceMin is the absolute floor per resource.
	ResourceMin map[string]Fixed
	// DefaultResourceMin applies to resources without their own floor.
	DefaultResourceMin Fixed
}

// ResourceFloor returns the absolute floor for a resource.
func (t DiffThresholds) ResourceFloor(resource string) Fixed {
	if v, ok := t.ResourceMin[resource]; ok {
		return v
	}
	return t.DefaultResourceMin
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Extract: ExtractSettings{ListLimit: 50},
		Search: SearchSettings{
			MaxResults:   5,
			ContextChars: 200,
			MaxOutput:    4000,
		},
		Boundary: BoundarySettings{
			Timeout:   30 * time.Second,
			RateLimit: 20,
			Burst:     5,
			BatchSize: 100,
		},
		Cache: CacheSettings{Documents: 4},
		Watch: WatchSettings{Debounce: 2 * time.Second},
		Diff: DiffThresholds{
			MilitaryAbs: FixedFromInt(10000),
			MilitaryRel: 0.15,
			MilitaryMin: FixedFromInt(2000),
			ResourceRel: 0.25,
			ResourceMin: map[string]Fixed{
				"energy":         FixedFromInt(20),
				"minerals":       FixedFromInt(20),
				"alloys":         FixedFromInt(5),
				"consumer_goods": FixedFromInt(5),
				"food":           FixedFromInt(5),
			},
			DefaultResourceMin: FixedFromInt(10),
		},
	}
}

// Validate checks that limits are usable.
func (s Settings) Validate() error {
	switch {
	case s.Extract.ListLimit < 1:
		return fmt.Errorf("%w: extract.list_limit must be positive", ErrInvalidInput)
	case s.Search.MaxResults < 1 || s.Search.MaxResults > MaxSearchResults:
		return fmt.Errorf("%w: search.max_results must be 1..%d", ErrInvalidInput, MaxSearchResults)
	case s.Search.ContextChars < 0 || s.Search.ContextChars > MaxSearchContextChars:
		return fmt.Errorf("%w: search.context_chars must be 0..%d", ErrInvalidInput, MaxSearchContextChars)
	case s.Boundary.Timeout <= 0:
		return fmt.Errorf("%w: boundary.timeout must be positive", ErrInvalidInput)
	case s.Boundary.BatchSize < 1:
		return fmt.Errorf("%w: boundary.batch_size must be positive", ErrInvalidInput)
	case s.Cache.Documents < 1:
		return fmt.Errorf("%w: cache.documents must be positive", ErrInvalidInput)
	}
	return nil
}
