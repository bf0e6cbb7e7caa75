package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir        = "storage.data_dir"
	keyListLimit      = "extract.list_limit"
	keyMaxResults     = "search.max_results"
	keyContextChars   = "search.context_chars"
	keyMaxOutput      = "search.max_output"
	keyTimeout        = "boundary.timeout"
	keyRateLimit      = "boundary.rate_limit"
	keyBurst          = "boundary.burst"
	keyBatchSize      = "boundary.batch_size"
	keyCacheDocuments = "cache.documents"
	keyDebounce       = "watch.debounce"
	keyMilitaryAbs    = "diff.military_abs"
	keyMilitaryRel    = "diff.military_rel"
	keyMilitaryMin    = "diff.military_min"
	keyResourceRel    = "diff.resource_rel"
	keyResourceMin    = "diff.resource_min."
)

// Setting sources reported by List.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
)

// envOverrides are read from LEDGER_* variables. Unset variables stay nil.
type envOverrides struct {
	DataDir        *string        `env:"LEDGER_DATA_DIR"`
	ListLimit      *int           `env:"LEDGER_LIST_LIMIT"`
	Timeout        *time.Duration `env:"LEDGER_TIMEOUT"`
	RateLimit      *float64       `env:"LEDGER_RATE_LIMIT"`
	BatchSize      *int           `env:"LEDGER_BATCH_SIZE"`
	CacheDocuments *int           `env:"LEDGER_CACHE_DOCUMENTS"`
}

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindDuration
)

// settingDef binds a config key to a field of domain.Settings.
type settingDef struct {
	key  string
	kind settingKind
	get  func(*domain.Settings) string
	set  func(*domain.Settings, string) error
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	defs        []settingDef
	index       map[string]settingDef

	// environ replaces the process environment when non-nil.
	environ map[string]string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	defs := settingDefs()
	index := make(map[string]settingDef, len(defs))
	for _, d := range defs {
		index[d.key] = d
	}
	return &SettingsService{
		configStore: configStore,
		defs:        defs,
		index:       index,
	}
}

// Get resolves defaults, then the config file, then LEDGER_* variables.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings, _, err := s.resolve()
	return settings, err
}

// Set validates value against the other settings and persists it.
func (s *SettingsService) Set(key, value string) error {
	def, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	candidate, _ := s.fromFile()
	if err := def.set(&candidate, value); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := candidate.Validate(); err != nil {
		return err
	}

	stored, err := storedValue(def.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return s.configStore.Set(key, stored)
}

// Reset removes a setting from the config file.
func (s *SettingsService) Reset(key string) error {
	if _, ok := s.index[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Delete(key)
}

// List describes every known setting in a stable order.
func (s *SettingsService) List() ([]driving.SettingInfo, error) {
	resolved, sources, err := s.resolve()
	if err != nil {
		return nil, err
	}
	defaults := s.GetDefaults()

	infos := make([]driving.SettingInfo, 0, len(s.defs))
	for _, d := range s.defs {
		source := sources[d.key]
		if source == "" {
			source = SourceDefault
		}
		infos = append(infos, driving.SettingInfo{
			Key:     d.key,
			Value:   d.get(&resolved),
			Default: d.get(&defaults),
			Source:  source,
		})
	}
	return infos, nil
}

// GetDefaults returns the built-in settings with the data directory placed
// next to the config file.
func (s *SettingsService) GetDefaults() domain.Settings {
	settings := domain.DefaultSettings()
	settings.DataDir = filepath.Join(filepath.Dir(s.configStore.Path()), "data")
	return settings
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// fromFile applies stored values over the defaults. Values that no longer
// parse are ignored in favour of the default.
func (s *SettingsService) fromFile() (domain.Settings, map[string]string) {
	settings := s.GetDefaults()
	sources := make(map[string]string)

	for _, d := range s.defs {
		raw, ok := s.configStore.Get(d.key)
		if !ok {
			continue
		}
		if err := d.set(&settings, formatStored(raw)); err != nil {
			logger.Warn("ignoring %s in %s: %v", d.key, s.configStore.Path(), err)
			continue
		}
		sources[d.key] = SourceFile
	}
	return settings, sources
}

func (s *SettingsService) resolve() (domain.Settings, map[string]string, error) {
	settings, sources := s.fromFile()

	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: s.environ}); err != nil {
		return domain.Settings{}, nil, fmt.Errorf("parse env: %w", err)
	}
	if o.DataDir != nil {
		settings.DataDir = *o.DataDir
		sources[keyDataDir] = SourceEnv
	}
	if o.ListLimit != nil {
		settings.Extract.ListLimit = *o.ListLimit
		sources[keyListLimit] = SourceEnv
	}
	if o.Timeout != nil {
		settings.Boundary.Timeout = *o.Timeout
		sources[keyTimeout] = SourceEnv
	}
	if o.RateLimit != nil {
		settings.Boundary.RateLimit = *o.RateLimit
		sources[keyRateLimit] = SourceEnv
	}
	if o.BatchSize != nil {
		settings.Boundary.BatchSize = *o.BatchSize
		sources[keyBatchSize] = SourceEnv
	}
	if o.CacheDocuments != nil {
		settings.Cache.Documents = *o.CacheDocuments
		sources[keyCacheDocuments] = SourceEnv
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, nil, err
	}
	return settings, sources, nil
}

func settingDefs() []settingDef {
	defs := []settingDef{
		stringSetting(keyDataDir, func(s *domain.Settings) *string { return &s.DataDir }),
		intSetting(keyListLimit, func(s *domain.Settings) *int { return &s.Extract.ListLimit }),
		intSetting(keyMaxResults, func(s *domain.Settings) *int { return &s.Search.MaxResults }),
		intSetting(keyContextChars, func(s *domain.Settings) *int { return &s.Search.ContextChars }),
		intSetting(keyMaxOutput, func(s *domain.Settings) *int { return &s.Search.MaxOutput }),
		durationSetting(keyTimeout, func(s *domain.Settings) *time.Duration { return &s.Boundary.Timeout }),
		floatSetting(keyRateLimit, func(s *domain.Settings) *float64 { return &s.Boundary.RateLimit }),
		intSetting(keyBurst, func(s *domain.Settings) *int { return &s.Boundary.Burst }),
		intSetting(keyBatchSize, func(s *domain.Settings) *int { return &s.Boundary.BatchSize }),
		intSetting(keyCacheDocuments, func(s *domain.Settings) *int { return &s.Cache.Documents }),
		durationSetting(keyDebounce, func(s *domain.Settings) *time.Duration { return &s.Watch.Debounce }),
		fixedSetting(keyMilitaryAbs, func(s *domain.Settings) *domain.Fixed { return &s.Diff.MilitaryAbs }),
		floatSetting(keyMilitaryRel, func(s *domain.Settings) *float64 { return &s.Diff.MilitaryRel }),
		fixedSetting(keyMilitaryMin, func(s *domain.Settings) *domain.Fixed { return &s.Diff.MilitaryMin }),
		floatSetting(keyResourceRel, func(s *domain.Settings) *float64 { return &s.Diff.ResourceRel }),
	}
	for _, resource := range []string{"energy", "minerals", "alloys", "consumer_goods", "food"} {
		defs = append(defs, resourceSetting(resource))
	}
	return append(defs, fixedSetting(keyResourceMin+"default",
		func(s *domain.Settings) *domain.Fixed { return &s.Diff.DefaultResourceMin }))
}

func stringSetting(key string, field func(*domain.Settings) *string) settingDef {
	return settingDef{
		key:  key,
		kind: kindString,
		get:  func(s *domain.Settings) string { return *field(s) },
		set: func(s *domain.Settings, v string) error {
			*field(s) = v
			return nil
		},
	}
}

func intSetting(key string, field func(*domain.Settings) *int) settingDef {
	return settingDef{
		key:  key,
		kind: kindInt,
		get:  func(s *domain.Settings) string { return strconv.Itoa(*field(s)) },
		set: func(s *domain.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*field(s) = n
			return nil
		},
	}
}

func floatSetting(key string, field func(*domain.Settings) *float64) settingDef {
	return settingDef{
		key:  key,
		kind: kindFloat,
		get:  func(s *domain.Settings) string { return strconv.FormatFloat(*field(s), 'f', -1, 64) },
		set: func(s *domain.Settings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			if f < 0 {
				return fmt.Errorf("must not be negative")
			}
			*field(s) = f
			return nil
		},
	}
}

func durationSetting(key string, field func(*domain.Settings) *time.Duration) settingDef {
	return settingDef{
		key:  key,
		kind: kindDuration,
		get:  func(s *domain.Settings) string { return field(s).String() },
		set: func(s *domain.Settings, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			*field(s) = d
			return nil
		},
	}
}

func fixedSetting(key string, field func(*domain.Settings) *domain.Fixed) settingDef {
	return settingDef{
		key:  key,
		kind: kindFloat,
		get:  func(s *domain.Settings) string { return field(s).String() },
		set: func(s *domain.Settings, v string) error {
			f, err := domain.ParseFixed(v)
			if err != nil {
				return err
			}
			*field(s) = f
			return nil
		},
	}
}

// resourceSetting binds one entry of the per-resource diff floors.
func resourceSetting(resource string) settingDef {
	return settingDef{
		key:  keyResourceMin + resource,
		kind: kindFloat,
		get:  func(s *domain.Settings) string { return s.Diff.ResourceFloor(resource).String() },
		set: func(s *domain.Settings, v string) error {
			f, err := domain.ParseFixed(v)
			if err != nil {
				return err
			}
			if s.Diff.ResourceMin == nil {
				s.Diff.ResourceMin = make(map[string]domain.Fixed)
			}
			s.Diff.ResourceMin[resource] = f
			return nil
		},
	}
}

// storedValue converts text to the TOML type written for a kind.
func storedValue(kind settingKind, v string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(v)
	case kindFloat:
		return strconv.ParseFloat(v, 64)
	default:
		return v, nil
	}
}

// formatStored renders a value read from the config store as text.
func formatStored(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
