package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

func newTestSettings(environ map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	if environ == nil {
		environ = map[string]string{}
	}
	service.environ = environ
	return service, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettings(nil)

	settings, err := service.Get()

	require.NoError(t, err)
	want := domain.DefaultSettings()
	want.DataDir = "data"
	assert.Equal(t, want, settings)
}

func TestSettingsService_Get_FileValues(t *testing.T) {
	service, store := newTestSettings(nil)
	require.NoError(t, store.Set("extract.list_limit", int64(10)))
	require.NoError(t, store.Set("boundary.timeout", "5s"))
	require.NoError(t, store.Set("boundary.rate_limit", 2.5))
	require.NoError(t, store.Set("diff.resource_min.energy", 40.5))
	require.NoError(t, store.Set("diff.resource_min.default", int64(3)))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 10, settings.Extract.ListLimit)
	assert.Equal(t, 5*time.Second, settings.Boundary.Timeout)
	assert.InDelta(t, 2.5, settings.Boundary.RateLimit, 1e-9)
	assert.Equal(t, "40.5", settings.Diff.ResourceFloor("energy").String())
	assert.Equal(t, domain.FixedFromInt(3), settings.Diff.ResourceFloor("unity"))
	assert.Equal(t, domain.FixedFromInt(20), settings.Diff.ResourceFloor("minerals"))
}

func TestSettingsService_Get_UnparseableFileValueFallsBack(t *testing.T) {
	service, store := newTestSettings(nil)
	require.NoError(t, store.Set("boundary.timeout", "soon"))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Boundary.Timeout, settings.Boundary.Timeout)
}

func TestSettingsService_Get_EnvOverridesFile(t *testing.T) {
	service, store := newTestSettings(map[string]string{
		"LEDGER_LIST_LIMIT": "7",
		"LEDGER_TIMEOUT":    "2s",
		"LEDGER_DATA_DIR":   "/var/lib/ledger",
	})
	require.NoError(t, store.Set("extract.list_limit", 10))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 7, settings.Extract.ListLimit)
	assert.Equal(t, 2*time.Second, settings.Boundary.Timeout)
	assert.Equal(t, "/var/lib/ledger", settings.DataDir)
}

func TestSettingsService_Get_Errors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		file    map[string]any
	}{
		{"malformed env", map[string]string{"LEDGER_LIST_LIMIT": "many"}, nil},
		{"invalid env", map[string]string{"LEDGER_CACHE_DOCUMENTS": "0"}, nil},
		{"invalid file", nil, map[string]any{"search.max_results": 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newTestSettings(tt.environ)
			for k, v := range tt.file {
				require.NoError(t, store.Set(k, v))
			}

			_, err := service.Get()

			assert.Error(t, err)
		})
	}
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		stored any
	}{
		{"int", "extract.list_limit", "25", 25},
		{"float", "boundary.rate_limit", "0.5", 0.5},
		{"duration", "watch.debounce", "500ms", "500ms"},
		{"fixed", "diff.military_abs", "12000.5", 12000.5},
		{"resource floor", "diff.resource_min.alloys", "8", 8.0},
		{"path", "storage.data_dir", "/tmp/ledger", "/tmp/ledger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newTestSettings(nil)

			require.NoError(t, service.Set(tt.key, tt.value))

			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.stored, got)

			_, err := service.Get()
			require.NoError(t, err)
		})
	}
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"not a number", "extract.list_limit", "lots"},
		{"fails validation", "extract.list_limit", "0"},
		{"above bound", "search.max_results", "11"},
		{"negative rate", "boundary.rate_limit", "-1"},
		{"bad duration", "boundary.timeout", "forever"},
		{"bad decimal", "diff.military_min", "1e4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newTestSettings(nil)

			err := service.Set(tt.key, tt.value)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, store.All())
		})
	}
}

func TestSettingsService_Reset(t *testing.T) {
	service, store := newTestSettings(nil)
	require.NoError(t, service.Set("cache.documents", "9"))

	require.NoError(t, service.Reset("cache.documents"))

	assert.Empty(t, store.All())
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Cache.Documents)

	assert.ErrorIs(t, service.Reset("nope"), domain.ErrInvalidInput)
}

func TestSettingsService_List(t *testing.T) {
	service, _ := newTestSettings(map[string]string{"LEDGER_RATE_LIMIT": "3"})
	require.NoError(t, service.Set("extract.list_limit", "12"))

	infos, err := service.List()
	require.NoError(t, err)

	byKey := make(map[string]struct{ value, def, source string })
	for _, info := range infos {
		byKey[info.Key] = struct{ value, def, source string }{info.Value, info.Default, info.Source}
	}

	assert.Len(t, infos, 21)
	assert.Equal(t, "storage.data_dir", infos[0].Key)
	assert.Equal(t, struct{ value, def, source string }{"12", "50", SourceFile}, byKey["extract.list_limit"])
	assert.Equal(t, struct{ value, def, source string }{"3", "20", SourceEnv}, byKey["boundary.rate_limit"])
	assert.Equal(t, struct{ value, def, source string }{"30s", "30s", SourceDefault}, byKey["boundary.timeout"])
	assert.Equal(t, struct{ value, def, source string }{"10", "10", SourceDefault}, byKey["diff.resource_min.default"])
	assert.Equal(t, struct{ value, def, source string }{"0.15", "0.15", SourceDefault}, byKey["diff.military_rel"])
}

func TestSettingsService_Path(t *testing.T) {
	service, _ := newTestSettings(nil)

	assert.Equal(t, ":memory:", service.Path())
	assert.Equal(t, "data", service.GetDefaults().DataDir)
}
