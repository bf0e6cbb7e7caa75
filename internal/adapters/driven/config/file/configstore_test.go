package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.All())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DirName, "config.toml"), store.Path())
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[[[ not toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("storage.data_dir", "/srv/ledger"))
	require.NoError(t, store.Set("extract.list_limit", 25))
	require.NoError(t, store.Set("boundary.rate_limit", 2.5))
	require.NoError(t, store.Set("watch.enabled", true))
	require.NoError(t, store.Set("search.fields", []string{"name", "class"}))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("storage.data_dir"), "/srv/ledger"},
		{"string wrong type", store.GetString("extract.list_limit"), ""},
		{"int", store.GetInt("extract.list_limit"), 25},
		{"int missing", store.GetInt("extract.missing"), 0},
		{"float", store.GetFloat("boundary.rate_limit"), 2.5},
		{"float from int", store.GetFloat("extract.list_limit"), 25.0},
		{"float wrong type", store.GetFloat("storage.data_dir"), 0.0},
		{"bool", store.GetBool("watch.enabled"), true},
		{"bool missing", store.GetBool("watch.other"), false},
		{"slice", store.GetStringSlice("search.fields"), []string{"name", "class"}},
		{"slice missing", store.GetStringSlice("search.none"), []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("boundary.timeout", "30s"))
	require.NoError(t, store.Set("boundary.burst", 4))
	require.NoError(t, store.Set("diff.resource_min.energy", 12.5))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[boundary]")
	assert.Contains(t, string(raw), "[diff.resource_min]")

	reloaded, err := NewConfigStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Equal(t, "30s", reloaded.GetString("boundary.timeout"))
	assert.Equal(t, 4, reloaded.GetInt("boundary.burst"))
	assert.InDelta(t, 12.5, reloaded.GetFloat("diff.resource_min.energy"), 1e-9)
}

func TestConfigStore_ScalarAndTableClash(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("diff", "flat"))
	require.NoError(t, store.Set("diff.military_abs", 800))

	reloaded, err := NewConfigStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Equal(t, "flat", reloaded.GetString("diff"))
	assert.Equal(t, 800, reloaded.GetInt("diff.military_abs"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("cache.documents", 8))

	require.NoError(t, store.Delete("cache.documents"))
	require.NoError(t, store.Delete("cache.documents"))

	_, ok := store.Get("cache.documents")
	assert.False(t, ok)

	reloaded, err := NewConfigStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Empty(t, reloaded.All())
}

func TestConfigStore_AllIsCopy(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("extract.list_limit", 5))

	all := store.All()
	all["extract.list_limit"] = 99

	assert.Equal(t, 5, store.GetInt("extract.list_limit"))
}

func TestConfigStore_LoadMissingFile(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("watch.debounce", "1s"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	assert.Empty(t, store.All())
}

func TestConfigStore_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# nothing yet\n"), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Empty(t, store.All())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_UnmarshallableValue(t *testing.T) {
	store := newStore(t)

	err := store.Set("bad", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newStore(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("extract.list_limit", n)
			_ = store.GetInt("extract.list_limit")
			_ = store.All()
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("extract.list_limit")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flattenMap(nested, ""))
}
