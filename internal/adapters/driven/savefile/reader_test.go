package savefile

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

func writeArchive(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "autosave.sav")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestReader_ReadArchive(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, map[string]string{
		"gamestate": "date=\"2250.01.01\"\n",
		"meta":      "name=\"United Nations\"\n",
	})

	raw, err := New().Read(context.Background(), path)

	require.NoError(t, err)
	assert.True(t, raw.Archived)
	assert.Equal(t, "date=\"2250.01.01\"\n", raw.Gamestate)
	assert.Equal(t, "name=\"United Nations\"\n", raw.Meta)
	assert.Equal(t, EncodingUTF8, raw.Encoding)
	assert.Equal(t, path, raw.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), raw.ContentHash)
	assert.Equal(t, int64(len(data)), raw.Size)
}

func TestReader_ReadPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamestate")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbfversion=\"Corvus v3.12\"\n"), 0644))

	raw, err := New().Read(context.Background(), path)

	require.NoError(t, err)
	assert.False(t, raw.Archived)
	assert.Equal(t, "version=\"Corvus v3.12\"\n", raw.Gamestate)
	assert.Empty(t, raw.Meta)
}

func TestReader_DecodesWindows1252(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamestate")
	// 0xE9 is e-acute in Windows-1252 and invalid as UTF-8 on its own.
	require.NoError(t, os.WriteFile(path, []byte("name=\"Caf\xe9\"\n"), 0644))

	raw, err := New().Read(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1252, raw.Encoding)
	assert.Equal(t, "name=\"Café\"\n", raw.Gamestate)
}

func TestReader_Errors(t *testing.T) {
	dir := t.TempDir()

	binary := filepath.Join(dir, "binary.sav")
	require.NoError(t, os.WriteFile(binary, []byte("EU4bin\x00\x01\x02"), 0644))

	noGamestate := writeArchive(t, t.TempDir(), map[string]string{"meta": "name=x"})

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.sav"), wantErr: domain.ErrNotFound},
		{name: "binary save", path: binary, wantErr: domain.ErrBinarySave},
		{name: "archive without gamestate", path: noGamestate, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Read(context.Background(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReader_CanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamestate")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Read(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_HashMatchesRead(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, map[string]string{"gamestate": "a=1\n"})
	r := New()

	hash, err := r.Hash(context.Background(), path)
	require.NoError(t, err)

	raw, err := r.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, raw.ContentHash, hash)

	_, err = r.Hash(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
