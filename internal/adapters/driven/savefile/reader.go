package savefile

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.SaveSource = (*Reader)(nil)

// Archive entry names.
const (
	entryGamestate = "gamestate"
	entryMeta      = "meta"
)

// Encodings reported on domain.RawSave.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// binarySniffLen is how many leading bytes are checked for binary content.
const binarySniffLen = 4096

var zipMagic = []byte("PK\x03\x04")

// Reader reads saves from disk.
type Reader struct{}

// New creates a save reader.
func New() *Reader {
	return &Reader{}
}

// Read loads and decodes the save at path.
func (r *Reader) Read(ctx context.Context, path string) (*domain.RawSave, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Decode(ctx, path, data)
}

// Hash returns the SHA-256 hex digest of the file at path.
func (r *Reader) Hash(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", openError(path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("savefile: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Decode turns file bytes into a RawSave. path is recorded as given.
func Decode(ctx context.Context, path string, data []byte) (*domain.RawSave, error) {
	sum := sha256.Sum256(data)
	raw := &domain.RawSave{
		Path:        path,
		ContentHash: hex.EncodeToString(sum[:]),
		Size:        int64(len(data)),
	}

	gamestate, meta := data, []byte(nil)
	if bytes.HasPrefix(data, zipMagic) {
		var err error
		gamestate, meta, err = unzip(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("savefile: %s: %w", path, err)
		}
		raw.Archived = true
	}

	if isBinary(gamestate) {
		return nil, fmt.Errorf("savefile: %s: %w", path, domain.ErrBinarySave)
	}

	var err error
	raw.Gamestate, raw.Encoding, err = decodeText(gamestate)
	if err != nil {
		return nil, fmt.Errorf("savefile: %s: %w", path, err)
	}
	if meta != nil {
		raw.Meta, _, err = decodeText(meta)
		if err != nil {
			return nil, fmt.Errorf("savefile: %s meta: %w", path, err)
		}
	}
	return raw, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(path, err)
	}
	return data, nil
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("savefile: %w: %s", domain.ErrNotFound, path)
	}
	return fmt.Errorf("savefile: open %s: %w", path, err)
}

// unzip extracts the gamestate and meta entries of a save archive.
func unzip(ctx context.Context, data []byte) (gamestate, meta []byte, err error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: not a save archive: %v", domain.ErrInvalidInput, err)
	}

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		switch file.Name {
		case entryGamestate:
			gamestate, err = readEntry(file)
		case entryMeta:
			meta, err = readEntry(file)
		default:
			continue
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if gamestate == nil {
		return nil, nil, fmt.Errorf("%w: archive has no %s entry", domain.ErrInvalidInput, entryGamestate)
	}
	return gamestate, meta, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, file.Name, err)
	}
	return content, nil
}

// isBinary reports whether the data looks like a binary save. Text saves
// never contain NUL bytes.
func isBinary(data []byte) bool {
	head := data
	if len(head) > binarySniffLen {
		head = head[:binarySniffLen]
	}
	return bytes.IndexByte(head, 0) >= 0
}

// decodeText returns data as UTF-8, converting from Windows-1252 when the
// bytes are not valid UTF-8. A leading byte order mark is dropped.
func decodeText(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: decode text: %v", domain.ErrInvalidInput, err)
	}
	return string(decoded), EncodingWindows1252, nil
}
