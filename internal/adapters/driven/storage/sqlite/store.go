package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/empire-ledger/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store is a SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ledger/data/ledger.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ledger", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// WAL lets readers proceed while the watcher appends.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_snapshots.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

const snapshotColumns = `id, profile_id, game_date, content_hash, empire_name, captured_at, briefing, situation`

// Append stores a snapshot unless its content hash is already present.
func (s *Store) Append(ctx context.Context, snap *domain.Snapshot) (*domain.Snapshot, bool, error) {
	if snap == nil || snap.ID == "" || snap.ContentHash == "" {
		return nil, false, fmt.Errorf("%w: snapshot needs an id and a content hash", domain.ErrInvalidInput)
	}

	briefingJSON, err := json.Marshal(snap.Briefing)
	if err != nil {
		return nil, false, fmt.Errorf("marshalling briefing: %w", err)
	}
	var situation sql.NullString
	if snap.Situation != nil {
		raw, err := json.Marshal(snap.Situation)
		if err != nil {
			return nil, false, fmt.Errorf("marshalling situation: %w", err)
		}
		situation = sql.NullString{String: string(raw), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, profile_id, game_date, game_day, content_hash, empire_name, captured_at, briefing, situation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`, snap.ID, snap.ProfileID, snap.GameDate, snap.GameDay(), snap.ContentHash, snap.EmpireName,
		snap.CapturedAt.UTC().Format(time.RFC3339Nano), string(briefingJSON), situation)
	if err != nil {
		return nil, false, fmt.Errorf("appending snapshot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("appending snapshot: %w", err)
	}
	if n == 0 {
		existing, err := s.GetByHash(ctx, snap.ContentHash)
		return existing, false, err
	}

	stored := *snap
	stored.CapturedAt = snap.CapturedAt.UTC()
	return &stored, true, nil
}

// Get retrieves a snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

// GetByHash retrieves a snapshot by content hash.
func (s *Store) GetByHash(ctx context.Context, hash string) (*domain.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE content_hash = ?`, hash)
	return scanSnapshot(row)
}

// List returns a profile's snapshots, newest game date first.
func (s *Store) List(ctx context.Context, profileID string, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots
		WHERE profile_id = ?
		ORDER BY game_day DESC, seq DESC
		LIMIT ?
	`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot //nolint:prealloc // size unknown from query
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snaps, nil
}

// Profiles returns every profile id with snapshots, sorted.
func (s *Store) Profiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT profile_id FROM snapshots ORDER BY profile_id`)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return profiles, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	var capturedAt, briefingJSON string
	var situation sql.NullString
	if err := row.Scan(&snap.ID, &snap.ProfileID, &snap.GameDate, &snap.ContentHash,
		&snap.EmpireName, &capturedAt, &briefingJSON, &situation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, capturedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing captured_at: %w", err)
	}
	snap.CapturedAt = t

	if err := json.Unmarshal([]byte(briefingJSON), &snap.Briefing); err != nil {
		return nil, fmt.Errorf("unmarshaling briefing: %w", err)
	}
	if situation.Valid {
		snap.Situation = &domain.Situation{}
		if err := json.Unmarshal([]byte(situation.String), snap.Situation); err != nil {
			return nil, fmt.Errorf("unmarshaling situation: %w", err)
		}
	}
	return &snap, nil
}
