package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS java_installations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    path        TEXT NOT NULL,
    version     TEXT NOT NULL,
    major       INTEGER NOT NULL,
    vendor      TEXT NOT NULL DEFAULT '',
    generation  INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_java_generation ON java_installations(generation);

CREATE TABLE IF NOT EXISTS installed_versions (
    id           TEXT PRIMARY KEY,
    kind         TEXT NOT NULL,
    base_version TEXT NOT NULL,
    installed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store persists launcher state in a local SQLite database: the Java
// installation registry and the set of installed game versions.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and
// busy timeout, and creates the schema tables if they do not exist.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite supports a single writer; one pooled connection avoids
	// SQLITE_BUSY contention between connections that each need their
	// own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordJavaInstallations writes a full detection result as a new
// generation in a single transaction. Earlier generations are kept
// for history; reads always return the latest one.
func (s *Store) RecordJavaInstallations(ctx context.Context, installations []domain.JavaInstallation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for java installations: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var generation int64
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(generation), 0) + 1 FROM java_installations")
	if err := row.Scan(&generation); err != nil {
		return fmt.Errorf("store: next java generation: %w", err)
	}

	const q = `
		INSERT INTO java_installations (path, version, major, vendor, generation)
		VALUES (?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("store: prepare java insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, inst := range installations {
		if _, err := stmt.ExecContext(ctx, inst.Path, inst.Version, inst.MajorVersion, inst.Vendor, generation); err != nil {
			return fmt.Errorf("store: record java installation %q: %w", inst.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit java installations: %w", err)
	}
	return nil
}

// ListJavaInstallations returns the latest recorded detection result in
// insertion order. An empty registry yields an empty slice, not an error.
func (s *Store) ListJavaInstallations(ctx context.Context) ([]domain.JavaInstallation, error) {
	const q = `
		SELECT path, version, major, vendor FROM java_installations
		WHERE generation = (SELECT COALESCE(MAX(generation), 0) FROM java_installations)
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list java installations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	installations := make([]domain.JavaInstallation, 0)
	for rows.Next() {
		var inst domain.JavaInstallation
		if err := rows.Scan(&inst.Path, &inst.Version, &inst.MajorVersion, &inst.Vendor); err != nil {
			return nil, fmt.Errorf("store: scan java installation: %w", err)
		}
		installations = append(installations, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate java installations: %w", err)
	}

	return installations, nil
}

// AddInstalledVersion upserts an installed game version id with its
// loader kind and base game version.
func (s *Store) AddInstalledVersion(ctx context.Context, id string) error {
	const q = `
		INSERT INTO installed_versions (id, kind, base_version)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind         = excluded.kind,
			base_version = excluded.base_version,
			installed_at = CURRENT_TIMESTAMP`

	kind := domain.LoaderType(id)
	if _, err := s.db.ExecContext(ctx, q, id, string(kind), domain.BaseVersion(id)); err != nil {
		return fmt.Errorf("store: add installed version %q: %w", id, err)
	}
	return nil
}

// RemoveInstalledVersion deletes an installed version id. Removing an
// unknown id is not an error.
func (s *Store) RemoveInstalledVersion(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM installed_versions WHERE id = ?", id); err != nil {
		return fmt.Errorf("store: remove installed version %q: %w", id, err)
	}
	return nil
}

// ListInstalledVersions returns all installed version ids, newest first
func (s *Store) ListInstalledVersions(ctx context.Context) ([]string, error) {
	return s.listVersionIDs(ctx, "SELECT id FROM installed_versions ORDER BY installed_at DESC, id")
}

// ListInstalledByKind returns installed ids of one loader kind, newest first
func (s *Store) ListInstalledByKind(ctx context.Context, kind domain.VersionType) ([]string, error) {
	const q = "SELECT id FROM installed_versions WHERE kind = ? ORDER BY installed_at DESC, id"

	rows, err := s.db.QueryContext(ctx, q, string(kind))
	if err != nil {
		return nil, fmt.Errorf("store: list installed versions by kind %q: %w", kind, err)
	}
	return scanIDs(rows)
}

// HasInstalledVersion reports whether an id is registered as installed
func (s *Store) HasInstalledVersion(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM installed_versions WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check installed version %q: %w", id, err)
	}
	return true, nil
}

func (s *Store) listVersionIDs(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list installed versions: %w", err)
	}
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	defer func() { _ = rows.Close() }()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan version id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate version ids: %w", err)
	}
	return ids, nil
}
