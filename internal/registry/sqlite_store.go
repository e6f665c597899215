package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// SQLiteStore persists the registry in a SQLite table ordered by insertion.
type SQLiteStore struct {
	db         *sql.DB
	path       string
	maxEntries int
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string, maxEntries int) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, ferrors.RegistryError("create registry directory").
				WithCause(err).
				WithContext("path", dbPath).
				Build()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: dbPath, maxEntries: effectiveMax(maxEntries)}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.RegistryError("initialize registry schema").
			WithCause(err).
			WithContext("path", dbPath).
			Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS used_hashes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		hash TEXT NOT NULL UNIQUE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) *Set {
	rows, err := s.db.QueryContext(ctx, "SELECT hash FROM used_hashes ORDER BY seq")
	if err != nil {
		slog.Warn("Failed to query registry, starting empty", logfields.Path(s.path), logfields.Error(err))
		return NewSet()
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			slog.Warn("Failed to scan registry row, starting empty", logfields.Path(s.path), logfields.Error(err))
			return NewSet()
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("Failed to read registry rows, starting empty", logfields.Path(s.path), logfields.Error(err))
		return NewSet()
	}
	return NewSet(hashes...)
}

func (s *SQLiteStore) Save(ctx context.Context, set *Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.saveError("begin registry transaction", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM used_hashes"); err != nil {
		return s.saveError("clear registry", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO used_hashes (hash) VALUES (?)")
	if err != nil {
		return s.saveError("prepare registry insert", err)
	}
	defer stmt.Close()

	for _, h := range set.Newest(s.maxEntries) {
		if _, err := stmt.ExecContext(ctx, h); err != nil {
			return s.saveError("insert registry hash", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.saveError("commit registry", err)
	}
	return nil
}

func (s *SQLiteStore) saveError(msg string, err error) error {
	return ferrors.RegistryError(msg).WithCause(err).WithContext("path", s.path).Build()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
