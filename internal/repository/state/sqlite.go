package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/logging"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite keeps state entries in a single table of a local SQLite file.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// OpenSQLite opens (and creates if needed) the state file at path.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		path = "crm-state.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLite{db: db, path: path, logger: logging.OrNop(logger)}, nil
}

func (s *SQLite) Load(ctx context.Context, key string) (*Entry, error) {
	var (
		e       Entry
		updated string
	)
	err := s.db.QueryRowContext(ctx, `SELECT key, payload, updated_at FROM state WHERE key = ?`, key).
		Scan(&e.Key, &e.Payload, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		e.UpdatedAt = t
	}
	return &e, nil
}

func (s *SQLite) Save(ctx context.Context, key string, payload []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state(key,payload,updated_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		key, payload, now); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	s.logger.Debug("state saved", zap.String("key", key), zap.Int("bytes", len(payload)))
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Path returns the configured database path.
func (s *SQLite) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }
