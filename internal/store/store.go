// Package store persists rendered blocks in SQLite so repeated runs over the
// same documents skip tokenizing entirely.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/glint/internal/log"
)

// ErrNotFound is returned by Get when no render is stored under the key.
var ErrNotFound = errors.New("store: render not found")

// Store is a persistent key → rendered HTML cache.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	log.Debug(log.CatStore, "Opening database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)")
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatStore, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatStore, "Failed to migrate database", err, "path", path)
		return nil, err
	}

	log.Info(log.CatStore, "Connected to database", "path", path)
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the rendered HTML stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var html string
	err := s.db.QueryRowContext(ctx, `SELECT html FROM renders WHERE key = ?`, key).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading render %s: %w", key, err)
	}
	return html, nil
}

// Put stores html under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key, fingerprint, html string) error {
	now := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renders (key, fingerprint, html, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			html = excluded.html,
			updated_at = excluded.updated_at`,
		key, fingerprint, html, now, now)
	if err != nil {
		return fmt.Errorf("writing render %s: %w", key, err)
	}
	return nil
}

// Prune deletes renders last written more than olderThan ago and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning renders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug(log.CatStore, "pruned renders", "removed", n, "older_than", olderThan)
	return n, nil
}

// PruneFingerprints deletes renders produced by any rule set other than keep.
func (s *Store) PruneFingerprints(ctx context.Context, keep string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders WHERE fingerprint <> ?`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning stale fingerprints: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored renders.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM renders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting renders: %w", err)
	}
	return n, nil
}
