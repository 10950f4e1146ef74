package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS dvp_cache (
	key          TEXT PRIMARY KEY,
	team         TEXT NOT NULL,
	payload      BLOB NOT NULL,
	stored_at    INTEGER NOT NULL,
	ttl_ms       INTEGER NOT NULL,
	source_mtime INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS dvp_cache_team ON dvp_cache(team);
`

// SQLiteStore persists entries in a SQLite file so results survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get retrieves an entry by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var (
		e                     Entry
		storedAt, ttl, source int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT key, team, payload, stored_at, ttl_ms, source_mtime FROM dvp_cache WHERE key = ?`, key,
	).Scan(&e.Key, &e.Team, &e.Payload, &storedAt, &ttl, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	e.StoredAt = time.UnixMilli(storedAt).UTC()
	e.TTL = time.Duration(ttl) * time.Millisecond
	if source != 0 {
		e.SourceModTime = time.UnixMilli(source).UTC()
	}
	return e, true, nil
}

// Set upserts the entry.
func (s *SQLiteStore) Set(ctx context.Context, e Entry) error {
	var source int64
	if !e.SourceModTime.IsZero() {
		source = e.SourceModTime.UnixMilli()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO dvp_cache (key, team, payload, stored_at, ttl_ms, source_mtime)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	team = excluded.team,
	payload = excluded.payload,
	stored_at = excluded.stored_at,
	ttl_ms = excluded.ttl_ms,
	source_mtime = excluded.source_mtime`,
		e.Key, strings.ToUpper(e.Team), e.Payload, e.StoredAt.UnixMilli(), e.TTL.Milliseconds(), source,
	)
	if err != nil {
		return fmt.Errorf("cache: set %s: %w", e.Key, err)
	}
	return nil
}

// DeleteTeam drops every entry for team.
func (s *SQLiteStore) DeleteTeam(ctx context.Context, team string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dvp_cache WHERE team = ?`, strings.ToUpper(team)); err != nil {
		return fmt.Errorf("cache: delete team %s: %w", team, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
