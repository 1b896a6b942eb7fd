// Package cache persists query results between CLI runs and keeps them
// consistent after mutations. Entries are addressed by resource family plus
// serialized parameters and become stale either by age or by invalidation.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Entry is one cached query result.
type Entry struct {
	FetchedAt time.Time
	Key       string
	Family    string
	Data      []byte
	Stale     bool
}

// Stats summarizes the cache contents for the `cache stats` command.
type Stats struct {
	ByFamily map[string]int
	Total    int
	StaleCnt int
}

// Store is the SQLite-backed entry store. CLI processes are short-lived, so
// an in-memory cache would never get a hit; persistence is what makes the
// staleness windows meaningful.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the cache database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the entry for key, or nil on a miss.
func (s *Store) Get(ctx context.Context, key string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, family, data, fetched_at, stale FROM cache_entries WHERE key = ?`, key)

	var entry Entry
	var fetchedAt string
	var stale int
	if err := row.Scan(&entry.Key, &entry.Family, &entry.Data, &fetchedAt, &stale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt fetched_at for %q: %w", key, err)
	}
	entry.FetchedAt = t
	entry.Stale = stale != 0
	return &entry, nil
}

// Put stores (or replaces) an entry and clears its stale flag.
func (s *Store) Put(ctx context.Context, key, family string, data []byte, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, family, data, fetched_at, stale)
		 VALUES (?, ?, ?, ?, 0)
		 ON CONFLICT(key) DO UPDATE SET
		   family = excluded.family,
		   data = excluded.data,
		   fetched_at = excluded.fetched_at,
		   stale = 0`,
		key, family, data, fetchedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// MarkStale flags every entry in the given families for refetch on next read.
func (s *Store) MarkStale(ctx context.Context, families ...string) (int64, error) {
	if len(families) == 0 {
		return 0, nil
	}

	query := `UPDATE cache_entries SET stale = 1 WHERE family IN (?` +
		repeat(",?", len(families)-1) + `)`
	args := make([]any, len(families))
	for i, f := range families {
		args[i] = f
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate families %v: %w", families, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Purge removes every entry.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Stats reports entry counts per family.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByFamily: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT family, COUNT(*), SUM(stale) FROM cache_entries GROUP BY family`)
	if err != nil {
		return stats, fmt.Errorf("failed to read cache stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var family string
		var count, stale int
		if err := rows.Scan(&family, &count, &stale); err != nil {
			return stats, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats.ByFamily[family] = count
		stats.Total += count
		stats.StaleCnt += stale
	}
	return stats, rows.Err()
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
