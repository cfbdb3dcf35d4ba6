package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lumen-dev/lumen/internal/errors"
)

// SQLite is a SQLite-backed store. It persists state to a single
// database file and survives application restarts.
type SQLite struct {
	db    *sql.DB
	table string
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// SQLiteOption configures the SQLite store.
type SQLiteOption func(*sqliteConfig)

type sqliteConfig struct {
	table           string
	cleanupInterval time.Duration
}

// WithTableName sets the table name. Default: "lumen_state".
func WithTableName(name string) SQLiteOption {
	return func(c *sqliteConfig) { c.table = name }
}

// WithSQLiteCleanupInterval sets how often expired rows are swept.
// Default: 5 minutes.
func WithSQLiteCleanupInterval(d time.Duration) SQLiteOption {
	return func(c *sqliteConfig) { c.cleanupInterval = d }
}

// OpenSQLite opens (creating if needed) a SQLite store at path. Pass
// ":memory:" for a throwaway database.
func OpenSQLite(path string, opts ...SQLiteOption) (*SQLite, error) {
	cfg := &sqliteConfig{
		table:           "lumen_state",
		cleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.New(errors.CodeStoreUnavailable).WithPath(path).Wrap(err)
	}

	s := &SQLite{db: db, table: cfg.table, done: make(chan struct{})}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	go s.cleanupLoop(cfg.cleanupInterval)
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			expires_at INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		)`, s.table))
	if err != nil {
		return errors.New(errors.CodeStoreUnavailable).Wrap(err)
	}
	_, err = s.db.Exec(fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_%s_expires ON %s(expires_at)`, s.table, s.table))
	if err != nil {
		return errors.New(errors.CodeStoreUnavailable).Wrap(err)
	}
	return nil
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	if s.isClosed() {
		return errClosed()
	}

	var exp int64
	if !expiresAt.IsZero() {
		exp = expiresAt.UnixMilli()
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, data, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`, s.table),
		key, data, exp, time.Now().UnixMilli())
	if err != nil {
		return errors.New(errors.CodeStoreUnavailable).WithPath(key).Wrap(err)
	}
	return nil
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	if s.isClosed() {
		return nil, errClosed()
	}

	var data []byte
	var exp int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT data, expires_at FROM %s WHERE key = ?`, s.table), key).
		Scan(&data, &exp)
	switch {
	case err == sql.ErrNoRows:
		return nil, errMissing(key)
	case err != nil:
		return nil, errors.New(errors.CodeStoreUnavailable).WithPath(key).Wrap(err)
	}

	if exp != 0 && time.Now().UnixMilli() > exp {
		return nil, errMissing(key)
	}
	return data, nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if s.isClosed() {
		return errClosed()
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE key = ?`, s.table), key)
	if err != nil {
		return errors.New(errors.CodeStoreUnavailable).WithPath(key).Wrap(err)
	}
	return nil
}

// Keys implements Store.
func (s *SQLite) Keys(ctx context.Context, prefix string) ([]string, error) {
	if s.isClosed() {
		return nil, errClosed()
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT key FROM %s
		WHERE key LIKE ? AND (expires_at = 0 OR expires_at > ?)
		ORDER BY key`, s.table),
		prefix+"%", time.Now().UnixMilli())
	if err != nil {
		return nil, errors.New(errors.CodeStoreUnavailable).Wrap(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.New(errors.CodeStoreUnavailable).Wrap(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.CodeStoreUnavailable).Wrap(err)
	}
	return keys, nil
}

// Close implements Store. Close is idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *SQLite) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_, _ = s.db.ExecContext(ctx, fmt.Sprintf(
				`DELETE FROM %s WHERE expires_at != 0 AND expires_at <= ?`, s.table),
				time.Now().UnixMilli())
			cancel()
		}
	}
}
