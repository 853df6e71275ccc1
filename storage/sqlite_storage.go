package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var _ Storage[[]byte] = (*SQLiteStorage)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	key   TEXT PRIMARY KEY COLLATE BINARY,
	value BLOB NOT NULL
) WITHOUT ROWID`

// SQLiteStorage persists records in a single key/value table.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLite creates or opens a database at path (":memory:" for a throwaway one).
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// single writer, and ":memory:" databases live on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Apply(batch *Batch[[]byte]) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("apply: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	for _, o := range batch.ops {
		if o.del {
			_, err = tx.Exec(`DELETE FROM records WHERE key = ?`, o.key)
		} else {
			_, err = tx.Exec(`
				INSERT INTO records (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, o.key, o.value)
		}
		if err != nil {
			return fmt.Errorf("apply %q: %w", o.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply: commit: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Range(prefix string) (Range[string, []byte], error) {
	rows, err := s.db.Query(`
		SELECT key, value FROM records
		WHERE substr(key, 1, length(?1)) = ?1
		ORDER BY key ASC
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", prefix, err)
	}
	defer rows.Close()

	rng := &sliceRange[[]byte]{}
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("range %q: scan: %w", prefix, err)
		}
		rng.keys = append(rng.keys, k)
		rng.values = append(rng.values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("range %q: iterate: %w", prefix, err)
	}

	return rng, nil
}

