// FILE: src/internal/assetcache/sqlite.go
package assetcache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite
)

// SQLiteStore is a persistent Store shared across processes, the analog of
// the browser's origin-wide cache storage.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating when absent) the cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS assets(
	  generation   TEXT    NOT NULL,
	  url          TEXT    NOT NULL,
	  status       INTEGER NOT NULL,
	  headers_json TEXT    NOT NULL CHECK (json_valid(headers_json)),
	  body         BLOB    NOT NULL,
	  stored_at    INTEGER NOT NULL,
	  PRIMARY KEY (generation, url)
	);
	CREATE INDEX IF NOT EXISTS idx_assets_generation ON assets(generation);
	`)
	if err != nil {
		return fmt.Errorf("failed to create cache tables: %w", err)
	}
	return nil
}

// Put stores a response under (generation, url), replacing any previous
// copy.
func (s *SQLiteStore) Put(generation, url string, resp *CachedResponse) error {
	headers, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("failed to marshal response headers: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO assets(generation, url, status, headers_json, body, stored_at) VALUES(?,?,?,json(?),?,?)`,
		generation, url, resp.StatusCode, string(headers), resp.Body, resp.StoredAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}
	return nil
}

// Match returns the response cached under (generation, url).
func (s *SQLiteStore) Match(generation, url string) (*CachedResponse, bool, error) {
	row := s.db.QueryRow(
		`SELECT status, headers_json, body, stored_at FROM assets WHERE generation = ? AND url = ?`,
		generation, url,
	)

	var (
		status   int
		headers  string
		body     []byte
		storedAt int64
	)
	if err := row.Scan(&status, &headers, &body, &storedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached response: %w", err)
	}

	header := make(map[string]string)
	if err := json.Unmarshal([]byte(headers), &header); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal response headers: %w", err)
	}

	return &CachedResponse{
		StatusCode: status,
		Header:     header,
		Body:       body,
		StoredAt:   time.UnixMilli(storedAt),
	}, true, nil
}

// Generations lists every generation present in the store.
func (s *SQLiteStore) Generations() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT generation FROM assets`)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Drop deletes a whole generation. Idempotent.
func (s *SQLiteStore) Drop(generation string) error {
	if _, err := s.db.Exec(`DELETE FROM assets WHERE generation = ?`, generation); err != nil {
		return fmt.Errorf("failed to drop generation: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
