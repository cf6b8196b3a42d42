// Package store persists comparisons, detected UI elements and differences
// in SQLite. The pipeline itself owns no durable state; this layer owns the
// lifetime of stored comparisons.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite connection with single-writer access.
type Store struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// New opens (creating if necessary) the database at dbPath and applies the
// schema. Foreign keys are enabled so child rows cascade-delete with their
// comparison.
func New(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{conn: conn}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		baseline_path TEXT NOT NULL,
		comparison_path TEXT NOT NULL,
		diff_image_path TEXT NOT NULL DEFAULT '',
		report_json TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS ui_elements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comparison_id INTEGER NOT NULL,
		screenshot TEXT NOT NULL,
		element_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		x1 REAL NOT NULL DEFAULT 0,
		y1 REAL NOT NULL DEFAULT 0,
		x2 REAL NOT NULL DEFAULT 0,
		y2 REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (comparison_id) REFERENCES comparisons(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS differences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comparison_id INTEGER NOT NULL,
		diff_type TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		before_text TEXT NOT NULL DEFAULT '',
		after_text TEXT NOT NULL DEFAULT '',
		x1 REAL NOT NULL DEFAULT 0,
		y1 REAL NOT NULL DEFAULT 0,
		x2 REAL NOT NULL DEFAULT 0,
		y2 REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (comparison_id) REFERENCES comparisons(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
	CREATE INDEX IF NOT EXISTS idx_ui_elements_comparison_id ON ui_elements(comparison_id);
	CREATE INDEX IF NOT EXISTS idx_differences_comparison_id ON differences(comparison_id);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
