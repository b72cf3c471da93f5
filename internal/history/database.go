package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// NewDatabase opens a SQLite database at the specified path and applies the schema
func NewDatabase(dbPath string) (*sql.DB, error) {
	// Ensure directory exists if not in-memory
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA user_version = 1",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// ensureSchema creates the database schema if it doesn't exist
func ensureSchema(db *sql.DB) error {
	schema := `
-- Playback events, one row per played file
CREATE TABLE IF NOT EXISTS plays (
    id          INTEGER PRIMARY KEY,
    timestamp   INTEGER NOT NULL,
    session_id  TEXT    NOT NULL,
    path        TEXT    NOT NULL,
    codec       TEXT    NOT NULL,
    sample_rate INTEGER NOT NULL CHECK (sample_rate >= 0),
    channels    INTEGER NOT NULL CHECK (channels >= 0),
    frames      INTEGER NOT NULL CHECK (frames >= 0),
    backend     TEXT    NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_plays_timestamp ON plays(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_plays_session ON plays(session_id);
CREATE INDEX IF NOT EXISTS idx_plays_path ON plays(path);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
