package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "plays.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewDatabaseCreatesParentDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "dirs", "plays.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestDatabaseSchemaExists(t *testing.T) {
	db := setupTestDB(t)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM plays").Scan(&count)
	if err != nil {
		t.Errorf("plays table does not exist or is not queryable: %v", err)
	}
}

func TestDatabaseIndexesExist(t *testing.T) {
	db := setupTestDB(t)

	expectedIndexes := []string{
		"idx_plays_timestamp",
		"idx_plays_session",
		"idx_plays_path",
	}

	for _, indexName := range expectedIndexes {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", indexName).Scan(&count)
		if err != nil {
			t.Errorf("failed to query for index %s: %v", indexName, err)
		}
		if count != 1 {
			t.Errorf("index %s does not exist (found %d entries)", indexName, count)
		}
	}
}

func TestDatabaseSchemaConstraints(t *testing.T) {
	db := setupTestDB(t)

	// Negative channel counts violate the CHECK constraint
	_, err := db.Exec(
		`INSERT INTO plays (timestamp, session_id, path, codec, sample_rate, channels, frames, backend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		1000, "s", "/x.wav", "WAV", 44100, -1, 10, "malgo")

	if err == nil {
		t.Error("expected CHECK constraint violation for negative channels")
	}
}
