package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrSlotNotFound is returned by LoadSlot when nothing was saved under a key.
var ErrSlotNotFound = errors.New("slot not found")

// InitDB opens (and creates if needed) the SQLite file backing the durable
// slots.
func InitDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the slots table.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("error creating slots table: %w", err)
	}
	return nil
}

// SaveSlot stores value under key, replacing any previous value.
func SaveSlot(db *sql.DB, key string, value []byte) error {
	query := `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;
	`
	_, err := db.Exec(query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to save slot '%s': %w", key, err)
	}
	return nil
}

// LoadSlot returns the value stored under key or ErrSlotNotFound.
func LoadSlot(db *sql.DB, key string) ([]byte, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load slot '%s': %w", key, err)
	}
	return []byte(value), nil
}

func DeleteSlot(db *sql.DB, key string) error {
	_, err := db.Exec(`DELETE FROM slots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete slot '%s': %w", key, err)
	}
	return nil
}
