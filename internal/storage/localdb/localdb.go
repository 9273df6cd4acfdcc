// Package localdb provides the local fallback store: the whole debt
// collection serialized as a single JSON blob under a fixed key.
//
// The blob is the passive mirror of the cloud collection while the cloud
// is healthy, and the working copy when it is not. There is no partial
// update: callers read-modify-write the whole collection.
package localdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tuanvm/smartdebt/internal/models"
)

// backupKey matches the localStorage key the web client used, so an
// exported browser backup can be imported as-is.
const backupKey = "smart_debts_backup"

const schema = `
CREATE TABLE IF NOT EXISTS backup (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL
);
`

// Store holds the serialized debt collection in a SQLite key-value table.
type Store struct {
	db *sql.DB
}

// Open creates a new Store at the given database path.
// It creates the parent directories and the schema automatically.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load deserializes the backup blob. An absent key or a corrupt-shaped
// value yields an empty collection, not an error: the fallback must
// always be readable.
func (s *Store) Load(ctx context.Context) ([]models.Debt, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM backup WHERE key = ?", backupKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return []models.Debt{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var debts []models.Debt
	if err := json.Unmarshal(value, &debts); err != nil {
		return []models.Debt{}, nil
	}
	if debts == nil {
		debts = []models.Debt{}
	}
	return debts, nil
}

// Save replaces the backup blob wholesale with the given collection.
func (s *Store) Save(ctx context.Context, debts []models.Debt) error {
	if debts == nil {
		debts = []models.Debt{}
	}
	value, err := json.Marshal(debts)
	if err != nil {
		return fmt.Errorf("failed to serialize debts: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO backup (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		backupKey, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}
