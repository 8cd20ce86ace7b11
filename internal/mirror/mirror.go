// Package mirror is the device-local persistence layer: a key-value table
// holding the JSON-serialized snapshot of each collection, used by the store
// in local mode and as the fallback target when the remote service fails.
package mirror

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Namespace prefixes every collection key. Existing installations persist
// under these keys, so the value must not change.
const Namespace = "revo_mock"

// Key returns the storage key for a collection snapshot.
func Key(collection string) string {
	return fmt.Sprintf("%s_%s", Namespace, collection)
}

// DB wraps the SQLite database backing the mirror and the API-key table.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the mirror database.
func Open(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the schema when missing.
func (db *DB) Migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS mirror (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    company_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_company_keys ON api_keys(company_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Get returns the stored value for key. The second return is false when the
// key has never been written.
func (db *DB) Get(key string) ([]byte, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM mirror WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read mirror key %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set writes (or replaces) the value for key.
func (db *DB) Set(key string, value []byte) error {
	_, err := db.Exec(`
		INSERT INTO mirror (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write mirror key %q: %w", key, err)
	}
	return nil
}
