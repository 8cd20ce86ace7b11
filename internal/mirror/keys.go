package mirror

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"
)

// ErrKeyNotFound indicates the presented API key is unknown.
var ErrKeyNotFound = errors.New("api key not found")

// Credentials identify the account behind an API key.
type Credentials struct {
	CompanyID string
	UserID    string
}

// HashKey returns the stored digest of a raw API key.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ResolveAPIKey looks up the credentials for a raw API key and stamps its
// last-used time.
func (db *DB) ResolveAPIKey(ctx context.Context, raw string) (Credentials, error) {
	hash := HashKey(raw)

	var creds Credentials
	err := db.QueryRowContext(ctx,
		`SELECT company_id, user_id FROM api_keys WHERE key_hash = ?`, hash).
		Scan(&creds.CompanyID, &creds.UserID)
	if err == sql.ErrNoRows {
		return Credentials{}, ErrKeyNotFound
	}
	if err != nil {
		return Credentials{}, err
	}

	// Best effort; a failed stamp must not block authentication.
	_, _ = db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash)

	return creds, nil
}

// InsertAPIKey registers a raw API key for an account.
func (db *DB) InsertAPIKey(ctx context.Context, raw, companyID, userID, description string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, company_id, user_id, description) VALUES (?, ?, ?, ?)`,
		HashKey(raw), companyID, userID, description)
	return err
}
