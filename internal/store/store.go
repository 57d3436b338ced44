// Package store provides durable local persistence for the console:
// the session token and a handful of console settings, scoped to this
// application only.
package store

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/SohamKamathi18/synaphack/internal/errors"
)

// ErrNotFound is returned when a setting does not exist.
var ErrNotFound error = apperrors.NotFound("setting not found")

// tokenKey is the single well-known key the session token lives under.
const tokenKey = "auth_token"

// Store is a sqlite-backed key-value store.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the store at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// GetSetting returns the value for key, or ErrNotFound.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting stores the value for key, overwriting any prior value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value)
	return err
}

// DeleteSetting removes a setting. Deleting an absent key is a no-op.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}

// SaveToken stores the session token, overwriting any prior value.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.SetSetting(ctx, tokenKey, token)
}

// LoadToken returns the persisted session token, or "" if absent.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	token, err := s.GetSetting(ctx, tokenKey)
	if err == ErrNotFound {
		return "", nil
	}
	return token, err
}

// ClearToken removes any persisted session token. Idempotent.
func (s *Store) ClearToken(ctx context.Context) error {
	return s.DeleteSetting(ctx, tokenKey)
}
