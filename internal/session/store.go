package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/draftmill/draftmill-go/internal/models"
)

// Fixed well-known keys for the persisted session values.
const (
	keyToken = "auth_token"
	keyUser  = "user"
)

// Store persists the session token and user record. One Store owns one
// SQLite file; open it once per process and Close when done.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the session database at path, running any
// pending migrations. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Token returns the persisted auth token, or "" when not logged in.
func (s *Store) Token() (string, error) {
	return s.get(keyToken)
}

// SetToken persists the auth token.
func (s *Store) SetToken(token string) error {
	return s.set(keyToken, token)
}

// User returns the cached user record, or nil when none is stored.
func (s *Store) User() (*models.User, error) {
	raw, err := s.get(keyUser)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode stored user record: %w", err)
	}
	return &u, nil
}

// SetUser caches the user record.
func (s *Store) SetUser(u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	return s.set(keyUser, string(raw))
}

// Clear removes the token and user record in one transaction. Clearing an
// already-empty store is a no-op, which keeps invalidation idempotent.
func (s *Store) Clear() error {
	return withBusyRetry(func() error {
		tx, err := s.db.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(context.Background(),
			`DELETE FROM session_values WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := withBusyRetry(func() error {
		return s.db.QueryRowContext(context.Background(),
			`SELECT value FROM session_values WHERE key = ?`, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session value %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	return withBusyRetry(func() error {
		_, err := s.db.ExecContext(context.Background(), `
			INSERT INTO session_values (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to write session value %q: %w", key, err)
		}
		return nil
	})
}
