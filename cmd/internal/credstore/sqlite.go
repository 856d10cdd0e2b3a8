package credstore

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"tracker/cmd/identity"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);
`

// SQLiteStore implements Store over a single SQLite file.
//
// A one-table key-value layout keeps the storage contract a flat keyed map
// while surviving process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the state database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state db path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func put(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value)
	return err
}

// inTx runs fn inside a single transaction so pair writes stay atomic.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Tokens returns the stored credential pair.
func (s *SQLiteStore) Tokens(ctx context.Context) (TokenPair, error) {
	access, err := s.get(ctx, keyAccessToken)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.get(ctx, keyRefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// SetTokens stores both credentials in one transaction.
func (s *SQLiteStore) SetTokens(ctx context.Context, pair TokenPair) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := put(ctx, tx, keyAccessToken, pair.Access); err != nil {
			return err
		}
		return put(ctx, tx, keyRefreshToken, pair.Refresh)
	})
}

// SetAccess replaces only the access token.
func (s *SQLiteStore) SetAccess(ctx context.Context, access string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return put(ctx, tx, keyAccessToken, access)
	})
}

// Clear removes credentials and cached records in one transaction.
// The vault salt survives so a re-login can reuse the existing sealing key.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE k IN (?, ?, ?, ?)`,
		keyAccessToken, keyRefreshToken, keyUser, keyProfile)
	return err
}

// CachedUser returns the hydration copy of the user record, or nil.
func (s *SQLiteStore) CachedUser(ctx context.Context) (*identity.User, error) {
	raw, err := s.get(ctx, keyUser)
	if err != nil || raw == "" {
		return nil, err
	}

	var u identity.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// A corrupt cache entry is not worth failing hydration over.
		return nil, nil
	}
	return &u, nil
}

// SetCachedUser persists the hydration copy of the user record.
func (s *SQLiteStore) SetCachedUser(ctx context.Context, u *identity.User) error {
	if u == nil {
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return put(ctx, tx, keyUser, string(raw))
	})
}

// CachedProfile returns the hydration copy of the profile record, or nil.
func (s *SQLiteStore) CachedProfile(ctx context.Context) (*identity.Profile, error) {
	raw, err := s.get(ctx, keyProfile)
	if err != nil || raw == "" {
		return nil, err
	}

	var p identity.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

// SetCachedProfile persists the hydration copy of the profile record.
func (s *SQLiteStore) SetCachedProfile(ctx context.Context, p *identity.Profile) error {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return put(ctx, tx, keyProfile, string(raw))
	})
}

// VaultSalt returns the persisted sealing salt, or nil when none exists.
// Not part of the Store interface; used only while wiring sealed mode.
func (s *SQLiteStore) VaultSalt(ctx context.Context) ([]byte, error) {
	raw, err := s.get(ctx, keyVaultSalt)
	if err != nil || raw == "" {
		return nil, err
	}
	salt, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("vault salt corrupt: %w", err)
	}
	return salt, nil
}

// SetVaultSalt persists the sealing salt.
func (s *SQLiteStore) SetVaultSalt(ctx context.Context, salt []byte) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return put(ctx, tx, keyVaultSalt, base64.RawStdEncoding.EncodeToString(salt))
	})
}
