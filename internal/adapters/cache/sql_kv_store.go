package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLKVStore implements ports.KVStore on the kv_cache Postgres table.
// It is the fallback when no Redis instance is configured; expiry is
// enforced at read time via expires_at.
type SQLKVStore struct {
	db *sql.DB
}

func NewSQLKVStore(db *sql.DB) *SQLKVStore {
	return &SQLKVStore{db: db}
}

func (s *SQLKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `
		SELECT value
		FROM kv_cache
		WHERE key = $1
		  AND (expires_at IS NULL OR expires_at > now())
	`

	var value string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sql kv get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLKVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const q = `
		INSERT INTO kv_cache (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`

	var expiresAt interface{}
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if _, err := s.db.ExecContext(ctx, q, key, value, expiresAt); err != nil {
		return fmt.Errorf("sql kv set %q: %w", key, err)
	}
	return nil
}

func (s *SQLKVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_cache WHERE key = $1`, key); err != nil {
		return fmt.Errorf("sql kv delete %q: %w", key, err)
	}
	return nil
}
