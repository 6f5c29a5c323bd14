package ports

import (
	"context"
	"time"
)

// KVStore is an injected key-value persistence boundary with TTL-aware
// reads. Expired entries behave exactly like missing ones.
type KVStore interface {
	// Return the value for key and whether a live (non-expired) entry exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Store value under key for ttl; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Remove key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
