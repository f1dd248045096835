package cache

import (
	"context"
	"time"
)

// Cache is the port computed artifacts (reconstructed timelines, report
// snapshots) are stored behind. Values are opaque byte slices; callers handle
// their own serialization.
type Cache interface {
	// Get retrieves the value stored under key, or an error when the key is
	// missing or the backend failed.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the value stored under key.
	Delete(ctx context.Context, key string) error

	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
