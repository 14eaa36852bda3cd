package querycache

import (
	"context"
	"time"
)

// Store is the persistence backend for cached values.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (nil, false) on miss.
// - Prefix: DeletePrefix removes the key equal to prefix and every key
//   under prefix + Separator; it must not match partial segments.
type Store interface {
	// Get retrieves a stored value. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. TTL<=0 means no caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a stored value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every value whose key falls under the prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
