package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that were already processed
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so a failed request can be retried
	Release(ctx context.Context, key string) error

	Close() error
}

// DefaultIdempotencyTTL is how long payment request keys are remembered
const DefaultIdempotencyTTL = 24 * time.Hour
