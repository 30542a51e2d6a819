package providers

import (
	"context"
)

// CacheProvider defines the interface for byte-level caching operations.
// Used for side caches (geocoding responses); the dataset cache itself is
// an in-process store with its own invalidation rules.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
