// Package cache provides pluggable byte caches for fetched asset content.
//
// Backends:
//   - FileCache: file-based, for CLI usage (~/.cache/assetforge/)
//   - MemoryCache: in-process, for development and tests
//   - RedisCache: Redis-backed, for multi-instance deployments
//   - NullCache: no-op, for disabling caching
//
// All backends store opaque byte payloads under string keys with an
// optional TTL. Keys are hashed by the backends that need filesystem-safe
// names, so arbitrary strings (URLs included) are valid keys.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// found and fresh; expired or missing entries return (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
