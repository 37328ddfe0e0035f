package cache

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when a key is absent or expired.
// Backends normalize their own miss errors to this one.
var ErrCacheMiss = errors.New("cache: miss")

// CacheService is a byte-oriented key-value store with per-entry TTLs.
// The result store composes it; nothing else writes through it.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
