// Package cache provides TTL caching for venue metadata that changes rarely,
// such as perpetual pair listings.
package cache

import "time"

// Cache is the interface for caching venue metadata.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(key string) (any, bool)

	// Set stores a value in the cache with a TTL.
	Set(key string, value any, ttl time.Duration) bool

	// Delete removes a value from the cache.
	Delete(key string)

	// Close closes the cache and releases resources.
	Close()
}
