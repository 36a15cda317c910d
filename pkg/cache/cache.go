// Package cache stores solver results keyed by instance and settings.
//
// Solving the same instance with the same algorithm and tunables always
// yields the same selection, so repeated API requests for one instance can
// be answered from memory. Entries live only as long as the process. Two
// backends are provided:
//
//   - [MemoryCache] keeps a bounded number of entries, used by the API server.
//   - [NullCache] stores nothing; it is the default.
//
// Keys are built with a [Keyer] so callers never assemble key strings by hand:
//
//	key := cache.NewDefaultKeyer().SolutionKey(cache.InstanceHash(in), "dp", settings)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// SolutionKey identifies the result of one algorithm with one set of
	// settings on one instance.
	SolutionKey(instanceHash, algorithm string, settings any) string
}

// DefaultKeyer builds "solution:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolutionKey implements Keyer.
func (DefaultKeyer) SolutionKey(instanceHash, algorithm string, settings any) string {
	return hashKey("solution", instanceHash, algorithm, settings)
}
