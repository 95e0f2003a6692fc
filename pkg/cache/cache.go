// Package cache stores built layouts and rendered artifacts between runs.
//
// # Backends
//
//   - [NullCache] never stores anything; used when caching is disabled.
//   - [FileCache] keeps one JSON file per entry under a directory; the CLI
//     default.
//   - [RedisCache] shares entries between preview server instances.
//   - [MongoCache] keeps entries in a MongoDB collection with a TTL index.
//
// # Keys
//
// A [Keyer] derives cache keys from content hashes and options, so a layout
// is reused only when both the panel file and the build options match.
// [ScopedKeyer] prefixes every key to isolate namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default lifetimes for cached entries.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
