package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	perrors "github.com/matzehuels/panetree/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend       string
	Dir           string // file backend; empty means DefaultDir()
	RedisURL      string
	MongoURI      string
	MongoDatabase string
	Retry         RetryPolicy // remote backends; zero means DefaultRetry
}

// DefaultDir returns the per-user cache directory for panetree.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(base, "panetree"), nil
}

// Open creates the cache backend named by opts.Backend. An empty backend
// selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		dir := opts.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		return wrap(NewFileCache(dir))
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidConfig, "redis cache requires redis_url")
		}
		return wrap(NewRedisCache(ctx, opts.RedisURL, opts.retry()))
	case BackendMongo:
		if opts.MongoURI == "" || opts.MongoDatabase == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidConfig, "mongo cache requires mongo_uri and mongo_database")
		}
		return wrap(NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase, opts.retry()))
	}
	return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
}

func (o Options) retry() RetryPolicy {
	if o.Retry == (RetryPolicy{}) {
		return DefaultRetry
	}
	return o.Retry
}

// wrap converts a concrete constructor result to a Cache without leaking a
// typed nil on error.
func wrap[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
