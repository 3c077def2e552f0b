// Package cache stores resize and render results between runs.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: stores nothing; used with --no-cache and in tests
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (HTTP server deployments)
//
// Keys are built by a [Keyer] from a hash of the input scene and the
// options that affect the result, so any change to either is a miss.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is the lifetime of cached entries when none is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Backend names a cache implementation.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend  Backend
	Dir      string // FileCache directory
	RedisURL string // RedisCache address, e.g. redis://localhost:6379/0
}

// Open returns the cache described by cfg. An empty backend means none.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q (want none, file or redis)", cfg.Backend)
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
