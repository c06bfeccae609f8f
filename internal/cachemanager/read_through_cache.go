package cachemanager

import (
	"context"
	"time"

	"github.com/zjrosen/skillboard/internal/log"
)

// ReadThroughCache computes a value with fn on a miss and remembers it.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache CacheManager[K, V]
	fn    func(input I) V
	ttl   time.Duration
}

// NewReadThroughCache wraps fn with cache.
func NewReadThroughCache[K ~string, V any, I any](cache CacheManager[K, V], ttl time.Duration, fn func(input I) V) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, fn: fn, ttl: ttl}
}

// Get returns the cached value for key, computing it from input on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I) V {
	if value, ok := r.cache.Get(ctx, key); ok {
		log.Debug(log.CatCache, "cache hit", "key", key)
		return value
	}
	value := r.fn(input)
	r.cache.Set(ctx, key, value, r.ttl)
	return value
}
