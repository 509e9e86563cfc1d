package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads values through fn on a miss and caches the result.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Lookup returns the cached value for key, loading and caching it through fn
// on a miss. The bool reports whether the value came from the cache.
func (r *ReadThroughCache[K, V, I]) Lookup(ctx context.Context, key K, input I, ttl time.Duration) (V, bool, error) {
	return r.lookup(ctx, key, input, ttl, func() (V, bool) {
		return r.cache.Get(ctx, key)
	})
}

// LookupWithRefresh is Lookup with a sliding expiration: a hit pushes the
// entry's expiry out by ttl again.
func (r *ReadThroughCache[K, V, I]) LookupWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, bool, error) {
	return r.lookup(ctx, key, input, ttl, func() (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThroughCache[K, V, I]) lookup(ctx context.Context, key K, input I, ttl time.Duration, get func() (V, bool)) (V, bool, error) {
	if r.shouldSkipCache {
		value, err := r.fn(ctx, input)
		return value, false, err
	}

	if value, ok := get(); ok {
		return value, true, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, false, err
	}

	r.cache.Set(ctx, key, value, ttl)

	return value, false, nil
}
