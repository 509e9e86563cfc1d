package cachemanager

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zjrosen/glint/internal/log"
)

const DefaultLRUSize = 1024

// LRUCacheManager is a size-bounded cache. TTLs are accepted for interface
// compatibility and ignored; entries leave only by eviction or Delete.
type LRUCacheManager[K comparable, V any] struct {
	useCase string
	cache   *lru.Cache[K, V]
}

// NewLRUCacheManager creates a cache holding at most size entries.
func NewLRUCacheManager[K comparable, V any](useCase string, size int) (*LRUCacheManager[K, V], error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	cache, err := lru.NewWithEvict(size, func(key K, _ V) {
		log.Debug(log.CatCache, "evicted", "cache", useCase, "key", key)
	})
	if err != nil {
		return nil, err
	}
	return &LRUCacheManager[K, V]{useCase: useCase, cache: cache}, nil
}

func (c *LRUCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	v, ok := c.cache.Get(key)
	if ok {
		log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	}
	return v, ok
}

// GetWithRefresh marks the entry as recently used.
func (c *LRUCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, _ time.Duration) (V, bool) {
	return c.Get(ctx, key)
}

func (c *LRUCacheManager[K, V]) Set(ctx context.Context, key K, value V, _ time.Duration) {
	c.cache.Add(key, value)
}

func (c *LRUCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Remove(key)
	}
	return nil
}

func (c *LRUCacheManager[K, V]) Flush(ctx context.Context) error {
	c.cache.Purge()
	return nil
}

func (c *LRUCacheManager[K, V]) Len() int {
	return c.cache.Len()
}
