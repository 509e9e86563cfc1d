package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLRUCacheManager_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache, err := NewLRUCacheManager[string, string]("render", 2)
	require.NoError(t, err)

	cache.Set(ctx, "a", "1", time.Minute)
	cache.Set(ctx, "b", "2", time.Minute)
	_, ok := cache.Get(ctx, "a") // a is now most recent
	require.True(t, ok)
	cache.Set(ctx, "c", "3", time.Minute)

	_, ok = cache.Get(ctx, "b")
	require.False(t, ok, "b should have been evicted")
	require.Equal(t, 2, cache.Len())
}

func TestLRUCacheManager_DefaultSize(t *testing.T) {
	cache, err := NewLRUCacheManager[string, int]("render", 0)
	require.NoError(t, err)

	for i := range DefaultLRUSize + 10 {
		cache.Set(context.Background(), string(rune('a'+i%26))+string(rune(i)), i, 0)
	}
	require.Equal(t, DefaultLRUSize, cache.Len())
}

func TestLRUCacheManager_RefreshDeleteFlush(t *testing.T) {
	ctx := context.Background()
	cache, err := NewLRUCacheManager[string, string]("render", 2)
	require.NoError(t, err)

	_, ok := cache.GetWithRefresh(ctx, "a", time.Hour)
	require.False(t, ok)

	cache.Set(ctx, "a", "1", 0)
	cache.Set(ctx, "b", "2", 0)

	v, ok := cache.GetWithRefresh(ctx, "a", time.Hour)
	require.True(t, ok)
	require.Equal(t, "1", v)

	// a was used last, so b is the eviction victim.
	cache.Set(ctx, "c", "3", 0)
	_, ok = cache.Get(ctx, "b")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok = cache.Get(ctx, "a")
	require.False(t, ok)

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}

func TestCacheManagers_SatisfyInterface(t *testing.T) {
	var _ CacheManager[string, string] = newRenderCache[string]()
	lruCache, err := NewLRUCacheManager[string, string]("render", 1)
	require.NoError(t, err)
	var _ CacheManager[string, string] = lruCache
}
