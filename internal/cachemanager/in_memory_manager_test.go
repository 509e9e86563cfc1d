package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type renderEntry struct {
	HTML     string
	Segments int
}

func newRenderCache[V any]() *InMemoryCacheManager[string, V] {
	return NewInMemoryCacheManager[string, V]("render", DefaultExpiration, DefaultCleanupInterval)
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		newRenderCache[string]()
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := newRenderCache[renderEntry]()
	entry := renderEntry{HTML: `<span class="hl-keyword">if</span>`, Segments: 1}
	cache.Set(context.Background(), "fp:abc", entry, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "fp:abc")
	require.True(t, ok)
	require.Equal(t, entry, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := newRenderCache[string]()

	got, ok := cache.Get(context.Background(), "fp:missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := newRenderCache[string]()

	cache.cache.Set("fp:abc", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "fp:abc")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := newRenderCache[string]()
	cache.Set(context.Background(), "fp:abc", "html", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "fp:abc")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := newRenderCache[string]()

	_, ok := cache.GetWithRefresh(context.Background(), "fp:abc", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "fp:abc", "html", 20*time.Millisecond)
	got, ok := cache.GetWithRefresh(context.Background(), "fp:abc", time.Hour)
	require.True(t, ok)
	require.Equal(t, "html", got)

	time.Sleep(40 * time.Millisecond)
	_, ok = cache.Get(context.Background(), "fp:abc")
	require.True(t, ok, "refresh extends the expiry")
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := newRenderCache[string]()
	require.NoError(t, cache.Delete(context.Background()))

	cache.Set(context.Background(), "fp:abc", "html", DefaultExpiration)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Delete(context.Background(), "fp:abc"))

	_, ok := cache.Get(context.Background(), "fp:abc")
	require.False(t, ok)
	require.Equal(t, 0, cache.Len())
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newRenderCache[string]()
	cache.Set(context.Background(), "a", "1", DefaultExpiration)
	cache.Set(context.Background(), "b", "2", DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	require.Equal(t, 0, cache.Len())
}
