package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

func (m *mockCache) GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (string, bool) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) Len() int {
	return m.Called().Int(0)
}

type renderInput struct {
	Source string
}

func renderFn(calls *int) func(context.Context, renderInput) (string, error) {
	return func(_ context.Context, in renderInput) (string, error) {
		*calls++
		return "<pre>" + in.Source + "</pre>", nil
	}
}

func TestReadThroughCache_SkipCacheAlwaysLoads(t *testing.T) {
	cache := &mockCache{}
	calls := 0
	rtc := NewReadThroughCache[string, string, renderInput](cache, renderFn(&calls), true)

	got, hit, err := rtc.Lookup(context.Background(), "key", renderInput{Source: "x"}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "<pre>x</pre>", got)

	got, hit, err = rtc.LookupWithRefresh(context.Background(), "key", renderInput{Source: "x"}, time.Minute)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "<pre>x</pre>", got)

	require.Equal(t, 2, calls)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "GetWithRefresh", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_Lookup_Hit(t *testing.T) {
	cache := &mockCache{}
	cache.On("Get", mock.Anything, "key").Return("<cached>", true)
	calls := 0
	rtc := NewReadThroughCache[string, string, renderInput](cache, renderFn(&calls), false)

	got, hit, err := rtc.Lookup(context.Background(), "key", renderInput{Source: "x"}, time.Minute)

	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "<cached>", got)
	require.Zero(t, calls)
	cache.AssertExpectations(t)
}

func TestReadThroughCache_Lookup_MissStores(t *testing.T) {
	cache := &mockCache{}
	cache.On("Get", mock.Anything, "key").Return("", false)
	cache.On("Set", mock.Anything, "key", "<pre>x</pre>", time.Minute).Return()
	calls := 0
	rtc := NewReadThroughCache[string, string, renderInput](cache, renderFn(&calls), false)

	got, hit, err := rtc.Lookup(context.Background(), "key", renderInput{Source: "x"}, time.Minute)

	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "<pre>x</pre>", got)
	require.Equal(t, 1, calls)
	cache.AssertExpectations(t)
}

func TestReadThroughCache_LoaderErrorIsNotCached(t *testing.T) {
	cache := &mockCache{}
	cache.On("Get", mock.Anything, "key").Return("", false)
	cache.On("GetWithRefresh", mock.Anything, "key", time.Minute).Return("", false)
	rtc := NewReadThroughCache[string, string, renderInput](
		cache,
		func(context.Context, renderInput) (string, error) { return "", errors.New("store unavailable") },
		false,
	)

	_, _, err := rtc.Lookup(context.Background(), "key", renderInput{}, time.Minute)
	require.Error(t, err)

	_, _, err = rtc.LookupWithRefresh(context.Background(), "key", renderInput{}, time.Minute)
	require.Error(t, err)

	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_LookupWithRefresh_Hit(t *testing.T) {
	cache := &mockCache{}
	cache.On("GetWithRefresh", mock.Anything, "key", time.Minute).Return("<cached>", true)
	calls := 0
	rtc := NewReadThroughCache[string, string, renderInput](cache, renderFn(&calls), false)

	got, hit, err := rtc.LookupWithRefresh(context.Background(), "key", renderInput{}, time.Minute)

	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "<cached>", got)
	require.Zero(t, calls)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestReadThroughCache_LookupWithRefresh_MissStores(t *testing.T) {
	cache := &mockCache{}
	cache.On("GetWithRefresh", mock.Anything, "key", time.Minute).Return("", false)
	cache.On("Set", mock.Anything, "key", "<pre>x</pre>", time.Minute).Return()
	calls := 0
	rtc := NewReadThroughCache[string, string, renderInput](cache, renderFn(&calls), false)

	got, hit, err := rtc.LookupWithRefresh(context.Background(), "key", renderInput{Source: "x"}, time.Minute)

	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "<pre>x</pre>", got)
	require.Equal(t, 1, calls)
	cache.AssertExpectations(t)
}

func TestReadThroughCache_WithRealCache(t *testing.T) {
	calls := 0
	rtc := NewReadThroughCache[string, string, renderInput](newRenderCache[string](), renderFn(&calls), false)

	for range 3 {
		got, _, err := rtc.Lookup(context.Background(), "fp:x", renderInput{Source: "x"}, time.Minute)
		require.NoError(t, err)
		require.Equal(t, "<pre>x</pre>", got)
	}
	require.Equal(t, 1, calls)
}
