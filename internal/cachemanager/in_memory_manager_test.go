package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type cachedResult struct {
	Names []string
}

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, cachedResult]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "go", cachedResult{Names: []string{"Go"}}, DefaultExpiration)

	got, ok := cache.Get(ctx, "go")
	require.True(t, ok)
	require.Equal(t, []string{"Go"}, got.Names)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "short", "lived", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	_, ok := cache.Get(ctx, "short")
	require.False(t, ok)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "a", 1, NoExpiration)
	cache.Set(ctx, "b", 2, NoExpiration)
	cache.Set(ctx, "c", 3, NoExpiration)

	cache.Delete(ctx, "a")
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 2, cache.Len())

	cache.Flush(ctx)
	require.Equal(t, 0, cache.Len())
}

func TestReadThroughCache_ComputesOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	rt := NewReadThroughCache[string, int, string](
		NewInMemoryCacheManager[string, int]("len", DefaultExpiration, DefaultCleanupInterval),
		NoExpiration,
		func(s string) int {
			calls++
			return len(s)
		},
	)

	require.Equal(t, 6, rt.Get(ctx, "python", "python"))
	require.Equal(t, 6, rt.Get(ctx, "python", "python"))
	require.Equal(t, 1, calls)
}
