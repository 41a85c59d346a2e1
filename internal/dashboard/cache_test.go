package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t, time.Minute)
	ctx := context.Background()

	in := Overview{
		Cadastros:    map[string]EntityCount{"cores": {Total: 12, Ativos: 10}},
		ValorEstoque: 987.5,
		GeradoEm:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Set(ctx, "overview", in))

	var out Overview
	ok, err := cache.Get(ctx, "overview", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)
}

func TestCacheMiss(t *testing.T) {
	cache, _ := testCache(t, time.Minute)

	var out Overview
	ok, err := cache.Get(context.Background(), "overview", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheExpires(t *testing.T) {
	cache, mr := testCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "planning", Planning{}))
	mr.FastForward(2 * time.Second)

	var out Planning
	ok, err := cache.Get(ctx, "planning", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := testCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "overview", Overview{}))
	require.NoError(t, cache.Set(ctx, "planning", Planning{}))
	require.NoError(t, cache.Invalidate(ctx, "overview", "planning"))

	var ov Overview
	ok, err := cache.Get(ctx, "overview", &ov)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "overview", Overview{}))
	var out Overview
	ok, err := cache.Get(ctx, "overview", &out)
	require.NoError(t, err)
	require.False(t, ok)
}
