package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type supplierView struct {
	Names []string `json:"names"`
}

func newRedisCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisCache(context.Background(), "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func backends(t *testing.T) map[string]cache.ViewCache {
	redisCache, _ := newRedisCache(t)
	return map[string]cache.ViewCache{
		"redis":  redisCache,
		"memory": cache.NewMemoryCache(100, time.Minute),
	}
}

func TestViewCache_RoundTripAndInvalidate(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, c.Set(ctx, "tenant-a", "suppliers", "p1", supplierView{Names: []string{"Acme"}}))

			var got supplierView
			found, err := c.Get(ctx, "tenant-a", "suppliers", "p1", &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []string{"Acme"}, got.Names)

			require.NoError(t, c.Invalidate(ctx, "tenant-a", "suppliers"))

			found, err = c.Get(ctx, "tenant-a", "suppliers", "p1", &got)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestViewCache_TenantsDoNotShareEntries(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, c.Set(ctx, "tenant-a", "customers", "p1", supplierView{Names: []string{"secret"}}))

			var got supplierView
			found, err := c.Get(ctx, "tenant-b", "customers", "p1", &got)
			require.NoError(t, err)
			assert.False(t, found)

			// Invalidating another tenant leaves tenant-a's view intact.
			require.NoError(t, c.Invalidate(ctx, "tenant-b", "customers"))
			found, err = c.Get(ctx, "tenant-a", "customers", "p1", &got)
			require.NoError(t, err)
			assert.True(t, found)
		})
	}
}

func TestViewCache_RequiresTenant(t *testing.T) {
	c := cache.NewMemoryCache(10, time.Minute)
	_, err := c.Get(context.Background(), "", "suppliers", "k", &supplierView{})
	assert.ErrorIs(t, err, cache.ErrInvalidKey)
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "tenant-a", cache.View("sale", "s-1"), "", supplierView{}))

	mr.FastForward(2 * time.Minute)

	found, err := c.Get(ctx, "tenant-a", cache.View("sale", "s-1"), "", &supplierView{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := cache.NewRedisCache(context.Background(), "invalid://url", time.Minute)
	assert.Error(t, err)
}
