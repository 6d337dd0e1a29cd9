package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(client, "testprefix")
}

func TestRedisCacheSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, ToolCallKey("get-tickets", "北京|上海|2026-08-01"), []byte(`{"ok":true}`), ShortTTL)
	require.NoError(t, err)

	val, err := c.Get(ctx, ToolCallKey("get-tickets", "北京|上海|2026-08-01"))
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, string(val))
}

func TestRedisCacheMiss(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheDeleteAndExists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	key := StationCodeKey("北京|上海")

	require.NoError(t, c.Set(ctx, key, []byte("PEK|SHH"), time.Minute))

	exists, err := c.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, c.Delete(ctx, key))

	exists, err = c.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCacheManagerGetOrSetExecutesOnMiss(t *testing.T) {
	mgr := NewCacheManager(newTestCache(t))
	ctx := context.Background()
	calls := 0

	fn := func() (interface{}, error) {
		calls++
		return map[string]string{"station_code": "SHH"}, nil
	}

	_, err := mgr.GetOrSet(ctx, "k1", time.Minute, fn)
	require.NoError(t, err)
	_, err = mgr.GetOrSet(ctx, "k1", time.Minute, fn)
	require.NoError(t, err)

	require.Equal(t, 1, calls, "second call should hit the cache, not invoke fn again")
}
