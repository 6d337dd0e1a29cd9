package provider

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/go-home-router/pkg/cache"
)

type fakeCaller struct {
	calls int
	reply string
	err   error
}

func (f *fakeCaller) CallTool(ctx context.Context, name string, args map[string]any, timeout time.Duration) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeCaller) Running() bool { return true }

func newTestRedisCache(t *testing.T) cache.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisCache(client, "test")
}

func TestCachedGatewaySecondCallHitsCache(t *testing.T) {
	fc := &fakeCaller{reply: `{"tickets":[]}`}
	g := NewCachedGateway(fc, newTestRedisCache(t), time.Minute)

	args := map[string]any{"fromStation": "北京南", "toStation": "上海虹桥", "date": "2026-08-01"}

	v1, err := g.CallTool(context.Background(), "get-tickets", args, time.Second)
	require.NoError(t, err)
	v2, err := g.CallTool(context.Background(), "get-tickets", args, time.Second)
	require.NoError(t, err)

	require.Equal(t, v1, v2)
	require.Equal(t, 1, fc.calls, "second call should be served from cache")
}

func TestCachedGatewayWithNilCachePassesThrough(t *testing.T) {
	fc := &fakeCaller{reply: "payload"}
	g := NewCachedGateway(fc, nil, time.Minute)

	args := map[string]any{"a": 1}
	_, err := g.CallTool(context.Background(), "search_flights", args, time.Second)
	require.NoError(t, err)
	_, err = g.CallTool(context.Background(), "search_flights", args, time.Second)
	require.NoError(t, err)

	require.Equal(t, 2, fc.calls, "nil cache must never short-circuit the inner call")
}

func TestFlattenArgsIsOrderIndependent(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1}
	c := map[string]any{"a": 1, "b": 2}
	require.Equal(t, flattenArgs(a), flattenArgs(c))
}
