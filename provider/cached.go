package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gilby125/go-home-router/pkg/cache"
)

// CachedGateway decorates a ToolCaller with a short-TTL Redis cache keyed
// by tool name plus flattened arguments. This is strictly an
// optimisation: engine correctness never depends on it, and a nil
// underlying cache (Redis unconfigured) makes every call pass straight
// through.
type CachedGateway struct {
	inner ToolCaller
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedGateway wraps inner with c. Pass a nil c to disable caching
// entirely (the wrapper becomes a transparent pass-through).
func NewCachedGateway(inner ToolCaller, c cache.Cache, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = cache.ShortTTL
	}
	return &CachedGateway{inner: inner, cache: c, ttl: ttl}
}

func (g *CachedGateway) CallTool(ctx context.Context, name string, args map[string]any, timeout time.Duration) (string, error) {
	if g.cache == nil {
		return g.inner.CallTool(ctx, name, args, timeout)
	}

	key := cache.ToolCallKey(name, flattenArgs(args))

	if cached, err := g.cache.Get(ctx, key); err == nil {
		return string(cached), nil
	}

	result, err := g.inner.CallTool(ctx, name, args, timeout)
	if err != nil {
		return "", err
	}

	_ = g.cache.Set(ctx, key, []byte(result), g.ttl)
	return result, nil
}

func (g *CachedGateway) Running() bool {
	return g.inner.Running()
}

// flattenArgs produces a deterministic string key from a tool-call
// argument map: sorted "k=v" pairs joined by "|".
func flattenArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, "|")
}
