// Package runregistry publishes a heartbeat for the currently executing
// query run to Redis, so an operator (or another process) can see which
// runs are in flight without tailing logs. Entirely optional: a Registry
// backed by a nil client is a no-op.
package runregistry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunHeartbeat is a snapshot of one query run's progress.
type RunHeartbeat struct {
	RunID         string
	Origin        string
	Destination   string
	Status        string // "running", "done", "failed"
	SegmentsTotal int
	SegmentsDone  int
	StartedAt     time.Time
	LastHeartbeat time.Time
}

// Registry publishes and lists run heartbeats under a Redis namespace.
type Registry struct {
	redisClient *redis.Client
	namespace   string
}

// New returns a Registry. A nil redisClient makes every method a no-op,
// matching the rest of this repo's "degrade when Redis isn't configured"
// convention.
func New(redisClient *redis.Client, namespace string) *Registry {
	return &Registry{redisClient: redisClient, namespace: namespace}
}

func (r *Registry) runsKey() string {
	return fmt.Sprintf("run_registry:%s:runs", r.namespace)
}

func (r *Registry) metaKey(runID string) string {
	return fmt.Sprintf("run_registry:%s:run:%s", r.namespace, runID)
}

// Publish writes the heartbeat and refreshes its TTL. Safe to call on a
// nil-client Registry or a nil Registry.
func (r *Registry) Publish(ctx context.Context, hb RunHeartbeat, ttl time.Duration) error {
	if r == nil || r.redisClient == nil {
		return nil
	}
	if hb.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if ttl <= 0 {
		ttl = 45 * time.Second
	}

	now := time.Now().UTC()
	if hb.StartedAt.IsZero() {
		hb.StartedAt = now
	}
	if hb.LastHeartbeat.IsZero() {
		hb.LastHeartbeat = now
	}

	pipe := r.redisClient.Pipeline()
	pipe.ZAdd(ctx, r.runsKey(), redis.Z{
		Score:  float64(hb.LastHeartbeat.Unix()),
		Member: hb.RunID,
	})
	pipe.HSet(
		ctx,
		r.metaKey(hb.RunID),
		"run_id", hb.RunID,
		"origin", hb.Origin,
		"destination", hb.Destination,
		"status", hb.Status,
		"segments_total", strconv.Itoa(hb.SegmentsTotal),
		"segments_done", strconv.Itoa(hb.SegmentsDone),
		"started_at", strconv.FormatInt(hb.StartedAt.Unix(), 10),
		"last_heartbeat", strconv.FormatInt(hb.LastHeartbeat.Unix(), 10),
	)
	pipe.Expire(ctx, r.metaKey(hb.RunID), ttl*3)
	pipe.ZRemRangeByScore(ctx, r.runsKey(), "0", strconv.FormatInt(now.Add(-ttl*10).Unix(), 10))

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// ListActive returns every run heartbeated within the last `within`
// duration, most recent first.
func (r *Registry) ListActive(ctx context.Context, within time.Duration, limit int64) ([]RunHeartbeat, error) {
	if r == nil || r.redisClient == nil {
		return []RunHeartbeat{}, nil
	}
	if within <= 0 {
		within = 45 * time.Second
	}
	if limit <= 0 {
		limit = 100
	}

	now := time.Now().UTC()
	zs, err := r.redisClient.ZRevRangeByScoreWithScores(ctx, r.runsKey(), &redis.ZRangeBy{
		Max:    strconv.FormatInt(now.Unix(), 10),
		Min:    strconv.FormatInt(now.Add(-within).Unix(), 10),
		Offset: 0,
		Count:  limit,
	}).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	if len(zs) == 0 {
		return []RunHeartbeat{}, nil
	}

	pipe := r.redisClient.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(zs))
	order := make([]string, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok || id == "" {
			continue
		}
		cmds[id] = pipe.HGetAll(ctx, r.metaKey(id))
		order = append(order, id)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	out := make([]RunHeartbeat, 0, len(order))
	for _, id := range order {
		m := cmds[id].Val()
		hb := RunHeartbeat{
			RunID:       id,
			Origin:      m["origin"],
			Destination: m["destination"],
			Status:      m["status"],
		}
		if v, err := strconv.Atoi(m["segments_total"]); err == nil {
			hb.SegmentsTotal = v
		}
		if v, err := strconv.Atoi(m["segments_done"]); err == nil {
			hb.SegmentsDone = v
		}
		if v, err := strconv.ParseInt(m["started_at"], 10, 64); err == nil {
			hb.StartedAt = time.Unix(v, 0).UTC()
		}
		if v, err := strconv.ParseInt(m["last_heartbeat"], 10, 64); err == nil {
			hb.LastHeartbeat = time.Unix(v, 0).UTC()
		}
		if hb.Status == "" {
			hb.Status = "running"
		}
		out = append(out, hb)
	}
	return out, nil
}
