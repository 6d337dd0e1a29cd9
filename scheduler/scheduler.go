// Package scheduler is the C6 query scheduler: it drives the provider
// gateways under spec.md's two-phase mixed-concurrency policy, validates
// replies, retries flaky flight replies, and reports progress.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gilby125/go-home-router/config"
	"github.com/gilby125/go-home-router/pkg/logger"
	"github.com/gilby125/go-home-router/pkg/runregistry"
	"github.com/gilby125/go-home-router/provider"
	"github.com/gilby125/go-home-router/segment"
	"github.com/gilby125/go-home-router/stationcache"
)

// errorTokens rejects a reply outright; checked case-insensitively.
// Chinese tokens are matched as-is since strings.ToLower is a no-op on
// them but the slice stays one list for both scripts.
var errorTokens = []string{
	"timeout", "超时",
	"error", "错误",
	"failed", "失败",
	"exception", "异常",
	"cannot", "无法",
	"not found", "未找到",
	"no data", "无数据",
	"查询失败",
}

// positiveMarkers: a valid reply must contain at least one.
var positiveMarkers = []string{
	"flight", "train", "航班", "车次",
	"price", "价格",
	"departure", "arrival", "出发", "到达",
}

// zeroFlightTokens trigger a flight-only retry even though the reply is
// otherwise lexically valid.
var zeroFlightTokens = []string{"找到 0 条航班", "0条航班", "found 0 flights"}

func isValidResponse(data string) bool {
	if data == "" {
		return false
	}
	lower := strings.ToLower(data)
	for _, tok := range errorTokens {
		if strings.Contains(lower, tok) {
			return false
		}
	}
	for _, tok := range positiveMarkers {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func isZeroFlights(data string) bool {
	lower := strings.ToLower(data)
	for _, tok := range zeroFlightTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

const maxFlightAttempts = 3 // 1 original + 2 retries

// ProgressFunc is invoked after each query completes.
type ProgressFunc func(completed, total int, description string)

// LogFunc is an advisory log stream; never required for correctness.
type LogFunc func(msg string)

// CancelToken is a cooperative cancellation flag shared across a run's
// queries. Unlike a context deadline, it doesn't abort in-flight calls —
// it only causes queries not yet started to be skipped.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a live (not-yet-cancelled) token.
func NewCancelToken() *CancelToken { return &CancelToken{} }

// Cancel marks the token cancelled. Safe on a nil receiver.
func (c *CancelToken) Cancel() {
	if c != nil {
		c.cancelled.Store(true)
	}
}

// IsCancelled reports whether Cancel has been called. A nil token is
// never cancelled.
func (c *CancelToken) IsCancelled() bool {
	return c != nil && c.cancelled.Load()
}

// Scheduler executes a run's segment queries against the flight and
// train gateways.
type Scheduler struct {
	providerCfg  config.ProviderConfig
	schedulerCfg config.SchedulerConfig

	flightGateway provider.ToolCaller
	trainGateway  provider.ToolCaller
	stations      *stationcache.Cache
	registry      *runregistry.Registry
	log           *logger.Logger

	warmedUp atomic.Bool
}

// New builds a Scheduler. flightGateway/trainGateway/registry may be nil
// (registry nil-ness degrades to a no-op; a nil gateway fails every query
// of the corresponding mode with a descriptive error rather than
// panicking).
func New(providerCfg config.ProviderConfig, schedulerCfg config.SchedulerConfig, flightGateway, trainGateway provider.ToolCaller, stations *stationcache.Cache, registry *runregistry.Registry, log *logger.Logger) *Scheduler {
	if stations == nil {
		stations = stationcache.New()
	}
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}
	return &Scheduler{
		providerCfg:   providerCfg,
		schedulerCfg:  schedulerCfg,
		flightGateway: flightGateway,
		trainGateway:  trainGateway,
		stations:      stations,
		registry:      registry,
		log:           log,
	}
}

// RunOptions parameterizes one Execute call.
type RunOptions struct {
	RunID       string
	Origin      string
	Destination string
	Queries     []segment.Query
	OnProgress  ProgressFunc
	OnLog       LogFunc
	Cancel      *CancelToken
}

// Execute runs every query in opts.Queries under the two-phase policy
// and returns the results keyed by segmentId. The returned map always
// has one entry per input query (spec.md §4.6: "complete upon return").
func (s *Scheduler) Execute(ctx context.Context, opts RunOptions) (map[string]segment.Result, error) {
	total := len(opts.Queries)
	results := make(map[string]segment.Result, total)
	var mu sync.Mutex
	var completed int32

	progress := func(desc string) {
		n := atomic.AddInt32(&completed, 1)
		if opts.OnProgress != nil {
			opts.OnProgress(int(n), total, desc)
		}
		s.heartbeat(ctx, opts, int(n), total)
	}
	logMsg := func(msg string) {
		if opts.OnLog != nil {
			opts.OnLog(msg)
		}
	}

	var trainQueries, flightQueries []segment.Query
	for _, q := range opts.Queries {
		if q.Mode == segment.Train {
			trainQueries = append(trainQueries, q)
		} else {
			flightQueries = append(flightQueries, q)
		}
	}

	// Phase 1: trains, parallel, pool bounded by MaxWorkers. The pool
	// drains completely before phase 2 starts (spec.md §4.6).
	s.runTrainPool(ctx, opts, trainQueries, &mu, results, progress, logMsg)

	// Optional warm-up, then phase 2: flights, strictly serial.
	if s.schedulerCfg.WarmupEnabled && len(flightQueries) > 0 {
		s.warmupFlightService(ctx, logMsg)
	}
	for _, q := range flightQueries {
		res := s.runFlightQuery(ctx, opts.Cancel, q, logMsg)
		mu.Lock()
		results[q.SegmentID] = res
		mu.Unlock()
		progress(fmt.Sprintf("%s %s->%s", q.Mode, q.FromCity, q.ToCity))
	}

	return results, nil
}

func (s *Scheduler) heartbeat(ctx context.Context, opts RunOptions, done, total int) {
	if s.registry == nil || opts.RunID == "" {
		return
	}
	hbCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.registry.Publish(hbCtx, runregistry.RunHeartbeat{
		RunID:         opts.RunID,
		Origin:        opts.Origin,
		Destination:   opts.Destination,
		Status:        "running",
		SegmentsTotal: total,
		SegmentsDone:  done,
	}, 45*time.Second)
}

func (s *Scheduler) runTrainPool(ctx context.Context, opts RunOptions, queries []segment.Query, mu *sync.Mutex, results map[string]segment.Result, progress func(string), logMsg LogFunc) {
	if len(queries) == 0 {
		return
	}
	maxWorkers := s.schedulerCfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	jobs := make(chan segment.Query)
	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				res := s.runTrainQuery(ctx, opts.Cancel, q, logMsg)
				mu.Lock()
				results[q.SegmentID] = res
				mu.Unlock()
				progress(fmt.Sprintf("%s %s->%s", q.Mode, q.FromCity, q.ToCity))
			}
		}()
	}
	for _, q := range queries {
		jobs <- q
	}
	close(jobs)
	wg.Wait()
}

func cancelledResult(q segment.Query) segment.Result {
	return segment.Result{
		SegmentID: q.SegmentID,
		FromCity:  q.FromCity,
		ToCity:    q.ToCity,
		Mode:      q.Mode,
		Success:   false,
		ErrorMsg:  "cancelled",
	}
}

func (s *Scheduler) runTrainQuery(ctx context.Context, cancel *CancelToken, q segment.Query, logMsg LogFunc) segment.Result {
	if cancel.IsCancelled() {
		return cancelledResult(q)
	}
	start := time.Now()
	result := segment.Result{SegmentID: q.SegmentID, FromCity: q.FromCity, ToCity: q.ToCity, Mode: q.Mode}

	if s.trainGateway == nil {
		result.ErrorMsg = "train service unavailable"
		result.ElapsedSeconds = time.Since(start).Seconds()
		return result
	}

	codes, err := s.stations.Resolve([]string{q.FromCity, q.ToCity}, s.lookupStationCodes(ctx))
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("station code lookup failed: %v", err)
		result.ElapsedSeconds = time.Since(start).Seconds()
		return result
	}
	fromCode, toCode := codes[q.FromCity], codes[q.ToCity]
	if fromCode == "" || toCode == "" {
		result.ErrorMsg = "no station code available"
		result.ElapsedSeconds = time.Since(start).Seconds()
		return result
	}

	timeout := s.providerCfg.TrainTimeout
	data, err := s.trainGateway.CallTool(ctx, "get-tickets", map[string]any{
		"fromStation": fromCode,
		"toStation":   toCode,
		"date":        q.Date.Format("2006-01-02"),
	}, timeout)
	result.ElapsedSeconds = time.Since(start).Seconds()
	if err != nil {
		result.ErrorMsg = err.Error()
		logMsg(fmt.Sprintf("[🚄 %s→%s] 查询失败或超时: %v", q.FromCity, q.ToCity, err))
		return result
	}
	if !isValidResponse(data) {
		result.RawPayload = data
		result.ErrorMsg = "查询失败或超时"
		return result
	}
	result.Success = true
	result.RawPayload = data
	return result
}

func (s *Scheduler) runFlightQuery(ctx context.Context, cancel *CancelToken, q segment.Query, logMsg LogFunc) segment.Result {
	if cancel.IsCancelled() {
		return cancelledResult(q)
	}
	start := time.Now()
	result := segment.Result{SegmentID: q.SegmentID, FromCity: q.FromCity, ToCity: q.ToCity, Mode: q.Mode}

	if s.flightGateway == nil {
		result.ErrorMsg = "机票服务未启动"
		result.ElapsedSeconds = time.Since(start).Seconds()
		return result
	}

	timeout := s.providerCfg.FlightTimeout
	var data string
	var err error
	for attempt := 0; attempt < maxFlightAttempts; attempt++ {
		if cancel.IsCancelled() {
			return cancelledResult(q)
		}
		data, err = s.flightGateway.CallTool(ctx, "searchFlightRoutes", map[string]any{
			"departure_city":   q.FromCity,
			"destination_city": q.ToCity,
			"departure_date":   q.Date.Format("2006-01-02"),
		}, timeout)
		if err != nil {
			if attempt < maxFlightAttempts-1 {
				logMsg(fmt.Sprintf("[✈️ %s→%s] ⚠️ 查询失败，将重试...", q.FromCity, q.ToCity))
				continue
			}
			result.ErrorMsg = "查询失败或超时（已重试2次）"
			break
		}
		if !isValidResponse(data) {
			if attempt < maxFlightAttempts-1 {
				logMsg(fmt.Sprintf("[✈️ %s→%s] ⚠️ 查询失败，将重试...", q.FromCity, q.ToCity))
				continue
			}
			result.RawPayload = data
			result.ErrorMsg = "查询失败或超时（已重试2次）"
			break
		}
		if isZeroFlights(data) {
			if attempt < maxFlightAttempts-1 {
				logMsg(fmt.Sprintf("[✈️ %s→%s] ⚠️ 返回0条航班，将重试...", q.FromCity, q.ToCity))
				continue
			}
			result.RawPayload = data
			result.ErrorMsg = "查询返回0条航班（已重试2次）"
			break
		}
		result.Success = true
		result.RawPayload = data
		if attempt > 0 {
			logMsg(fmt.Sprintf("[✈️ %s→%s] ✅ 重试成功", q.FromCity, q.ToCity))
		}
		break
	}

	result.ElapsedSeconds = time.Since(start).Seconds()
	return result
}

// Warmup exposes the warm-up step for callers outside a run — notably
// pkg/warmup's periodic scheduler, which wants to refresh the session
// on a cron cadence rather than only once per Scheduler lifetime.
func (s *Scheduler) Warmup(ctx context.Context, onLog LogFunc) {
	if onLog == nil {
		onLog = func(string) {}
	}
	s.warmupFlightService(ctx, onLog)
}

// ResetWarmup clears the "already warmed up" flag, so the next Warmup
// or Execute call issues a fresh throwaway query instead of skipping.
func (s *Scheduler) ResetWarmup() {
	s.warmedUp.Store(false)
}

// warmupFlightService issues one throwaway flight query so a human can
// clear any CAPTCHA before the serial phase begins. Failure is
// non-fatal; a successful warm-up is remembered for the scheduler's
// lifetime so later runs on the same session skip it.
func (s *Scheduler) warmupFlightService(ctx context.Context, logMsg LogFunc) {
	if s.warmedUp.Load() {
		logMsg("[预热] 机票服务已预热，跳过")
		return
	}
	if s.flightGateway == nil || !s.flightGateway.Running() {
		logMsg("[预热] 机票服务未启动，跳过预热")
		return
	}

	from, to := s.schedulerCfg.WarmupFrom, s.schedulerCfg.WarmupTo
	date := time.Now().AddDate(0, 0, 1)
	data, err := s.flightGateway.CallTool(ctx, "searchFlightRoutes", map[string]any{
		"departure_city":   from,
		"destination_city": to,
		"departure_date":   date.Format("2006-01-02"),
	}, s.schedulerCfg.WarmupTimeout)
	if err != nil || !isValidResponse(data) {
		logMsg(fmt.Sprintf("[预热] 预热失败: %v", err))
		return
	}
	s.warmedUp.Store(true)
	logMsg("[预热] 机票服务预热成功")
}

// lookupStationCodes adapts the train gateway's station-code tool into
// a stationcache.Lookup. A malformed or error reply degrades to "no
// code for any requested city" rather than propagating an error, since
// a missing code is itself meaningful (spec.md §4.4: empty means
// international / no Chinese station).
func (s *Scheduler) lookupStationCodes(ctx context.Context) stationcache.Lookup {
	return func(cities []string) (map[string]string, error) {
		out := make(map[string]string, len(cities))
		if s.trainGateway == nil {
			return out, nil
		}
		data, err := s.trainGateway.CallTool(ctx, "get-station-code-of-citys", map[string]any{
			"citys": strings.Join(cities, "|"),
		}, s.providerCfg.StationTimeout)
		if err != nil {
			return out, nil
		}
		var parsed map[string]struct {
			StationCode string `json:"station_code"`
		}
		if jsonErr := json.Unmarshal([]byte(data), &parsed); jsonErr != nil {
			return out, nil
		}
		for _, city := range cities {
			out[city] = parsed[city].StationCode
		}
		return out, nil
	}
}
