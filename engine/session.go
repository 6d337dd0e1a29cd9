// Package engine is the top-level orchestrator: it wires route
// classification, segment-query planning, the two-phase scheduler,
// payload parsing, route enumeration, and report rendering into the
// single Run entry point, grounded on segment_query.py's
// SegmentQueryEngine.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gilby125/go-home-router/config"
	"github.com/gilby125/go-home-router/enumerate"
	"github.com/gilby125/go-home-router/pkg/logger"
	"github.com/gilby125/go-home-router/pkg/runregistry"
	"github.com/gilby125/go-home-router/provider"
	"github.com/gilby125/go-home-router/rank"
	"github.com/gilby125/go-home-router/route"
	"github.com/gilby125/go-home-router/scheduler"
	"github.com/gilby125/go-home-router/segment"
	"github.com/gilby125/go-home-router/stationcache"
)

// RouteInfo is a read-only snapshot of the classifier's output, cached
// on the Session for a caller to display before segment queries even
// run — ported from segment_query.py's get_smart_hub_cities/
// get_route_info cache, which has no place in spec.md's data model.
type RouteInfo struct {
	RouteType       route.Type
	IsInternational bool
	HubCount        int
	Hubs            []string
	TipMessage      string
}

// Options parameterizes one Run call. ExcludeDirect defaults to false
// (direct queries included) so the zero Options value is the common
// case.
type Options struct {
	Date          time.Time
	Filter        segment.Filter
	MaxHubs       int
	UseIntlHubs   bool
	ExcludeDirect bool

	OnProgress scheduler.ProgressFunc
	OnLog      scheduler.LogFunc
	Cancel     *scheduler.CancelToken
}

// Result is everything a Run call produces: the computed plans, the
// rendered report, and the raw per-segment results for FormatLegacy.
type Result struct {
	RunID   string
	Routes  []enumerate.Plan
	Report  string
	Results map[string]segment.Result
	Info    RouteInfo
}

// Session is one engine run's scoped state: its own station-code cache
// and a uuid identifying it in logs and the run registry. A Session
// lives for exactly one Run call.
type Session struct {
	ID          string
	Origin      string
	Destination string

	routeConfig     config.RouteConfig
	schedulerConfig config.SchedulerConfig
	providerConfig  config.ProviderConfig

	flightGateway provider.ToolCaller
	trainGateway  provider.ToolCaller
	registry      *runregistry.Registry
	log           *logger.Logger

	stations *stationcache.Cache

	routeInfo     RouteInfo
	haveRouteInfo bool
}

// NewSession starts a new run session for (origin, destination).
// flightGateway/trainGateway/registry may be nil; see scheduler.New and
// runregistry.Registry for their respective no-op behaviors.
func NewSession(origin, destination string, cfg *config.Config, flightGateway, trainGateway provider.ToolCaller, registry *runregistry.Registry, log *logger.Logger) *Session {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}
	id := uuid.NewString()
	return &Session{
		ID:              id,
		Origin:          origin,
		Destination:     destination,
		routeConfig:     cfg.RouteConfig,
		schedulerConfig: cfg.SchedulerConfig,
		providerConfig:  cfg.ProviderConfig,
		flightGateway:   flightGateway,
		trainGateway:    trainGateway,
		registry:        registry,
		log:             log.WithRun(id),
		stations:        stationcache.New(),
	}
}

// RouteInfo returns the classifier snapshot cached by the most recent
// Run call on this session, or false if Run hasn't been called yet.
func (s *Session) RouteInfo() (RouteInfo, bool) {
	return s.routeInfo, s.haveRouteInfo
}

// Run classifies the route, builds and executes the segment queries,
// parses the replies, enumerates feasible plans, and renders the
// report — segment_query.py's top-level flow end to end.
func (s *Session) Run(ctx context.Context, opts Options) (Result, error) {
	maxHubs := opts.MaxHubs
	if maxHubs <= 0 {
		maxHubs = s.routeConfig.MaxHubs
	}

	classified := route.Classify(s.Origin, s.Destination, maxHubs, toRouteFilter(opts.Filter), opts.UseIntlHubs)
	s.routeInfo = RouteInfo{
		RouteType:       classified.RouteType,
		IsInternational: classified.RouteType != route.Domestic,
		HubCount:        len(classified.Hubs),
		Hubs:            classified.Hubs,
		TipMessage:      classified.Tip,
	}
	s.haveRouteInfo = true

	queries := segment.BuildQueries(s.Origin, s.Destination, opts.Date, classified.Hubs, !opts.ExcludeDirect, opts.Filter)

	sched := scheduler.New(s.providerConfig, s.schedulerConfig, s.flightGateway, s.trainGateway, s.stations, s.registry, s.log)
	results, err := sched.Execute(ctx, scheduler.RunOptions{
		RunID:       s.ID,
		Origin:      s.Origin,
		Destination: s.Destination,
		Queries:     queries,
		OnProgress:  opts.OnProgress,
		OnLog:       opts.OnLog,
		Cancel:      opts.Cancel,
	})
	if err != nil {
		return Result{}, err
	}

	parsed := enumerate.ParseSegments(results)
	routes := enumerate.CalculateAllRoutes(parsed, s.Origin, s.Destination, classified.Hubs, opts.Date, enumerate.Config{
		AccommodationEnabled:        s.routeConfig.AccommodationEnabled,
		AccommodationThresholdHours: s.routeConfig.AccommodationThresholdHours,
	})

	report := rank.Format(routes, s.Origin, s.Destination, opts.Date.Format("2006-01-02"))

	return Result{
		RunID:   s.ID,
		Routes:  routes,
		Report:  report,
		Results: results,
		Info:    s.routeInfo,
	}, nil
}

func toRouteFilter(f segment.Filter) route.Filter {
	switch f {
	case segment.FilterFlight:
		return route.FilterFlight
	case segment.FilterTrain:
		return route.FilterTrain
	default:
		return route.FilterAll
	}
}

// Run is the convenience, session-less entry point for a single
// one-off query, matching spec.md's top-level Run(ctx, origin,
// destination, date, Options) (Result, error) signature.
func Run(ctx context.Context, origin, destination string, cfg *config.Config, flightGateway, trainGateway provider.ToolCaller, registry *runregistry.Registry, log *logger.Logger, opts Options) (Result, error) {
	session := NewSession(origin, destination, cfg, flightGateway, trainGateway, registry, log)
	return session.Run(ctx, opts)
}
