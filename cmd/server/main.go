// Command server starts the HTTP surface over the route-planning
// engine: it launches the flight and train MCP gateways, an optional
// Redis-backed payload cache and run registry, a periodic provider
// warm-up, and the gin API, then waits for SIGINT/SIGTERM to shut down
// gracefully.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gilby125/go-home-router/api"
	"github.com/gilby125/go-home-router/config"
	"github.com/gilby125/go-home-router/pkg/cache"
	"github.com/gilby125/go-home-router/pkg/logger"
	"github.com/gilby125/go-home-router/pkg/runregistry"
	"github.com/gilby125/go-home-router/pkg/warmup"
	"github.com/gilby125/go-home-router/provider"
	"github.com/gilby125/go-home-router/scheduler"
)

// schedulerWarmer adapts *scheduler.Scheduler's LogFunc-typed Warmup to
// warmup.Warmer's plain func(string), since the two packages each define
// their own named function type for the same shape.
type schedulerWarmer struct{ s *scheduler.Scheduler }

func (w schedulerWarmer) Warmup(ctx context.Context, onLog func(string)) {
	w.s.Warmup(ctx, scheduler.LogFunc(onLog))
}

func (w schedulerWarmer) ResetWarmup() {
	w.s.ResetWarmup()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err) // logger isn't up yet
	}

	log := logger.New(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format})
	log.Info("starting go-home-router server", "environment", cfg.Environment, "port", cfg.HTTPConfig.Port)

	ctx := context.Background()

	flightGateway, err := provider.NewMCPGateway(ctx, "flight", cfg.ProviderConfig.FlightCommand, log)
	if err != nil {
		log.Fatal(err, "failed to launch flight provider")
	}
	defer flightGateway.Close()

	trainGateway, err := provider.NewMCPGateway(ctx, "train", cfg.ProviderConfig.TrainCommand, log)
	if err != nil {
		log.Fatal(err, "failed to launch train provider")
	}
	defer trainGateway.Close()

	var redisClient *redis.Client
	var registry *runregistry.Registry
	var flightCaller provider.ToolCaller = flightGateway
	var trainCaller provider.ToolCaller = trainGateway

	if cfg.RedisConfig.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			log.Warn("redis unreachable, payload cache and run registry disabled", "error", err)
			redisClient = nil
		}
	}

	if redisClient != nil {
		payloadCache := cache.NewRedisCache(redisClient, "go_home_router")
		flightCaller = provider.NewCachedGateway(flightGateway, payloadCache, cache.ShortTTL)
		trainCaller = provider.NewCachedGateway(trainGateway, payloadCache, cache.ShortTTL)
		registry = runregistry.New(redisClient, "go_home_router")
	} else {
		registry = runregistry.New(nil, "go_home_router")
	}

	// A dedicated Scheduler instance drives the periodic warm-up; request
	// handlers build their own per-run Scheduler through engine.Session,
	// matching scheduler.New's "cheap to construct" contract.
	warmupScheduler := scheduler.New(cfg.ProviderConfig, cfg.SchedulerConfig, flightCaller, trainCaller, nil, registry, log)
	if cfg.SchedulerConfig.WarmupEnabled {
		warmer := warmup.New(schedulerWarmer{warmupScheduler}, log)
		if err := warmer.Start("0 */4 * * *"); err != nil {
			log.Warn("failed to start warm-up scheduler", "error", err)
		} else {
			defer warmer.Stop()
		}
	}

	router := gin.New()
	api.RegisterRoutes(router, api.Deps{
		Config:        cfg,
		FlightGateway: flightCaller,
		TrainGateway:  trainCaller,
		Registry:      registry,
		Log:           log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPConfig.Port,
		Handler: router,
	}

	go func() {
		log.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("process exited gracefully")
}
