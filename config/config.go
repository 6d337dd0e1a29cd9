package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Environment string
	HTTPConfig  HTTPConfig

	LoggingConfig   LoggingConfig
	ProviderConfig  ProviderConfig
	SchedulerConfig SchedulerConfig
	RouteConfig     RouteConfig
	RedisConfig     RedisConfig
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// HTTPConfig holds the cmd/server HTTP surface configuration.
type HTTPConfig struct {
	Port string
}

// ProviderConfig describes how to launch the two MCP subprocesses that
// back the flight and train tool calls, and the per-tool timeouts of
// spec.md §4.3.
type ProviderConfig struct {
	FlightCommand []string
	TrainCommand  []string

	FlightTimeout  time.Duration
	TrainTimeout   time.Duration
	StationTimeout time.Duration
}

// SchedulerConfig tunes the two-phase query executor (spec.md §4.6).
type SchedulerConfig struct {
	MaxWorkers    int
	WarmupEnabled bool
	WarmupFrom    string
	WarmupTo      string
	WarmupTimeout time.Duration
}

// RouteConfig tunes the enumerator's accommodation pricing and the
// classifier's candidate-pool size.
type RouteConfig struct {
	AccommodationEnabled        bool
	AccommodationThresholdHours int
	MaxHubs                     int
}

// RedisConfig is optional: when Addr is empty, the payload cache and run
// registry degrade to no-ops. Engine correctness never depends on Redis
// being configured (spec.md §6: no persisted state is required).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from environment variables, loading a .env
// file first if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	environment := getEnv("ENVIRONMENT", "development")

	httpConfig := HTTPConfig{
		Port: getEnv("PORT", "8080"),
	}

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	providerConfig := ProviderConfig{
		FlightCommand:  getCommand("FLIGHT_MCP_COMMAND", []string{"flight-ticket-mcp"}),
		TrainCommand:   getCommand("TRAIN_MCP_COMMAND", []string{"train-ticket-mcp"}),
		FlightTimeout:  getDuration("FLIGHT_QUERY_TIMEOUT", 120*time.Second),
		TrainTimeout:   getDuration("TRAIN_QUERY_TIMEOUT", 60*time.Second),
		StationTimeout: getDuration("STATION_LOOKUP_TIMEOUT", 30*time.Second),
	}

	schedulerConfig := SchedulerConfig{
		MaxWorkers:    getInt("SCHEDULER_MAX_WORKERS", 15),
		WarmupEnabled: getBool("SCHEDULER_WARMUP_ENABLED", true),
		WarmupFrom:    getEnv("SCHEDULER_WARMUP_FROM", "北京"),
		WarmupTo:      getEnv("SCHEDULER_WARMUP_TO", "上海"),
		WarmupTimeout: getDuration("SCHEDULER_WARMUP_TIMEOUT", 150*time.Second),
	}

	routeConfig := RouteConfig{
		AccommodationEnabled:        getBool("ROUTE_ACCOMMODATION_ENABLED", true),
		AccommodationThresholdHours: getInt("ROUTE_ACCOMMODATION_THRESHOLD_HOURS", 6),
		MaxHubs:                     getInt("ROUTE_MAX_HUBS", 15),
	}

	redisConfig := RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getInt("REDIS_DB", 0),
	}

	return &Config{
		Environment:     environment,
		HTTPConfig:      httpConfig,
		LoggingConfig:   loggingConfig,
		ProviderConfig:  providerConfig,
		SchedulerConfig: schedulerConfig,
		RouteConfig:     routeConfig,
		RedisConfig:     redisConfig,
	}, nil
}

// TestConfig returns configuration suitable for unit tests: no Redis
// address (payload cache and run registry run as no-ops), a small worker
// pool, and warm-up disabled.
func TestConfig() *Config {
	return &Config{
		Environment: "test",
		HTTPConfig:  HTTPConfig{Port: "0"},
		LoggingConfig: LoggingConfig{
			Level:  "debug",
			Format: "text",
		},
		ProviderConfig: ProviderConfig{
			FlightCommand:  []string{"flight-ticket-mcp"},
			TrainCommand:   []string{"train-ticket-mcp"},
			FlightTimeout:  120 * time.Second,
			TrainTimeout:   60 * time.Second,
			StationTimeout: 30 * time.Second,
		},
		SchedulerConfig: SchedulerConfig{
			MaxWorkers:    4,
			WarmupEnabled: false,
			WarmupFrom:    "北京",
			WarmupTo:      "上海",
			WarmupTimeout: 150 * time.Second,
		},
		RouteConfig: RouteConfig{
			AccommodationEnabled:        true,
			AccommodationThresholdHours: 6,
			MaxHubs:                     15,
		},
		RedisConfig: RedisConfig{},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getCommand(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	return strings.Fields(raw)
}
