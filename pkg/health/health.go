package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthReport represents the overall health of the application
type HealthReport struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// RunningChecker probes whether an MCP gateway subprocess is alive.
// `provider.MCPGateway` satisfies this without health importing provider.
type RunningChecker interface {
	Running() bool
}

// ProviderChecker checks whether an MCP gateway (flight or train) is
// running, per spec.md §4.3's "running: bool" contract member.
type ProviderChecker struct {
	Gateway RunningChecker
	Name    string
}

func (c *ProviderChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{
		Name:      c.Name,
		Timestamp: start,
		Details:   make(map[string]string),
	}

	if c.Gateway == nil || !c.Gateway.Running() {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("%s MCP gateway is not running", c.Name)
	} else {
		check.Status = StatusUp
		check.Message = fmt.Sprintf("%s MCP gateway is running", c.Name)
	}

	check.Duration = time.Since(start)
	return check
}

// RedisChecker checks Redis connectivity. Redis is optional (see
// config.RedisConfig); callers only register this when a Redis address
// is configured.
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{
		Name:      c.Name,
		Timestamp: start,
		Details:   make(map[string]string),
	}

	pong, err := c.Client.Ping(ctx).Result()
	duration := time.Since(start)
	check.Duration = duration

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Redis connection failed: %v", err)
		check.Details["error"] = err.Error()
	} else {
		check.Status = StatusUp
		check.Message = "Redis connection successful"
		check.Details["ping_response"] = pong
	}

	return check
}

// HealthChecker orchestrates multiple health checks
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		checkers:  make([]Checker, 0),
		version:   version,
		startTime: time.Now(),
	}
}

// AddChecker adds a health checker
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

// CheckHealth performs all registered checks
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	checks := make(map[string]Check)
	overallStatus := StatusUp

	for _, checker := range h.checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check
		if check.Status == StatusDown {
			overallStatus = StatusDown
		}
	}

	return HealthReport{
		Status:    overallStatus,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}

// CheckReadiness restricts the report to the checkers that gate whether
// the service should receive traffic: the two MCP gateways and Redis.
func (h *HealthChecker) CheckReadiness(ctx context.Context) HealthReport {
	readinessCheckers := make([]Checker, 0, len(h.checkers))
	for _, checker := range h.checkers {
		switch checker.(type) {
		case *ProviderChecker, *RedisChecker:
			readinessCheckers = append(readinessCheckers, checker)
		}
	}

	checks := make(map[string]Check)
	overallStatus := StatusUp

	for _, checker := range readinessCheckers {
		check := checker.Check(ctx)
		checks[check.Name] = check
		if check.Status == StatusDown {
			overallStatus = StatusDown
		}
	}

	return HealthReport{
		Status:    overallStatus,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}

// CheckLiveness is a basic "is the application running" check that never
// depends on external collaborators.
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: time.Now(),
			},
		},
		Uptime: time.Since(h.startTime),
	}
}
