package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGateway struct{ running bool }

func (f fakeGateway) Running() bool { return f.running }

func TestProviderCheckerUp(t *testing.T) {
	c := &ProviderChecker{Gateway: fakeGateway{running: true}, Name: "flight"}
	check := c.Check(context.Background())
	assert.Equal(t, StatusUp, check.Status)
}

func TestProviderCheckerDown(t *testing.T) {
	c := &ProviderChecker{Gateway: fakeGateway{running: false}, Name: "train"}
	check := c.Check(context.Background())
	assert.Equal(t, StatusDown, check.Status)
}

func TestProviderCheckerNilGateway(t *testing.T) {
	c := &ProviderChecker{Name: "flight"}
	check := c.Check(context.Background())
	assert.Equal(t, StatusDown, check.Status)
}

func TestHealthCheckerAggregatesDown(t *testing.T) {
	hc := NewHealthChecker("1.0.0")
	hc.AddChecker(&ProviderChecker{Gateway: fakeGateway{running: true}, Name: "flight"})
	hc.AddChecker(&ProviderChecker{Gateway: fakeGateway{running: false}, Name: "train"})

	report := hc.CheckHealth(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	assert.Len(t, report.Checks, 2)
}

func TestHealthCheckerLivenessAlwaysUp(t *testing.T) {
	hc := NewHealthChecker("1.0.0")
	hc.AddChecker(&ProviderChecker{Gateway: fakeGateway{running: false}, Name: "flight"})

	report := hc.CheckLiveness(context.Background())
	assert.Equal(t, StatusUp, report.Status)
}

func TestCheckReadinessOnlyIncludesGatedCheckers(t *testing.T) {
	hc := NewHealthChecker("1.0.0")
	hc.AddChecker(&ProviderChecker{Gateway: fakeGateway{running: true}, Name: "flight"})

	report := hc.CheckReadiness(context.Background())
	assert.Len(t, report.Checks, 1)
}
