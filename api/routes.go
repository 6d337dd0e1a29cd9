package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/go-home-router/pkg/health"
	"github.com/gilby125/go-home-router/pkg/middleware"
)

// RegisterRoutes wires every HTTP route this module exposes onto router.
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.Recovery(deps.Log))

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Encoding, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	healthChecker := health.NewHealthChecker("1.0.0")
	healthChecker.AddChecker(&health.ProviderChecker{Gateway: deps.FlightGateway, Name: "flight_provider"})
	healthChecker.AddChecker(&health.ProviderChecker{Gateway: deps.TrainGateway, Name: "train_provider"})

	router.GET("/health", func(c *gin.Context) {
		report := healthChecker.CheckHealth(c.Request.Context())
		status := http.StatusOK
		if report.Status == health.StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	})
	router.GET("/health/ready", func(c *gin.Context) {
		report := healthChecker.CheckReadiness(c.Request.Context())
		status := http.StatusOK
		if report.Status == health.StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	})
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthChecker.CheckLiveness(c.Request.Context()))
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/route-info", RouteInfo(deps))
		v1.POST("/routes", SearchRoutes(deps))
		v1.POST("/routes/stream", SearchRoutesStream(deps))
	}
}
