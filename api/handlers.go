// Package api exposes engine.Session over HTTP: a synchronous
// plan-search endpoint, an SSE variant that streams the scheduler's
// progress and log events as they happen, and health endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/go-home-router/config"
	"github.com/gilby125/go-home-router/engine"
	"github.com/gilby125/go-home-router/pkg/logger"
	"github.com/gilby125/go-home-router/pkg/runregistry"
	"github.com/gilby125/go-home-router/provider"
	"github.com/gilby125/go-home-router/rank"
	"github.com/gilby125/go-home-router/route"
	"github.com/gilby125/go-home-router/segment"
)

// SearchRequest is the POST /api/v1/routes body.
type SearchRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Filter        string `json:"filter"`                  // "all" (default), "flight", "train"
	MaxHubs       int    `json:"max_hubs"`
	UseIntlHubs   bool   `json:"use_intl_hubs"`
	ExcludeDirect bool   `json:"exclude_direct"`
	Dedup         bool   `json:"dedup"`
	Legacy        bool   `json:"legacy_report"`
}

// SearchResponse is the JSON rendering of engine.Result.
type SearchResponse struct {
	RunID       string          `json:"run_id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	RouteType   string          `json:"route_type"`
	Hubs        []string        `json:"hubs"`
	TipMessage  string          `json:"tip_message"`
	Routes      []enumeratePlan `json:"routes"`
	Report      string          `json:"report"`
}

// enumeratePlan mirrors enumerate.Plan for a stable JSON shape decoupled
// from the internal struct's field order.
type enumeratePlan struct {
	TransferCities       []string `json:"transfer_cities"`
	MinTransferHours     int      `json:"min_transfer_hours"`
	TotalPrice           int      `json:"total_price"`
	TotalDurationMinutes int      `json:"total_duration_minutes"`
	AccommodationFee     int      `json:"accommodation_fee"`
	RouteType            string   `json:"route_type"`
}

func toSearchRequestFilter(s string) segment.Filter {
	switch s {
	case "flight":
		return segment.FilterFlight
	case "train":
		return segment.FilterTrain
	default:
		return segment.FilterAll
	}
}

func toEngineOptions(req SearchRequest) (engine.Options, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Date:          date,
		Filter:        toSearchRequestFilter(req.Filter),
		MaxHubs:       req.MaxHubs,
		UseIntlHubs:   req.UseIntlHubs,
		ExcludeDirect: req.ExcludeDirect,
	}, nil
}

func toSearchResponse(origin, destination string, result engine.Result) SearchResponse {
	plans := make([]enumeratePlan, 0, len(result.Routes))
	for _, p := range result.Routes {
		plans = append(plans, enumeratePlan{
			TransferCities:       p.TransferCities,
			MinTransferHours:     p.MinTransferHours,
			TotalPrice:           p.TotalPrice,
			TotalDurationMinutes: p.TotalDurationMinutes,
			AccommodationFee:     p.AccommodationFee,
			RouteType:            p.RouteType,
		})
	}
	return SearchResponse{
		RunID:       result.RunID,
		Origin:      origin,
		Destination: destination,
		RouteType:   string(result.Info.RouteType),
		Hubs:        result.Info.Hubs,
		TipMessage:  result.Info.TipMessage,
		Routes:      plans,
		Report:      result.Report,
	}
}

// Deps bundles the collaborators every handler in this package needs.
// FlightGateway/TrainGateway/Registry may be nil; engine.NewSession
// tolerates all three.
type Deps struct {
	Config        *config.Config
	FlightGateway provider.ToolCaller
	TrainGateway  provider.ToolCaller
	Registry      *runregistry.Registry
	Log           *logger.Logger
}

// SearchRoutes runs one synchronous plan search and returns the full
// route list plus rendered report as JSON.
func SearchRoutes(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts, err := toEngineOptions(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date: " + err.Error()})
			return
		}

		session := engine.NewSession(req.Origin, req.Destination, deps.Config, deps.FlightGateway, deps.TrainGateway, deps.Registry, deps.Log)

		result, err := session.Run(c.Request.Context(), opts)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "run_id": session.ID})
			return
		}

		if req.Dedup {
			result.Routes = rank.Dedup(result.Routes)
		}
		if req.Legacy {
			result.Report = rank.FormatLegacy(req.Origin, req.Destination, req.Date, result.Results)
		}

		c.JSON(http.StatusOK, toSearchResponse(req.Origin, req.Destination, result))
	}
}

// RouteInfo reports the classifier snapshot for an (origin, destination)
// pair without running the full segment-query pipeline, matching
// segment_query.py's cheap get_route_info path.
func RouteInfo(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Query("origin")
		destination := c.Query("destination")
		if origin == "" || destination == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination are required"})
			return
		}

		maxHubs := deps.Config.RouteConfig.MaxHubs
		useIntlHubs := c.Query("use_intl_hubs") == "true"
		classified := route.Classify(origin, destination, maxHubs, route.Filter(toSearchRequestFilter(c.Query("filter"))), useIntlHubs)

		c.JSON(http.StatusOK, gin.H{
			"route_type":  classified.RouteType,
			"hubs":        classified.Hubs,
			"tip_message": classified.Tip,
		})
	}
}
