package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/go-home-router/engine"
	"github.com/gilby125/go-home-router/rank"
	"github.com/gilby125/go-home-router/scheduler"
)

// sseMessage is one Server-Sent Event frame: an event name plus a JSON
// data payload, mirroring the teacher's sse.go wire shape.
type sseMessage struct {
	event string
	data  []byte
}

func writeSSEMessage(c *gin.Context, msg sseMessage) bool {
	if msg.event != "" {
		fmt.Fprintf(c.Writer, "event: %s\n", msg.event)
	}
	for _, line := range strings.Split(strings.TrimRight(string(msg.data), "\n"), "\n") {
		fmt.Fprintf(c.Writer, "data: %s\n", line)
	}
	fmt.Fprint(c.Writer, "\n")
	c.Writer.Flush()
	return c.Request.Context().Err() == nil
}

// progressEvent/logEvent are the JSON payloads streamed to the client.
type progressEvent struct {
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
	Description string `json:"description"`
}

type logEvent struct {
	Message string `json:"message"`
}

// SearchRoutesStream runs one plan search exactly like SearchRoutes, but
// streams scheduler progress/log events as Server-Sent Events while the
// query runs and emits a final "result" event with the full response.
func SearchRoutesStream(deps Deps) gin.HandlerFunc {
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

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		var mu sync.Mutex
		opts.OnProgress = func(completed, total int, description string) {
			data, _ := json.Marshal(progressEvent{Completed: completed, Total: total, Description: description})
			mu.Lock()
			defer mu.Unlock()
			writeSSEMessage(c, sseMessage{event: "progress", data: data})
		}
		opts.OnLog = func(msg string) {
			data, _ := json.Marshal(logEvent{Message: msg})
			mu.Lock()
			defer mu.Unlock()
			writeSSEMessage(c, sseMessage{event: "log", data: data})
		}
		opts.Cancel = scheduler.NewCancelToken()

		go func() {
			<-c.Request.Context().Done()
			opts.Cancel.Cancel()
		}()

		session := engine.NewSession(req.Origin, req.Destination, deps.Config, deps.FlightGateway, deps.TrainGateway, deps.Registry, deps.Log)
		result, err := session.Run(c.Request.Context(), opts)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			data, _ := json.Marshal(gin.H{"error": err.Error(), "run_id": session.ID})
			writeSSEMessage(c, sseMessage{event: "error", data: data})
			return
		}
		if req.Dedup {
			result.Routes = rank.Dedup(result.Routes)
		}
		if req.Legacy {
			result.Report = rank.FormatLegacy(req.Origin, req.Destination, req.Date, result.Results)
		}
		data, _ := json.Marshal(toSearchResponse(req.Origin, req.Destination, result))
		writeSSEMessage(c, sseMessage{event: "result", data: data})
	}
}
