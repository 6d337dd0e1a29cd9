// Package middleware holds the gin middleware every HTTP entrypoint in
// this module installs: request-id tagging, structured request
// logging, and panic recovery.
package middleware

import (
	"time"

	"github.com/google/uuid"

	"github.com/gilby125/go-home-router/pkg/logger"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"
const requestIDKey = "request_id"

// RequestID assigns each request a uuid, reusing one supplied by the
// caller if present, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request id RequestID set on c, or "".
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get(requestIDKey)
	s, _ := id.(string)
	return s
}

// RequestLogger logs one line per request at a level keyed by the
// resulting status code.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		l := log.WithField("method", c.Request.Method).
			WithField("path", path).
			WithField("status", c.Writer.Status()).
			WithField("latency_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP())
		if requestID := GetRequestID(c); requestID != "" {
			l = l.WithField(requestIDKey, requestID)
		}
		if raw != "" {
			l = l.WithField("query", raw)
		}

		switch {
		case c.Writer.Status() >= 500:
			l.Error(nil, "http request")
		case c.Writer.Status() >= 400:
			l.Warn("http request")
		default:
			l.Info("http request")
		}
	}
}

// Recovery converts a panic in a downstream handler into a 500 response
// instead of crashing the process, logging the recovered value first.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultWriter, func(c *gin.Context, recovered any) {
		log.WithField("path", c.Request.URL.Path).
			WithField("panic", recovered).
			Error(nil, "panic recovered")
		c.AbortWithStatus(500)
	})
}
