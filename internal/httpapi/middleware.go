package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestID injects a unique X-Request-Id header into every request/response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// requestLogger logs every request except health checks.
func (s *implServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		latency := time.Since(start)
		id := c.GetString(requestIDKey)
		switch {
		case status >= 500:
			s.logger.Error(ctx, "%s %s %d %s request_id=%s", c.Request.Method, c.Request.URL.Path, status, latency, id)
		case status >= 400:
			s.logger.Warn(ctx, "%s %s %d %s request_id=%s", c.Request.Method, c.Request.URL.Path, status, latency, id)
		default:
			s.logger.Info(ctx, "%s %s %d %s request_id=%s", c.Request.Method, c.Request.URL.Path, status, latency, id)
		}
	}
}
