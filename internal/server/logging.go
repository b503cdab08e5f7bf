package server

import (
	"time"

	"esportfed/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLoggingMiddleware tags each request with an id and logs it once
// it completes. Server errors are logged at error level.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		if quietPaths[path] {
			return
		}

		status := c.Writer.Status()
		args := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		if status >= 500 {
			logger.Error("HTTP request", args...)
			return
		}
		logger.Info("HTTP request", args...)
	}
}
