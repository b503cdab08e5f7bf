package server

import (
	"strconv"
	"time"

	"esportfed/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records every request under its route template so
// session ids do not explode label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
