package server

import (
	"context"
	"net/http"
	"time"

	"esportfed/internal/api"
	"esportfed/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// @Summary      Health check
// @Description  Reports each backing service. Any failing service turns the status to degraded.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		resp := api.HealthResponse{Status: "ok", Services: map[string]string{}}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", "service", name, "error", err)
				resp.Services[name] = "down"
				resp.Status = "degraded"
				continue
			}
			resp.Services[name] = "up"
		}

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
