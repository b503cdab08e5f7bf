package server

import (
	"net/http"
	"sync"
	"time"

	"esportfed/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Idle buckets are evicted
// after ttl.
type RateLimiter struct {
	visitors *cache.Cache
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
}

// NewRateLimiter creates a limiter allowing rps requests per second with
// bursts up to burst.
func NewRateLimiter(rps float64, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: cache.New(ttl, time.Minute),
		rate:     rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors.Get(ip); ok {
		limiter := v.(*rate.Limiter)
		rl.visitors.Set(ip, limiter, rl.ttl)
		return limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.visitors.Set(ip, limiter, rl.ttl)
	return limiter
}

func (rl *RateLimiter) Allow(ip string) bool {
	return rl.getVisitor(ip).Allow()
}

// RateLimitMiddleware rejects clients over their budget with 429.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(rps, burst, 3*time.Minute)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
