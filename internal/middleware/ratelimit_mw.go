package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"user_directory/internal/logger"
	"user_directory/internal/metrics"
	"user_directory/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles a route per client IP. Limiter errors let the request
// through.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *slog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP()+":"+route)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", slog.String("route", route), logger.Err(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			m.RateLimited.WithLabelValues(route).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody(CodeRateLimited, "too many requests"))
			return
		}
		c.Next()
	}
}
