package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/bizdesk/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RateLimit throttles a route per client IP. The bucket key includes the
// route template so limiters shared between routes keep separate budgets.
// A failing store lets the request through.
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		route := c.FullPath()
		ip := c.ClientIP()

		quota, err := l.Get(c.Request.Context(), route+"|"+ip)
		if err != nil {
			logger.Error("Rate limit store unavailable", slog.String("route", route), slog.String("error", err.Error()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(quota.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(quota.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset, 10))

		if quota.Reached {
			metrics.RateLimited.WithLabelValues(route).Inc()
			logger.Warn("Rate limit exceeded", slog.String("route", route), slog.String("ip", ip), slog.Int64("limit", quota.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
