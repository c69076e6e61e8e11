package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/service"
)

// RateLimitMiddleware limits requests per client IP through the Redis-backed
// sliding window. Limiter infrastructure errors let the request through
// rather than turning Redis downtime into an outage.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)

		allowed, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil && !strings.Contains(err.Error(), "rate limit exceeded") {
			c.Next()
			return
		}

		remaining, _ := rateLimiter.Remaining(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			message := "Rate limit exceeded"
			if err != nil {
				message = err.Error()
			}
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Message: message})
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientKey extracts the rate limit key from the client IP
func clientKey(c *gin.Context) string {
	// X-Forwarded-For can carry multiple IPs, the first one is the client
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}

	return c.ClientIP()
}
