package middleware

import (
	"net/http"
	"sync"

	"go-zampay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	limitersMu sync.Mutex
	limiters   = map[string]*rate.Limiter{}
)

// RateLimitByUser limits each authenticated user (falling back to client IP)
// per route. Limiters live for the process lifetime; the key space is bounded
// by routes times active users.
func RateLimitByUser(rps float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("user_id")
		if key == "" {
			key = c.ClientIP()
		}
		key = c.FullPath() + "|" + key

		limitersMu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = limiter
		}
		limitersMu.Unlock()

		if !limiter.Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
