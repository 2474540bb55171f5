package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LoginRateLimit throttles credential attempts per client IP with a token
// bucket. State is in-process, which matches the single-process deployment.
func LoginRateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		mu.Lock()
		lim, ok := limiters[c.ClientIP()]
		if !ok {
			lim = rate.NewLimiter(limit, burst)
			limiters[c.ClientIP()] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			c.Abort()
			return
		}
		c.Next()
	}
}
