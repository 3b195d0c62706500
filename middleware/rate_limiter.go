package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client IP inside a fixed window.
// Counts are reset wholesale when the window elapses, so a client can
// burst up to 2x the limit across a window boundary; good enough for
// an internal deal-tracking API.
type RateLimiter struct {
	mu     sync.Mutex
	seen   map[string]int
	limit  int
	window time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		seen:   make(map[string]int),
		limit:  limit,
		window: window,
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for range ticker.C {
			rl.mu.Lock()
			rl.seen = make(map[string]int)
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			ip = c.ClientIP()
		}

		rl.mu.Lock()
		rl.seen[ip]++
		over := rl.seen[ip] > rl.limit
		rl.mu.Unlock()

		if over {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too Many Requests",
				"message": "Rate limit exceeded. Please wait before making more requests.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// APILimiter covers the general CRUD surface. ApplyLimiter is tighter:
// template application fans out task creation and activity writes, so a
// misbehaving client retrying it in a loop hurts more than ordinary reads.
var (
	APILimiter   = NewRateLimiter(100, time.Minute)
	ApplyLimiter = NewRateLimiter(10, time.Minute)
)
