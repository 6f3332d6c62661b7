package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-client token bucket. Analysis runs are expensive
// (each one crawls a site), so the default bucket is small.
type RateLimiter struct {
	tokens         map[string]float64
	lastRefill     map[string]time.Time
	mu             sync.Mutex
	rate           float64 // tokens per second
	bucketSize     float64 // maximum tokens
	refillInterval time.Duration
}

func NewRateLimiter(rate, bucketSize float64) *RateLimiter {
	return &RateLimiter{
		tokens:         make(map[string]float64),
		lastRefill:     make(map[string]time.Time),
		rate:           rate,
		bucketSize:     bucketSize,
		refillInterval: time.Second,
	}
}

// RateLimit rejects clients that drained their bucket with a 429.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()

		if _, exists := rl.lastRefill[ip]; !exists {
			rl.tokens[ip] = rl.bucketSize
			rl.lastRefill[ip] = now
		}

		elapsed := now.Sub(rl.lastRefill[ip])
		refill := float64(elapsed) / float64(rl.refillInterval) * rl.rate
		rl.tokens[ip] = min(rl.bucketSize, rl.tokens[ip]+refill)
		rl.lastRefill[ip] = now

		if rl.tokens[ip] < 1 {
			rl.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		rl.tokens[ip]--
		rl.mu.Unlock()

		c.Next()
	}
}
