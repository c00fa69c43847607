package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// KeyFunc picks the bucket a request is counted against
type KeyFunc func(c *gin.Context) string

// ByClientIP counts requests per client address
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByEmployee counts requests per authenticated employee, falling back to
// the client address before authentication.
func ByEmployee(c *gin.Context) string {
	if s := GetSession(c); s != nil {
		return "employee:" + s.Employee.ID
	}
	return c.ClientIP()
}

// RateLimiter is a fixed window counter per key
type RateLimiter struct {
	mu        sync.Mutex
	counts    map[string]int
	lastReset time.Time
	rate      int           // requests per window
	window    time.Duration // time window
	now       func() time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts:    make(map[string]int),
		lastReset: time.Now(),
		rate:      rate,
		window:    window,
		now:       time.Now,
	}
}

// Allow counts one request for key and reports whether it fits the window
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().Sub(l.lastReset) > l.window {
		l.counts = make(map[string]int)
		l.lastReset = l.now()
	}

	if l.counts[key] >= l.rate {
		return false
	}
	l.counts[key]++
	return true
}

// RateLimit limits requests per client IP
func RateLimit(rate int, window time.Duration) gin.HandlerFunc {
	return RateLimitBy(NewRateLimiter(rate, window), ByClientIP)
}

// RateLimitBy limits requests per key using limiter
func RateLimitBy(limiter *RateLimiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if !limiter.Allow(k) {
			slog.Warn("rate limit exceeded",
				"key", k,
				"request_id", GetRequestID(c),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
