package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/utils"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	idle    time.Duration
	message string

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter allows requests per interval seconds for each IP.
func NewRateLimiter(requests int, interval int) *RateLimiter {
	return &RateLimiter{
		rate:     rate.Every(time.Duration(interval) * time.Second / time.Duration(requests)),
		burst:    requests,
		idle:     3 * time.Minute,
		message:  "Too many requests",
		visitors: make(map[string]*visitor),
	}
}

// NewStrictRateLimiter is used on login: 5 attempts per minute per IP.
func NewStrictRateLimiter() *RateLimiter {
	rl := NewRateLimiter(5, 60)
	rl.message = "Too many attempts, please wait a moment"
	return rl
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
		}
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New(rl.message))
			c.Abort()
			return
		}
		c.Next()
	}
}
