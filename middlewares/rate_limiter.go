package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/utils"
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
	message string
	ips     map[string]*visitor
	mu      sync.Mutex
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:    rate.Limit(perSecond),
		burst:   burst,
		message: "too many requests, slow down",
		ips:     make(map[string]*visitor),
	}
}

// NewStrictRateLimiter allows perMinute attempts a minute per IP, for login
// and registration.
func NewStrictRateLimiter(perMinute int) *RateLimiter {
	rl := NewRateLimiter(float64(perMinute)/60, perMinute)
	rl.message = "too many attempts, please wait a moment"
	return rl
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.ips[ip]
	if !ok {
		// Forget idle clients whenever a new one shows up.
		for k, old := range rl.ips {
			if now.Sub(old.lastSeen) > 10*time.Minute {
				delete(rl.ips, k)
			}
		}
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			utils.RespondMessage(c, http.StatusTooManyRequests, rl.message)
			return
		}
		c.Next()
	}
}
