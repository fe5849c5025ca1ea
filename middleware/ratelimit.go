package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter keeps one token bucket per client IP so a single
// misbehaving checkout page cannot hammer the reserve endpoint.
type ipRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.RWMutex
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	i.mu.RLock()
	lim, exists := i.ips[ip]
	i.mu.RUnlock()
	if exists {
		return lim
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if lim, exists = i.ips[ip]; exists {
		return lim
	}
	lim = rate.NewLimiter(i.r, i.b)
	i.ips[ip] = lim
	return lim
}

// RateLimiter rejects requests over r per second (burst b) per IP.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
