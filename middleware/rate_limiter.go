// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/audiogate_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter throttles requests per client IP, with tighter limits on
// the OTP and upload endpoints
type RateLimiter struct {
	ips            map[string]*rate.Limiter
	lastSeen       map[string]time.Time
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   endpointLimit
	blockDuration  time.Duration
	idleTTL        time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:           make(map[string]*rate.Limiter),
		lastSeen:      make(map[string]time.Time),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  endpointLimit{limit: rate.Every(100 * time.Millisecond), burst: 20},
		blockDuration: 5 * time.Minute,
		// Every bucket is full again well before this, so dropping the
		// limiter loses nothing
		idleTTL: 10 * time.Minute,
		now:     time.Now,
		endpointLimits: map[string]endpointLimit{
			// Each call sends an email
			"/api/sendOTP": {limit: rate.Every(2 * time.Second), burst: 3},
			// Guessing a 6 digit code has to stay slow
			"/api/uploadAudio": {limit: rate.Every(time.Second), burst: 5},
		},
	}

	go limiter.cleanupBlockedIPs()

	return limiter
}

func (r *RateLimiter) cleanupBlockedIPs() {
	ticker := time.NewTicker(r.idleTTL)
	defer ticker.Stop()
	for range ticker.C {
		r.mu.Lock()
		r.prune(r.now())
		r.mu.Unlock()
	}
}

// prune drops expired blocks and limiters that have been idle for
// idleTTL. Callers hold r.mu.
func (r *RateLimiter) prune(now time.Time) {
	for key, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			delete(r.blockedIPs, key)
			r.forget(key)
		}
	}
	for key, seen := range r.lastSeen {
		if _, blocked := r.blockedIPs[key]; blocked {
			continue
		}
		if now.Sub(seen) >= r.idleTTL {
			r.forget(key)
		}
	}
}

func (r *RateLimiter) forget(key string) {
	delete(r.ips, key)
	delete(r.lastSeen, key)
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			limit, ok := r.endpointLimits[path]
			if !ok {
				limit = r.defaultLimit
			}
			// Limiters are kept per IP and endpoint so OTP requests do not eat
			// into the upload budget
			key := c.RealIP() + "|" + path

			r.mu.Lock()
			now := r.now()
			if blockUntil, blocked := r.blockedIPs[key]; blocked {
				if now.Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, blockUntil)
				}
				delete(r.blockedIPs, key)
				r.forget(key)
			}

			limiter, exists := r.ips[key]
			if !exists {
				limiter = rate.NewLimiter(limit.limit, limit.burst)
				r.ips[key] = limiter
			}
			r.lastSeen[key] = now
			if !limiter.AllowN(now, 1) {
				blockUntil := now.Add(r.blockDuration)
				r.blockedIPs[key] = blockUntil
				r.mu.Unlock()
				return tooManyRequests(c, blockUntil)
			}
			r.mu.Unlock()

			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, retryAfter time.Time) error {
	c.Response().Header().Set("Retry-After", retryAfter.UTC().Format(http.TimeFormat))
	return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "Too many requests"})
}
