package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter()
	limiter.now = func() time.Time { return now }

	e := echo.New()
	e.Use(limiter.RateLimit())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.POST("/api/sendOTP", ok)
	e.POST("/api/uploadAudio", ok)

	do := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do("/api/sendOTP", "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("/api/sendOTP", "10.0.0.1"))

	// other clients and other endpoints keep their own budget
	assert.Equal(t, http.StatusNoContent, do("/api/sendOTP", "10.0.0.2"))
	assert.Equal(t, http.StatusNoContent, do("/api/uploadAudio", "10.0.0.1"))

	// still blocked after the bucket would have refilled
	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusTooManyRequests, do("/api/sendOTP", "10.0.0.1"))

	now = now.Add(5 * time.Minute)
	assert.Equal(t, http.StatusNoContent, do("/api/sendOTP", "10.0.0.1"))
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter()
	limiter.now = func() time.Time { return now }

	e := echo.New()
	e.Use(limiter.RateLimit())
	e.POST("/api/sendOTP", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/sendOTP", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 100; i++ {
		do(fmt.Sprintf("10.1.%d.%d", i/250, i%250))
	}
	for i := 0; i < 4; i++ {
		do("10.0.0.9")
	}
	assert.Len(t, limiter.ips, 101)
	assert.Len(t, limiter.blockedIPs, 1)

	// nothing has been idle long enough yet
	limiter.mu.Lock()
	limiter.prune(now.Add(time.Minute))
	limiter.mu.Unlock()
	assert.Len(t, limiter.ips, 101)

	now = now.Add(limiter.idleTTL)
	limiter.mu.Lock()
	limiter.prune(now)
	limiter.mu.Unlock()
	assert.Empty(t, limiter.ips)
	assert.Empty(t, limiter.lastSeen)
	assert.Empty(t, limiter.blockedIPs)

	// a pruned client starts over with a full bucket
	assert.Equal(t, http.StatusNoContent, do("10.0.0.9"))
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeadersWithConfig(SecurityConfig{HSTS: true}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
