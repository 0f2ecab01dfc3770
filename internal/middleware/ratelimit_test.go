package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tasklist/tasklist/internal/cache"
)

type fakeLimiter struct {
	result *cache.RateLimitResult
	err    error
	gotIP  string
	calls  int
}

func (f *fakeLimiter) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error) {
	f.calls++
	f.gotIP = ip
	return f.result, f.err
}

func newRateLimitHandler(limiter RateLimiter, enabled bool) http.Handler {
	cfg := RateLimitConfig{
		Logger:  slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
		Limiter: limiter,
		Enabled: enabled,
		RPS:     5,
		Burst:   10,
	}
	return RateLimitIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitIP_Allowed(t *testing.T) {
	limiter := &fakeLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 9, ResetAt: time.Now()}}
	handler := newRateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.RemoteAddr = "198.51.100.4:51234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if limiter.gotIP != "198.51.100.4" {
		t.Errorf("limiter got IP %q, want 198.51.100.4", limiter.gotIP)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Errorf("X-RateLimit-Remaining = %q, want 9", got)
	}
}

func TestRateLimitIP_Rejected(t *testing.T) {
	limiter := &fakeLimiter{result: &cache.RateLimitResult{Allowed: false, RetryAfter: 2 * time.Second, ResetAt: time.Now()}}
	handler := newRateLimitHandler(limiter, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
}

func TestRateLimitIP_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	handler := newRateLimitHandler(limiter, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when limiter errors", rec.Code)
	}
}

func TestRateLimitIP_Disabled(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := newRateLimitHandler(limiter, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if limiter.calls != 0 {
		t.Errorf("limiter called %d times while disabled", limiter.calls)
	}
}
