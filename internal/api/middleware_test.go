package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimingMiddlewareSetsHeader(t *testing.T) {
	h := TimingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}

func TestRateLimitMiddlewareRejectsBurst(t *testing.T) {
	mw := RateLimitMiddleware(4, time.Minute)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last int
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		h.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestIPLimiterEvictsIdleClients(t *testing.T) {
	l := newIPLimiter(60, time.Minute)

	base := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	l.getLimiter("192.0.2.1")
	l.getLimiter("192.0.2.2")
	assert.Len(t, l.clients, 2)

	// Only the second IP comes back after the idle window passes.
	l.now = func() time.Time { return base.Add(21 * time.Minute) }
	l.getLimiter("192.0.2.2")

	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "192.0.2.2")
	assert.NotContains(t, l.clients, "192.0.2.1")
}

func TestNewIPLimiterBurstFloor(t *testing.T) {
	l := newIPLimiter(1, time.Minute)
	assert.Equal(t, 1, l.burst)
}
