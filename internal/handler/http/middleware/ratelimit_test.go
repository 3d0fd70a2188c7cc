package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	// A different client has its own bucket.
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
}

func TestIPRateLimiter_EvictsIdle(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	now = now.Add(idleLimiterTTL + time.Minute)
	assert.True(t, l.Allow("b"))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.entries, "a")
	assert.Contains(t, l.entries, "b")
}
