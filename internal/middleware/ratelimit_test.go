package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-planner/backend/internal/middleware"
)

func hit(h http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/chat/sessions/abc/messages", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	// A tiny refill rate keeps the test independent of wall-clock speed.
	rl := middleware.NewRateLimiter(0.001, 3)
	defer rl.Stop()
	h := rl.Limit(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5000"), "request %d", i)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat/sessions/abc/messages", nil)
	req.RemoteAddr = "10.0.0.1:5001"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "port does not change the client key")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"rate_limited"`)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	defer rl.Stop()
	h := rl.Limit(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1"))
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := middleware.NewRateLimiter(0, 0)
	rl.Stop()
	rl.Stop()
	assert.True(t, rl.Allow("k"))
}
