package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/pkg/ratelimit"
)

func newLimitedHandler(maxRequests int) http.Handler {
	store := ratelimit.NewStore(time.Minute)
	quota := ratelimit.Quota{KeyPrefix: "search", Window: time.Minute, MaxRequests: maxRequests}
	m := NewRateLimitMiddleware(store, quota, nil)
	return m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitMiddleware_AllowsWithinQuota(t *testing.T) {
	handler := newLimitedHandler(2)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/search-hotels", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimitMiddleware_RejectsOverQuota(t *testing.T) {
	handler := newLimitedHandler(1)

	first := httptest.NewRequest(http.MethodPost, "/api/search-hotels", nil)
	first.RemoteAddr = "203.0.113.7:51234"
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/search-hotels", nil)
	second.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, second)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
	assert.Greater(t, body["retryAfter"], 0.0)
}

func TestRateLimitMiddleware_ClientsAreIndependent(t *testing.T) {
	handler := newLimitedHandler(1)

	first := httptest.NewRequest(http.MethodPost, "/api/search-hotels", nil)
	first.RemoteAddr = "203.0.113.7:51234"
	handler.ServeHTTP(httptest.NewRecorder(), first)

	other := httptest.NewRequest(http.MethodPost, "/api/search-hotels", nil)
	other.RemoteAddr = "198.51.100.9:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientID_HeaderPriority(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1111"

	assert.Equal(t, "10.0.0.1", ClientID(req))

	req.Header.Set("X-Client-IP", "192.0.2.50")
	assert.Equal(t, "192.0.2.50", ClientID(req))

	req.Header.Set("True-Client-IP", "192.0.2.40")
	assert.Equal(t, "192.0.2.40", ClientID(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.30, 172.16.0.1")
	assert.Equal(t, "192.0.2.30", ClientID(req))

	req.Header.Set("X-Real-IP", "192.0.2.20")
	assert.Equal(t, "192.0.2.20", ClientID(req))

	req.Header.Set("CF-Connecting-IP", "192.0.2.10")
	assert.Equal(t, "192.0.2.10", ClientID(req))
}

func TestClientID_Unknown(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ""
	assert.Equal(t, "unknown", ClientID(req))
}
