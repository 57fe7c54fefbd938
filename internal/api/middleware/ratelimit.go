package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/triporia/travelsearch/backend/internal/infrastructure/observability"
	"github.com/triporia/travelsearch/backend/pkg/ratelimit"
)

// RateLimitMiddleware enforces a fixed-window quota per client on the routes
// it wraps. Rejected requests get a JSON 429 with Retry-After; admitted ones
// still carry the X-RateLimit-* headers so well-behaved clients can pace
// themselves.
type RateLimitMiddleware struct {
	store   *ratelimit.Store
	quota   ratelimit.Quota
	metrics *observability.Metrics
}

// NewRateLimitMiddleware creates a rate limit middleware for one quota.
func NewRateLimitMiddleware(store *ratelimit.Store, quota ratelimit.Quota, metrics *observability.Metrics) *RateLimitMiddleware {
	return &RateLimitMiddleware{store: store, quota: quota, metrics: metrics}
}

// Middleware returns the rate limit handler.
func (m *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ClientID(r)
		decision := m.store.Admit(clientID, m.quota)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.quota.MaxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			observability.RecordRateLimitRejection(r.Context(), m.metrics, r.URL.Path)

			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":    false,
				"error":      "Too many requests, please try again later",
				"retryAfter": retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientID extracts a stable identifier for the requesting client, probing
// proxy headers in order of trustworthiness before falling back to the
// socket address. CDN-set headers come first since they cannot be forged
// past the edge.
func ClientID(r *http.Request) string {
	for _, header := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			return v
		}
	}

	// X-Forwarded-For holds a chain; the first hop is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	for _, header := range []string{"True-Client-IP", "X-Client-IP"} {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			return v
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
