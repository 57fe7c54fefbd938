package routes

import (
	"net/http"

	"github.com/triporia/travelsearch/backend/internal/api/handlers"
	"github.com/triporia/travelsearch/backend/internal/api/middleware"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	searchHandler *handlers.SearchHandler

	providerStatusHandler *handlers.ProviderStatusHandler

	analyticsHandler *handlers.AnalyticsHandler

	searchRateLimit *middleware.RateLimitMiddleware
	strictRateLimit *middleware.RateLimitMiddleware

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	searchHandler *handlers.SearchHandler,

	providerStatusHandler *handlers.ProviderStatusHandler,

	analyticsHandler *handlers.AnalyticsHandler,

	searchRateLimit *middleware.RateLimitMiddleware,
	strictRateLimit *middleware.RateLimitMiddleware,

	cacheMiddleware *middleware.CacheMiddleware,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		searchHandler: searchHandler,

		providerStatusHandler: providerStatusHandler,

		analyticsHandler: analyticsHandler,

		searchRateLimit: searchRateLimit,
		strictRateLimit: strictRateLimit,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Search endpoints, each behind the shared search quota

	r.mux.Handle("POST /api/search-hotels", r.limited(r.searchRateLimit, r.searchHandler.SearchHotels))

	r.mux.Handle("POST /api/search-flights", r.limited(r.searchRateLimit, r.searchHandler.SearchFlights))

	r.mux.Handle("POST /api/car-rental", r.limited(r.searchRateLimit, r.searchHandler.SearchCars))

	// Provider status endpoint

	r.mux.HandleFunc("GET /api/providers", r.providerStatusHandler.GetProviders)

	// Analytics endpoints behind the strict quota
	if r.analyticsHandler != nil {
		r.mux.Handle("GET /api/analytics/zero-result-queries", r.limited(r.strictRateLimit, r.analyticsHandler.GetZeroResultQueries))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

// limited wraps a handler with a rate limit when one is configured.
func (r *Router) limited(limit *middleware.RateLimitMiddleware, h http.HandlerFunc) http.Handler {
	if limit == nil {
		return h
	}
	return limit.Middleware(h)
}
