package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/triporia/travelsearch/backend/internal/adapters/analytics"
	"github.com/triporia/travelsearch/backend/internal/adapters/cache"
	"github.com/triporia/travelsearch/backend/internal/adapters/events"
	"github.com/triporia/travelsearch/backend/internal/adapters/providers/cars"
	"github.com/triporia/travelsearch/backend/internal/adapters/providers/flights"
	"github.com/triporia/travelsearch/backend/internal/adapters/providers/hotels"
	"github.com/triporia/travelsearch/backend/internal/api/handlers"
	"github.com/triporia/travelsearch/backend/internal/api/middleware"
	"github.com/triporia/travelsearch/backend/internal/api/routes"
	"github.com/triporia/travelsearch/backend/internal/application/services"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/amadeus"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/redis"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/observability"
	"github.com/triporia/travelsearch/backend/pkg/config"
	"github.com/triporia/travelsearch/backend/pkg/ratelimit"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - searches still work, just without
		// shared caching, analytics, or the event bus
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for live search dashboards
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize inventory providers; missing credentials disable the
	// corresponding adapter, the search degrades to whatever remains

	var hotelProviders []providers.HotelSearchProvider
	var flightProviders []providers.FlightSearchProvider
	var carProviders []providers.CarSearchProvider

	if cfg.Providers.AmadeusEnabled() {
		amadeusClient := amadeus.NewClient(&cfg.Providers, cacheProvider)
		hotelProviders = append(hotelProviders, hotels.NewAmadeusProvider(amadeusClient, cacheProvider))
		flightProviders = append(flightProviders, flights.NewAmadeusProvider(amadeusClient, cacheProvider))
		log.Println("Amadeus providers enabled")
	} else {
		log.Println("Warning: AMADEUS_CLIENT_ID/SECRET not set; Amadeus providers disabled")
	}

	if cfg.Providers.RapidAPIEnabled() {
		hotelProviders = append(hotelProviders,
			hotels.NewBookingProvider(cfg.Providers.RapidAPIKey, cacheProvider),
			hotels.NewTripAdvisorProvider(cfg.Providers.RapidAPIKey, cacheProvider),
		)
		carProviders = append(carProviders,
			cars.NewPricelineProvider(cfg.Providers.RapidAPIKey),
			cars.NewBookingProvider(cfg.Providers.RapidAPIKey, cacheProvider),
		)
		log.Println("RapidAPI providers enabled")
	} else {
		log.Println("Warning: RAPIDAPI_KEY not set; Booking, TripAdvisor and Priceline providers disabled")
	}

	if cfg.Providers.KiwiEnabled() {
		flightProviders = append(flightProviders, flights.NewKiwiProvider(cfg.Providers.KiwiAPIKey, cfg.Providers.KiwiBaseURL))
		log.Println("Kiwi provider enabled")
	} else {
		log.Println("Warning: KIWI_API_KEY not set; Kiwi provider disabled")
	}

	// Xotelo is keyless, always on
	hotelProviders = append(hotelProviders, hotels.NewXoteloProvider(cfg.Providers.XoteloBaseURL))

	// Initialize services

	var analyticsService *services.SearchAnalyticsService
	if redisClient != nil {
		analyticsService = services.NewSearchAnalyticsService(analytics.NewRedisAdapter(redisClient))
	}

	searchOpts := []services.SearchServiceOption{
		services.WithProviderTimeout(cfg.Providers.CallTimeout),
		services.WithMetrics(metrics),
	}
	if analyticsService != nil {
		searchOpts = append(searchOpts, services.WithAnalytics(analyticsService))
	}
	if eventBus != nil {
		searchOpts = append(searchOpts, services.WithEventBus(eventBus))
	}

	searchService := services.NewSearchService(hotelProviders, flightProviders, carProviders, searchOpts...)

	// Initialize rate limiting

	limitStore := ratelimit.NewStore(time.Minute)
	searchRateLimit := middleware.NewRateLimitMiddleware(limitStore, ratelimit.Quota{
		KeyPrefix:   "search",
		Window:      cfg.RateLimit.SearchWindow,
		MaxRequests: cfg.RateLimit.SearchMaxRequests,
	}, metrics)
	strictRateLimit := middleware.NewRateLimitMiddleware(limitStore, ratelimit.Quota{
		KeyPrefix:   "strict",
		Window:      cfg.RateLimit.StrictWindow,
		MaxRequests: cfg.RateLimit.StrictMaxRequests,
	}, metrics)

	// Initialize handlers

	searchHandler := handlers.NewSearchHandler(searchService)

	providerStatusHandler := handlers.NewProviderStatusHandler(searchService)

	var analyticsHandler *handlers.AnalyticsHandler
	if analyticsService != nil {
		analyticsHandler = handlers.NewAnalyticsHandler(analyticsService)
	}

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router

	router := routes.NewRouter(
		searchHandler,
		providerStatusHandler,
		analyticsHandler,
		searchRateLimit,
		strictRateLimit,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
