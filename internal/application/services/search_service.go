package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/triporia/travelsearch/backend/internal/adapters/fallback"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/observability"
)

const defaultProviderTimeout = 8 * time.Second

// SearchService fans a search out to every configured provider for the
// domain, merges whatever came back, and substitutes static fallback
// inventory when nothing did. One slow or broken provider never takes the
// search down: each call gets its own timeout and panics are contained to
// the goroutine that hit them.
type SearchService struct {
	hotelProviders  []providers.HotelSearchProvider
	flightProviders []providers.FlightSearchProvider
	carProviders    []providers.CarSearchProvider

	fallback  *fallback.Source
	analytics *SearchAnalyticsService
	events    providers.EventBus
	metrics   *observability.Metrics
	timeout   time.Duration
}

// SearchServiceOption configures a SearchService.
type SearchServiceOption func(*SearchService)

// WithProviderTimeout overrides the per-provider call timeout.
func WithProviderTimeout(timeout time.Duration) SearchServiceOption {
	return func(s *SearchService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithAnalytics attaches search event tracking.
func WithAnalytics(analytics *SearchAnalyticsService) SearchServiceOption {
	return func(s *SearchService) { s.analytics = analytics }
}

// WithEventBus attaches live search event publishing.
func WithEventBus(events providers.EventBus) SearchServiceOption {
	return func(s *SearchService) { s.events = events }
}

// WithMetrics attaches provider call metrics.
func WithMetrics(metrics *observability.Metrics) SearchServiceOption {
	return func(s *SearchService) { s.metrics = metrics }
}

// NewSearchService creates a new search service.
func NewSearchService(
	hotelProviders []providers.HotelSearchProvider,
	flightProviders []providers.FlightSearchProvider,
	carProviders []providers.CarSearchProvider,
	opts ...SearchServiceOption,
) *SearchService {
	s := &SearchService{
		hotelProviders:  hotelProviders,
		flightProviders: flightProviders,
		carProviders:    carProviders,
		fallback:        fallback.NewSource(),
		timeout:         defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderNames lists the configured provider names per search domain,
// used by the provider status endpoint.
func (s *SearchService) ProviderNames() map[string][]string {
	names := map[string][]string{
		entities.SearchDomainHotels:  make([]string, 0, len(s.hotelProviders)),
		entities.SearchDomainFlights: make([]string, 0, len(s.flightProviders)),
		entities.SearchDomainCars:    make([]string, 0, len(s.carProviders)),
	}
	for _, p := range s.hotelProviders {
		names[entities.SearchDomainHotels] = append(names[entities.SearchDomainHotels], p.Name())
	}
	for _, p := range s.flightProviders {
		names[entities.SearchDomainFlights] = append(names[entities.SearchDomainFlights], p.Name())
	}
	for _, p := range s.carProviders {
		names[entities.SearchDomainCars] = append(names[entities.SearchDomainCars], p.Name())
	}
	return names
}

// SearchHotels runs a hotel search across all configured providers.
func (s *SearchService) SearchHotels(ctx context.Context, req entities.HotelSearchRequest) (*entities.HotelSearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.SearchHotels")
	defer span.End()
	started := time.Now()

	searchers := make([]searcher[entities.HotelSearchRequest, entities.HotelResult], 0, len(s.hotelProviders))
	for _, p := range s.hotelProviders {
		searchers = append(searchers, searcher[entities.HotelSearchRequest, entities.HotelResult]{name: p.Name(), search: p.Search})
	}

	results, sources := fanOut(ctx, s.metrics, entities.SearchDomainHotels, s.timeout, searchers, req)

	mock := false
	if len(results) == 0 {
		results = s.fallback.Hotels(req)
		sources = map[string]int{fallback.SourceTag: len(results)}
		mock = true
		observability.RecordFallback(ctx, s.metrics, entities.SearchDomainHotels)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price.Amount < results[j].Price.Amount
	})

	observability.SetSpanAttributes(span,
		attribute.Int("search.results", len(results)),
		attribute.Bool("search.mock", mock),
	)
	s.trackSearch(ctx, entities.SearchDomainHotels, req.Location, len(results), sources, mock, started)

	return &entities.HotelSearchResponse{
		Success: true,
		Data:    results,
		Sources: sources,
		Mock:    mock,
	}, nil
}

// SearchFlights runs a flight search across all configured providers.
func (s *SearchService) SearchFlights(ctx context.Context, req entities.FlightSearchRequest) (*entities.FlightSearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.SearchFlights")
	defer span.End()
	started := time.Now()

	searchers := make([]searcher[entities.FlightSearchRequest, entities.FlightResult], 0, len(s.flightProviders))
	for _, p := range s.flightProviders {
		searchers = append(searchers, searcher[entities.FlightSearchRequest, entities.FlightResult]{name: p.Name(), search: p.Search})
	}

	results, sources := fanOut(ctx, s.metrics, entities.SearchDomainFlights, s.timeout, searchers, req)

	mock := false
	if len(results) == 0 {
		results = s.fallback.Flights(req)
		sources = map[string]int{fallback.SourceTag: len(results)}
		mock = true
		observability.RecordFallback(ctx, s.metrics, entities.SearchDomainFlights)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price.Amount < results[j].Price.Amount
	})

	observability.SetSpanAttributes(span,
		attribute.Int("search.results", len(results)),
		attribute.Bool("search.mock", mock),
	)
	route := fmt.Sprintf("%s-%s", req.Origin, req.Destination)
	s.trackSearch(ctx, entities.SearchDomainFlights, route, len(results), sources, mock, started)

	return &entities.FlightSearchResponse{
		Success: true,
		Data:    results,
		Sources: sources,
		Mock:    mock,
	}, nil
}

// SearchCars runs a car rental search across all configured providers.
func (s *SearchService) SearchCars(ctx context.Context, req entities.CarSearchRequest) (*entities.CarSearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.SearchCars")
	defer span.End()
	started := time.Now()

	searchers := make([]searcher[entities.CarSearchRequest, entities.CarResult], 0, len(s.carProviders))
	for _, p := range s.carProviders {
		searchers = append(searchers, searcher[entities.CarSearchRequest, entities.CarResult]{name: p.Name(), search: p.Search})
	}

	results, sources := fanOut(ctx, s.metrics, entities.SearchDomainCars, s.timeout, searchers, req)

	mock := false
	if len(results) == 0 {
		results = s.fallback.Cars(req)
		sources = map[string]int{fallback.SourceTag: len(results)}
		mock = true
		observability.RecordFallback(ctx, s.metrics, entities.SearchDomainCars)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price.Amount < results[j].Price.Amount
	})

	observability.SetSpanAttributes(span,
		attribute.Int("search.results", len(results)),
		attribute.Bool("search.mock", mock),
	)
	s.trackSearch(ctx, entities.SearchDomainCars, req.PickupLocation, len(results), sources, mock, started)

	return &entities.CarSearchResponse{
		Success: true,
		Data:    results,
		Sources: sources,
		Mock:    mock,
	}, nil
}

// trackSearch emits the completed-search event to analytics and the event
// bus. Both paths are best-effort and never fail the search.
func (s *SearchService) trackSearch(ctx context.Context, domain, location string, resultCount int, sources map[string]int, mock bool, started time.Time) {
	event := &entities.SearchEvent{
		Domain:      domain,
		Location:    location,
		ResultCount: resultCount,
		Sources:     sources,
		Mock:        mock,
		LatencyMs:   int(time.Since(started).Milliseconds()),
		CreatedAt:   time.Now(),
	}

	if s.analytics != nil {
		s.analytics.TrackSearch(ctx, event)
	}
	if s.events != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.events.Publish(bgCtx, providers.EventChannelSearches, event)
			_ = s.events.Publish(bgCtx, providers.GetDomainChannel(domain), event)
		}()
	}
}

// searcher pairs a provider name with its search call so the fan-out is
// generic over the three domains.
type searcher[R any, T any] struct {
	name   string
	search func(ctx context.Context, req R) ([]T, error)
}

// fanOut runs every searcher concurrently and merges their results. Each
// call gets its own timeout; errors and panics are recorded and otherwise
// ignored so one provider cannot poison the merged set. It always waits for
// all providers rather than returning on the first batch, trading a little
// latency for a fuller result set.
func fanOut[R any, T any](
	ctx context.Context,
	metrics *observability.Metrics,
	domain string,
	timeout time.Duration,
	searchers []searcher[R, T],
	req R,
) ([]T, map[string]int) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		merged  []T
		sources = make(map[string]int)
	)

	for _, sr := range searchers {
		wg.Go(func() {
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			started := time.Now()
			results, err := func() (results []T, err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("provider %s panicked: %v", sr.name, r)
					}
				}()
				return sr.search(callCtx, req)
			}()
			duration := time.Since(started)
			observability.RecordProviderCall(ctx, metrics, domain, sr.name, len(results), duration, err)

			if err != nil {
				logger := observability.LoggerFromContext(ctx)
				logger.Warn().
					Err(err).
					Str("domain", domain).
					Str("provider", sr.name).
					Dur("duration", duration).
					Msg("provider search failed")
				return
			}
			if len(results) == 0 {
				return
			}

			mu.Lock()
			merged = append(merged, results...)
			sources[sr.name] += len(results)
			mu.Unlock()
		})
	}
	wg.Wait()

	return merged, sources
}
