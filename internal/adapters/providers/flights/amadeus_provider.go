package flights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/triporia/travelsearch/backend/internal/adapters/providers/normalize"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/amadeus"
)

const (
	amadeusIATACacheTTL   = 60 * 60 * 24 * 30
	defaultFlightPrice    = 250.0
	defaultFlightCurrency = "EUR"
	defaultFlightAirline  = "Multiple Airlines"
)

// amadeusFlightFields is the declarative fallback table for one raw Amadeus
// flight offer.
var amadeusFlightFields = struct {
	id, price, currency, airline, departure, arrival, duration, stops normalize.Chain
}{
	id:        normalize.Chain{"id"},
	price:     normalize.Chain{"price.grandTotal", "price.total"},
	currency:  normalize.Chain{"price.currency"},
	airline:   normalize.Chain{"validatingAirlineCodes.0", "itineraries.0.segments.0.carrierCode"},
	departure: normalize.Chain{"itineraries.0.segments.0.departure.at"},
	arrival:   normalize.Chain{"itineraries.0.segments.0.arrival.at"},
	duration:  normalize.Chain{"itineraries.0.duration"},
	stops:     normalize.Chain{},
}

// AmadeusProvider searches flight offers through the Amadeus Self-Service
// API. Free-text origin/destination values are resolved to IATA airport codes
// first; three-letter inputs are taken as codes directly.
type AmadeusProvider struct {
	client *amadeus.Client
	cache  providers.CacheProvider
}

// NewAmadeusProvider creates a new Amadeus flight provider.
func NewAmadeusProvider(client *amadeus.Client, cache providers.CacheProvider) providers.FlightSearchProvider {
	return &AmadeusProvider{client: client, cache: cache}
}

func (p *AmadeusProvider) Name() string { return "amadeus" }

// Search performs the Amadeus flight offers search.
func (p *AmadeusProvider) Search(ctx context.Context, req entities.FlightSearchRequest) ([]entities.FlightResult, error) {
	origin, err := p.resolveIATA(ctx, req.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := p.resolveIATA(ctx, req.Destination)
	if err != nil {
		return nil, err
	}
	if origin == "" || destination == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("originLocationCode", origin)
	params.Set("destinationLocationCode", destination)
	params.Set("departureDate", req.DepartureDate)
	params.Set("adults", strconv.Itoa(req.Adults))
	params.Set("max", "20")
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	if req.Children > 0 {
		params.Set("children", strconv.Itoa(req.Children))
	}
	if req.TravelClass != "" {
		params.Set("travelClass", req.TravelClass)
	}

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/v2/shopping/flight-offers", params, &resp); err != nil {
		return nil, fmt.Errorf("amadeus flight search: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	results := make([]entities.FlightResult, 0, len(items))
	for i, item := range items {
		var attrs []string
		if d := parseISODuration(normalize.String(item, amadeusFlightFields.duration, "")); d != "" {
			attrs = append(attrs, d)
		}
		if tc := req.TravelClass; tc != "" {
			attrs = append(attrs, tc)
		}

		results = append(results, entities.FlightResult{
			ID:          p.Name() + "-" + normalize.String(item, amadeusFlightFields.id, strconv.Itoa(i)),
			Name:        normalize.String(item, amadeusFlightFields.airline, defaultFlightAirline),
			Origin:      origin,
			Destination: destination,
			DepartureAt: normalize.String(item, amadeusFlightFields.departure, req.DepartureDate),
			ArrivalAt:   normalize.String(item, amadeusFlightFields.arrival, ""),
			Stops:       countStops(item),
			Price: entities.Price{
				Amount:   normalize.Float(item, amadeusFlightFields.price, defaultFlightPrice),
				Currency: normalize.String(item, amadeusFlightFields.currency, defaultFlightCurrency),
			},
			Rating:      normalize.Rating(0),
			ReviewCount: 0,
			Images:      []string{normalize.PlaceholderImage(destination)},
			Attributes:  attrs,
			Source:      p.Name(),
		})
	}
	return results, nil
}

// resolveIATA maps a free-text place to an IATA airport code. Inputs that
// already look like a code pass through uppercased.
func (p *AmadeusProvider) resolveIATA(ctx context.Context, place string) (string, error) {
	trimmed := strings.TrimSpace(place)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) == 3 && isAlpha(trimmed) {
		return strings.ToUpper(trimmed), nil
	}

	cacheKey := "amadeus:iata:v1:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	params := url.Values{}
	params.Set("keyword", trimmed)
	params.Set("subType", "AIRPORT,CITY")

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/v1/reference-data/locations", params, &resp); err != nil {
		return "", fmt.Errorf("amadeus airport lookup: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	if len(items) == 0 {
		return "", nil
	}
	code := normalize.String(items[0], normalize.Chain{"iataCode"}, "")
	if code == "" {
		return "", nil
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, []byte(code), amadeusIATACacheTTL)
	}
	return code, nil
}

// countStops derives the stop count from the first itinerary's segment list.
func countStops(item map[string]interface{}) int {
	itineraries, ok := item["itineraries"].([]interface{})
	if !ok || len(itineraries) == 0 {
		return 0
	}
	first, ok := itineraries[0].(map[string]interface{})
	if !ok {
		return 0
	}
	segments, ok := first["segments"].([]interface{})
	if !ok || len(segments) == 0 {
		return 0
	}
	return len(segments) - 1
}

// parseISODuration renders an ISO-8601 duration ("PT7H25M") as "7h 25m".
func parseISODuration(iso string) string {
	if !strings.HasPrefix(iso, "PT") {
		return iso
	}
	s := strings.TrimPrefix(iso, "PT")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "h", "h ")
	s = strings.ReplaceAll(s, "m", "m")
	return strings.TrimSpace(s)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
