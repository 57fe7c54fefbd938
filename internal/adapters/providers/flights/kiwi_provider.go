package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/triporia/travelsearch/backend/internal/adapters/providers/normalize"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
)

// kiwiFlightFields is the declarative fallback table for one raw Kiwi
// (Tequila) itinerary.
var kiwiFlightFields = struct {
	id, price, airline, origin, destination, departure, arrival normalize.Chain
}{
	id:          normalize.Chain{"id", "booking_token"},
	price:       normalize.Chain{"price", "conversion.EUR"},
	airline:     normalize.Chain{"airlines.0", "route.0.airline"},
	origin:      normalize.Chain{"flyFrom", "cityFrom"},
	destination: normalize.Chain{"flyTo", "cityTo"},
	departure:   normalize.Chain{"local_departure", "utc_departure"},
	arrival:     normalize.Chain{"local_arrival", "utc_arrival"},
}

// KiwiProvider searches flight itineraries through the Kiwi.com Tequila API.
// Tequila accepts free-text location identifiers directly, so no resolution
// step is needed, but it insists on dd/mm/yyyy dates.
type KiwiProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewKiwiProvider creates a new Kiwi flight provider.
func NewKiwiProvider(apiKey, baseURL string) providers.FlightSearchProvider {
	return NewKiwiProviderWithOptions(apiKey, baseURL, nil)
}

// NewKiwiProviderWithOptions allows overriding the HTTP client (used for tests).
func NewKiwiProviderWithOptions(apiKey, baseURL string, httpClient *http.Client) providers.FlightSearchProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &KiwiProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (p *KiwiProvider) Name() string { return "kiwi" }

// Search performs the Tequila flight search.
func (p *KiwiProvider) Search(ctx context.Context, req entities.FlightSearchRequest) ([]entities.FlightResult, error) {
	departure, err := toKiwiDate(req.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("kiwi departure date: %w", err)
	}

	params := url.Values{}
	params.Set("fly_from", strings.TrimSpace(req.Origin))
	params.Set("fly_to", strings.TrimSpace(req.Destination))
	params.Set("date_from", departure)
	params.Set("date_to", departure)
	params.Set("adults", strconv.Itoa(req.Adults))
	params.Set("limit", "20")
	params.Set("curr", "EUR")
	if req.ReturnDate != "" {
		ret, err := toKiwiDate(req.ReturnDate)
		if err != nil {
			return nil, fmt.Errorf("kiwi return date: %w", err)
		}
		params.Set("return_from", ret)
		params.Set("return_to", ret)
	}
	if req.Children > 0 {
		params.Set("children", strconv.Itoa(req.Children))
	}
	if cls := kiwiCabinClass(req.TravelClass); cls != "" {
		params.Set("selected_cabins", cls)
	}

	reqURL := p.baseURL + "/v2/search?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kiwi request: %w", err)
	}
	httpReq.Header.Set("apikey", p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("kiwi request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("kiwi returned status %d", httpResp.StatusCode)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("kiwi decode: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	results := make([]entities.FlightResult, 0, len(items))
	for i, item := range items {
		stops := 0
		if route, ok := item["route"].([]interface{}); ok && len(route) > 0 {
			stops = len(route) - 1
		}

		results = append(results, entities.FlightResult{
			ID:          p.Name() + "-" + normalize.String(item, kiwiFlightFields.id, strconv.Itoa(i)),
			Name:        normalize.String(item, kiwiFlightFields.airline, defaultFlightAirline),
			Origin:      normalize.String(item, kiwiFlightFields.origin, strings.ToUpper(req.Origin)),
			Destination: normalize.String(item, kiwiFlightFields.destination, strings.ToUpper(req.Destination)),
			DepartureAt: normalize.String(item, kiwiFlightFields.departure, req.DepartureDate),
			ArrivalAt:   normalize.String(item, kiwiFlightFields.arrival, ""),
			Stops:       stops,
			Price: entities.Price{
				Amount:   normalize.Float(item, kiwiFlightFields.price, defaultFlightPrice),
				Currency: "EUR",
			},
			Rating:      normalize.Rating(0),
			ReviewCount: 0,
			Images:      []string{normalize.PlaceholderImage(req.Destination)},
			Attributes:  nil,
			Source:      p.Name(),
		})
	}
	return results, nil
}

// toKiwiDate converts the canonical yyyy-mm-dd wire date to Tequila's
// dd/mm/yyyy form.
func toKiwiDate(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return t.Format("02/01/2006"), nil
}

// kiwiCabinClass maps canonical travel classes onto Tequila cabin letters.
func kiwiCabinClass(travelClass string) string {
	switch travelClass {
	case "ECONOMY":
		return "M"
	case "PREMIUM_ECONOMY":
		return "W"
	case "BUSINESS":
		return "C"
	case "FIRST":
		return "F"
	default:
		return ""
	}
}
