package hotels

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

// xoteloLocationIDs maps normalized city substrings to the TripAdvisor
// location IDs Xotelo indexes by. Xotelo has no location-resolution
// endpoint, so coverage is limited to this table; unlisted locations
// short-circuit to zero results and other providers fill the gap.
var xoteloLocationIDs = map[string]string{
	"paris":    "g187147",
	"london":   "g186338",
	"new york": "g60763",
	"tokyo":    "g298184",
	"dubai":    "g295424",
	"rome":     "g187791",
	"berlin":   "g187323",
	"madrid":   "g187514",
}

// xoteloHotelFields is the declarative fallback table for one raw Xotelo
// list item.
var xoteloHotelFields = struct {
	id, name, price, rating, reviews, image normalize.Chain
}{
	id:      normalize.Chain{"key", "hotel_key"},
	name:    normalize.Chain{"name", "title"},
	price:   normalize.Chain{"price_ranges.minimum", "price.amount", "price"},
	rating:  normalize.Chain{"review_summary.rating", "rating"},
	reviews: normalize.Chain{"review_summary.count", "reviews"},
	image:   normalize.Chain{"image.url", "photo_url"},
}

// XoteloProvider searches hotel rates through the keyless Xotelo API.
type XoteloProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewXoteloProvider creates a new Xotelo hotel provider.
func NewXoteloProvider(baseURL string) providers.HotelSearchProvider {
	return NewXoteloProviderWithOptions(baseURL, nil)
}

// NewXoteloProviderWithOptions allows overriding the HTTP client (used for tests).
func NewXoteloProviderWithOptions(baseURL string, httpClient *http.Client) providers.HotelSearchProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &XoteloProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (p *XoteloProvider) Name() string { return "xotelo" }

// Search lists hotels for locations covered by the built-in location table.
func (p *XoteloProvider) Search(ctx context.Context, req entities.HotelSearchRequest) ([]entities.HotelResult, error) {
	locationID := resolveXoteloLocation(req.Location)
	if locationID == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("location_id", locationID)
	params.Set("chk_in", req.CheckIn)
	params.Set("chk_out", req.CheckOut)
	params.Set("sort", "best_value")

	reqURL := p.baseURL + "/list?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("xotelo request: %w", err)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("xotelo request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("xotelo returned status %d", httpResp.StatusCode)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("xotelo decode: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"result.list", "result.rates", "list"})
	results := make([]entities.HotelResult, 0, len(items))
	for i, item := range items {
		results = append(results, entities.HotelResult{
			ID:       p.Name() + "-" + normalize.String(item, xoteloHotelFields.id, strconv.Itoa(i)),
			Name:     normalize.String(item, xoteloHotelFields.name, "Hôtel"),
			Location: req.Location,
			Price: entities.Price{
				Amount:   normalize.Float(item, xoteloHotelFields.price, defaultHotelPrice),
				Currency: "USD",
			},
			Rating:      normalize.Rating(normalize.Float(item, xoteloHotelFields.rating, 0)),
			ReviewCount: normalize.Int(item, xoteloHotelFields.reviews, 0),
			Images:      []string{normalize.ImageOrPlaceholder(normalize.String(item, xoteloHotelFields.image, ""), req.Location)},
			Amenities:   nil,
			Source:      p.Name(),
		})
	}
	return results, nil
}

func resolveXoteloLocation(location string) string {
	normalized := strings.ToLower(strings.TrimSpace(location))
	for key, id := range xoteloLocationIDs {
		if strings.Contains(normalized, key) {
			return id
		}
	}
	return ""
}
