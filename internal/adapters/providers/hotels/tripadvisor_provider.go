package hotels

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/triporia/travelsearch/backend/internal/adapters/providers/normalize"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/rapidapi"
)

const (
	// TripAdvisorHost is the RapidAPI host serving TripAdvisor inventory.
	TripAdvisorHost        = "tripadvisor16.p.rapidapi.com"
	tripadvisorGeoCacheTTL = 60 * 60 * 24 * 7
)

// tripadvisorHotelFields is the declarative fallback table for one raw
// TripAdvisor hotel item. TripAdvisor prices arrive as display strings
// ("$184"), which the numeric resolver tolerates.
var tripadvisorHotelFields = struct {
	id, name, price, rating, reviews, image normalize.Chain
}{
	id:      normalize.Chain{"id", "location_id"},
	name:    normalize.Chain{"title", "name"},
	price:   normalize.Chain{"priceForDisplay", "priceSummary", "price"},
	rating:  normalize.Chain{"bubbleRating.rating", "rating"},
	reviews: normalize.Chain{"bubbleRating.count", "num_reviews"},
	image:   normalize.Chain{"cardPhotos.0.sizes.urlTemplate", "cardPhotos.0.url", "photo.images.original.url"},
}

// TripAdvisorProvider searches hotels through TripAdvisor's RapidAPI
// gateway. Two sequential calls: resolve the location to a TripAdvisor geo
// ID, then search hotels for that geo.
type TripAdvisorProvider struct {
	client *rapidapi.Client
	cache  providers.CacheProvider
}

// NewTripAdvisorProvider creates a new TripAdvisor hotel provider.
func NewTripAdvisorProvider(apiKey string, cache providers.CacheProvider) providers.HotelSearchProvider {
	return NewTripAdvisorProviderWithClient(rapidapi.NewClient(apiKey, TripAdvisorHost), cache)
}

// NewTripAdvisorProviderWithClient allows injecting the HTTP client (used for tests).
func NewTripAdvisorProviderWithClient(client *rapidapi.Client, cache providers.CacheProvider) providers.HotelSearchProvider {
	return &TripAdvisorProvider{client: client, cache: cache}
}

func (p *TripAdvisorProvider) Name() string { return "tripadvisor" }

// Search performs the two-step TripAdvisor hotel search.
func (p *TripAdvisorProvider) Search(ctx context.Context, req entities.HotelSearchRequest) ([]entities.HotelResult, error) {
	geoID, err := p.resolveGeoID(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	if geoID == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("geoId", geoID)
	params.Set("checkIn", req.CheckIn)
	params.Set("checkOut", req.CheckOut)
	params.Set("adults", strconv.Itoa(req.Adults))

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/api/v1/hotels/searchHotels", params, &resp); err != nil {
		return nil, fmt.Errorf("tripadvisor hotel search: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data.data", "data"})
	results := make([]entities.HotelResult, 0, len(items))
	for i, item := range items {
		image := normalize.String(item, tripadvisorHotelFields.image, "")
		// urlTemplate carries {width}/{height} tokens; fill them in
		image = strings.NewReplacer("{width}", "800", "{height}", "600").Replace(image)

		results = append(results, entities.HotelResult{
			ID:       p.Name() + "-" + normalize.String(item, tripadvisorHotelFields.id, strconv.Itoa(i)),
			Name:     normalize.String(item, tripadvisorHotelFields.name, "Hôtel"),
			Location: req.Location,
			Price: entities.Price{
				Amount:   normalize.Float(item, tripadvisorHotelFields.price, defaultHotelPrice),
				Currency: "USD",
			},
			Rating:      normalize.Rating(normalize.Float(item, tripadvisorHotelFields.rating, 0)),
			ReviewCount: normalize.Int(item, tripadvisorHotelFields.reviews, 0),
			Images:      []string{normalize.ImageOrPlaceholder(image, req.Location)},
			Amenities:   normalize.Strings(item, normalize.Chain{"amenities"}),
			Source:      p.Name(),
		})
	}
	return results, nil
}

// resolveGeoID maps a free-text location to a TripAdvisor geo ID.
func (p *TripAdvisorProvider) resolveGeoID(ctx context.Context, location string) (string, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return "", nil
	}

	cacheKey := "tripadvisor:geo:v1:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	params := url.Values{}
	params.Set("query", trimmed)

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/api/v1/hotels/searchLocation", params, &resp); err != nil {
		return "", fmt.Errorf("tripadvisor location lookup: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	if len(items) == 0 {
		return "", nil
	}
	geoID := normalize.String(items[0], normalize.Chain{"geoId", "gaiaId", "documentId"}, "")
	if geoID == "" {
		return "", nil
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, []byte(geoID), tripadvisorGeoCacheTTL)
	}
	return geoID, nil
}
