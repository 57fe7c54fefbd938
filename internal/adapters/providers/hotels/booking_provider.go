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
	// BookingHost is the RapidAPI host serving Booking.com inventory.
	BookingHost         = "booking-com15.p.rapidapi.com"
	bookingDestCacheTTL = 60 * 60 * 24 * 7
)

// bookingHotelFields is the declarative fallback table for one raw
// Booking.com hotel item.
var bookingHotelFields = struct {
	id, name, price, currency, rating, reviews, image normalize.Chain
}{
	id:       normalize.Chain{"hotel_id", "property.id", "id"},
	name:     normalize.Chain{"property.name", "hotel_name", "name"},
	price:    normalize.Chain{"property.priceBreakdown.grossPrice.value", "min_total_price", "price"},
	currency: normalize.Chain{"property.priceBreakdown.grossPrice.currency", "currencycode", "currency"},
	rating:   normalize.Chain{"property.reviewScore", "review_score", "rating"},
	reviews:  normalize.Chain{"property.reviewCount", "review_nr"},
	image:    normalize.Chain{"property.photoUrls.0", "max_photo_url", "main_photo_url"},
}

// BookingProvider searches hotels through Booking.com's RapidAPI gateway.
// Two sequential calls: resolve the location to a Booking destination ID,
// then search hotels for that destination.
type BookingProvider struct {
	client *rapidapi.Client
	cache  providers.CacheProvider
}

// NewBookingProvider creates a new Booking.com hotel provider.
func NewBookingProvider(apiKey string, cache providers.CacheProvider) providers.HotelSearchProvider {
	return NewBookingProviderWithClient(rapidapi.NewClient(apiKey, BookingHost), cache)
}

// NewBookingProviderWithClient allows injecting the HTTP client (used for tests).
func NewBookingProviderWithClient(client *rapidapi.Client, cache providers.CacheProvider) providers.HotelSearchProvider {
	return &BookingProvider{client: client, cache: cache}
}

func (p *BookingProvider) Name() string { return "booking" }

// Search performs the two-step Booking.com hotel search.
func (p *BookingProvider) Search(ctx context.Context, req entities.HotelSearchRequest) ([]entities.HotelResult, error) {
	destID, err := p.resolveDestination(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	if destID == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("dest_id", destID)
	params.Set("search_type", "CITY")
	params.Set("arrival_date", req.CheckIn)
	params.Set("departure_date", req.CheckOut)
	params.Set("adults", strconv.Itoa(req.Adults))
	if req.Children > 0 {
		params.Set("children_age", strings.TrimSuffix(strings.Repeat("7,", req.Children), ","))
	}
	if req.Rooms > 0 {
		params.Set("room_qty", strconv.Itoa(req.Rooms))
	}

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/api/v1/hotels/searchHotels", params, &resp); err != nil {
		return nil, fmt.Errorf("booking hotel search: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data.hotels", "data.results", "result"})
	results := make([]entities.HotelResult, 0, len(items))
	for i, item := range items {
		results = append(results, entities.HotelResult{
			ID:       p.Name() + "-" + normalize.String(item, bookingHotelFields.id, strconv.Itoa(i)),
			Name:     normalize.String(item, bookingHotelFields.name, "Hôtel"),
			Location: req.Location,
			Price: entities.Price{
				Amount:   normalize.Float(item, bookingHotelFields.price, defaultHotelPrice),
				Currency: normalize.String(item, bookingHotelFields.currency, defaultHotelCurrency),
			},
			Rating:      normalize.Rating(normalize.Float(item, bookingHotelFields.rating, 0)),
			ReviewCount: normalize.Int(item, bookingHotelFields.reviews, 0),
			Images:      []string{normalize.ImageOrPlaceholder(normalize.String(item, bookingHotelFields.image, ""), req.Location)},
			Amenities:   normalize.Strings(item, normalize.Chain{"property.facilities", "hotel_facilities"}),
			Source:      p.Name(),
		})
	}
	return results, nil
}

// resolveDestination maps a free-text location to a Booking dest_id,
// cache-aside since destination IDs are stable.
func (p *BookingProvider) resolveDestination(ctx context.Context, location string) (string, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return "", nil
	}

	cacheKey := "booking:dest:v1:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	params := url.Values{}
	params.Set("query", trimmed)

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/api/v1/hotels/searchDestination", params, &resp); err != nil {
		return "", fmt.Errorf("booking destination lookup: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	if len(items) == 0 {
		return "", nil
	}
	destID := normalize.String(items[0], normalize.Chain{"dest_id", "dest_type_id", "id"}, "")
	if destID == "" {
		return "", nil
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, []byte(destID), bookingDestCacheTTL)
	}
	return destID, nil
}
