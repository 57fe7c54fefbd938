package cars

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
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
	BookingHost          = "booking-com15.p.rapidapi.com"
	bookingCoordCacheTTL = 60 * 60 * 24 * 7
)

// bookingCarFields is the declarative fallback table for one raw Booking.com
// car rental item.
var bookingCarFields = struct {
	id, name, price, currency, rating, reviews, image, supplier, seats normalize.Chain
}{
	id:       normalize.Chain{"vehicle_id", "id"},
	name:     normalize.Chain{"vehicle_info.v_name", "vehicle_info.label", "name"},
	price:    normalize.Chain{"pricing_info.drive_away_price", "pricing_info.price", "price"},
	currency: normalize.Chain{"pricing_info.currency", "currency"},
	rating:   normalize.Chain{"rating_info.average", "rating"},
	reviews:  normalize.Chain{"rating_info.no_of_ratings"},
	image:    normalize.Chain{"vehicle_info.image_url", "vehicle_info.image"},
	supplier: normalize.Chain{"supplier_info.name"},
	seats:    normalize.Chain{"vehicle_info.seats"},
}

// coordinates is a geographic point resolved from a free-text location.
type coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// BookingProvider searches rental cars through Booking.com's RapidAPI
// gateway. Two sequential calls: resolve each free-text location to
// coordinates, then search vehicles between the two points.
type BookingProvider struct {
	client *rapidapi.Client
	cache  providers.CacheProvider
}

// NewBookingProvider creates a new Booking.com car rental provider.
func NewBookingProvider(apiKey string, cache providers.CacheProvider) providers.CarSearchProvider {
	return NewBookingProviderWithClient(rapidapi.NewClient(apiKey, BookingHost), cache)
}

// NewBookingProviderWithClient allows injecting the HTTP client (used for tests).
func NewBookingProviderWithClient(client *rapidapi.Client, cache providers.CacheProvider) providers.CarSearchProvider {
	return &BookingProvider{client: client, cache: cache}
}

func (p *BookingProvider) Name() string { return "booking" }

// Search performs the two-step Booking.com car rental search.
func (p *BookingProvider) Search(ctx context.Context, req entities.CarSearchRequest) ([]entities.CarResult, error) {
	pickup, err := p.resolveCoordinates(ctx, req.PickupLocation)
	if err != nil {
		return nil, err
	}
	dropoff, err := p.resolveCoordinates(ctx, req.DropoffLocation)
	if err != nil {
		return nil, err
	}
	if pickup == nil || dropoff == nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("pick_up_latitude", pickup.Latitude)
	params.Set("pick_up_longitude", pickup.Longitude)
	params.Set("drop_off_latitude", dropoff.Latitude)
	params.Set("drop_off_longitude", dropoff.Longitude)
	params.Set("pick_up_date", req.PickupDate)
	params.Set("drop_off_date", req.DropoffDate)
	params.Set("pick_up_time", req.PickupTime)
	params.Set("drop_off_time", req.DropoffTime)

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/api/v1/cars/searchCarRentals", params, &resp); err != nil {
		return nil, fmt.Errorf("booking car search: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data.search_results", "data.results", "search_results"})
	results := make([]entities.CarResult, 0, len(items))
	for i, item := range items {
		var attrs []string
		if supplier := normalize.String(item, bookingCarFields.supplier, ""); supplier != "" {
			attrs = append(attrs, supplier)
		}
		if seats := normalize.Int(item, bookingCarFields.seats, 0); seats > 0 {
			attrs = append(attrs, strconv.Itoa(seats)+" seats")
		}

		results = append(results, entities.CarResult{
			ID:       p.Name() + "-" + normalize.String(item, bookingCarFields.id, strconv.Itoa(i)),
			Name:     normalize.String(item, bookingCarFields.name, defaultCarName),
			Location: req.PickupLocation,
			Price: entities.Price{
				Amount:   normalize.Float(item, bookingCarFields.price, defaultCarPrice),
				Currency: normalize.String(item, bookingCarFields.currency, defaultCarCurrency),
			},
			Rating:      normalize.Rating(normalize.Float(item, bookingCarFields.rating, 0)),
			ReviewCount: normalize.Int(item, bookingCarFields.reviews, 0),
			Images:      []string{normalize.ImageOrPlaceholder(normalize.String(item, bookingCarFields.image, ""), req.PickupLocation)},
			Attributes:  attrs,
			Source:      p.Name(),
		})
	}
	return results, nil
}

// resolveCoordinates maps a free-text location to coordinates, cache-aside
// since geocoding results are stable.
func (p *BookingProvider) resolveCoordinates(ctx context.Context, location string) (*coordinates, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, nil
	}

	cacheKey := "booking:coords:v1:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var coords coordinates
			if err := json.Unmarshal(cached, &coords); err == nil {
				return &coords, nil
			}
		}
	}

	params := url.Values{}
	params.Set("query", trimmed)

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/api/v1/cars/searchDestination", params, &resp); err != nil {
		return nil, fmt.Errorf("booking car destination lookup: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	if len(items) == 0 {
		return nil, nil
	}
	lat, latOK := normalize.Number(items[0], normalize.Chain{"latitude", "coordinates.latitude"})
	lon, lonOK := normalize.Number(items[0], normalize.Chain{"longitude", "coordinates.longitude"})
	if !latOK || !lonOK {
		return nil, nil
	}
	coords := &coordinates{
		Latitude:  strconv.FormatFloat(lat, 'f', -1, 64),
		Longitude: strconv.FormatFloat(lon, 'f', -1, 64),
	}

	if p.cache != nil {
		if raw, err := json.Marshal(coords); err == nil {
			_ = p.cache.Set(ctx, cacheKey, raw, bookingCoordCacheTTL)
		}
	}
	return coords, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
