package hotels

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
	amadeusCityCacheTTL  = 60 * 60 * 24 * 30
	defaultHotelPrice    = 120.0
	defaultHotelCurrency = "EUR"
)

// amadeusHotelFields is the declarative fallback table for one raw Amadeus
// hotel offer item. The order is the resolution order.
var amadeusHotelFields = struct {
	id, name, price, currency, rating, image normalize.Chain
}{
	id:       normalize.Chain{"hotel.hotelId", "hotel.dupeId", "id"},
	name:     normalize.Chain{"hotel.name", "name"},
	price:    normalize.Chain{"offers.0.price.total", "offers.0.price.base"},
	currency: normalize.Chain{"offers.0.price.currency"},
	rating:   normalize.Chain{"hotel.rating"},
	image:    normalize.Chain{"hotel.media.0.uri"},
}

// AmadeusProvider searches hotels through the Amadeus Self-Service API.
// Two sequential calls: resolve the free-text location to an IATA city code,
// then fetch offers for that city. No resolved city means zero results.
type AmadeusProvider struct {
	client *amadeus.Client
	cache  providers.CacheProvider
}

// NewAmadeusProvider creates a new Amadeus hotel provider.
func NewAmadeusProvider(client *amadeus.Client, cache providers.CacheProvider) providers.HotelSearchProvider {
	return &AmadeusProvider{client: client, cache: cache}
}

func (p *AmadeusProvider) Name() string { return "amadeus" }

// Search performs the two-step Amadeus hotel search.
func (p *AmadeusProvider) Search(ctx context.Context, req entities.HotelSearchRequest) ([]entities.HotelResult, error) {
	cityCode, err := p.resolveCityCode(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	if cityCode == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("cityCode", cityCode)
	params.Set("checkInDate", req.CheckIn)
	params.Set("checkOutDate", req.CheckOut)
	params.Set("adults", strconv.Itoa(req.Adults))
	if req.Rooms > 0 {
		params.Set("roomQuantity", strconv.Itoa(req.Rooms))
	}

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/v2/shopping/hotel-offers", params, &resp); err != nil {
		return nil, fmt.Errorf("amadeus hotel search: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	results := make([]entities.HotelResult, 0, len(items))
	for i, item := range items {
		results = append(results, p.normalizeItem(item, i, req.Location))
	}
	return results, nil
}

func (p *AmadeusProvider) normalizeItem(item map[string]interface{}, idx int, location string) entities.HotelResult {
	name := normalize.String(item, amadeusHotelFields.name, "Hôtel")
	return entities.HotelResult{
		ID:          p.Name() + "-" + normalize.String(item, amadeusHotelFields.id, strconv.Itoa(idx)),
		Name:        name,
		Location:    location,
		Price:       entities.Price{
			Amount:   normalize.Float(item, amadeusHotelFields.price, defaultHotelPrice),
			Currency: normalize.String(item, amadeusHotelFields.currency, defaultHotelCurrency),
		},
		Rating:      normalize.Rating(normalize.Float(item, amadeusHotelFields.rating, 0)),
		ReviewCount: 0,
		Images:      []string{normalize.ImageOrPlaceholder(normalize.String(item, amadeusHotelFields.image, ""), location)},
		Amenities:   normalize.Strings(item, normalize.Chain{"hotel.amenities"}),
		Source:      p.Name(),
	}
}

// resolveCityCode maps a free-text location to an IATA city code, cache-aside
// with a long TTL since city codes never change.
func (p *AmadeusProvider) resolveCityCode(ctx context.Context, location string) (string, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return "", nil
	}

	cacheKey := "amadeus:city:v1:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	params := url.Values{}
	params.Set("keyword", trimmed)
	params.Set("subType", "CITY")

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/v1/reference-data/locations", params, &resp); err != nil {
		return "", fmt.Errorf("amadeus city lookup: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"data"})
	if len(items) == 0 {
		return "", nil
	}
	code := normalize.String(items[0], normalize.Chain{"iataCode", "address.cityCode"}, "")
	if code == "" {
		return "", nil
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, []byte(code), amadeusCityCacheTTL)
	}
	return code, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
