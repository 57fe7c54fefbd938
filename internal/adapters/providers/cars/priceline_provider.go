package cars

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
	// PricelineHost is the RapidAPI host serving Priceline inventory.
	PricelineHost = "priceline-com-provider.p.rapidapi.com"

	defaultCarPrice    = 45.0
	defaultCarCurrency = "USD"
	defaultCarName     = "Rental Car"
)

// pricelineCarFields is the declarative fallback table for one raw Priceline
// vehicle item.
var pricelineCarFields = struct {
	id, name, price, currency, image, vehicleType, passengers normalize.Chain
}{
	id:          normalize.Chain{"vehicle_id", "id"},
	name:        normalize.Chain{"vehicle_info.description", "car_model", "name"},
	price:       normalize.Chain{"vehicle_rates.0.price_details.display_total_fare", "price_details.display_price", "price"},
	currency:    normalize.Chain{"vehicle_rates.0.price_details.display_currency", "currency"},
	image:       normalize.Chain{"vehicle_info.image_url", "images.SIZE268X144", "image"},
	vehicleType: normalize.Chain{"vehicle_info.type_name", "vehicle_info.type"},
	passengers:  normalize.Chain{"vehicle_info.passenger_capacity"},
}

// PricelineProvider searches rental cars through Priceline's RapidAPI
// gateway.
type PricelineProvider struct {
	client *rapidapi.Client
}

// NewPricelineProvider creates a new Priceline car rental provider.
func NewPricelineProvider(apiKey string) providers.CarSearchProvider {
	return NewPricelineProviderWithClient(rapidapi.NewClient(apiKey, PricelineHost))
}

// NewPricelineProviderWithClient allows injecting the HTTP client (used for tests).
func NewPricelineProviderWithClient(client *rapidapi.Client) providers.CarSearchProvider {
	return &PricelineProvider{client: client}
}

func (p *PricelineProvider) Name() string { return "priceline" }

// Search performs the Priceline car rental search.
func (p *PricelineProvider) Search(ctx context.Context, req entities.CarSearchRequest) ([]entities.CarResult, error) {
	params := url.Values{}
	params.Set("pickup_location", strings.TrimSpace(req.PickupLocation))
	params.Set("dropoff_location", strings.TrimSpace(req.DropoffLocation))
	params.Set("pickup_date", req.PickupDate)
	params.Set("dropoff_date", req.DropoffDate)
	params.Set("pickup_time", req.PickupTime)
	params.Set("dropoff_time", req.DropoffTime)

	var resp map[string]interface{}
	if err := p.client.GetJSON(ctx, "/v2/cars/resultsRequest", params, &resp); err != nil {
		return nil, fmt.Errorf("priceline car search: %w", err)
	}

	items := normalize.Items(resp, normalize.Chain{"getCarResultsRequest.results.result_list", "results", "data"})
	results := make([]entities.CarResult, 0, len(items))
	for i, item := range items {
		var attrs []string
		if vt := normalize.String(item, pricelineCarFields.vehicleType, ""); vt != "" {
			attrs = append(attrs, vt)
		}
		if seats := normalize.Int(item, pricelineCarFields.passengers, 0); seats > 0 {
			attrs = append(attrs, strconv.Itoa(seats)+" seats")
		}

		results = append(results, entities.CarResult{
			ID:       p.Name() + "-" + normalize.String(item, pricelineCarFields.id, strconv.Itoa(i)),
			Name:     normalize.String(item, pricelineCarFields.name, defaultCarName),
			Location: req.PickupLocation,
			Price: entities.Price{
				Amount:   normalize.Float(item, pricelineCarFields.price, defaultCarPrice),
				Currency: normalize.String(item, pricelineCarFields.currency, defaultCarCurrency),
			},
			Rating:      normalize.Rating(0),
			ReviewCount: 0,
			Images:      []string{normalize.ImageOrPlaceholder(normalize.String(item, pricelineCarFields.image, ""), req.PickupLocation)},
			Attributes:  attrs,
			Source:      p.Name(),
		})
	}
	return results, nil
}
