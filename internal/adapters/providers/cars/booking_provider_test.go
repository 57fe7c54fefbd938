package cars

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/rapidapi"
)

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func TestBookingProvider_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/cars/searchDestination", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Coordinates arrive as JSON numbers.
		w.Write([]byte(`{"data":[{"latitude":48.8566,"longitude":2.3522}]}`))
	})
	mux.HandleFunc("GET /api/v1/cars/searchCarRentals", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "48.8566", r.URL.Query().Get("pick_up_latitude"))
		require.Equal(t, "2.3522", r.URL.Query().Get("drop_off_longitude"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"search_results":[
			{"vehicle_id":"77812",
			 "vehicle_info":{"v_name":"Peugeot 308","seats":"5","image_url":"https://cdn.rcstatic.com/images/car_images/p308.jpg"},
			 "pricing_info":{"drive_away_price":187.44,"currency":"EUR"},
			 "rating_info":{"average":8.4,"no_of_ratings":356},
			 "supplier_info":{"name":"Europcar"}}
		]}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := rapidapi.NewClientWithOptions("test-key", BookingHost, server.URL, server.Client())
	provider := NewBookingProviderWithClient(client, newMemCache())

	results, err := provider.Search(context.Background(), entities.CarSearchRequest{
		PickupLocation:  "Paris",
		DropoffLocation: "Paris",
		PickupDate:      "2026-09-10",
		DropoffDate:     "2026-09-12",
		PickupTime:      "10:00",
		DropoffTime:     "10:00",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	car := results[0]
	assert.Equal(t, "booking-77812", car.ID)
	assert.Equal(t, "Peugeot 308", car.Name)
	assert.Equal(t, 187.44, car.Price.Amount)
	assert.Equal(t, "EUR", car.Price.Currency)
	assert.Equal(t, 8.4, car.Rating)
	assert.Equal(t, 356, car.ReviewCount)
	assert.Contains(t, car.Attributes, "Europcar")
	assert.Contains(t, car.Attributes, "5 seats")
	assert.Equal(t, "booking", car.Source)
}

func TestBookingProvider_UnresolvableLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/cars/searchDestination", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := rapidapi.NewClientWithOptions("test-key", BookingHost, server.URL, server.Client())
	provider := NewBookingProviderWithClient(client, nil)

	results, err := provider.Search(context.Background(), entities.CarSearchRequest{
		PickupLocation:  "Atlantis",
		DropoffLocation: "Atlantis",
		PickupDate:      "2026-09-10",
		DropoffDate:     "2026-09-12",
		PickupTime:      "10:00",
		DropoffTime:     "10:00",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
