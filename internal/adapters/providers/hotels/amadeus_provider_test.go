package hotels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/amadeus"
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

func newAmadeusTestServer(t *testing.T, locationsBody, offersBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","expires_in":1799}`))
	})
	mux.HandleFunc("GET /v1/reference-data/locations", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(locationsBody))
	})
	mux.HandleFunc("GET /v2/shopping/hotel-offers", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "PAR", r.URL.Query().Get("cityCode"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(offersBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAmadeusProvider_Search(t *testing.T) {
	locations := `{"data":[{"iataCode":"PAR","name":"Paris"}]}`
	offers := `{"data":[
		{"hotel":{"hotelId":"HLPAR123","name":"Hotel Lumière","rating":"4"},
		 "offers":[{"price":{"total":"182.50","currency":"EUR"}}]},
		{"hotel":{"name":"Unpriced Hotel"},"offers":[]}
	]}`
	server := newAmadeusTestServer(t, locations, offers)

	cache := newMemCache()
	client := amadeus.NewClientWithOptions("id", "secret", server.URL, cache, server.Client())
	provider := NewAmadeusProvider(client, cache)

	results, err := provider.Search(context.Background(), entities.HotelSearchRequest{
		Location: "Paris",
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-12",
		Adults:   2,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "amadeus-HLPAR123", first.ID)
	assert.Equal(t, "Hotel Lumière", first.Name)
	assert.Equal(t, "amadeus", first.Source)
	assert.Equal(t, 182.50, first.Price.Amount)
	assert.Equal(t, "EUR", first.Price.Currency)
	assert.Equal(t, 8.0, first.Rating) // 4-star doubled onto the 10 scale
	require.Len(t, first.Images, 1)
	assert.NotEmpty(t, first.Images[0])

	// A hotel with no offer still gets a usable nonzero price.
	assert.Greater(t, results[1].Price.Amount, 0.0)
}

func TestAmadeusProvider_UnresolvableLocation(t *testing.T) {
	server := newAmadeusTestServer(t, `{"data":[]}`, `{"data":[]}`)

	client := amadeus.NewClientWithOptions("id", "secret", server.URL, nil, server.Client())
	provider := NewAmadeusProvider(client, nil)

	results, err := provider.Search(context.Background(), entities.HotelSearchRequest{
		Location: "Nowhereville",
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-12",
		Adults:   1,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAmadeusProvider_CityCodeCached(t *testing.T) {
	locations := `{"data":[{"iataCode":"PAR"}]}`
	offers := `{"data":[]}`
	server := newAmadeusTestServer(t, locations, offers)

	cache := newMemCache()
	client := amadeus.NewClientWithOptions("id", "secret", server.URL, cache, server.Client())
	provider := NewAmadeusProvider(client, cache).(*AmadeusProvider)

	code, err := provider.resolveCityCode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "PAR", code)

	// Second resolution hits the cache even with the server gone.
	server.Close()
	code, err = provider.resolveCityCode(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "PAR", code)
}
