package hotels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/rapidapi"
)

func TestBookingProvider_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/hotels/searchDestination", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		require.Equal(t, BookingHost, r.Header.Get("X-RapidAPI-Host"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"dest_id":"-1456928","dest_type":"city"}]}`))
	})
	mux.HandleFunc("GET /api/v1/hotels/searchHotels", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "-1456928", r.URL.Query().Get("dest_id"))
		require.Equal(t, "2026-09-10", r.URL.Query().Get("arrival_date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"hotels":[
			{"hotel_id":871234,"property":{
				"name":"Le Grand Paris",
				"reviewScore":8.7,
				"reviewCount":2143,
				"photoUrls":["https://cf.bstatic.com/images/hotel/max1024x768/123.jpg"],
				"priceBreakdown":{"grossPrice":{"value":210.0,"currency":"EUR"}}}}
		]}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := rapidapi.NewClientWithOptions("test-key", BookingHost, server.URL, server.Client())
	provider := NewBookingProviderWithClient(client, newMemCache())

	results, err := provider.Search(context.Background(), entities.HotelSearchRequest{
		Location: "Paris",
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-12",
		Adults:   2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	hotel := results[0]
	assert.Equal(t, "booking-871234", hotel.ID)
	assert.Equal(t, "Le Grand Paris", hotel.Name)
	assert.Equal(t, 210.0, hotel.Price.Amount)
	assert.Equal(t, "EUR", hotel.Price.Currency)
	assert.Equal(t, 8.7, hotel.Rating) // already on the 10 scale, kept as-is
	assert.Equal(t, 2143, hotel.ReviewCount)
	assert.Equal(t, "https://cf.bstatic.com/images/hotel/max1024x768/123.jpg", hotel.Images[0])
	assert.Equal(t, "booking", hotel.Source)
}

func TestBookingProvider_UnknownDestination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/hotels/searchDestination", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := rapidapi.NewClientWithOptions("test-key", BookingHost, server.URL, server.Client())
	provider := NewBookingProviderWithClient(client, nil)

	results, err := provider.Search(context.Background(), entities.HotelSearchRequest{
		Location: "Atlantis",
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-12",
		Adults:   1,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
