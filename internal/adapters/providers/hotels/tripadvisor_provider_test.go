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

func TestTripAdvisorProvider_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/hotels/searchLocation", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Rome", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"geoId":"187791","title":"Rome, Italy"}]}`))
	})
	mux.HandleFunc("GET /api/v1/hotels/searchHotels", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "187791", r.URL.Query().Get("geoId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[
			{"id":"10034521",
			 "title":"Hotel Colosseo",
			 "priceForDisplay":"$184",
			 "bubbleRating":{"rating":4.5,"count":"1,893"},
			 "cardPhotos":[{"sizes":{"urlTemplate":"https://dynamic-media-cdn.tripadvisor.com/media/photo-o/x.jpg?w={width}&h={height}"}}]}
		]}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := rapidapi.NewClientWithOptions("test-key", TripAdvisorHost, server.URL, server.Client())
	provider := NewTripAdvisorProviderWithClient(client, newMemCache())

	results, err := provider.Search(context.Background(), entities.HotelSearchRequest{
		Location: "Rome",
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-12",
		Adults:   2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	hotel := results[0]
	assert.Equal(t, "tripadvisor-10034521", hotel.ID)
	assert.Equal(t, "Hotel Colosseo", hotel.Name)
	assert.Equal(t, 184.0, hotel.Price.Amount) // "$184" display string parsed
	assert.Equal(t, 9.0, hotel.Rating)         // 4.5 bubbles doubled
	assert.Equal(t, 1893, hotel.ReviewCount)

	// {width}/{height} tokens are materialized so the URL is servable.
	assert.Equal(t, "https://dynamic-media-cdn.tripadvisor.com/media/photo-o/x.jpg?w=800&h=600", hotel.Images[0])
}
