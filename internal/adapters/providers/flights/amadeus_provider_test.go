package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/clients/amadeus"
)

func TestAmadeusProvider_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","expires_in":1799}`))
	})
	mux.HandleFunc("GET /v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		// Three-letter inputs pass through as IATA codes without a lookup.
		require.Equal(t, "CDG", r.URL.Query().Get("originLocationCode"))
		require.Equal(t, "JFK", r.URL.Query().Get("destinationLocationCode"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"id":"1",
			 "validatingAirlineCodes":["AF"],
			 "itineraries":[{"duration":"PT8H25M","segments":[
				{"departure":{"at":"2026-09-10T10:30:00"},"arrival":{"at":"2026-09-10T13:05:00"}},
				{"departure":{"at":"2026-09-10T15:00:00"},"arrival":{"at":"2026-09-10T18:55:00"}}]}],
			 "price":{"grandTotal":"412.30","currency":"EUR"}}
		]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := amadeus.NewClientWithOptions("id", "secret", server.URL, nil, server.Client())
	provider := NewAmadeusProvider(client, nil)

	results, err := provider.Search(context.Background(), entities.FlightSearchRequest{
		Origin:        "cdg",
		Destination:   "JFK",
		DepartureDate: "2026-09-10",
		Adults:        1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	flight := results[0]
	assert.Equal(t, "amadeus-1", flight.ID)
	assert.Equal(t, "AF", flight.Name)
	assert.Equal(t, "CDG", flight.Origin)
	assert.Equal(t, "JFK", flight.Destination)
	assert.Equal(t, "2026-09-10T10:30:00", flight.DepartureAt)
	assert.Equal(t, 1, flight.Stops) // two segments, one connection
	assert.Equal(t, 412.30, flight.Price.Amount)
	assert.Equal(t, "EUR", flight.Price.Currency)
	assert.Contains(t, flight.Attributes, "8h 25m")
	assert.Equal(t, "amadeus", flight.Source)
}

func TestParseISODuration(t *testing.T) {
	assert.Equal(t, "8h 25m", parseISODuration("PT8H25M"))
	assert.Equal(t, "45m", parseISODuration("PT45M"))
	assert.Equal(t, "2h", parseISODuration("PT2H"))
	assert.Equal(t, "", parseISODuration(""))
	assert.Equal(t, "already readable", parseISODuration("already readable"))
}

func TestResolveIATA_CodePassthrough(t *testing.T) {
	client := amadeus.NewClientWithOptions("id", "secret", "http://127.0.0.1:0", nil, nil)
	provider := NewAmadeusProvider(client, nil).(*AmadeusProvider)

	code, err := provider.resolveIATA(context.Background(), "lhr")
	require.NoError(t, err)
	assert.Equal(t, "LHR", code)
}
