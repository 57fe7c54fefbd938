package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triporia/travelsearch/backend/internal/application/services"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
)

func newHandlerWithoutProviders() *SearchHandler {
	// No providers configured: every search is served from fallback
	// inventory with the mock flag raised.
	return NewSearchHandler(services.NewSearchService(nil, nil, nil))
}

func TestSearchHotels_FallbackResponseContract(t *testing.T) {
	handler := newHandlerWithoutProviders()

	body := `{"location":"Paris","checkIn":"2026-09-10","checkOut":"2026-09-12","adults":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/search-hotels", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchHotels(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entities.HotelSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.True(t, resp.Mock)
	require.NotEmpty(t, resp.Data)
	for _, h := range resp.Data {
		assert.Contains(t, h.Location, "Paris")
		assert.Greater(t, h.Price.Amount, 0.0)
		assert.GreaterOrEqual(t, h.Rating, 0.0)
		assert.LessOrEqual(t, h.Rating, 10.0)
		assert.NotEmpty(t, h.Images)
	}
	assert.Equal(t, len(resp.Data), resp.Sources["fallback"])
}

func TestSearchHotels_InvalidJSON(t *testing.T) {
	handler := newHandlerWithoutProviders()

	req := httptest.NewRequest(http.MethodPost, "/api/search-hotels", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.SearchHotels(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHotels_ValidationErrorsAreFieldKeyed(t *testing.T) {
	handler := newHandlerWithoutProviders()

	body := `{"location":"P","checkIn":"10/09/2026","adults":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/search-hotels", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchHotels(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "location")
	assert.Contains(t, resp.Errors, "checkIn")
	assert.Contains(t, resp.Errors, "checkOut")
	assert.Contains(t, resp.Errors, "adults")
}

func TestSearchFlights_ValidationAndFallback(t *testing.T) {
	handler := newHandlerWithoutProviders()

	// Missing everything: field-keyed errors.
	req := httptest.NewRequest(http.MethodPost, "/api/search-flights", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.SearchFlights(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Valid request: fallback inventory for the route.
	body := `{"origin":"LHR","destination":"BCN","departureDate":"2026-09-10","adults":1}`
	req = httptest.NewRequest(http.MethodPost, "/api/search-flights", strings.NewReader(body))
	rec = httptest.NewRecorder()
	handler.SearchFlights(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entities.FlightSearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Mock)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "LHR", resp.Data[0].Origin)
	assert.Equal(t, "BCN", resp.Data[0].Destination)
}

func TestSearchCars_InvalidTravelTimes(t *testing.T) {
	handler := newHandlerWithoutProviders()

	body := `{"pickupLocation":"Lisbon","dropoffLocation":"Lisbon","pickupDate":"2026-09-10","dropoffDate":"2026-09-12","pickupTime":"9am","dropoffTime":"09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/car-rental", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SearchCars(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "pickupTime")
	assert.NotContains(t, resp.Errors, "dropoffTime")
}
