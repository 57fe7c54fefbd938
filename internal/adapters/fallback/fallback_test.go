package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/triporia/travelsearch/backend/internal/adapters/providers/normalize"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
)

func TestHotels_Deterministic(t *testing.T) {
	src := NewSource()
	req := entities.HotelSearchRequest{Location: "Paris", CheckIn: "2025-06-01", CheckOut: "2025-06-03", Adults: 2}

	first := src.Hotels(req)
	second := src.Hotels(req)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestHotels_MultiCityLocationResolvesStably(t *testing.T) {
	src := NewSource()
	req := entities.HotelSearchRequest{Location: "Paris or London", CheckIn: "2026-09-10", CheckOut: "2026-09-12", Adults: 2}

	// Two catalog cities match the location; the earlier key must win on
	// every call, not whichever the map yields first.
	first := src.Hotels(req)
	assert.Equal(t, "Paris, France", first[0].Location)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, src.Hotels(req))
	}
}

func TestHotels_CuratedCityMatchesBySubstring(t *testing.T) {
	src := NewSource()

	results := src.Hotels(entities.HotelSearchRequest{Location: "paris, france"})
	assert.Contains(t, results[0].Location, "Paris")
	assert.Equal(t, "EUR", results[0].Price.Currency)
}

func TestHotels_ResultsSatisfyCanonicalInvariants(t *testing.T) {
	src := NewSource()

	for _, location := range []string{"Tokyo", "Nowhereville"} {
		for _, h := range src.Hotels(entities.HotelSearchRequest{Location: location}) {
			assert.NotEmpty(t, h.ID)
			assert.NotEmpty(t, h.Name)
			assert.Greater(t, h.Price.Amount, 0.0)
			assert.NotEmpty(t, h.Price.Currency)
			assert.GreaterOrEqual(t, h.Rating, 0.0)
			assert.LessOrEqual(t, h.Rating, 10.0)
			assert.NotEmpty(t, h.Images)
			assert.True(t, normalize.IsValidImageURL(h.Images[0]))
			assert.Equal(t, SourceTag, h.Source)
		}
	}
}

func TestFlights_UsesRequestedRoute(t *testing.T) {
	src := NewSource()
	req := entities.FlightSearchRequest{
		Origin:        "cdg",
		Destination:   "jfk",
		DepartureDate: "2025-06-01",
		Adults:        1,
	}

	results := src.Flights(req)
	assert.NotEmpty(t, results)
	for _, f := range results {
		assert.Equal(t, "CDG", f.Origin)
		assert.Equal(t, "JFK", f.Destination)
		assert.Contains(t, f.DepartureAt, "2025-06-01")
		assert.Greater(t, f.Price.Amount, 0.0)
		assert.Equal(t, SourceTag, f.Source)
	}
}

func TestCars_UnknownLocationGetsGenericTemplate(t *testing.T) {
	src := NewSource()
	req := entities.CarSearchRequest{PickupLocation: "Smalltown"}

	results := src.Cars(req)
	assert.Len(t, results, 3)
	for _, c := range results {
		assert.Contains(t, c.Location, "Smalltown")
		assert.Greater(t, c.Price.Amount, 0.0)
	}
}
