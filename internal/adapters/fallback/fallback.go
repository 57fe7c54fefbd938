// Package fallback produces deterministic static inventory for searches
// where no real provider returned usable data, so a syntactically valid
// request never gets an empty result set. Results are structurally identical
// to real ones; only the response-level mock flag distinguishes provenance.
package fallback

import (
	"fmt"
	"strings"

	"github.com/triporia/travelsearch/backend/internal/adapters/providers/normalize"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
)

// SourceTag marks fallback-originated results in the canonical Source field.
const SourceTag = "fallback"

// Source produces static inventory per domain. Pure and deterministic for a
// given (domain, location).
type Source struct{}

// NewSource creates a fallback source.
func NewSource() *Source {
	return &Source{}
}

// Hotels returns static hotel inventory for the requested location.
func (s *Source) Hotels(req entities.HotelSearchRequest) []entities.HotelResult {
	dest := lookupDestination(req.Location)
	results := make([]entities.HotelResult, 0, len(dest.HotelStems))
	for i, stem := range dest.HotelStems {
		results = append(results, entities.HotelResult{
			ID:          fmt.Sprintf("%s-%s-hotel-%d", SourceTag, slug(dest.City), i+1),
			Name:        fmt.Sprintf("%s Hotel", stem),
			Location:    fmt.Sprintf("%s, %s", dest.City, dest.Country),
			Price:       entities.Price{Amount: dest.BasePrice + float64(i)*35, Currency: dest.Currency},
			Rating:      normalize.Rating(4.2 + 0.2*float64(i)),
			ReviewCount: 420 + 180*i,
			Images:      []string{normalize.PlaceholderImage(dest.City + stem)},
			Amenities:   []string{"Free WiFi", "Breakfast included", "24h front desk"},
			Source:      SourceTag,
		})
	}
	return results
}

// Flights returns static flight inventory for the requested route.
func (s *Source) Flights(req entities.FlightSearchRequest) []entities.FlightResult {
	dest := lookupDestination(req.Destination)
	route := fmt.Sprintf("%s-%s", slug(req.Origin), slug(req.Destination))
	departures := []struct {
		dep, arr string
		stops    int
	}{
		{"08:15", "11:40", 0},
		{"12:30", "17:05", 1},
		{"18:45", "22:10", 0},
	}

	results := make([]entities.FlightResult, 0, len(departures))
	for i, d := range departures {
		attrs := []string{"carry-on included"}
		if d.stops == 0 {
			attrs = append(attrs, "nonstop")
		} else {
			attrs = append(attrs, fmt.Sprintf("%d stop", d.stops))
		}
		results = append(results, entities.FlightResult{
			ID:          fmt.Sprintf("%s-%s-flight-%d", SourceTag, route, i+1),
			Name:        dest.Airline,
			Origin:      strings.ToUpper(strings.TrimSpace(req.Origin)),
			Destination: strings.ToUpper(strings.TrimSpace(req.Destination)),
			DepartureAt: fmt.Sprintf("%sT%s:00", req.DepartureDate, d.dep),
			ArrivalAt:   fmt.Sprintf("%sT%s:00", req.DepartureDate, d.arr),
			Stops:       d.stops,
			Price:       entities.Price{Amount: dest.BasePrice + 60 + float64(i)*45, Currency: dest.Currency},
			Rating:      normalize.Rating(4.0 + 0.3*float64(i)),
			ReviewCount: 950 + 310*i,
			Images:      []string{normalize.PlaceholderImage(req.Destination)},
			Attributes:  attrs,
			Source:      SourceTag,
		})
	}
	return results
}

// Cars returns static car rental inventory for the requested pickup location.
func (s *Source) Cars(req entities.CarSearchRequest) []entities.CarResult {
	dest := lookupDestination(req.PickupLocation)
	vehicles := []struct {
		name, class string
		seats       int
		factor      float64
	}{
		{"Toyota Yaris", "Economy", 4, 0.3},
		{"Volkswagen Golf", "Compact", 5, 0.4},
		{"Renault Espace", "Minivan", 7, 0.6},
	}

	results := make([]entities.CarResult, 0, len(vehicles))
	for i, v := range vehicles {
		results = append(results, entities.CarResult{
			ID:          fmt.Sprintf("%s-%s-car-%d", SourceTag, slug(dest.City), i+1),
			Name:        v.name,
			Location:    fmt.Sprintf("%s, %s", dest.City, dest.Country),
			Price:       entities.Price{Amount: dest.BasePrice * v.factor, Currency: dest.Currency},
			Rating:      normalize.Rating(4.1 + 0.2*float64(i)),
			ReviewCount: 130 + 95*i,
			Images:      []string{normalize.PlaceholderImage(dest.City + v.name)},
			Attributes:  []string{v.class, fmt.Sprintf("%d seats", v.seats), "Automatic"},
			Source:      SourceTag,
		})
	}
	return results
}

// lookupDestination matches the location against the curated catalog by
// normalized substring, falling back to a generic template.
func lookupDestination(location string) destination {
	normalized := strings.ToLower(strings.TrimSpace(location))
	for _, key := range destinationKeys {
		if strings.Contains(normalized, key) {
			return destinations[key]
		}
	}

	city := strings.TrimSpace(location)
	if city == "" {
		city = "Your destination"
	}
	return destination{
		City:       city,
		Country:    "International",
		HotelStems: []string{"Central Plaza", "Old Town Boutique", "Airport Express"},
		Airline:    "SkyTeam Partner",
		BasePrice:  110,
		Currency:   "USD",
	}
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}
