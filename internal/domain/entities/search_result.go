package entities

// Price is an amount in a specific currency. Never zero on a canonical
// result; a provider that omits pricing gets a small nonzero default so a
// missing price is never mistaken for a free offering.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// HotelResult is the canonical representation of one bookable hotel,
// regardless of which provider supplied it. Ratings are always on a 0-10
// scale. Source records provenance for attribution, never for ranking.
type HotelResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Price       Price    `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
	Source      string   `json:"source"`
}

// FlightResult is the canonical representation of one flight offer.
type FlightResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	DepartureAt string   `json:"departureAt"`
	ArrivalAt   string   `json:"arrivalAt"`
	Stops       int      `json:"stops"`
	Price       Price    `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Images      []string `json:"images"`
	Attributes  []string `json:"attributes"`
	Source      string   `json:"source"`
}

// CarResult is the canonical representation of one rentable vehicle.
type CarResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Price       Price    `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Images      []string `json:"images"`
	Attributes  []string `json:"attributes"`
	Source      string   `json:"source"`
}

// HotelSearchResponse is the aggregated response for a hotel search.
// Mock is true iff no provider returned usable data and the static fallback
// inventory was substituted. It is a hard contract: callers must be able to
// distinguish real inventory from placeholder inventory.
type HotelSearchResponse struct {
	Success bool           `json:"success"`
	Data    []HotelResult  `json:"data"`
	Sources map[string]int `json:"sources"`
	Mock    bool           `json:"mock"`
}

// FlightSearchResponse is the aggregated response for a flight search.
type FlightSearchResponse struct {
	Success bool           `json:"success"`
	Data    []FlightResult `json:"data"`
	Sources map[string]int `json:"sources"`
	Mock    bool           `json:"mock"`
}

// CarSearchResponse is the aggregated response for a car rental search.
type CarSearchResponse struct {
	Success bool           `json:"success"`
	Data    []CarResult    `json:"data"`
	Sources map[string]int `json:"sources"`
	Mock    bool           `json:"mock"`
}
