package fallback

// destination holds the curated seed data for one well-known city. The
// catalog is intentionally small; unrecognized locations get the generic
// template in fallback.go.
type destination struct {
	City       string
	Country    string
	HotelStems []string
	Airline    string
	BasePrice  float64
	Currency   string
}

// destinationKeys fixes the match order for lookupDestination. A location
// mentioning several catalog cities must always resolve to the same one, so
// matching never ranges over the map directly.
var destinationKeys = []string{"paris", "london", "new york", "tokyo", "dubai", "rome"}

var destinations = map[string]destination{
	"paris": {
		City:       "Paris",
		Country:    "France",
		HotelStems: []string{"Le Marais Boutique", "Rive Gauche Palace", "Opéra Grand"},
		Airline:    "Air France",
		BasePrice:  140,
		Currency:   "EUR",
	},
	"london": {
		City:       "London",
		Country:    "United Kingdom",
		HotelStems: []string{"Covent Garden House", "The Kensington", "Thames View"},
		Airline:    "British Airways",
		BasePrice:  160,
		Currency:   "GBP",
	},
	"new york": {
		City:       "New York",
		Country:    "United States",
		HotelStems: []string{"Midtown Suites", "SoHo Loft Hotel", "Hudson Riverside"},
		Airline:    "Delta",
		BasePrice:  210,
		Currency:   "USD",
	},
	"tokyo": {
		City:       "Tokyo",
		Country:    "Japan",
		HotelStems: []string{"Shinjuku Garden", "Ginza Imperial", "Asakusa Ryokan"},
		Airline:    "ANA",
		BasePrice:  130,
		Currency:   "USD",
	},
	"dubai": {
		City:       "Dubai",
		Country:    "United Arab Emirates",
		HotelStems: []string{"Marina Pearl", "Desert Rose Resort", "Jumeirah Bay"},
		Airline:    "Emirates",
		BasePrice:  180,
		Currency:   "USD",
	},
	"rome": {
		City:       "Rome",
		Country:    "Italy",
		HotelStems: []string{"Trastevere Charm", "Colosseo Suites", "Villa Borghese Inn"},
		Airline:    "ITA Airways",
		BasePrice:  120,
		Currency:   "EUR",
	},
}
