package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID          string         `json:"id"`
	Domain      string         `json:"domain"`
	Location    string         `json:"location"`
	ResultCount int            `json:"result_count"`
	Sources     map[string]int `json:"sources,omitempty"`
	Mock        bool           `json:"mock"`
	LatencyMs   int            `json:"latency_ms"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Search domains used across events, metrics, and fallback inventory.
const (
	SearchDomainHotels  = "hotels"
	SearchDomainFlights = "flights"
	SearchDomainCars    = "cars"
)
