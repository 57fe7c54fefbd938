package providers

import (
	"context"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
)

// HotelSearchProvider is one external hotel inventory source. Search returns
// zero or more canonical results; a nil, nil return means the provider had
// nothing usable (for example its location-resolution step came up empty).
type HotelSearchProvider interface {
	Name() string
	Search(ctx context.Context, req entities.HotelSearchRequest) ([]entities.HotelResult, error)
}

// FlightSearchProvider is one external flight inventory source.
type FlightSearchProvider interface {
	Name() string
	Search(ctx context.Context, req entities.FlightSearchRequest) ([]entities.FlightResult, error)
}

// CarSearchProvider is one external car rental inventory source.
type CarSearchProvider interface {
	Name() string
	Search(ctx context.Context, req entities.CarSearchRequest) ([]entities.CarResult, error)
}
