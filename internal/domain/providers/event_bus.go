package providers

import (
	"context"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to search
// events, used for live dashboards and cross-process analytics.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.SearchEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.SearchEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelSearches is the channel carrying every completed search
	EventChannelSearches = "search:performed"

	// EventChannelDomainPrefix is the prefix for per-domain channels
	EventChannelDomainPrefix = "search:"
)

// GetDomainChannel returns the channel name for a specific search domain.
func GetDomainChannel(domain string) string {
	return EventChannelDomainPrefix + domain
}
