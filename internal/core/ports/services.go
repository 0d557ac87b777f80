package ports

import (
	"context"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// EventPublisher publishes itinerary events to a message broker.
type EventPublisher interface {
	PublishItineraryEvent(ctx context.Context, event *domain.ItineraryEvent) error
}

// EventSubscriber subscribes to itinerary events from a message broker.
type EventSubscriber interface {
	SubscribeItineraryEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ItineraryEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// TimezoneResolver maps a coordinate to an IANA timezone name.
type TimezoneResolver interface {
	Timezone(p domain.GeoPoint) (string, error)
}
