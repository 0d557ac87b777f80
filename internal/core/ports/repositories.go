package ports

import (
	"context"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// ItineraryRepository persists itineraries keyed by trip and version.
type ItineraryRepository interface {
	// Create stores a new trip together with version 1 of its itinerary.
	Create(ctx context.Context, trip *domain.Trip, it *domain.Itinerary) error
	// SaveVersion stores it as the version after expectedVersion. It returns
	// domain.ErrVersionConflict when expectedVersion is no longer current.
	SaveVersion(ctx context.Context, tripID string, expectedVersion int, it *domain.Itinerary) error
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	Latest(ctx context.Context, tripID string) (*domain.Itinerary, error)
	GetVersion(ctx context.Context, tripID string, version int) (*domain.Itinerary, error)
	ListTrips(ctx context.Context, limit, offset int) ([]domain.Trip, error)
}

// EvaluationRepository persists evaluation results.
type EvaluationRepository interface {
	Insert(ctx context.Context, ev *domain.Evaluation) error
	ListByTrip(ctx context.Context, tripID string, limit int) ([]domain.Evaluation, error)
}

// POIRepository is the POI-search collaborator.
type POIRepository interface {
	UpsertBatch(ctx context.Context, pois []domain.POI) error
	GetByIDs(ctx context.Context, ids []string) ([]domain.POI, error)
	FindNearby(ctx context.Context, center domain.GeoPoint, radiusKm float64, limit int) ([]domain.POI, error)
}
