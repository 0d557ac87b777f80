package usecases

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/pkg/logging"
	"github.com/samirrijal/waypath/internal/pkg/metrics"
	"github.com/samirrijal/waypath/internal/pkg/telemetry"
)

// EditService applies edit instructions to stored itineraries. Edits to the
// same trip run one at a time; the repository rejects stale writes from other
// processes.
type EditService struct {
	engine    *planner.Engine
	trips     ports.ItineraryRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	locks     *keyedMutex
	now       func() time.Time
}

// NewEditService creates a new EditService.
func NewEditService(engine *planner.Engine, trips ports.ItineraryRepository, cache ports.CacheService, publisher ports.EventPublisher) *EditService {
	return &EditService{
		engine:    engine,
		trips:     trips,
		cache:     cache,
		publisher: publisher,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// ApplyEdit applies ins to the latest version of the trip and stores the
// result as the next version. A positive expectedVersion must match the
// latest version or domain.ErrVersionConflict is returned.
func (s *EditService) ApplyEdit(ctx context.Context, tripID string, expectedVersion int, ins domain.EditInstruction) (*domain.EditResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "planner.apply_edit")
	defer span.End()
	span.SetAttributes(telemetry.AttrTripID.String(tripID), telemetry.AttrEditKind.String(string(ins.Kind)))

	unlock := s.locks.Lock(tripID)
	defer unlock()

	current, err := s.trips.Latest(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != current.Metadata.Version {
		return nil, fmt.Errorf("trip %s is at version %d, not %d: %w", tripID, current.Metadata.Version, expectedVersion, domain.ErrVersionConflict)
	}

	res, err := s.engine.ApplyEdit(current, ins)
	if err != nil {
		metrics.EditsApplied.WithLabelValues(string(ins.Kind), "rejected").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.trips.SaveVersion(ctx, tripID, current.Metadata.Version, res.Itinerary); err != nil {
		metrics.EditsApplied.WithLabelValues(string(ins.Kind), "conflict").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("store version %d: %w", res.Itinerary.Metadata.Version, err)
	}
	span.SetAttributes(telemetry.AttrVersion.Int(res.Itinerary.Metadata.Version))

	metrics.EditsApplied.WithLabelValues(string(ins.Kind), "applied").Inc()
	if !res.Feasibility.Feasible {
		metrics.InfeasibleDays.WithLabelValues("edit").Inc()
	}
	if !res.Diff.Valid() {
		metrics.DiffViolations.Inc()
		logging.FromContext(ctx).Warn("edit changed more than its target", "trip_id", tripID, "violations", res.Diff.Violations)
	}

	cacheItinerary(ctx, s.cache, res.Itinerary)

	publish(ctx, s.publisher, &domain.ItineraryEvent{
		Type:     domain.EventEdited,
		TripID:   tripID,
		Version:  res.Itinerary.Metadata.Version,
		Edit:     res.Itinerary.Metadata.LastEdit,
		Feasible: res.Feasibility.Feasible,
		Time:     s.now().UTC(),
	})

	logging.FromContext(ctx).Info("edit applied",
		"trip_id", tripID,
		"kind", ins.Kind,
		"version", res.Itinerary.Metadata.Version,
		"added", len(res.Changes.Added),
		"removed", len(res.Changes.Removed),
		"feasible", res.Feasibility.Feasible,
	)
	return res, nil
}
