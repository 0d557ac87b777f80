package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without zoneinfo

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/pkg/logging"
	"github.com/samirrijal/waypath/internal/pkg/metrics"
	"github.com/samirrijal/waypath/internal/pkg/telemetry"
)

const (
	itineraryCacheTTL = 300
	nearbyCacheTTL    = 600

	defaultNearbyRadiusKm = 2.0
	maxNearbyRadiusKm     = 25.0
	maxNearbyLimit        = 50
)

// PlannerLimits bounds what a single CreateTrip may request.
type PlannerLimits struct {
	DefaultPace domain.PaceName
	MaxDays     int
	MaxPOIs     int
}

// CreateTripInput is a trip-creation request. POIs may be given inline,
// referenced by id from the POI store, or both.
type CreateTripInput struct {
	City      string          `json:"city"`
	Days      int             `json:"days"`
	StartDate domain.Date     `json:"start_date"`
	Pace      domain.PaceName `json:"pace,omitempty"`
	Timezone  string          `json:"timezone,omitempty"`
	POIs      []domain.POI    `json:"pois,omitempty"`
	POIIDs    []string        `json:"poi_ids,omitempty"`
}

// PlannerService builds, stores and serves itineraries.
type PlannerService struct {
	engine    *planner.Engine
	trips     ports.ItineraryRepository
	pois      ports.POIRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	zones     ports.TimezoneResolver
	limits    PlannerLimits
	newID     func() string
	now       func() time.Time
}

// NewPlannerService creates a new PlannerService. cache, publisher and zones
// may be nil.
func NewPlannerService(
	engine *planner.Engine,
	trips ports.ItineraryRepository,
	pois ports.POIRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	zones ports.TimezoneResolver,
	limits PlannerLimits,
) *PlannerService {
	if limits.DefaultPace == "" {
		limits.DefaultPace = domain.PaceModerate
	}
	return &PlannerService{
		engine:    engine,
		trips:     trips,
		pois:      pois,
		cache:     cache,
		publisher: publisher,
		zones:     zones,
		limits:    limits,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// CreateTrip builds version 1 of a new trip's itinerary and stores it.
func (s *PlannerService) CreateTrip(ctx context.Context, in CreateTripInput) (*domain.Itinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "planner.create_trip")
	defer span.End()
	log := logging.FromContext(ctx)

	if in.Pace == "" {
		in.Pace = s.limits.DefaultPace
	}
	span.SetAttributes(telemetry.AttrPace.String(string(in.Pace)), telemetry.AttrDays.Int(in.Days))

	if s.limits.MaxDays > 0 && in.Days > s.limits.MaxDays {
		return nil, domain.NewValidationError("days", fmt.Sprintf("at most %d days may be planned, got %d", s.limits.MaxDays, in.Days))
	}
	if s.limits.MaxPOIs > 0 && len(in.POIs)+len(in.POIIDs) > s.limits.MaxPOIs {
		return nil, domain.NewValidationError("pois", fmt.Sprintf("at most %d pois may be planned, got %d", s.limits.MaxPOIs, len(in.POIs)+len(in.POIIDs)))
	}

	pois, err := s.resolvePOIs(ctx, in)
	if err != nil {
		return nil, err
	}

	tz, err := s.timezone(ctx, in.Timezone, pois)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	it, err := s.engine.BuildItinerary(planner.BuildRequest{
		City:      in.City,
		POIs:      pois,
		Days:      in.Days,
		StartDate: in.StartDate,
		Pace:      in.Pace,
		Timezone:  tz,
		CreatedAt: s.now().UTC(),
	})
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	trip := &domain.Trip{
		ID:             s.newID(),
		City:           it.City,
		Pace:           it.Pace,
		Days:           it.Duration,
		StartDate:      it.StartDate,
		CurrentVersion: it.Metadata.Version,
		CreatedAt:      it.Metadata.CreatedAt,
		UpdatedAt:      it.Metadata.CreatedAt,
	}
	it.TripID = trip.ID
	span.SetAttributes(telemetry.AttrTripID.String(trip.ID))

	if err := s.trips.Create(ctx, trip, it); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("store trip: %w", err)
	}

	metrics.ItinerariesBuilt.WithLabelValues(string(it.Pace)).Inc()
	infeasible := lo.CountBy(it.Days, func(d domain.ItineraryDay) bool { return !d.Feasible })
	metrics.InfeasibleDays.WithLabelValues("build").Add(float64(infeasible))

	s.cacheItinerary(ctx, it)
	publish(ctx, s.publisher, &domain.ItineraryEvent{
		Type:     domain.EventBuilt,
		TripID:   trip.ID,
		Version:  it.Metadata.Version,
		Feasible: infeasible == 0,
		Time:     s.now().UTC(),
	})

	log.Info("trip created", "trip_id", trip.ID, "city", it.City, "days", it.Duration, "activities", it.ActivityCount, "infeasible_days", infeasible)
	return it, nil
}

func (s *PlannerService) resolvePOIs(ctx context.Context, in CreateTripInput) ([]domain.POI, error) {
	if len(in.POIIDs) == 0 {
		return in.POIs, nil
	}
	if s.pois == nil {
		return nil, domain.NewValidationError("poi_ids", "poi lookup is not available")
	}
	stored, err := s.pois.GetByIDs(ctx, lo.Uniq(in.POIIDs))
	if err != nil {
		return nil, fmt.Errorf("load pois: %w", err)
	}
	found := lo.SliceToMap(stored, func(p domain.POI) (string, bool) { return p.ID, true })
	if missing := lo.Reject(in.POIIDs, func(id string, _ int) bool { return found[id] }); len(missing) > 0 {
		return nil, domain.NewValidationError("poi_ids", fmt.Sprintf("unknown poi %s", missing[0]))
	}
	return append(append([]domain.POI{}, in.POIs...), stored...), nil
}

// timezone validates an explicit zone or derives one from the first located
// POI. A failed lookup leaves the itinerary without a zone.
func (s *PlannerService) timezone(ctx context.Context, explicit string, pois []domain.POI) (string, error) {
	if explicit != "" {
		if _, err := time.LoadLocation(explicit); err != nil {
			return "", domain.NewValidationError("timezone", fmt.Sprintf("unknown timezone %q", explicit))
		}
		return explicit, nil
	}
	if s.zones == nil {
		return "", nil
	}
	p, ok := lo.Find(pois, func(p domain.POI) bool { return p.Location.Valid() })
	if !ok {
		return "", nil
	}
	name, err := s.zones.Timezone(p.Location)
	if err != nil {
		logging.FromContext(ctx).Warn("timezone lookup failed", "poi_id", p.ID, "error", err)
		return "", nil
	}
	return name, nil
}

// GetItinerary returns the latest version of a trip's itinerary.
func (s *PlannerService) GetItinerary(ctx context.Context, tripID string) (*domain.Itinerary, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, itineraryKey(tripID)); err == nil {
			var it domain.Itinerary
			if err := json.Unmarshal(data, &it); err == nil {
				return &it, nil
			}
		}
	}

	it, err := s.trips.Latest(ctx, tripID)
	if err != nil {
		return nil, err
	}
	s.cacheItinerary(ctx, it)
	return it, nil
}

// GetVersion returns a specific stored version.
func (s *PlannerService) GetVersion(ctx context.Context, tripID string, version int) (*domain.Itinerary, error) {
	if version < 1 {
		return nil, domain.NewValidationError("version", fmt.Sprintf("must be at least 1, got %d", version))
	}
	return s.trips.GetVersion(ctx, tripID, version)
}

// GetTrip returns the trip record.
func (s *PlannerService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return s.trips.GetTrip(ctx, tripID)
}

// ListTrips returns trips, newest first.
func (s *PlannerService) ListTrips(ctx context.Context, limit, offset int) ([]domain.Trip, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.trips.ListTrips(ctx, limit, offset)
}

// SuggestPOIs returns stored POIs near a point, nearest first.
func (s *PlannerService) SuggestPOIs(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.POI, error) {
	center := domain.GeoPoint{Lat: lat, Lon: lon}
	if !center.Valid() {
		return nil, domain.NewValidationError("location", "lat must be -90..90 and lon -180..180")
	}
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}
	radiusKm = min(radiusKm, maxNearbyRadiusKm)
	if limit <= 0 || limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}
	if s.pois == nil {
		return []domain.POI{}, nil
	}

	cacheKey := fmt.Sprintf("pois:nearby:%.4f:%.4f:%.1f:%d", lat, lon, radiusKm, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pois []domain.POI
			if err := json.Unmarshal(data, &pois); err == nil {
				return pois, nil
			}
		}
	}

	pois, err := s.pois.FindNearby(ctx, center, radiusKm, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(pois); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, nearbyCacheTTL)
		}
	}
	return pois, nil
}

func (s *PlannerService) cacheItinerary(ctx context.Context, it *domain.Itinerary) {
	cacheItinerary(ctx, s.cache, it)
}

func itineraryKey(tripID string) string { return "itinerary:" + tripID }

func cacheItinerary(ctx context.Context, cache ports.CacheService, it *domain.Itinerary) {
	if cache == nil || it.TripID == "" {
		return
	}
	key := itineraryKey(it.TripID)
	data, err := json.Marshal(it)
	if err == nil {
		err = cache.Set(ctx, key, data, itineraryCacheTTL)
	}
	if err == nil {
		return
	}
	logging.FromContext(ctx).Warn("cache itinerary failed", "trip_id", it.TripID, "error", err)
	// A previous version may still be cached under key.
	if err := cache.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).Warn("evict cached itinerary failed", "trip_id", it.TripID, "error", err)
	}
}

// publish sends event if a publisher is configured. Failures are logged and
// counted; the stored version stays authoritative.
func publish(ctx context.Context, p ports.EventPublisher, event *domain.ItineraryEvent) {
	if p == nil {
		return
	}
	if err := p.PublishItineraryEvent(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues(event.Type, "error").Inc()
		logging.FromContext(ctx).Warn("publish itinerary event failed", "type", event.Type, "trip_id", event.TripID, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(event.Type, "ok").Inc()
}
