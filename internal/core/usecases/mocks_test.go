package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
)

// --- Mock ItineraryRepository ---

type mockItineraryRepo struct {
	createFn      func(ctx context.Context, trip *domain.Trip, it *domain.Itinerary) error
	saveVersionFn func(ctx context.Context, tripID string, expectedVersion int, it *domain.Itinerary) error
	getTripFn     func(ctx context.Context, tripID string) (*domain.Trip, error)
	latestFn      func(ctx context.Context, tripID string) (*domain.Itinerary, error)
	getVersionFn  func(ctx context.Context, tripID string, version int) (*domain.Itinerary, error)
	listTripsFn   func(ctx context.Context, limit, offset int) ([]domain.Trip, error)
}

func (m *mockItineraryRepo) Create(ctx context.Context, trip *domain.Trip, it *domain.Itinerary) error {
	if m.createFn != nil {
		return m.createFn(ctx, trip, it)
	}
	return nil
}

func (m *mockItineraryRepo) SaveVersion(ctx context.Context, tripID string, expectedVersion int, it *domain.Itinerary) error {
	if m.saveVersionFn != nil {
		return m.saveVersionFn(ctx, tripID, expectedVersion, it)
	}
	return nil
}

func (m *mockItineraryRepo) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if m.getTripFn != nil {
		return m.getTripFn(ctx, tripID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockItineraryRepo) Latest(ctx context.Context, tripID string) (*domain.Itinerary, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, tripID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockItineraryRepo) GetVersion(ctx context.Context, tripID string, version int) (*domain.Itinerary, error) {
	if m.getVersionFn != nil {
		return m.getVersionFn(ctx, tripID, version)
	}
	return nil, domain.ErrNotFound
}

func (m *mockItineraryRepo) ListTrips(ctx context.Context, limit, offset int) ([]domain.Trip, error) {
	if m.listTripsFn != nil {
		return m.listTripsFn(ctx, limit, offset)
	}
	return nil, nil
}

// versionedRepo backs a mockItineraryRepo with a single trip whose versions
// are kept in memory, rejecting stale writes the way the database does.
func versionedRepo(tripID string, first *domain.Itinerary) (*mockItineraryRepo, func() []*domain.Itinerary) {
	var mu sync.Mutex
	versions := []*domain.Itinerary{first.Clone()}

	repo := &mockItineraryRepo{
		latestFn: func(ctx context.Context, id string) (*domain.Itinerary, error) {
			mu.Lock()
			defer mu.Unlock()
			if id != tripID {
				return nil, domain.ErrNotFound
			}
			return versions[len(versions)-1].Clone(), nil
		},
		saveVersionFn: func(ctx context.Context, id string, expected int, it *domain.Itinerary) error {
			mu.Lock()
			defer mu.Unlock()
			if expected != len(versions) {
				return domain.ErrVersionConflict
			}
			versions = append(versions, it.Clone())
			return nil
		},
	}
	snapshot := func() []*domain.Itinerary {
		mu.Lock()
		defer mu.Unlock()
		return append([]*domain.Itinerary(nil), versions...)
	}
	return repo, snapshot
}

// --- Mock POIRepository ---

type mockPOIRepo struct {
	getByIDsFn   func(ctx context.Context, ids []string) ([]domain.POI, error)
	findNearbyFn func(ctx context.Context, center domain.GeoPoint, radiusKm float64, limit int) ([]domain.POI, error)
}

func (m *mockPOIRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error { return nil }

func (m *mockPOIRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.POI, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockPOIRepo) FindNearby(ctx context.Context, center domain.GeoPoint, radiusKm float64, limit int) ([]domain.POI, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, center, radiusKm, limit)
	}
	return nil, nil
}

// --- Mock EvaluationRepository ---

type mockEvalRepo struct {
	insertFn     func(ctx context.Context, ev *domain.Evaluation) error
	listByTripFn func(ctx context.Context, tripID string, limit int) ([]domain.Evaluation, error)
}

func (m *mockEvalRepo) Insert(ctx context.Context, ev *domain.Evaluation) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, ev)
	}
	return nil
}

func (m *mockEvalRepo) ListByTrip(ctx context.Context, tripID string, limit int) ([]domain.Evaluation, error) {
	if m.listByTripFn != nil {
		return m.listByTripFn(ctx, tripID, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

var errMiss = errors.New("miss")

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
	setErr  error
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deletes = append(m.deletes, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []*domain.ItineraryEvent
	err    error
}

func (m *mockPublisher) PublishItineraryEvent(ctx context.Context, event *domain.ItineraryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// --- Mock TimezoneResolver ---

type mockZones struct {
	fn func(p domain.GeoPoint) (string, error)
}

func (m *mockZones) Timezone(p domain.GeoPoint) (string, error) {
	if m.fn != nil {
		return m.fn(p)
	}
	return "", domain.ErrNotFound
}

// --- Fixtures ---

var tripStart = domain.NewDate(2024, time.February, 15)

func kathmanduPOIs() []domain.POI {
	mk := func(id, category string, lat, lon float64) domain.POI {
		return domain.POI{ID: id, Name: "POI " + id, Category: category, Location: domain.GeoPoint{Lat: lat, Lon: lon}}
	}
	return []domain.POI{
		mk("h1", "historic", 27.7045, 85.3075),
		mk("h2", "historic", 27.7050, 85.3094),
		mk("h3", "historic", 27.7036, 85.3090),
		mk("fort", "fort", 27.7860, 85.3075),
		mk("restaurant", "restaurant", 27.6710, 85.3240),
		mk("village", "culture", 27.7045, 85.4300),
	}
}

func builtItinerary(t *testing.T, tripID string) *domain.Itinerary {
	t.Helper()
	it, err := planner.NewEngine().BuildItinerary(planner.BuildRequest{
		City:      "Kathmandu",
		POIs:      kathmanduPOIs(),
		Days:      3,
		StartDate: tripStart,
		Pace:      domain.PaceModerate,
		Timezone:  "Asia/Kathmandu",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	it.TripID = tripID
	return it
}
