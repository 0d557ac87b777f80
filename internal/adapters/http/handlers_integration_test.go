//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/samirrijal/waypath/internal/adapters/http"
	"github.com/samirrijal/waypath/internal/adapters/postgres"
	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/usecases"
	"github.com/samirrijal/waypath/internal/pkg/config"
)

// setupTestDB connects to the database named by the WAYPATH_DATABASE_*
// settings. The schema from migrations/ must already be applied.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("waypath-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

// setupTestDeps wires the real repositories with no cache or broker.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	engine := planner.NewEngine()
	trips := postgres.NewItineraryRepo(db)
	pois := postgres.NewPOIRepo(db)
	plannerSvc := usecases.NewPlannerService(engine, trips, pois, nil, nil, nil, usecases.PlannerLimits{MaxDays: 14, MaxPOIs: 60})

	return &http.Dependencies{
		Planner:     plannerSvc,
		Edits:       usecases.NewEditService(engine, trips, nil, nil),
		Evaluations: usecases.NewEvaluationService(engine, trips, postgres.NewEvaluationRepo(db)),
		Exports:     usecases.NewExportService(plannerSvc),
		Engine:      engine,
		DB:          db,
	}
}

func TestTripLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()
	app := setupApp(setupTestDeps(t, db))

	created := createTrip(t, app)

	code, body := doJSON(t, app, "POST", "/v1/trips/"+created.TripID+"/edits", map[string]interface{}{
		"kind":             "relax",
		"target_day":       1,
		"expected_version": 1,
	})
	if code != 200 {
		t.Fatalf("edit: expected 200, got %d: %s", code, body)
	}

	// The same stale edit must now lose against version 2.
	code, _ = doJSON(t, app, "POST", "/v1/trips/"+created.TripID+"/edits", map[string]interface{}{
		"kind":             "relax",
		"target_day":       1,
		"expected_version": 1,
	})
	if code != 409 {
		t.Fatalf("stale edit: expected 409, got %d", code)
	}

	code, body = doJSON(t, app, "GET", "/v1/trips/"+created.TripID+"/versions/1", nil)
	if code != 200 {
		t.Fatalf("version 1: expected 200, got %d", code)
	}
	var v1 domain.Itinerary
	if err := json.Unmarshal(body, &v1); err != nil {
		t.Fatal(err)
	}
	if v1.Metadata.Edited {
		t.Error("version 1 must stay unedited")
	}

	code, body = doJSON(t, app, "POST", "/v1/trips/"+created.TripID+"/evaluations?version=2", nil)
	if code != 201 {
		t.Fatalf("evaluate: expected 201, got %d: %s", code, body)
	}
}

func TestNearbyPOIs_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	err := postgres.NewPOIRepo(db).UpsertBatch(ctx, []domain.POI{
		{ID: "it-durbar", Name: "Durbar Square", Category: "historic", Location: domain.GeoPoint{Lat: 27.7045, Lon: 85.3075}},
		{ID: "it-far", Name: "Pokhara Lakeside", Category: "nature", Location: domain.GeoPoint{Lat: 28.2096, Lon: 83.9856}},
	})
	if err != nil {
		t.Fatalf("seed pois: %v", err)
	}

	app := setupApp(setupTestDeps(t, db))
	code, body := doJSON(t, app, "GET", "/v1/pois/nearby?lat=27.7050&lon=85.3080&radius_km=3", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var pois []domain.POI
	if err := json.Unmarshal(body, &pois); err != nil {
		t.Fatal(err)
	}
	for _, p := range pois {
		if p.ID == "it-far" {
			t.Error("a POI 150 km away must not be returned")
		}
	}
}
