package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/usecases"
)

func newExportService(t *testing.T) *usecases.ExportService {
	repo := &mockItineraryRepo{
		latestFn: func(ctx context.Context, tripID string) (*domain.Itinerary, error) {
			return builtItinerary(t, tripID), nil
		},
	}
	return usecases.NewExportService(usecases.NewPlannerService(planner.NewEngine(), repo, nil, nil, nil, nil, testLimits))
}

func TestExportService_ICS(t *testing.T) {
	out, err := newExportService(t).ICS(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Error("missing calendar header")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 6 {
		t.Errorf("expected 6 events, got %d", got)
	}
	if !strings.Contains(out, "Asia/Kathmandu") {
		t.Error("calendar timezone not set")
	}
}

func TestExportService_DayGeoJSON(t *testing.T) {
	svc := newExportService(t)

	b, err := svc.DayGeoJSON(context.Background(), "trip-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(b), `"FeatureCollection"`) {
		t.Errorf("unexpected body %s", b)
	}

	if _, err := svc.DayGeoJSON(context.Background(), "trip-1", 4); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for day 4, got %v", err)
	}
}
