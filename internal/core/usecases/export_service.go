package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/pkg/export"
)

// ExportService renders stored itineraries as calendar and map documents.
type ExportService struct {
	planner *PlannerService
}

// NewExportService creates a new ExportService reading through planner so the
// itinerary cache is shared.
func NewExportService(planner *PlannerService) *ExportService {
	return &ExportService{planner: planner}
}

// ICS returns the latest itinerary as an iCalendar document. Event times use
// the itinerary's timezone, or UTC when it has none.
func (s *ExportService) ICS(ctx context.Context, tripID string) (string, error) {
	it, err := s.planner.GetItinerary(ctx, tripID)
	if err != nil {
		return "", err
	}
	loc := time.UTC
	if it.Timezone != "" {
		if l, err := time.LoadLocation(it.Timezone); err == nil {
			loc = l
		}
	}
	return export.ICS(it, loc), nil
}

// DayGeoJSON returns one day of the latest itinerary as GeoJSON.
func (s *ExportService) DayGeoJSON(ctx context.Context, tripID string, day int) ([]byte, error) {
	it, err := s.planner.GetItinerary(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if day < 1 || day > len(it.Days) {
		return nil, fmt.Errorf("day %d of trip %s: %w", day, tripID, domain.ErrNotFound)
	}
	return export.DayGeoJSON(it.Days[day-1])
}
