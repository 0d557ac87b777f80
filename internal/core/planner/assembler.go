package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// BuildRequest holds the inputs of BuildItinerary.
type BuildRequest struct {
	City      string
	POIs      []domain.POI
	Days      int
	StartDate domain.Date
	Pace      domain.PaceName
	Timezone  string
	CreatedAt time.Time
}

func (r BuildRequest) validate() (PaceProfile, error) {
	if strings.TrimSpace(r.City) == "" {
		return PaceProfile{}, domain.NewValidationError("city", "city is required")
	}
	if len(r.POIs) == 0 {
		return PaceProfile{}, domain.NewValidationError("pois", "at least one poi is required")
	}
	if r.Days < 1 {
		return PaceProfile{}, domain.NewValidationError("days", fmt.Sprintf("must be at least 1, got %d", r.Days))
	}
	if r.StartDate.IsZero() {
		return PaceProfile{}, domain.NewValidationError("start_date", "start date is required")
	}
	pace, err := ParsePace(string(r.Pace))
	if err != nil {
		return PaceProfile{}, err
	}
	seen := make(map[string]bool, len(r.POIs))
	for i, p := range r.POIs {
		field := fmt.Sprintf("pois[%d]", i)
		if err := validatePOI(field, p); err != nil {
			return PaceProfile{}, err
		}
		if seen[p.ID] {
			return PaceProfile{}, domain.NewValidationError(field, fmt.Sprintf("duplicate poi id %s", p.ID))
		}
		seen[p.ID] = true
	}
	return pace, nil
}

// BuildItinerary clusters the requested POIs, spreads the clusters over the
// trip days round-robin and schedules every day.
func BuildItinerary(req BuildRequest) (*domain.Itinerary, error) {
	pace, err := req.validate()
	if err != nil {
		return nil, fmt.Errorf("build itinerary: %w", err)
	}

	perDay := make([][]domain.POI, req.Days)
	for i, c := range Cluster(req.POIs, pace.MaxActivitiesPerBlock, pace.ClusterRadiusKm) {
		perDay[i%req.Days] = append(perDay[i%req.Days], c...)
	}

	it := &domain.Itinerary{
		City:      strings.TrimSpace(req.City),
		Duration:  req.Days,
		StartDate: req.StartDate,
		Pace:      pace.Name,
		Timezone:  req.Timezone,
		Days:      make([]domain.ItineraryDay, 0, req.Days),
		POICount:  len(req.POIs),
		Metadata:  domain.Metadata{CreatedAt: req.CreatedAt, Version: 1},
	}
	for d := 1; d <= req.Days; d++ {
		it.Days = append(it.Days, ScheduleDay(d, req.StartDate.AddDays(d-1), perDay[d-1], pace))
	}
	it.Recompute()
	return it, nil
}
