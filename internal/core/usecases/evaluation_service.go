package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/pkg/logging"
	"github.com/samirrijal/waypath/internal/pkg/metrics"
	"github.com/samirrijal/waypath/internal/pkg/telemetry"
)

// EvaluationService re-checks stored itineraries with the same feasibility
// rules the engine applies while building, plus structural consistency checks.
type EvaluationService struct {
	engine *planner.Engine
	trips  ports.ItineraryRepository
	evals  ports.EvaluationRepository
	newID  func() string
	now    func() time.Time
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(engine *planner.Engine, trips ports.ItineraryRepository, evals ports.EvaluationRepository) *EvaluationService {
	return &EvaluationService{
		engine: engine,
		trips:  trips,
		evals:  evals,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Evaluate checks the given version of a trip (0 means latest) and stores
// the result.
func (s *EvaluationService) Evaluate(ctx context.Context, tripID string, version int) (*domain.Evaluation, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "planner.evaluate")
	defer span.End()
	span.SetAttributes(telemetry.AttrTripID.String(tripID), telemetry.AttrVersion.Int(version))

	var (
		it  *domain.Itinerary
		err error
	)
	if version > 0 {
		it, err = s.trips.GetVersion(ctx, tripID, version)
	} else {
		it, err = s.trips.Latest(ctx, tripID)
	}
	if err != nil {
		return nil, err
	}

	ev := s.EvaluateItinerary(it)
	ev.ID = s.newID()
	ev.TripID = tripID
	ev.CreatedAt = s.now().UTC()

	if err := s.evals.Insert(ctx, &ev); err != nil {
		return nil, fmt.Errorf("store evaluation: %w", err)
	}

	result := "passed"
	if !ev.Passed {
		result = "failed"
	}
	metrics.EvaluationsRun.WithLabelValues(result).Inc()
	logging.FromContext(ctx).Info("itinerary evaluated", "trip_id", tripID, "version", ev.Version, "passed", ev.Passed)
	return &ev, nil
}

// EvaluateItinerary checks it without storing anything.
func (s *EvaluationService) EvaluateItinerary(it *domain.Itinerary) domain.Evaluation {
	ev := domain.Evaluation{
		TripID:           it.TripID,
		Version:          it.Metadata.Version,
		Passed:           true,
		Days:             make([]domain.DayEvaluation, 0, len(it.Days)),
		StructuralIssues: structuralIssues(it),
	}
	for _, day := range it.Days {
		res := s.engine.CheckFeasibility(day, it.Pace)
		ev.Days = append(ev.Days, domain.DayEvaluation{Day: day.Day, Feasible: res.Feasible, Issues: res.Issues})
		if !res.Feasible {
			ev.Passed = false
		}
	}
	if len(ev.StructuralIssues) > 0 {
		ev.Passed = false
	}
	return ev
}

// List returns the most recent evaluations of a trip.
func (s *EvaluationService) List(ctx context.Context, tripID string, limit int) ([]domain.Evaluation, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.evals.ListByTrip(ctx, tripID, limit)
}

func structuralIssues(it *domain.Itinerary) []string {
	issues := []string{}
	if it.Metadata.Version < 1 {
		issues = append(issues, fmt.Sprintf("version %d is not positive", it.Metadata.Version))
	}
	if len(it.Days) != it.Duration {
		issues = append(issues, fmt.Sprintf("expected %d days, found %d", it.Duration, len(it.Days)))
	}

	seen := make(map[string]int)
	activities := 0
	for i, day := range it.Days {
		if day.Day != i+1 {
			issues = append(issues, fmt.Sprintf("day at position %d is numbered %d", i+1, day.Day))
		}
		if want := it.StartDate.AddDays(i); !day.Date.Equal(want) {
			issues = append(issues, fmt.Sprintf("day %d is dated %s, expected %s", day.Day, day.Date, want))
		}

		prevBlock := -1
		for _, block := range day.Blocks {
			if block.Kind.Index() <= prevBlock {
				issues = append(issues, fmt.Sprintf("day %d blocks are out of order at %s", day.Day, block.Kind))
			}
			prevBlock = block.Kind.Index()

			for j, a := range block.Activities {
				activities++
				if a.End.Sub(a.Start) != a.Duration {
					issues = append(issues, fmt.Sprintf("day %d %s activity %d lasts %d min but is marked %d", day.Day, block.Kind, j+1, a.End.Sub(a.Start), a.Duration))
				}
				if j > 0 && a.Start < block.Activities[j-1].End {
					issues = append(issues, fmt.Sprintf("day %d %s activity %d starts before the previous one ends", day.Day, block.Kind, j+1))
				}
				if prev, dup := seen[a.POI.ID]; dup {
					issues = append(issues, fmt.Sprintf("poi %s is scheduled on day %d and day %d", a.POI.ID, prev, day.Day))
				}
				seen[a.POI.ID] = day.Day
			}
		}
	}
	if activities != it.ActivityCount {
		issues = append(issues, fmt.Sprintf("activity count %d does not match %d scheduled", it.ActivityCount, activities))
	}
	return issues
}
