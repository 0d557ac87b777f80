package usecases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/usecases"
)

func TestEvaluationService_Evaluate(t *testing.T) {
	it := builtItinerary(t, "trip-1")
	repo := &mockItineraryRepo{
		latestFn: func(ctx context.Context, tripID string) (*domain.Itinerary, error) { return it.Clone(), nil },
	}
	var inserted *domain.Evaluation
	evals := &mockEvalRepo{
		insertFn: func(ctx context.Context, ev *domain.Evaluation) error {
			inserted = ev
			return nil
		},
	}
	engine := planner.NewEngine()
	svc := usecases.NewEvaluationService(engine, repo, evals)

	ev, err := svc.Evaluate(context.Background(), "trip-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted == nil || inserted.ID == "" || inserted.TripID != "trip-1" {
		t.Fatalf("evaluation not stored properly: %+v", inserted)
	}
	if len(ev.StructuralIssues) != 0 {
		t.Errorf("unexpected structural issues: %v", ev.StructuralIssues)
	}
	if len(ev.Days) != 3 {
		t.Fatalf("expected 3 day results, got %d", len(ev.Days))
	}

	wantPassed := true
	for i, day := range it.Days {
		want := engine.CheckFeasibility(day, it.Pace)
		if ev.Days[i].Feasible != want.Feasible {
			t.Errorf("day %d feasible = %v, engine says %v", day.Day, ev.Days[i].Feasible, want.Feasible)
		}
		if want.Feasible != day.Feasible {
			t.Errorf("day %d re-check disagrees with the build", day.Day)
		}
		wantPassed = wantPassed && want.Feasible
	}
	if ev.Passed != wantPassed {
		t.Errorf("passed = %v, want %v", ev.Passed, wantPassed)
	}
}

func TestEvaluationService_Evaluate_Version(t *testing.T) {
	called := 0
	repo := &mockItineraryRepo{
		getVersionFn: func(ctx context.Context, tripID string, version int) (*domain.Itinerary, error) {
			called = version
			return builtItinerary(t, tripID), nil
		},
	}
	svc := usecases.NewEvaluationService(planner.NewEngine(), repo, &mockEvalRepo{})

	if _, err := svc.Evaluate(context.Background(), "trip-1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called != 1 {
		t.Errorf("expected version 1 to be loaded, got %d", called)
	}
}

func TestEvaluationService_StructuralIssues(t *testing.T) {
	it := builtItinerary(t, "trip-1")
	it.Days[1].Day = 7
	it.ActivityCount = 99
	dup := it.Days[0].Blocks[0].Activities[0]
	it.Days[2].Blocks[0].Activities = append(it.Days[2].Blocks[0].Activities, dup)

	ev := usecases.NewEvaluationService(planner.NewEngine(), nil, nil).EvaluateItinerary(it)
	if ev.Passed {
		t.Fatal("corrupted itinerary should not pass")
	}

	joined := strings.Join(ev.StructuralIssues, "\n")
	for _, want := range []string{
		"day at position 2 is numbered 7",
		"activity count 99 does not match",
		"poi " + dup.POI.ID + " is scheduled on day 1 and day 3",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing issue %q in:\n%s", want, joined)
		}
	}
}

func TestEvaluationService_List_ClampLimit(t *testing.T) {
	evals := &mockEvalRepo{
		listByTripFn: func(ctx context.Context, tripID string, limit int) ([]domain.Evaluation, error) {
			if limit != 20 {
				t.Errorf("expected limit 20, got %d", limit)
			}
			return []domain.Evaluation{{TripID: tripID}}, nil
		},
	}
	svc := usecases.NewEvaluationService(planner.NewEngine(), nil, evals)
	got, err := svc.List(context.Background(), "trip-1", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
}
