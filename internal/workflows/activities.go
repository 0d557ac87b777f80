package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/core/usecases"
)

// EvaluationActivities holds the activity implementations for the evaluation workflow.
type EvaluationActivities struct {
	Evaluations *usecases.EvaluationService
	Publisher   ports.EventPublisher
}

// EvaluateItinerary evaluates and stores one itinerary version.
func (a *EvaluationActivities) EvaluateItinerary(ctx context.Context, tripID string, version int) (*domain.Evaluation, error) {
	ev, err := a.Evaluations.Evaluate(ctx, tripID, version)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluate %s v%d: %w", tripID, version, err)
	}
	return ev, nil
}

// PublishEvaluation announces an evaluation result on the event bus.
func (a *EvaluationActivities) PublishEvaluation(ctx context.Context, ev *domain.Evaluation) error {
	if a.Publisher == nil {
		return nil
	}
	return a.Publisher.PublishItineraryEvent(ctx, &domain.ItineraryEvent{
		Type:     domain.EventEvaluated,
		TripID:   ev.TripID,
		Version:  ev.Version,
		Feasible: ev.Passed,
		Time:     time.Now().UTC(),
	})
}
