package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// EvaluationInput is the input for the evaluation workflow.
type EvaluationInput struct {
	TripID  string
	Version int
}

// WorkflowID is the id used for the evaluation of one itinerary version, so
// duplicate events for that version start at most one run.
func WorkflowID(in EvaluationInput) string {
	return fmt.Sprintf("evaluate-%s-v%d", in.TripID, in.Version)
}

// EvaluationWorkflow evaluates a stored itinerary version and publishes the
// result. A failed publish does not undo the stored evaluation.
func EvaluationWorkflow(ctx workflow.Context, input EvaluationInput) (*domain.Evaluation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting evaluation workflow", "tripID", input.TripID, "version", input.Version)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var ev domain.Evaluation
	err := workflow.ExecuteActivity(ctx, "EvaluateItinerary", input.TripID, input.Version).Get(ctx, &ev)
	if err != nil {
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, "PublishEvaluation", &ev).Get(ctx, nil); err != nil {
		logger.Warn("publishing evaluation failed", "error", err)
	}

	logger.Info("Evaluation finished", "passed", ev.Passed)
	return &ev, nil
}
