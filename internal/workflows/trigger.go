package workflows

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/pkg/logging"
)

// Starter is the part of client.Client used to start evaluations.
type Starter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// EventTrigger returns an event handler that starts one EvaluationWorkflow
// per stored itinerary version. Evaluated events are skipped, and a version
// that already has a run is not evaluated twice.
func EventTrigger(c Starter, taskQueue string) func(ctx context.Context, event *domain.ItineraryEvent) error {
	return func(ctx context.Context, event *domain.ItineraryEvent) error {
		if event.Type == domain.EventEvaluated {
			return nil
		}
		in := EvaluationInput{TripID: event.TripID, Version: event.Version}
		opts := client.StartWorkflowOptions{
			ID:                    WorkflowID(in),
			TaskQueue:             taskQueue,
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		}

		_, err := c.ExecuteWorkflow(ctx, opts, EvaluationWorkflow, in)
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			logging.FromContext(ctx).Debug("evaluation already started", "workflow_id", opts.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("start %s: %w", opts.ID, err)
		}
		logging.FromContext(ctx).Info("evaluation started", "workflow_id", opts.ID, "event", event.Type)
		return nil
	}
}
