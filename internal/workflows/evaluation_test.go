package workflows_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/workflows"
)

func TestEvaluationWorkflow(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	acts := &workflows.EvaluationActivities{}
	env.RegisterActivity(acts)
	env.OnActivity(acts.EvaluateItinerary, mock.Anything, "trip-1", 2).
		Return(&domain.Evaluation{TripID: "trip-1", Version: 2, Passed: true}, nil)
	env.OnActivity(acts.PublishEvaluation, mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(workflows.EvaluationWorkflow, workflows.EvaluationInput{TripID: "trip-1", Version: 2})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var ev domain.Evaluation
	require.NoError(t, env.GetWorkflowResult(&ev))
	assert.True(t, ev.Passed)
	assert.Equal(t, 2, ev.Version)
	env.AssertExpectations(t)
}

func TestEvaluationWorkflow_PublishFailureIsTolerated(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	acts := &workflows.EvaluationActivities{}
	env.RegisterActivity(acts)
	env.OnActivity(acts.EvaluateItinerary, mock.Anything, "trip-1", 1).
		Return(&domain.Evaluation{TripID: "trip-1", Version: 1}, nil)
	env.OnActivity(acts.PublishEvaluation, mock.Anything, mock.Anything).Return(errors.New("nats down"))

	env.ExecuteWorkflow(workflows.EvaluationWorkflow, workflows.EvaluationInput{TripID: "trip-1", Version: 1})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
}

func TestEvaluationWorkflow_MissingTrip(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	acts := &workflows.EvaluationActivities{}
	env.RegisterActivity(acts)
	env.OnActivity(acts.EvaluateItinerary, mock.Anything, "gone", 1).
		Return(nil, temporal.NewNonRetryableApplicationError("trip gone", "NotFound", domain.ErrNotFound))

	env.ExecuteWorkflow(workflows.EvaluationWorkflow, workflows.EvaluationInput{TripID: "gone", Version: 1})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "evaluate-abc-v3", workflows.WorkflowID(workflows.EvaluationInput{TripID: "abc", Version: 3}))
}
