package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"resume-intake/internal/domain"
)

type workflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	UpdateWorkflow(ctx context.Context, options client.UpdateWorkflowOptions) (client.WorkflowUpdateHandle, error)
	QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (converter.EncodedValue, error)
	SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
}

// IntakeClient drives one IntakeSessionWorkflow per session id. It satisfies
// the same session service contract as the in-process registry.
type IntakeClient struct {
	client          workflowClient
	taskQueue       string
	idPrefix        string
	completionDelay time.Duration
}

func NewIntakeClient(c workflowClient, taskQueue, idPrefix string, completionDelay time.Duration) *IntakeClient {
	return &IntakeClient{
		client:          c,
		taskQueue:       taskQueue,
		idPrefix:        idPrefix,
		completionDelay: completionDelay,
	}
}

func (c *IntakeClient) Open(ctx context.Context) (string, domain.IntakeState, error) {
	sessionID := uuid.NewString()
	_, err := c.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        c.workflowID(sessionID),
		TaskQueue: c.taskQueue,
	}, IntakeSessionWorkflowName, IntakeSessionInput{
		SessionID:       sessionID,
		CompletionDelay: c.completionDelay,
	})
	if err != nil {
		return "", domain.IntakeState{}, fmt.Errorf("start intake workflow: %w", err)
	}
	return sessionID, domain.EmptyIntakeState(), nil
}

func (c *IntakeClient) Submit(ctx context.Context, sessionID string, file domain.CandidateFile) (domain.IntakeState, error) {
	return c.update(ctx, sessionID, SubmitFileUpdateName, file)
}

func (c *IntakeClient) Reset(ctx context.Context, sessionID string) (domain.IntakeState, error) {
	return c.update(ctx, sessionID, ResetIntakeUpdateName)
}

// State answers ErrSessionNotFound once the session workflow has closed,
// even though Temporal would still serve the query.
func (c *IntakeClient) State(ctx context.Context, sessionID string) (domain.IntakeState, error) {
	desc, err := c.client.DescribeWorkflowExecution(ctx, c.workflowID(sessionID), "")
	if err != nil {
		return domain.IntakeState{}, mapWorkflowError(err, "describe intake workflow")
	}
	if desc.GetWorkflowExecutionInfo().GetStatus() != enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
		return domain.IntakeState{}, domain.ErrSessionNotFound
	}

	val, err := c.client.QueryWorkflow(ctx, c.workflowID(sessionID), "", IntakeStateQueryName)
	if err != nil {
		return domain.IntakeState{}, mapWorkflowError(err, "query intake state")
	}
	var st domain.IntakeState
	if err := val.Get(&st); err != nil {
		return domain.IntakeState{}, fmt.Errorf("decode intake state: %w", err)
	}
	return st, nil
}

func (c *IntakeClient) Close(ctx context.Context, sessionID string) error {
	if err := c.client.SignalWorkflow(ctx, c.workflowID(sessionID), "", CloseSessionSignalName, nil); err != nil {
		return mapWorkflowError(err, "close intake session")
	}
	return nil
}

func (c *IntakeClient) update(ctx context.Context, sessionID, updateName string, args ...interface{}) (domain.IntakeState, error) {
	handle, err := c.client.UpdateWorkflow(ctx, client.UpdateWorkflowOptions{
		WorkflowID:   c.workflowID(sessionID),
		UpdateName:   updateName,
		Args:         args,
		WaitForStage: client.WorkflowUpdateStageCompleted,
	})
	if err != nil {
		return domain.IntakeState{}, mapWorkflowError(err, updateName)
	}
	var st domain.IntakeState
	if err := handle.Get(ctx, &st); err != nil {
		return domain.IntakeState{}, mapWorkflowError(err, updateName)
	}
	return st, nil
}

func (c *IntakeClient) workflowID(sessionID string) string {
	return fmt.Sprintf("%s-%s", c.idPrefix, sessionID)
}

func mapWorkflowError(err error, op string) error {
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return domain.ErrSessionNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
