package temporal

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"resume-intake/internal/domain"
)

const IntakeSessionWorkflowName = "IntakeSessionWorkflow"

const (
	defaultCompletionDelay  = 2 * time.Second
	defaultMaxUpdatesPerRun = 500
)

// IntakeSessionInput starts a session. State and Notified are set only when a
// run continues as new.
type IntakeSessionInput struct {
	SessionID        string
	CompletionDelay  time.Duration
	MaxUpdatesPerRun int
	State            *domain.IntakeState
	Notified         int
}

type IntakeSessionResult struct {
	SessionID string
	Final     domain.IntakeState
	Notified  int
}

// IntakeSessionWorkflow runs one intake slot until closeSession is signalled.
// Every accepted file starts a cancellable timer; submit, reset and close
// cancel it and bump the generation so a late timer cannot complete a file
// that was already superseded. A run continues as new once Temporal suggests
// it or MaxUpdatesPerRun updates were handled, but never while a file is
// pending.
func IntakeSessionWorkflow(ctx workflow.Context, input IntakeSessionInput) (IntakeSessionResult, error) {
	logger := workflow.GetLogger(ctx)

	delay := input.CompletionDelay
	if delay <= 0 {
		delay = defaultCompletionDelay
	}

	maxUpdates := input.MaxUpdatesPerRun
	if maxUpdates <= 0 {
		maxUpdates = defaultMaxUpdatesPerRun
	}

	state := domain.EmptyIntakeState()
	if input.State != nil {
		state = *input.State
	}
	var (
		generation  uint64
		cancelTimer workflow.CancelFunc
		completed   []domain.CandidateFile
		closed      bool
		notified    = input.Notified
		updates     int
	)

	supersede := func() {
		if cancelTimer != nil {
			cancelTimer()
			cancelTimer = nil
		}
		generation++
	}

	schedule := func() {
		gen := generation
		timerCtx, cancel := workflow.WithCancel(ctx)
		cancelTimer = cancel
		workflow.Go(timerCtx, func(gctx workflow.Context) {
			if err := workflow.Sleep(gctx, delay); err != nil {
				return
			}
			if gen != generation || state.Status != domain.StatusPending {
				return
			}
			cancelTimer = nil
			state = state.Complete()
			completed = append(completed, *state.File)
		})
	}

	if err := workflow.SetQueryHandler(ctx, IntakeStateQueryName, func() (domain.IntakeState, error) {
		return state, nil
	}); err != nil {
		return IntakeSessionResult{}, err
	}

	if err := workflow.SetUpdateHandler(ctx, SubmitFileUpdateName, func(ctx workflow.Context, file domain.CandidateFile) (domain.IntakeState, error) {
		updates++
		supersede()
		state = state.Submit(file)
		if state.Status == domain.StatusPending {
			schedule()
		}
		logger.Debug("intake submit", "SessionID", input.SessionID, "Status", state.Status, "Reason", state.Reason)
		return state, nil
	}); err != nil {
		return IntakeSessionResult{}, err
	}

	if err := workflow.SetUpdateHandler(ctx, ResetIntakeUpdateName, func(ctx workflow.Context) (domain.IntakeState, error) {
		updates++
		supersede()
		state = state.Reset()
		return state, nil
	}); err != nil {
		return IntakeSessionResult{}, err
	}

	closeCh := workflow.GetSignalChannel(ctx, CloseSessionSignalName)
	workflow.Go(ctx, func(gctx workflow.Context) {
		closeCh.Receive(gctx, nil)
		closed = true
	})

	shouldContinueAsNew := func() bool {
		if state.Status == domain.StatusPending {
			return false
		}
		return updates >= maxUpdates || workflow.GetInfo(ctx).GetContinueAsNewSuggested()
	}

	notifyCtx := mustActivityContext(ctx, ActivityPolicyNotifyUploadComplete)
	for {
		if err := workflow.Await(ctx, func() bool {
			return len(completed) > 0 || closed || shouldContinueAsNew()
		}); err != nil {
			return IntakeSessionResult{}, err
		}

		for len(completed) > 0 {
			file := completed[0]
			completed = completed[1:]
			err := workflow.ExecuteActivity(notifyCtx, (*Activities).NotifyUploadCompleteActivity, NotifyUploadCompleteInput{
				SessionID: input.SessionID,
				File:      file,
			}).Get(ctx, nil)
			if err != nil {
				logger.Error("upload completion notification failed", "SessionID", input.SessionID, "Error", err)
				continue
			}
			notified++
		}

		if closed {
			break
		}
		if len(completed) == 0 && shouldContinueAsNew() {
			carried := state
			logger.Info("intake session continuing as new", "SessionID", input.SessionID, "Updates", updates)
			return IntakeSessionResult{}, workflow.NewContinueAsNewError(ctx, IntakeSessionWorkflowName, IntakeSessionInput{
				SessionID:        input.SessionID,
				CompletionDelay:  input.CompletionDelay,
				MaxUpdatesPerRun: input.MaxUpdatesPerRun,
				State:            &carried,
				Notified:         notified,
			})
		}
	}

	supersede()
	return IntakeSessionResult{SessionID: input.SessionID, Final: state, Notified: notified}, nil
}
