package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase/shared"
)

// CancelledReason is recorded on tasks cancelled before they ran.
const CancelledReason = "cancelled"

// CancelTaskInput contains the parameters for cancelling a task.
type CancelTaskInput struct {
	TaskID string // Task to cancel (required)
}

// CancelTaskOutput contains the result of cancelling a task.
type CancelTaskOutput struct {
	Task     *domain.Task // The cancelled task
	Released []string     // Equipment returned to idle
}

// CancelTask is the use case for withdrawing a pending task.
type CancelTask struct {
	registry domain.Registry
	events   domain.EventLog
	clock    domain.Clock
}

// NewCancelTask creates a new CancelTask use case.
func NewCancelTask(registry domain.Registry, events domain.EventLog, clock domain.Clock) *CancelTask {
	return &CancelTask{
		registry: registry,
		events:   events,
		clock:    clock,
	}
}

// Execute marks a pending task unavailable and releases its reservations.
// Tasks that have started cannot be cancelled this way.
func (uc *CancelTask) Execute(_ context.Context, in CancelTaskInput) (*CancelTaskOutput, error) {
	task, err := uc.registry.UpdateTask(in.TaskID, func(t *domain.Task) error {
		switch {
		case t.IsCompleted():
			return fmt.Errorf("%s: %w", t.ID, domain.ErrTaskCompleted)
		case t.IsFailed():
			return fmt.Errorf("%s: %w", t.ID, domain.ErrTaskFailed)
		case !t.IsPending():
			return fmt.Errorf("%s: %w", t.ID, domain.ErrTaskRunning)
		}
		t.Status = domain.StatusUnavailable
		t.Ended = uc.clock.Now()
		t.FailureReason = CancelledReason
		return nil
	})
	if err != nil {
		return nil, err
	}

	released := shared.ReleaseTask(uc.registry, task)
	infof(uc.events, task.ID, "task cancelled, released %d equipment", len(released))
	return &CancelTaskOutput{Task: task, Released: released}, nil
}
