package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase/shared"
)

// ExecuteTaskInput contains the parameters for running a task.
type ExecuteTaskInput struct {
	TaskID string // Task to run (required)
}

// ExecuteTaskOutput contains the result of running a task.
// A task that fails while running is not an error: Succeeded is false
// and Failure explains why.
// Fields are ordered to minimize memory padding.
type ExecuteTaskOutput struct {
	Task      *domain.Task   // Task state after the run
	Failure   error          // Why the run stopped, nil on success
	Events    []domain.Event // Tail of the event log after the run
	Succeeded bool
}

// ExecuteTask is the use case for driving a task's sub-tasks to completion.
// Fields are ordered to minimize memory padding.
type ExecuteTask struct {
	registry domain.Registry
	operator domain.Operator
	events   domain.EventLog
	clock    domain.Clock
	logger   domain.Logger
	tail     int
}

// NewExecuteTask creates a new ExecuteTask use case.
// tail is how many events the output carries.
func NewExecuteTask(
	registry domain.Registry,
	operator domain.Operator,
	events domain.EventLog,
	clock domain.Clock,
	logger domain.Logger,
	tail int,
) *ExecuteTask {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &ExecuteTask{
		registry: registry,
		operator: operator,
		events:   events,
		clock:    clock,
		logger:   logger,
		tail:     tailOrDefault(tail),
	}
}

// Execute runs a pending task. Sub-tasks run strictly in order; the context is
// checked between sub-tasks only, so a sub-task is never interrupted.
// Completed sub-tasks are not compensated when a later one fails.
func (uc *ExecuteTask) Execute(ctx context.Context, in ExecuteTaskInput) (*ExecuteTaskOutput, error) {
	task, err := uc.registry.UpdateTask(in.TaskID, func(t *domain.Task) error {
		switch {
		case t.IsCompleted():
			return fmt.Errorf("%s: %w", t.ID, domain.ErrTaskCompleted)
		case t.IsFailed():
			return fmt.Errorf("%s: %w", t.ID, domain.ErrTaskFailed)
		case t.Status == domain.StatusBusy:
			return fmt.Errorf("%s: %w", t.ID, domain.ErrTaskRunning)
		case !t.IsPending():
			return fmt.Errorf("%s in %s status: %w", t.ID, t.Status, domain.ErrInvalidTransition)
		}
		t.Status = domain.StatusBusy
		t.Started = uc.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	infof(uc.events, task.ID, "task started (%s)", task.Type.Display())

	failure := uc.run(ctx, task)
	if failure != nil {
		uc.fail(task, failure)
	} else {
		shared.ReleaseTask(uc.registry, task)
		task.Status = domain.StatusIdle
		task.Ended = uc.clock.Now()
		uc.save(task)
		infof(uc.events, task.ID, "task completed")
	}

	return &ExecuteTaskOutput{
		Task:      task,
		Succeeded: failure == nil,
		Failure:   failure,
		Events:    uc.events.Tail(uc.tail),
	}, nil
}

// run executes the sub-tasks in order and returns the first failure.
func (uc *ExecuteTask) run(ctx context.Context, task *domain.Task) error {
	for i, sub := range task.SubTasks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("before sub-task %s: %w: %w", sub.ID, domain.ErrCancelled, err)
		}

		sub.Status = domain.StatusBusy
		sub.Started = uc.clock.Now()
		uc.save(task)

		if err := uc.acquire(task.ID, sub); err != nil {
			return uc.failSubTask(sub, err)
		}
		if err := uc.operator.Perform(ctx, task, sub); err != nil {
			return uc.failSubTask(sub, err)
		}

		released := shared.Release(uc.registry, task.ID, releasable(task, i))
		sub.Status = domain.StatusIdle
		sub.Ended = uc.clock.Now()
		uc.save(task)
		if len(released) > 0 {
			uc.logger.Debug(task.ID, "engine", fmt.Sprintf("released %v after %s", released, sub.ID))
		}
		infof(uc.events, task.ID, "sub-task %s completed (%s)", sub.ID, sub.Type.Display())
	}
	return nil
}

// acquire makes sure the task holds every piece of equipment the sub-task binds.
// Equipment reserved at creation is already held; anything else is reserved now.
func (uc *ExecuteTask) acquire(taskID string, sub *domain.SubTask) error {
	for _, b := range sub.Bindings() {
		eq, ok := uc.registry.Equipment(b.Role, b.ID)
		if !ok {
			return fmt.Errorf("%s %s: %w", b.Role, b.ID, domain.ErrUnknownEquipment)
		}
		if !eq.Acquire(taskID) {
			return fmt.Errorf("%s %s is %s: %w", b.Role, b.ID, eq.CurrentStatus(), domain.ErrEquipmentBusy)
		}
	}
	return nil
}

func (uc *ExecuteTask) failSubTask(sub *domain.SubTask, cause error) error {
	sub.Status = domain.StatusUnavailable
	sub.Ended = uc.clock.Now()
	return fmt.Errorf("sub-task %s: %w: %w", sub.ID, domain.ErrSubTaskFailure, cause)
}

// fail marks the task unavailable and releases everything it holds.
// Remaining sub-tasks are left untouched.
func (uc *ExecuteTask) fail(task *domain.Task, failure error) {
	shared.ReleaseTask(uc.registry, task)
	task.Status = domain.StatusUnavailable
	task.Ended = uc.clock.Now()
	task.FailureReason = failure.Error()
	uc.save(task)
	errorf(uc.events, task.ID, "task failed: %v", failure)
}

func (uc *ExecuteTask) save(task *domain.Task) {
	if err := uc.registry.SaveTask(task); err != nil {
		uc.logger.Error(task.ID, "engine", fmt.Sprintf("save task: %v", err))
	}
}

// releasable returns the bindings of sub-task i that no later sub-task uses.
func releasable(task *domain.Task, i int) []domain.Binding {
	later := make(map[domain.Binding]bool)
	for _, b := range task.Bindings(i + 1) {
		later[b] = true
	}
	var out []domain.Binding
	for _, b := range task.SubTasks[i].Bindings() {
		if !later[b] {
			out = append(out, b)
		}
	}
	return out
}
