package usecase

import (
	"context"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task ID (required)
}

// ShowTaskOutput contains the result of showing a task.
type ShowTaskOutput struct {
	Summary TaskSummary    // The task and its progress
	Events  []domain.Event // Retained events about the task
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	registry domain.Registry
	events   domain.EventLog
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(registry domain.Registry, events domain.EventLog) *ShowTask {
	return &ShowTask{
		registry: registry,
		events:   events,
	}
}

// Execute retrieves and returns the task details.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.registry, in.TaskID)
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	for _, e := range uc.events.Events() {
		if e.TaskID == task.ID {
			events = append(events, e)
		}
	}

	return &ShowTaskOutput{
		Summary: Summarize(task),
		Events:  events,
	}, nil
}
