package usecase

import (
	"context"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Type  domain.TaskType // Filter by task type (empty = all)
	Phase string          // Filter by phase: pending, running, completed, failed (empty = all)
}

// TaskSummary is a task with its sub-task progress.
// Fields are ordered to minimize memory padding.
type TaskSummary struct {
	Task    *domain.Task
	Current *domain.SubTask // First sub-task not finished, nil when none
	Phase   string
	Done    int // Sub-tasks finished
	Total   int
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []TaskSummary // Matching tasks in creation order
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	registry domain.Registry
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(registry domain.Registry) *ListTasks {
	return &ListTasks{
		registry: registry,
	}
}

// Execute lists tasks matching the given input criteria.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	out := &ListTasksOutput{}
	for _, t := range uc.registry.Tasks() {
		if in.Type != "" && t.Type != in.Type {
			continue
		}
		phase := t.Phase()
		if in.Phase != "" && phase != in.Phase {
			continue
		}
		out.Tasks = append(out.Tasks, Summarize(t))
	}
	return out, nil
}

// Summarize computes the progress of a task.
func Summarize(t *domain.Task) TaskSummary {
	s := TaskSummary{Task: t, Phase: t.Phase(), Total: len(t.SubTasks)}
	for _, st := range t.SubTasks {
		if st.Status == domain.StatusIdle && !st.Ended.IsZero() {
			s.Done++
			continue
		}
		if s.Current == nil {
			s.Current = st
		}
	}
	return s
}
