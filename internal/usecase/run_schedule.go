package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"golang.org/x/sync/errgroup"
)

// RunScheduleInput contains the parameters for running several tasks.
type RunScheduleInput struct {
	TaskIDs []string // Tasks to run in order; nil runs the optimized schedule
}

// RunResult is the outcome of one task in a schedule run.
// Err is set when the task could not be started at all.
// Fields are ordered to minimize memory padding.
type RunResult struct {
	Failure   error
	Err       error
	TaskID    string
	Succeeded bool
}

// RunScheduleOutput contains the per-task results, in schedule order.
type RunScheduleOutput struct {
	Results   []RunResult
	Succeeded int
	Failed    int
}

// RunSchedule is the use case for executing a list of tasks with bounded parallelism.
// Fields are ordered to minimize memory padding.
type RunSchedule struct {
	optimize    *OptimizeSchedule
	execute     *ExecuteTask
	parallelism int
}

// NewRunSchedule creates a new RunSchedule use case.
// parallelism below one runs tasks one at a time.
func NewRunSchedule(optimize *OptimizeSchedule, execute *ExecuteTask, parallelism int) *RunSchedule {
	return &RunSchedule{
		optimize:    optimize,
		execute:     execute,
		parallelism: max(parallelism, 1),
	}
}

// Execute runs the tasks. With parallelism 1 each task finishes before the
// next starts. One task failing does not stop the others; tasks not yet
// started when ctx is cancelled are skipped and stay pending.
func (uc *RunSchedule) Execute(ctx context.Context, in RunScheduleInput) (*RunScheduleOutput, error) {
	ids := in.TaskIDs
	if ids == nil {
		order, err := uc.optimize.Execute(ctx, OptimizeScheduleInput{})
		if err != nil {
			return nil, fmt.Errorf("optimize schedule: %w", err)
		}
		ids = order.TaskIDs
	}

	results := make([]RunResult, len(ids))
	var g errgroup.Group
	g.SetLimit(uc.parallelism)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = uc.runOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	out := &RunScheduleOutput{Results: results}
	for _, r := range results {
		if r.Succeeded {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func (uc *RunSchedule) runOne(ctx context.Context, id string) RunResult {
	res := RunResult{TaskID: id}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("%s not started: %w: %w", id, domain.ErrCancelled, err)
		return res
	}
	out, err := uc.execute.Execute(ctx, ExecuteTaskInput{TaskID: id})
	if err != nil {
		res.Err = err
		return res
	}
	res.Succeeded = out.Succeeded
	res.Failure = out.Failure
	return res
}
