package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeSchedule_Execute(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	f.addCranePairs(t, 3)
	t1 := f.mustTransfer(t, map[string]int{"P001": 1})
	ship := f.mustShip(t, testutil.DefaultPlan)
	t2 := f.mustTransfer(t, map[string]int{"P002": 1})
	done := f.mustTransfer(t, map[string]int{"P001": 1})
	_, err := f.execute(testutil.NewMockOperator()).Execute(context.Background(), ExecuteTaskInput{TaskID: done.ID})
	require.NoError(t, err)

	// Execute
	out, err := NewOptimizeSchedule(f.reg).Execute(context.Background(), OptimizeScheduleInput{})

	// Assert: shipments first, then creation order; finished tasks dropped
	require.NoError(t, err)
	assert.Equal(t, []string{ship.ID, t1.ID, t2.ID}, out.TaskIDs)
}

func TestOptimizeSchedule_Execute_NoTasks(t *testing.T) {
	f := newYardFixture(t)

	out, err := NewOptimizeSchedule(f.reg).Execute(context.Background(), OptimizeScheduleInput{})

	require.NoError(t, err)
	assert.Empty(t, out.TaskIDs)
}
