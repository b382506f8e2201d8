package shared

import (
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/infra/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelease(t *testing.T) {
	reg := registry.New(domain.DefaultGrid)
	require.NoError(t, reg.PutFrame(domain.NewFrame("F001", "", domain.Position{})))
	require.NoError(t, reg.PutFrame(domain.NewFrame("F002", "", domain.Position{})))
	f1, _ := reg.Frame("F001")
	f2, _ := reg.Frame("F002")
	require.True(t, f1.TryReserve("task-a"))
	require.True(t, f2.TryReserve("task-b"))

	released := Release(reg, "task-a", []domain.Binding{
		{Role: domain.RoleFrame, ID: "F001"},
		{Role: domain.RoleFrame, ID: "F002"},
		{Role: domain.RoleFrame, ID: "F404"},
	})

	assert.Equal(t, []string{"F001"}, released)
	assert.Equal(t, domain.StatusIdle, f1.CurrentStatus())
	// Held by another task
	assert.Equal(t, domain.StatusBusy, f2.CurrentStatus())
}

func TestReleaseTask(t *testing.T) {
	reg := registry.New(domain.DefaultGrid)
	require.NoError(t, reg.PutWarehouse(domain.NewWarehouse("TW001", "", domain.WarehouseTerminal, domain.Position{}, 0)))
	require.NoError(t, reg.PutCrane(domain.NewCrane("C001", "", domain.Position{}, "TW001")))
	c, _ := reg.Crane("C001")
	require.True(t, c.TryReserve("t1"))

	task := &domain.Task{
		ID: "t1",
		SubTasks: []*domain.SubTask{
			{ID: "s1", Resources: map[domain.Role]string{domain.RoleCrane: "C001"}},
		},
	}

	assert.Equal(t, []string{"C001"}, ReleaseTask(reg, task))
	assert.Empty(t, c.Holder())
}
