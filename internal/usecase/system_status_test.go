package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSystemStatus_Execute(t *testing.T) {
	// Setup: one reserved shipment, one running transfer, one truck in maintenance
	f := newYardFixture(t)
	f.addCranePairs(t, 1)
	require.NoError(t, f.reg.PutTruck(domain.NewFrameTruck("T002", "", domain.Position{X: 9, Y: 9})))
	truck, _ := f.reg.Truck("T002")
	require.NoError(t, truck.SetStatus(domain.StatusMaintenance))
	f.mustShip(t, testutil.DefaultPlan)
	running := f.mustTransfer(t, map[string]int{"P001": 1})
	_, err := f.reg.UpdateTask(running.ID, func(task *domain.Task) error {
		task.Status = domain.StatusBusy
		task.Started = testutil.FixedTime
		return nil
	})
	require.NoError(t, err)

	// Execute
	out, err := NewGetSystemStatus(f.reg, f.events).Execute(context.Background(), GetSystemStatusInput{EventTail: 1})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Warehouses, 2)
	assert.Equal(t, 180, out.Warehouses[0].CurrentLoad)
	assert.Len(t, out.Cranes, 4)
	assert.Len(t, out.Trucks, 2)
	assert.Len(t, out.Frames, 1)

	require.Len(t, out.Equipment, 3)
	assert.Equal(t, EquipmentCount{
		Category: "cranes",
		Total:    4,
		ByStatus: map[domain.Status]int{domain.StatusBusy: 3, domain.StatusIdle: 1},
	}, out.Equipment[0])
	assert.Equal(t, EquipmentCount{
		Category: "frame_trucks",
		Total:    2,
		ByStatus: map[domain.Status]int{domain.StatusBusy: 1, domain.StatusMaintenance: 1},
	}, out.Equipment[1])
	assert.Equal(t, 1, out.Equipment[2].ByStatus[domain.StatusBusy])

	// The pending shipment is idle and not listed
	require.Len(t, out.ActiveTasks, 1)
	assert.Equal(t, running.ID, out.ActiveTasks[0].ID)

	assert.Len(t, out.Events, 1)
	assert.Equal(t, 2, out.EventTotal)
	assert.Equal(t, domain.DefaultGrid, out.Grid)
}

func TestGetSystemStatus_Execute_CopiesRecords(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	out, err := NewGetSystemStatus(f.reg, f.events).Execute(context.Background(), GetSystemStatusInput{})
	require.NoError(t, err)

	// Execute: mutating the view leaves the registry alone
	out.Warehouses[0].Products["P001"] = 0
	out.Cranes[0].Status = domain.StatusUnavailable

	// Assert
	tw, _ := f.reg.Warehouse(testutil.TerminalWH)
	assert.Equal(t, 100, tw.Quantity("P001"))
	assert.Equal(t, domain.StatusIdle, f.equipmentStatus(t, domain.RoleCrane, testutil.TerminalCrane))
}
