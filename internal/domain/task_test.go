package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShipTask() *Task {
	return NewShipTransportTask(ShipTransportSpec{
		Created:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Products:    map[string]int{"P001": 10},
		TaskID:      ShipTaskID("SP001"),
		PlanID:      "SP001",
		CraneID:     "C001",
		TruckID:     "T001",
		FrameID:     "F001",
		TerminalID:  "TW001",
		ProductID:   "PW001",
		TruckPos:    Position{X: 5, Y: 4},
		FramePos:    Position{X: 5, Y: 5},
		TerminalPos: Position{X: 0, Y: 0},
		ProductPos:  Position{X: 0, Y: 9},
		ParkingSlot: Position{X: 4, Y: 5},
	})
}

func TestNewShipTransportTask(t *testing.T) {
	task := newTestShipTask()

	assert.Equal(t, "ship_task_SP001", task.ID)
	assert.Equal(t, TaskShipTransport, task.Type)
	assert.True(t, task.IsPending())
	assert.True(t, task.HasSequence(ShipTransportSequence))
	assert.Equal(t, "SP001", task.Details[DetailPlanID])

	ids := make([]string, len(task.SubTasks))
	for i, st := range task.SubTasks {
		ids[i] = st.ID
		assert.Equal(t, StatusIdle, st.Status)
	}
	assert.Equal(t, []string{
		"pull_ship_task_SP001",
		"transport_to_terminal_ship_task_SP001",
		"load_ship_task_SP001",
		"transport_to_product_ship_task_SP001",
		"unload_ship_task_SP001",
		"position_ship_task_SP001",
	}, ids)

	load := task.SubTasks[2]
	assert.Equal(t, "TW001", load.WarehouseID)
	assert.Equal(t, map[Role]string{RoleCrane: "C001", RoleFrame: "F001"}, load.Resources)
	assert.Equal(t, map[string]int{"P001": 10}, load.Products)

	unload := task.SubTasks[4]
	assert.Equal(t, "PW001", unload.WarehouseID)

	park := task.SubTasks[5]
	require.NotNil(t, park.TargetPosition)
	assert.Equal(t, Position{X: 4, Y: 5}, *park.TargetPosition)

	assert.Equal(t, []Binding{
		{Role: RoleFrameTruck, ID: "T001"},
		{Role: RoleFrame, ID: "F001"},
		{Role: RoleCrane, ID: "C001"},
	}, task.Bindings(0))
	assert.Equal(t, []Binding{
		{Role: RoleFrameTruck, ID: "T001"},
		{Role: RoleFrame, ID: "F001"},
	}, task.Bindings(5))
}

func TestNewInternalTransferTask(t *testing.T) {
	task := NewInternalTransferTask(InternalTransferSpec{
		Products:      map[string]int{"P001": 5},
		TaskID:        TransferTaskID("TW001", "PW001", "abcd1234"),
		SourceID:      "TW001",
		TargetID:      "PW001",
		SourceCraneID: "C001",
		TargetCraneID: "C002",
		SourcePos:     Position{X: 0, Y: 0},
		TargetPos:     Position{X: 0, Y: 9},
	})

	assert.Equal(t, TaskInternalTransfer, task.Type)
	assert.True(t, task.HasSequence(InternalTransferSequence))
	assert.Empty(t, task.SubTasks[1].Bindings(), "transport leg binds no equipment")
	assert.Equal(t, "C001", task.SubTasks[0].Resources[RoleCrane])
	assert.Equal(t, "C002", task.SubTasks[2].Resources[RoleCrane])
	assert.Equal(t, "transport_internal_TW001_PW001_abcd1234", task.SubTasks[1].ID)
}

func TestTask_Phase(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		task Task
		want string
	}{
		{"pending", Task{Status: StatusIdle}, "pending"},
		{"running", Task{Status: StatusBusy, Started: now}, "running"},
		{"completed", Task{Status: StatusIdle, Started: now, Ended: now}, "completed"},
		{"failed", Task{Status: StatusUnavailable, Started: now, Ended: now}, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Phase())
		})
	}
}

func TestTask_Clone(t *testing.T) {
	task := newTestShipTask()
	c := task.Clone()

	c.SubTasks[0].Status = StatusBusy
	c.SubTasks[0].Resources[RoleFrame] = "F999"
	c.SubTasks[5].TargetPosition.X = 14
	c.Products["P001"] = 99
	c.Details[DetailPlanID] = "other"

	assert.Equal(t, StatusIdle, task.SubTasks[0].Status)
	assert.Equal(t, "F001", task.SubTasks[0].Resources[RoleFrame])
	assert.Equal(t, 4, task.SubTasks[5].TargetPosition.X)
	assert.Equal(t, 10, task.Products["P001"])
	assert.Equal(t, "SP001", task.Details[DetailPlanID])

	var nilTask *Task
	assert.Nil(t, nilTask.Clone())
}

func TestShipPlan_TotalQuantity(t *testing.T) {
	p := &ShipPlan{Products: map[string]int{"P001": 10, "P002": 5}}
	assert.Equal(t, 15, p.TotalQuantity())
}
