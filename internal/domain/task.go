// Package domain contains core business entities and interfaces.
package domain

import (
	"maps"
	"slices"
	"time"
)

// TaskType is the kind of request a task fulfils.
type TaskType string

const (
	TaskShipTransport    TaskType = "ship_transport"
	TaskInternalTransfer TaskType = "internal_transfer"
)

// Display returns a human-readable representation of the task type.
func (t TaskType) Display() string {
	switch t {
	case TaskShipTransport:
		return "Ship Transport"
	case TaskInternalTransfer:
		return "Internal Transfer"
	default:
		return string(t)
	}
}

// SubTaskType is one atomic step of a task.
type SubTaskType string

const (
	SubTaskFramePulling     SubTaskType = "frame_pulling"
	SubTaskTransport        SubTaskType = "transport"
	SubTaskTerminalLoading  SubTaskType = "terminal_loading"
	SubTaskProductUnloading SubTaskType = "product_unloading"
	SubTaskFramePositioning SubTaskType = "frame_positioning"
)

// Display returns a human-readable representation of the sub-task type.
func (t SubTaskType) Display() string {
	switch t {
	case SubTaskFramePulling:
		return "Frame Pulling"
	case SubTaskTransport:
		return "Transport"
	case SubTaskTerminalLoading:
		return "Terminal Loading"
	case SubTaskProductUnloading:
		return "Product Unloading"
	case SubTaskFramePositioning:
		return "Frame Positioning"
	default:
		return string(t)
	}
}

// Detail keys used on tasks and sub-tasks.
const (
	DetailPlanID            = "plan_id"
	DetailSourceWarehouseID = "source_warehouse_id"
	DetailTargetWarehouseID = "target_warehouse_id"
	DetailLeg               = "leg"
)

// Task is a shipment or transfer request decomposed into ordered sub-tasks.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created       time.Time         `json:"created"`
	Started       time.Time         `json:"started,omitzero"`
	Ended         time.Time         `json:"ended,omitzero"`
	Details       map[string]string `json:"details,omitempty"`
	Products      map[string]int    `json:"products,omitempty"`
	ID            string            `json:"id"`
	Type          TaskType          `json:"type"`
	Status        Status            `json:"status"`
	FailureReason string            `json:"failureReason,omitempty"`
	SubTasks      []*SubTask        `json:"subTasks"`
}

// IsPending returns true if the task has been created but never started.
func (t *Task) IsPending() bool {
	return t.Status == StatusIdle && t.Started.IsZero()
}

// IsCompleted returns true if the task ran to completion.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusIdle && !t.Ended.IsZero()
}

// IsFailed returns true if the task stopped on a failure.
func (t *Task) IsFailed() bool {
	return t.Status == StatusUnavailable
}

// IsActive returns true if the task is not idle.
func (t *Task) IsActive() bool {
	return t.Status != StatusIdle
}

// Phase returns a short lifecycle label for display.
func (t *Task) Phase() string {
	switch {
	case t.IsPending():
		return "pending"
	case t.IsCompleted():
		return "completed"
	case t.IsFailed():
		return "failed"
	case t.Status == StatusBusy:
		return "running"
	default:
		return string(t.Status)
	}
}

// SubTaskTypes returns the ordered sub-task types.
func (t *Task) SubTaskTypes() []SubTaskType {
	types := make([]SubTaskType, len(t.SubTasks))
	for i, st := range t.SubTasks {
		types[i] = st.Type
	}
	return types
}

// Bindings returns every (role, equipment ID) pair bound by the sub-tasks
// starting at index from, de-duplicated.
func (t *Task) Bindings(from int) []Binding {
	seen := make(map[Binding]bool)
	var out []Binding
	for i := from; i < len(t.SubTasks); i++ {
		for _, b := range t.SubTasks[i].Bindings() {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Details = maps.Clone(t.Details)
	c.Products = maps.Clone(t.Products)
	c.SubTasks = make([]*SubTask, len(t.SubTasks))
	for i, st := range t.SubTasks {
		c.SubTasks[i] = st.Clone()
	}
	return &c
}

// SubTask is one step of a task, bound to specific equipment.
// Fields are ordered to minimize memory padding.
type SubTask struct {
	Started        time.Time         `json:"started,omitzero"`
	Ended          time.Time         `json:"ended,omitzero"`
	Resources      map[Role]string   `json:"resources,omitempty"` // role -> equipment ID
	Details        map[string]string `json:"details,omitempty"`
	Products       map[string]int    `json:"products,omitempty"`
	SourcePosition *Position         `json:"sourcePosition,omitempty"`
	TargetPosition *Position         `json:"targetPosition,omitempty"`
	ID             string            `json:"id"`
	Type           SubTaskType       `json:"type"`
	Status         Status            `json:"status"`
	WarehouseID    string            `json:"warehouseId,omitempty"`
}

// Binding is one piece of equipment bound to a role.
type Binding struct {
	Role Role
	ID   string
}

// Bindings returns the bound equipment in role order.
func (st *SubTask) Bindings() []Binding {
	var out []Binding
	for _, role := range AllRoles() {
		if id, ok := st.Resources[role]; ok && id != "" {
			out = append(out, Binding{Role: role, ID: id})
		}
	}
	return out
}

// Clone returns a deep copy of the sub-task.
func (st *SubTask) Clone() *SubTask {
	if st == nil {
		return nil
	}
	c := *st
	c.Resources = maps.Clone(st.Resources)
	c.Details = maps.Clone(st.Details)
	c.Products = maps.Clone(st.Products)
	if st.SourcePosition != nil {
		p := *st.SourcePosition
		c.SourcePosition = &p
	}
	if st.TargetPosition != nil {
		p := *st.TargetPosition
		c.TargetPosition = &p
	}
	return &c
}

// ShipTransportSequence is the fixed order of sub-tasks in a shipment task.
var ShipTransportSequence = []SubTaskType{
	SubTaskFramePulling,
	SubTaskTransport,
	SubTaskTerminalLoading,
	SubTaskTransport,
	SubTaskProductUnloading,
	SubTaskFramePositioning,
}

// InternalTransferSequence is the fixed order of sub-tasks in a transfer task.
var InternalTransferSequence = []SubTaskType{
	SubTaskTerminalLoading,
	SubTaskTransport,
	SubTaskProductUnloading,
}

// HasSequence reports whether the task's sub-tasks follow the given order exactly.
func (t *Task) HasSequence(seq []SubTaskType) bool {
	return slices.Equal(t.SubTaskTypes(), seq)
}
