package domain

import (
	"maps"
	"time"
)

// ShipTransportSpec holds everything needed to build a shipment task.
// Fields are ordered to minimize memory padding.
type ShipTransportSpec struct {
	Created     time.Time
	Products    map[string]int
	TaskID      string
	PlanID      string
	CraneID     string
	TruckID     string
	FrameID     string
	TerminalID  string
	ProductID   string // Receiving product warehouse
	TruckPos    Position
	FramePos    Position
	TerminalPos Position
	ProductPos  Position
	ParkingSlot Position
}

// NewShipTransportTask builds the six-step shipment task:
// pull frame, move to terminal, load, move to product warehouse, unload, park.
func NewShipTransportTask(s ShipTransportSpec) *Task {
	carriage := func() map[Role]string {
		return map[Role]string{RoleFrameTruck: s.TruckID, RoleFrame: s.FrameID}
	}
	handling := func() map[Role]string {
		return map[Role]string{RoleCrane: s.CraneID, RoleFrame: s.FrameID}
	}

	subTasks := []*SubTask{
		{
			ID:             SubTaskID(prefixPull, s.TaskID),
			Type:           SubTaskFramePulling,
			Resources:      carriage(),
			SourcePosition: ptr(s.TruckPos),
			TargetPosition: ptr(s.FramePos),
		},
		{
			ID:             SubTaskID(prefixTransportTerminal, s.TaskID),
			Type:           SubTaskTransport,
			Resources:      carriage(),
			SourcePosition: ptr(s.FramePos),
			TargetPosition: ptr(s.TerminalPos),
			Details:        map[string]string{DetailLeg: "to_terminal", DetailTargetWarehouseID: s.TerminalID},
		},
		{
			ID:          SubTaskID(prefixLoad, s.TaskID),
			Type:        SubTaskTerminalLoading,
			Resources:   handling(),
			WarehouseID: s.TerminalID,
			Products:    maps.Clone(s.Products),
		},
		{
			ID:             SubTaskID(prefixTransportProduct, s.TaskID),
			Type:           SubTaskTransport,
			Resources:      carriage(),
			SourcePosition: ptr(s.TerminalPos),
			TargetPosition: ptr(s.ProductPos),
			Details: map[string]string{
				DetailLeg:               "to_product",
				DetailSourceWarehouseID: s.TerminalID,
				DetailTargetWarehouseID: s.ProductID,
			},
		},
		{
			ID:          SubTaskID(prefixUnload, s.TaskID),
			Type:        SubTaskProductUnloading,
			Resources:   handling(),
			WarehouseID: s.ProductID,
			Products:    maps.Clone(s.Products),
		},
		{
			ID:             SubTaskID(prefixPosition, s.TaskID),
			Type:           SubTaskFramePositioning,
			Resources:      carriage(),
			SourcePosition: ptr(s.ProductPos),
			TargetPosition: ptr(s.ParkingSlot),
		},
	}
	for _, st := range subTasks {
		st.Status = StatusIdle
	}

	return &Task{
		ID:       s.TaskID,
		Type:     TaskShipTransport,
		Status:   StatusIdle,
		Created:  s.Created,
		Products: maps.Clone(s.Products),
		SubTasks: subTasks,
		Details: map[string]string{
			DetailPlanID:            s.PlanID,
			DetailSourceWarehouseID: s.TerminalID,
			DetailTargetWarehouseID: s.ProductID,
		},
	}
}

// InternalTransferSpec holds everything needed to build a transfer task.
// Fields are ordered to minimize memory padding.
type InternalTransferSpec struct {
	Created       time.Time
	Products      map[string]int
	TaskID        string
	SourceID      string
	TargetID      string
	SourceCraneID string
	TargetCraneID string
	SourcePos     Position
	TargetPos     Position
}

// NewInternalTransferTask builds the three-step transfer task:
// load at source, move, unload at target. The transport leg binds no equipment.
func NewInternalTransferTask(s InternalTransferSpec) *Task {
	subTasks := []*SubTask{
		{
			ID:          SubTaskID(prefixLoad, s.TaskID),
			Type:        SubTaskTerminalLoading,
			Resources:   map[Role]string{RoleCrane: s.SourceCraneID},
			WarehouseID: s.SourceID,
			Products:    maps.Clone(s.Products),
		},
		{
			ID:             SubTaskID(prefixTransportWarehouse, s.TaskID),
			Type:           SubTaskTransport,
			SourcePosition: ptr(s.SourcePos),
			TargetPosition: ptr(s.TargetPos),
			Details: map[string]string{
				DetailSourceWarehouseID: s.SourceID,
				DetailTargetWarehouseID: s.TargetID,
			},
		},
		{
			ID:          SubTaskID(prefixUnload, s.TaskID),
			Type:        SubTaskProductUnloading,
			Resources:   map[Role]string{RoleCrane: s.TargetCraneID},
			WarehouseID: s.TargetID,
			Products:    maps.Clone(s.Products),
		},
	}
	for _, st := range subTasks {
		st.Status = StatusIdle
	}

	return &Task{
		ID:       s.TaskID,
		Type:     TaskInternalTransfer,
		Status:   StatusIdle,
		Created:  s.Created,
		Products: maps.Clone(s.Products),
		SubTasks: subTasks,
		Details: map[string]string{
			DetailSourceWarehouseID: s.SourceID,
			DetailTargetWarehouseID: s.TargetID,
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
