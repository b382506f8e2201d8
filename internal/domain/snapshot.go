package domain

import (
	"maps"
	"time"
)

// Snapshot is a point-in-time copy of the whole yard.
// Slices are in registry insertion order.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	Saved      time.Time     `json:"saved"`
	Products   []*Product    `json:"products"`
	Warehouses []*Warehouse  `json:"warehouses"`
	Cranes     []*Crane      `json:"cranes"`
	Frames     []*Frame      `json:"frames"`
	Trucks     []*FrameTruck `json:"trucks"`
	Plans      []*ShipPlan   `json:"plans"`
	Tasks      []*Task       `json:"tasks"`
	Events     []Event       `json:"events"`
	Grid       Grid          `json:"grid"`
	EventTotal int           `json:"eventTotal"`
}

// NewSnapshot returns an empty snapshot for the given grid.
func NewSnapshot(grid Grid) *Snapshot {
	return &Snapshot{Grid: grid}
}

// Clone returns a copy of the warehouse taken under its lock.
func (w *Warehouse) Clone() *Warehouse {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &Warehouse{
		ID:          w.ID,
		Name:        w.Name,
		Kind:        w.Kind,
		Position:    w.Position,
		Capacity:    w.Capacity,
		CurrentLoad: w.CurrentLoad,
		Products:    maps.Clone(w.Products),
	}
}

// snapshot copies the exported fields under the record lock.
func (e *Equipment) snapshot() Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Equipment{
		ID:       e.ID,
		Name:     e.Name,
		Status:   e.Status,
		HeldBy:   e.HeldBy,
		Position: e.Position,
	}
}

// Clone returns a copy of the crane.
func (c *Crane) Clone() *Crane {
	return &Crane{
		Equipment:    c.Equipment.snapshot(),
		WarehouseID:  c.WarehouseID,
		LoadCapacity: c.LoadCapacity,
	}
}

// Clone returns a copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Equipment:      f.Equipment.snapshot(),
		Capacity:       f.Capacity,
		LoadedProducts: f.Cargo(),
	}
}

// Clone returns a copy of the truck.
func (t *FrameTruck) Clone() *FrameTruck {
	return &FrameTruck{
		Equipment:       t.Equipment.snapshot(),
		AttachedFrameID: t.Attached(),
		Speed:           t.Speed,
	}
}

// Clone returns a copy of the plan.
func (p *ShipPlan) Clone() *ShipPlan {
	c := *p
	c.Products = maps.Clone(p.Products)
	return &c
}
