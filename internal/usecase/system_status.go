package usecase

import (
	"context"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// GetSystemStatusInput contains the parameters for the status snapshot.
type GetSystemStatusInput struct {
	EventTail int // Events to include; zero selects the default
}

// EquipmentCount summarizes one equipment category by status.
type EquipmentCount struct {
	ByStatus map[domain.Status]int `json:"byStatus"`
	Category string                `json:"category"`
	Total    int                   `json:"total"`
}

// GetSystemStatusOutput is a point-in-time view of the yard.
// Records are copies and safe to keep.
// Fields are ordered to minimize memory padding.
type GetSystemStatusOutput struct {
	Warehouses  []*domain.Warehouse  `json:"warehouses"`
	Cranes      []*domain.Crane      `json:"cranes"`
	Frames      []*domain.Frame      `json:"frames"`
	Trucks      []*domain.FrameTruck `json:"trucks"`
	ActiveTasks []*domain.Task       `json:"activeTasks"` // Tasks not idle
	Equipment   []EquipmentCount     `json:"equipment"`
	Events      []domain.Event       `json:"events"`
	EventTotal  int                  `json:"eventTotal"`
	Grid        domain.Grid          `json:"grid"`
}

// GetSystemStatus is the use case for the yard overview.
type GetSystemStatus struct {
	registry domain.Registry
	events   domain.EventLog
}

// NewGetSystemStatus creates a new GetSystemStatus use case.
func NewGetSystemStatus(registry domain.Registry, events domain.EventLog) *GetSystemStatus {
	return &GetSystemStatus{
		registry: registry,
		events:   events,
	}
}

// Execute collects warehouse contents, equipment status by category,
// tasks that are not idle and the tail of the event log.
func (uc *GetSystemStatus) Execute(_ context.Context, in GetSystemStatusInput) (*GetSystemStatusOutput, error) {
	out := &GetSystemStatusOutput{
		Events:     uc.events.Tail(tailOrDefault(in.EventTail)),
		EventTotal: uc.events.Total(),
		Grid:       uc.registry.Grid(),
	}
	for _, w := range uc.registry.Warehouses("") {
		out.Warehouses = append(out.Warehouses, w.Clone())
	}

	cranes := newEquipmentCount("cranes")
	for _, c := range uc.registry.Cranes() {
		cc := c.Clone()
		out.Cranes = append(out.Cranes, cc)
		cranes.add(cc.Status)
	}
	trucks := newEquipmentCount("frame_trucks")
	for _, t := range uc.registry.Trucks() {
		tc := t.Clone()
		out.Trucks = append(out.Trucks, tc)
		trucks.add(tc.Status)
	}
	frames := newEquipmentCount("frames")
	for _, f := range uc.registry.Frames() {
		fc := f.Clone()
		out.Frames = append(out.Frames, fc)
		frames.add(fc.Status)
	}
	out.Equipment = []EquipmentCount{cranes, trucks, frames}

	for _, t := range uc.registry.Tasks() {
		if t.IsActive() {
			out.ActiveTasks = append(out.ActiveTasks, t)
		}
	}
	return out, nil
}

func newEquipmentCount(category string) EquipmentCount {
	return EquipmentCount{Category: category, ByStatus: make(map[domain.Status]int)}
}

func (c *EquipmentCount) add(s domain.Status) {
	c.Total++
	c.ByStatus[s]++
}
