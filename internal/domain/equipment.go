package domain

import (
	"fmt"
	"maps"
	"sync"
)

// Role names the logical slot a piece of equipment fills in a sub-task.
type Role string

const (
	RoleCrane      Role = "crane"
	RoleFrame      Role = "frame"
	RoleFrameTruck Role = "frame_truck"
)

// AllRoles returns the roles in binding order.
func AllRoles() []Role {
	return []Role{RoleCrane, RoleFrameTruck, RoleFrame}
}

// Equipment is the state common to every handling machine.
// Status and HeldBy are guarded by a per-record mutex; use the methods
// rather than the fields once the record is shared.
// Fields are ordered to minimize memory padding.
type Equipment struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	HeldBy   string   `json:"heldBy,omitempty"` // Task holding the reservation
	Position Position `json:"position"`
	mu       sync.Mutex
}

// EquipmentID returns the record ID.
func (e *Equipment) EquipmentID() string {
	return e.ID
}

// CurrentStatus returns the status under the record lock.
func (e *Equipment) CurrentStatus() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Status
}

// Holder returns the task currently holding the equipment, if any.
func (e *Equipment) Holder() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.HeldBy
}

// Location returns the current position.
func (e *Equipment) Location() Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Position
}

// MoveTo updates the current position.
func (e *Equipment) MoveTo(p Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Position = p
}

// TryReserve atomically moves the equipment from idle to busy on behalf of holder.
// It returns false if the equipment was not idle.
func (e *Equipment) TryReserve(holder string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Status != StatusIdle {
		return false
	}
	e.Status = StatusBusy
	e.HeldBy = holder
	return true
}

// Acquire succeeds if holder already owns the reservation, otherwise it
// behaves like TryReserve.
func (e *Equipment) Acquire(holder string) bool {
	e.mu.Lock()
	if e.Status == StatusBusy && e.HeldBy == holder {
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()
	return e.TryReserve(holder)
}

// Release returns the equipment to idle if holder owns it.
func (e *Equipment) Release(holder string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Status != StatusBusy || e.HeldBy != holder {
		return false
	}
	e.Status = StatusIdle
	e.HeldBy = ""
	return true
}

// SetStatus changes the status administratively.
// Equipment held by a task cannot be changed this way.
func (e *Equipment) SetStatus(s Status) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.HeldBy != "" {
		return fmt.Errorf("%s held by %s: %w", e.ID, e.HeldBy, ErrEquipmentBusy)
	}
	if s == e.Status {
		return nil
	}
	if s == StatusBusy || !e.Status.CanTransitionTo(s) {
		return fmt.Errorf("%s: %s -> %s: %w", e.ID, e.Status, s, ErrInvalidTransition)
	}
	e.Status = s
	return nil
}

// Normalize fills defaults after decoding and rejects inconsistent records.
func (e *Equipment) Normalize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Status == "" {
		e.Status = StatusIdle
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%s: %w", e.ID, ErrInvalidStatus)
	}
	if e.Status == StatusBusy && e.HeldBy == "" {
		// A busy record without a holder can never be released.
		e.Status = StatusIdle
	}
	return nil
}

// Crane is fixed lifting equipment bound to exactly one warehouse.
type Crane struct {
	Equipment
	WarehouseID  string  `json:"warehouseId"`
	LoadCapacity float64 `json:"loadCapacity"`
}

// DefaultCraneLoadCapacity is used when a crane is registered without one.
const DefaultCraneLoadCapacity = 100.0

// NewCrane creates an idle crane.
func NewCrane(id, name string, pos Position, warehouseID string) *Crane {
	return &Crane{
		Equipment:    Equipment{ID: id, Name: name, Position: pos, Status: StatusIdle},
		WarehouseID:  warehouseID,
		LoadCapacity: DefaultCraneLoadCapacity,
	}
}

// Frame is a detachable carrier moved by a frame truck.
type Frame struct {
	LoadedProducts map[string]int `json:"loadedProducts,omitempty"`
	Equipment
	Capacity float64 `json:"capacity"`
}

// DefaultFrameCapacity is used when a frame is registered without one.
const DefaultFrameCapacity = 50.0

// NewFrame creates an idle, empty frame.
func NewFrame(id, name string, pos Position) *Frame {
	return &Frame{
		Equipment: Equipment{ID: id, Name: name, Position: pos, Status: StatusIdle},
		Capacity:  DefaultFrameCapacity,
	}
}

// LoadProducts adds products to the frame.
func (f *Frame) LoadProducts(products map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadedProducts == nil {
		f.LoadedProducts = make(map[string]int)
	}
	for id, qty := range products {
		f.LoadedProducts[id] += qty
	}
}

// UnloadProducts empties the frame and returns what it carried.
func (f *Frame) UnloadProducts() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.LoadedProducts
	f.LoadedProducts = nil
	if out == nil {
		out = map[string]int{}
	}
	return out
}

// Cargo returns a copy of the loaded products.
func (f *Frame) Cargo() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.LoadedProducts)
}

// FrameTruck is a tractor that attaches to and moves frames.
type FrameTruck struct {
	Equipment
	AttachedFrameID string  `json:"attachedFrameId,omitempty"`
	Speed           float64 `json:"speed"`
}

// DefaultTruckSpeed is used when a truck is registered without one.
const DefaultTruckSpeed = 10.0

// NewFrameTruck creates an idle, detached truck.
func NewFrameTruck(id, name string, pos Position) *FrameTruck {
	return &FrameTruck{
		Equipment: Equipment{ID: id, Name: name, Position: pos, Status: StatusIdle},
		Speed:     DefaultTruckSpeed,
	}
}

// Attach couples the truck to a frame.
func (t *FrameTruck) Attach(frameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.AttachedFrameID = frameID
}

// Detach uncouples the truck and returns the frame it was pulling.
func (t *FrameTruck) Detach() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.AttachedFrameID
	t.AttachedFrameID = ""
	return id
}

// Attached returns the ID of the frame being pulled, or empty.
func (t *FrameTruck) Attached() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.AttachedFrameID
}
