package usecase

import (
	"fmt"
	"slices"
	"sync"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase/shared"
)

// Availability lists the IDs of idle equipment by category, in registry order.
type Availability struct {
	TerminalCranes []string `json:"terminalCranes"`
	ProductCranes  []string `json:"productCranes"`
	FrameTrucks    []string `json:"frameTrucks"`
	Frames         []string `json:"frames"`
}

// Allocator finds idle equipment and reserves it for a task.
// Reservation is a compare-and-swap on the equipment record, so concurrent
// callers never bind the same piece of equipment.
// Fields are ordered to minimize memory padding.
type Allocator struct {
	registry domain.Registry
	strategy domain.SelectionStrategy
	placeMu  sync.Mutex // serializes parking slot choice with task storage
}

// NewAllocator creates a new Allocator. A nil strategy selects first fit.
func NewAllocator(registry domain.Registry, strategy domain.SelectionStrategy) *Allocator {
	if strategy == nil {
		strategy = domain.FirstFit{}
	}
	return &Allocator{
		registry: registry,
		strategy: strategy,
	}
}

// FindAvailable returns the idle equipment by category.
// Cranes whose warehouse is in neither tier are omitted.
// The result is a snapshot; reserving still goes through TryReserve.
func (a *Allocator) FindAvailable() Availability {
	ids := func(cs []domain.Candidate) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}
	return Availability{
		TerminalCranes: ids(a.craneCandidates(domain.WarehouseTerminal)),
		ProductCranes:  ids(a.craneCandidates(domain.WarehouseProduct)),
		FrameTrucks:    ids(a.truckCandidates()),
		Frames:         ids(a.frameCandidates()),
	}
}

func (a *Allocator) craneCandidates(kind domain.WarehouseKind) []domain.Candidate {
	tier := make(map[string]bool)
	for _, w := range a.registry.Warehouses(kind) {
		tier[w.ID] = true
	}
	var out []domain.Candidate
	for _, c := range a.registry.Cranes() {
		if tier[c.WarehouseID] && c.CurrentStatus().IsAssignable() {
			out = append(out, domain.Candidate{ID: c.ID, Position: c.Location()})
		}
	}
	return out
}

func (a *Allocator) truckCandidates() []domain.Candidate {
	var out []domain.Candidate
	for _, t := range a.registry.Trucks() {
		if t.CurrentStatus().IsAssignable() {
			out = append(out, domain.Candidate{ID: t.ID, Position: t.Location()})
		}
	}
	return out
}

func (a *Allocator) frameCandidates() []domain.Candidate {
	var out []domain.Candidate
	for _, f := range a.registry.Frames() {
		if f.CurrentStatus().IsAssignable() {
			out = append(out, domain.Candidate{ID: f.ID, Position: f.Location()})
		}
	}
	return out
}

// Reserve lets the strategy pick among candidates and reserves the pick for holder.
// A candidate lost to a concurrent reservation is dropped and the strategy asked again.
func (a *Allocator) Reserve(role domain.Role, candidates []domain.Candidate, anchor domain.Position, holder string) (domain.Candidate, bool) {
	remaining := slices.Clone(candidates)
	for len(remaining) > 0 {
		pick, ok := a.strategy.Choose(remaining, anchor)
		if !ok {
			break
		}
		if eq, found := a.registry.Equipment(role, pick.ID); found && eq.TryReserve(holder) {
			return pick, true
		}
		remaining = slices.DeleteFunc(remaining, func(c domain.Candidate) bool {
			return c.ID == pick.ID
		})
	}
	return domain.Candidate{}, false
}

// ReserveCrane reserves an idle crane of the given tier.
func (a *Allocator) ReserveCrane(kind domain.WarehouseKind, anchor domain.Position, holder string) (*domain.Crane, bool) {
	pick, ok := a.Reserve(domain.RoleCrane, a.craneCandidates(kind), anchor, holder)
	if !ok {
		return nil, false
	}
	return a.registry.Crane(pick.ID)
}

// ReserveCraneAt reserves an idle crane of one warehouse. It fails with
// ErrMissingResource when the warehouse has no crane at all and with
// ErrResourceShortage when every crane it has is taken.
func (a *Allocator) ReserveCraneAt(w *domain.Warehouse, holder string) (*domain.Crane, error) {
	var (
		found      bool
		candidates []domain.Candidate
	)
	for _, c := range a.registry.Cranes() {
		if c.WarehouseID != w.ID {
			continue
		}
		found = true
		if c.CurrentStatus().IsAssignable() {
			candidates = append(candidates, domain.Candidate{ID: c.ID, Position: c.Location()})
		}
	}
	if !found {
		return nil, fmt.Errorf("no crane at warehouse %s: %w", w.ID, domain.ErrMissingResource)
	}
	pick, ok := a.Reserve(domain.RoleCrane, candidates, w.Position, holder)
	if !ok {
		return nil, fmt.Errorf("no idle crane at warehouse %s: %w", w.ID, domain.ErrResourceShortage)
	}
	crane, _ := a.registry.Crane(pick.ID)
	return crane, nil
}

// ReserveTruck reserves an idle frame truck.
func (a *Allocator) ReserveTruck(anchor domain.Position, holder string) (*domain.FrameTruck, bool) {
	pick, ok := a.Reserve(domain.RoleFrameTruck, a.truckCandidates(), anchor, holder)
	if !ok {
		return nil, false
	}
	return a.registry.Truck(pick.ID)
}

// ReserveFrame reserves an idle frame.
func (a *Allocator) ReserveFrame(anchor domain.Position, holder string) (*domain.Frame, bool) {
	pick, ok := a.Reserve(domain.RoleFrame, a.frameCandidates(), anchor, holder)
	if !ok {
		return nil, false
	}
	return a.registry.Frame(pick.ID)
}

// Release returns the bindings held by holder to idle.
func (a *Allocator) Release(holder string, bindings []domain.Binding) []string {
	return shared.Release(a.registry, holder, bindings)
}

// WithPlacementLock runs fn while no other caller can pick a parking slot.
// Choosing a slot and storing the task that targets it must happen inside fn.
func (a *Allocator) WithPlacementLock(fn func() error) error {
	a.placeMu.Lock()
	defer a.placeMu.Unlock()
	return fn()
}

// ParkingSlot returns the free cell nearest to from. Cells holding equipment
// or a warehouse, and the parking targets of unfinished shipments, are taken.
// Call it under WithPlacementLock.
func (a *Allocator) ParkingSlot(from domain.Position) (domain.Position, bool) {
	return domain.ParkingSlot(a.registry.Grid(), from, a.occupied())
}

func (a *Allocator) occupied() map[domain.Position]bool {
	taken := make(map[domain.Position]bool)
	for _, w := range a.registry.Warehouses("") {
		taken[w.Position] = true
	}
	for _, c := range a.registry.Cranes() {
		taken[c.Location()] = true
	}
	for _, f := range a.registry.Frames() {
		taken[f.Location()] = true
	}
	for _, t := range a.registry.Trucks() {
		taken[t.Location()] = true
	}
	for _, t := range a.registry.Tasks() {
		if t.Type != domain.TaskShipTransport || t.IsCompleted() || t.IsFailed() {
			continue
		}
		for _, st := range t.SubTasks {
			if st.Type == domain.SubTaskFramePositioning && st.TargetPosition != nil {
				taken[*st.TargetPosition] = true
			}
		}
	}
	return taken
}
