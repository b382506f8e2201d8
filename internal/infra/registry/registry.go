// Package registry provides the in-memory entity registry.
package registry

import (
	"fmt"
	"sync"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Ensure Registry implements domain.Registry interface.
var _ domain.Registry = (*Registry)(nil)

// Registry keeps every yard entity in memory, in insertion order.
// The registry lock guards the tables; equipment and warehouse records
// carry their own locks for status and stock changes.
// Fields are ordered to minimize memory padding.
type Registry struct {
	products   table[*domain.Product]
	warehouses table[*domain.Warehouse]
	cranes     table[*domain.Crane]
	frames     table[*domain.Frame]
	trucks     table[*domain.FrameTruck]
	plans      table[*domain.ShipPlan]
	tasks      table[*domain.Task]
	grid       domain.Grid
	mu         sync.RWMutex
}

// New creates an empty registry for a yard of the given size.
func New(grid domain.Grid) *Registry {
	return &Registry{
		products:   newTable[*domain.Product](),
		warehouses: newTable[*domain.Warehouse](),
		cranes:     newTable[*domain.Crane](),
		frames:     newTable[*domain.Frame](),
		trucks:     newTable[*domain.FrameTruck](),
		plans:      newTable[*domain.ShipPlan](),
		tasks:      newTable[*domain.Task](),
		grid:       grid,
	}
}

// Grid returns the yard grid.
func (r *Registry) Grid() domain.Grid {
	return r.grid
}

// === Registration ===

// PutProduct inserts or replaces a product.
func (r *Registry) PutProduct(p *domain.Product) error {
	if p.ID == "" {
		p.ID = domain.ShortID()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products.put(p.ID, p)
	return nil
}

// PutWarehouse inserts or replaces a warehouse.
func (r *Registry) PutWarehouse(w *domain.Warehouse) error {
	if w.ID == "" {
		w.ID = domain.ShortID()
	}
	if !w.Kind.IsValid() {
		return fmt.Errorf("warehouse %s: unknown kind %q", w.ID, w.Kind)
	}
	if w.Capacity < 0 {
		return fmt.Errorf("warehouse %s: negative capacity: %w", w.ID, domain.ErrInvalidQuantity)
	}
	if err := w.Normalize(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses.put(w.ID, w)
	return nil
}

// PutCrane inserts or replaces a crane. Its warehouse must already be registered.
func (r *Registry) PutCrane(c *domain.Crane) error {
	if c.ID == "" {
		c.ID = domain.ShortID()
	}
	if c.WarehouseID == "" {
		return fmt.Errorf("crane %s: %w", c.ID, domain.ErrUnassignedCrane)
	}
	if c.LoadCapacity == 0 {
		c.LoadCapacity = domain.DefaultCraneLoadCapacity
	}
	if err := c.Normalize(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.warehouses.get(c.WarehouseID); !ok {
		return fmt.Errorf("crane %s: warehouse %s: %w", c.ID, c.WarehouseID, domain.ErrUnknownWarehouse)
	}
	if old, ok := r.cranes.get(c.ID); ok {
		if err := replaceable(&old.Equipment); err != nil {
			return err
		}
	}
	r.cranes.put(c.ID, c)
	return nil
}

// PutFrame inserts or replaces a frame.
func (r *Registry) PutFrame(f *domain.Frame) error {
	if f.ID == "" {
		f.ID = domain.ShortID()
	}
	if f.Capacity == 0 {
		f.Capacity = domain.DefaultFrameCapacity
	}
	if err := f.Normalize(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.frames.get(f.ID); ok {
		if err := replaceable(&old.Equipment); err != nil {
			return err
		}
	}
	r.frames.put(f.ID, f)
	return nil
}

// PutTruck inserts or replaces a frame truck.
func (r *Registry) PutTruck(t *domain.FrameTruck) error {
	if t.ID == "" {
		t.ID = domain.ShortID()
	}
	if t.Speed == 0 {
		t.Speed = domain.DefaultTruckSpeed
	}
	if err := t.Normalize(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.trucks.get(t.ID); ok {
		if err := replaceable(&old.Equipment); err != nil {
			return err
		}
	}
	r.trucks.put(t.ID, t)
	return nil
}

// PutPlan inserts or replaces a ship plan.
func (r *Registry) PutPlan(p *domain.ShipPlan) error {
	if p.ID == "" {
		p.ID = domain.ShortID()
	}
	if p.Priority == 0 {
		p.Priority = domain.DefaultPlanPriority
	}
	for id, qty := range p.Products {
		if qty <= 0 {
			return fmt.Errorf("plan %s: product %s: %w", p.ID, id, domain.ErrInvalidQuantity)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans.put(p.ID, p)
	return nil
}

// replaceable rejects overwriting equipment a task is holding.
func replaceable(e *domain.Equipment) error {
	if holder := e.Holder(); holder != "" {
		return fmt.Errorf("%s held by %s: %w", e.ID, holder, domain.ErrEquipmentBusy)
	}
	return nil
}

// === Lookups ===

// Product returns a product by ID.
func (r *Registry) Product(id string) (*domain.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products.get(id)
}

// Warehouse returns a warehouse by ID.
func (r *Registry) Warehouse(id string) (*domain.Warehouse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.warehouses.get(id)
}

// Crane returns a crane by ID.
func (r *Registry) Crane(id string) (*domain.Crane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cranes.get(id)
}

// Frame returns a frame by ID.
func (r *Registry) Frame(id string) (*domain.Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames.get(id)
}

// Truck returns a frame truck by ID.
func (r *Registry) Truck(id string) (*domain.FrameTruck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trucks.get(id)
}

// Plan returns a ship plan by ID.
func (r *Registry) Plan(id string) (*domain.ShipPlan, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plans.get(id)
}

// Equipment returns the shared equipment record bound to a role.
func (r *Registry) Equipment(role domain.Role, id string) (*domain.Equipment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch role {
	case domain.RoleCrane:
		if c, ok := r.cranes.get(id); ok {
			return &c.Equipment, true
		}
	case domain.RoleFrame:
		if f, ok := r.frames.get(id); ok {
			return &f.Equipment, true
		}
	case domain.RoleFrameTruck:
		if t, ok := r.trucks.get(id); ok {
			return &t.Equipment, true
		}
	}
	return nil, false
}

// === Listings ===

// Products returns all products in insertion order.
func (r *Registry) Products() []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products.list()
}

// Warehouses returns the warehouses of a tier in insertion order.
// An empty kind returns every warehouse.
func (r *Registry) Warehouses(kind domain.WarehouseKind) []*domain.Warehouse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.warehouses.list()
	if kind == "" {
		return all
	}
	out := make([]*domain.Warehouse, 0, len(all))
	for _, w := range all {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Cranes returns all cranes in insertion order.
func (r *Registry) Cranes() []*domain.Crane {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cranes.list()
}

// Frames returns all frames in insertion order.
func (r *Registry) Frames() []*domain.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames.list()
}

// Trucks returns all frame trucks in insertion order.
func (r *Registry) Trucks() []*domain.FrameTruck {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trucks.list()
}

// Plans returns all ship plans in insertion order.
func (r *Registry) Plans() []*domain.ShipPlan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plans.list()
}

// === Tasks ===

// AddTask stores a copy of a new task.
func (r *Registry) AddTask(t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks.get(t.ID); ok {
		return fmt.Errorf("%s: %w", t.ID, domain.ErrDuplicateTask)
	}
	r.tasks.put(t.ID, t.Clone())
	return nil
}

// SaveTask replaces the stored copy of an existing task.
func (r *Registry) SaveTask(t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks.get(t.ID); !ok {
		return fmt.Errorf("%s: %w", t.ID, domain.ErrUnknownTask)
	}
	r.tasks.put(t.ID, t.Clone())
	return nil
}

// UpdateTask applies fn to a copy of a stored task and keeps the result.
// The stored task is unchanged if fn returns an error.
func (r *Registry) UpdateTask(id string, fn func(*domain.Task) error) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks.get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrUnknownTask)
	}
	t := stored.Clone()
	if err := fn(t); err != nil {
		return nil, err
	}
	r.tasks.put(id, t.Clone())
	return t, nil
}

// Task returns a copy of a task.
func (r *Registry) Task(id string) (*domain.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks.get(id)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Tasks returns copies of every task in insertion order.
func (r *Registry) Tasks() []*domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.tasks.list()
	out := make([]*domain.Task, len(stored))
	for i, t := range stored {
		out[i] = t.Clone()
	}
	return out
}

// === Stock ===

// AdjustStock applies a signed change to one product line of a warehouse.
func (r *Registry) AdjustStock(warehouseID, productID string, delta int) error {
	w, ok := r.Warehouse(warehouseID)
	if !ok {
		return fmt.Errorf("%s: %w", warehouseID, domain.ErrUnknownWarehouse)
	}
	if _, ok := r.Product(productID); !ok {
		return fmt.Errorf("%s: %w", productID, domain.ErrUnknownProduct)
	}
	return w.Adjust(productID, delta)
}

// Withdraw takes products from every warehouse of a tier, in registry order.
func (r *Registry) Withdraw(kind domain.WarehouseKind, products map[string]int) (domain.Withdrawal, error) {
	return domain.Withdraw(r.Warehouses(kind), products)
}
