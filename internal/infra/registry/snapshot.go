package registry

import (
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Snapshot copies every entity. Events are left for the caller to fill.
func (r *Registry) Snapshot() *domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := domain.NewSnapshot(r.grid)
	for _, p := range r.products.list() {
		c := *p
		s.Products = append(s.Products, &c)
	}
	for _, w := range r.warehouses.list() {
		s.Warehouses = append(s.Warehouses, w.Clone())
	}
	for _, c := range r.cranes.list() {
		s.Cranes = append(s.Cranes, c.Clone())
	}
	for _, f := range r.frames.list() {
		s.Frames = append(s.Frames, f.Clone())
	}
	for _, t := range r.trucks.list() {
		s.Trucks = append(s.Trucks, t.Clone())
	}
	for _, p := range r.plans.list() {
		s.Plans = append(s.Plans, p.Clone())
	}
	for _, t := range r.tasks.list() {
		s.Tasks = append(s.Tasks, t.Clone())
	}
	return s
}

// Restore replaces the registry contents with the snapshot's entities.
// The registry is left unchanged if any record is rejected.
// Reservations recorded in the snapshot are kept.
func (r *Registry) Restore(s *domain.Snapshot) error {
	next := New(r.grid)
	if err := next.load(s); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = next.products
	r.warehouses = next.warehouses
	r.cranes = next.cranes
	r.frames = next.frames
	r.trucks = next.trucks
	r.plans = next.plans
	r.tasks = next.tasks
	return nil
}

// load fills an empty registry. Records are taken over, not copied.
func (r *Registry) load(s *domain.Snapshot) error {
	for _, p := range s.Products {
		if err := r.PutProduct(p); err != nil {
			return err
		}
	}
	for _, w := range s.Warehouses {
		if err := r.PutWarehouse(w); err != nil {
			return err
		}
	}
	for _, c := range s.Cranes {
		if err := r.PutCrane(c); err != nil {
			return err
		}
	}
	for _, f := range s.Frames {
		if err := r.PutFrame(f); err != nil {
			return err
		}
	}
	for _, t := range s.Trucks {
		if err := r.PutTruck(t); err != nil {
			return err
		}
	}
	for _, p := range s.Plans {
		if err := r.PutPlan(p); err != nil {
			return err
		}
	}
	for _, t := range s.Tasks {
		if err := r.AddTask(t); err != nil {
			return err
		}
	}
	return nil
}
