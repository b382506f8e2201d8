package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// RegisterInput contains the records to add or replace.
// Records are registered in field order, so a crane may refer to a
// warehouse in the same input.
type RegisterInput struct {
	Products   []*domain.Product
	Warehouses []*domain.Warehouse
	Cranes     []*domain.Crane
	Frames     []*domain.Frame
	Trucks     []*domain.FrameTruck
	Plans      []*domain.ShipPlan
}

// RegisterOutput contains the IDs registered, including generated ones.
type RegisterOutput struct {
	IDs []string
}

// Register is the use case for adding yard records. Registering an existing
// ID replaces the record; equipment held by a task cannot be replaced.
type Register struct {
	registry domain.Registry
	events   domain.EventLog
}

// NewRegister creates a new Register use case.
func NewRegister(registry domain.Registry, events domain.EventLog) *Register {
	return &Register{
		registry: registry,
		events:   events,
	}
}

// Execute registers every record and stops at the first rejected one.
// Records before it stay registered.
func (uc *Register) Execute(_ context.Context, in RegisterInput) (*RegisterOutput, error) {
	out := &RegisterOutput{}
	put := func(kind string, id func() string, fn func() error) error {
		if err := fn(); err != nil {
			errorf(uc.events, "", "register %s %s: %v", kind, id(), err)
			return fmt.Errorf("register %s %s: %w", kind, id(), err)
		}
		out.IDs = append(out.IDs, id())
		infof(uc.events, "", "registered %s %s", kind, id())
		return nil
	}

	for _, p := range in.Products {
		if err := put("product", func() string { return p.ID }, func() error { return uc.registry.PutProduct(p) }); err != nil {
			return out, err
		}
	}
	for _, w := range in.Warehouses {
		if err := put("warehouse", func() string { return w.ID }, func() error {
			return uc.placed(w.Position, func() error { return uc.registry.PutWarehouse(w) })
		}); err != nil {
			return out, err
		}
	}
	for _, c := range in.Cranes {
		if err := put("crane", func() string { return c.ID }, func() error {
			return uc.placed(c.Position, func() error { return uc.registry.PutCrane(c) })
		}); err != nil {
			return out, err
		}
	}
	for _, f := range in.Frames {
		if err := put("frame", func() string { return f.ID }, func() error {
			return uc.placed(f.Position, func() error { return uc.registry.PutFrame(f) })
		}); err != nil {
			return out, err
		}
	}
	for _, t := range in.Trucks {
		if err := put("truck", func() string { return t.ID }, func() error {
			return uc.placed(t.Position, func() error { return uc.registry.PutTruck(t) })
		}); err != nil {
			return out, err
		}
	}
	for _, p := range in.Plans {
		if err := put("plan", func() string { return p.ID }, func() error { return uc.registry.PutPlan(p) }); err != nil {
			return out, err
		}
	}
	return out, nil
}

// placed runs fn only for positions on the yard grid.
func (uc *Register) placed(pos domain.Position, fn func() error) error {
	if g := uc.registry.Grid(); !g.Contains(pos) {
		return fmt.Errorf("%s on a %dx%d grid: %w", pos, g.Width, g.Height, domain.ErrOutsideGrid)
	}
	return fn()
}
