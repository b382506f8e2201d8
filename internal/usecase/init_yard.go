package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// InitYardInput contains the parameters for initializing a yard.
type InitYardInput struct {
	LayoutPath string      // Layout file; empty selects the demo layout
	Grid       domain.Grid // Yard size
	Empty      bool        // Start with no records instead of a layout
	Force      bool        // Replace existing state, tasks and events included
}

// InitYardOutput contains the result of initializing a yard.
// Fields are ordered to minimize memory padding.
type InitYardOutput struct {
	Snapshot *domain.Snapshot // The snapshot written to the store
	Source   string           // "empty", "demo" or the layout path
	Reset    bool             // Existing state was replaced
}

// InitYard is the use case for creating the yard state from a layout.
// Fields are ordered to minimize memory padding.
type InitYard struct {
	store    domain.StateStore
	layouts  domain.LayoutLoader
	registry domain.Registry
	events   domain.EventLog
	clock    domain.Clock
}

// NewInitYard creates a new InitYard use case.
func NewInitYard(
	store domain.StateStore,
	layouts domain.LayoutLoader,
	registry domain.Registry,
	events domain.EventLog,
	clock domain.Clock,
) *InitYard {
	return &InitYard{
		store:    store,
		layouts:  layouts,
		registry: registry,
		events:   events,
		clock:    clock,
	}
}

// Execute loads the layout into the registry, which validates every record,
// and writes the first snapshot. Fails with ErrAlreadyInitialized if the
// yard already has state, unless Force is set. A forced reset discards every
// task and event; a layout that fails to load leaves the old state in place.
func (uc *InitYard) Execute(_ context.Context, in InitYardInput) (*InitYardOutput, error) {
	reset := uc.store.IsInitialized()
	if reset && !in.Force {
		return nil, domain.ErrAlreadyInitialized
	}

	source := "empty"
	snap := domain.NewSnapshot(in.Grid)
	if !in.Empty {
		source = in.LayoutPath
		if source == "" {
			source = "demo"
		}
		loaded, err := uc.layouts.Load(in.LayoutPath, in.Grid)
		if err != nil {
			return nil, fmt.Errorf("load layout: %w", err)
		}
		snap = loaded
	}

	if err := uc.registry.Restore(snap); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if reset {
		infof(uc.events, "", "yard reset from %s", source)
	} else {
		infof(uc.events, "", "yard initialized from %s", source)
	}

	out := uc.registry.Snapshot()
	out.Saved = uc.clock.Now()
	out.Events = uc.events.Events()
	out.EventTotal = uc.events.Total()
	if reset {
		err := uc.store.Update(func(*domain.Snapshot) (*domain.Snapshot, error) {
			return out, nil
		})
		if err != nil {
			return nil, fmt.Errorf("reset store: %w", err)
		}
	} else if err := uc.store.Initialize(out); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return &InitYardOutput{Snapshot: out, Source: source, Reset: reset}, nil
}
