package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// CreateTransferTaskInput contains the parameters for creating a transfer task.
type CreateTransferTaskInput struct {
	Products map[string]int // product ID -> quantity to move
	SourceID string         // Terminal warehouse to load from
	TargetID string         // Product warehouse to unload into
}

// CreateTransferTaskOutput contains the result of creating a transfer task.
type CreateTransferTaskOutput struct {
	Task *domain.Task // The stored task
}

// CreateTransferTask is the use case for moving stock from a terminal
// warehouse to a product warehouse.
// Fields are ordered to minimize memory padding.
type CreateTransferTask struct {
	registry  domain.Registry
	events    domain.EventLog
	clock     domain.Clock
	allocator *Allocator
}

// NewCreateTransferTask creates a new CreateTransferTask use case.
func NewCreateTransferTask(registry domain.Registry, allocator *Allocator, events domain.EventLog, clock domain.Clock) *CreateTransferTask {
	return &CreateTransferTask{
		registry:  registry,
		allocator: allocator,
		events:    events,
		clock:     clock,
	}
}

// Execute reserves a crane at each end and stores the three-step transfer task.
// Nothing is stored or held on failure.
func (uc *CreateTransferTask) Execute(_ context.Context, in CreateTransferTaskInput) (*CreateTransferTaskOutput, error) {
	task, err := uc.create(in)
	if err != nil {
		errorf(uc.events, "", "create transfer %s -> %s: %v", in.SourceID, in.TargetID, err)
		return nil, err
	}
	infof(uc.events, task.ID, "transfer task created: %s -> %s, cranes %s and %s", in.SourceID, in.TargetID,
		task.SubTasks[0].Resources[domain.RoleCrane], task.SubTasks[2].Resources[domain.RoleCrane])
	return &CreateTransferTaskOutput{Task: task}, nil
}

func (uc *CreateTransferTask) create(in CreateTransferTaskInput) (*domain.Task, error) {
	source, err := uc.warehouse(in.SourceID, domain.WarehouseTerminal)
	if err != nil {
		return nil, err
	}
	target, err := uc.warehouse(in.TargetID, domain.WarehouseProduct)
	if err != nil {
		return nil, err
	}
	if err := uc.validateProducts(in.Products); err != nil {
		return nil, err
	}

	taskID := domain.TransferTaskID(source.ID, target.ID, domain.ShortID())
	sourceCrane, err := uc.allocator.ReserveCraneAt(source, taskID)
	if err != nil {
		return nil, err
	}
	held := []domain.Binding{{Role: domain.RoleCrane, ID: sourceCrane.ID}}
	targetCrane, err := uc.allocator.ReserveCraneAt(target, taskID)
	if err != nil {
		uc.allocator.Release(taskID, held)
		return nil, err
	}
	held = append(held, domain.Binding{Role: domain.RoleCrane, ID: targetCrane.ID})

	task := domain.NewInternalTransferTask(domain.InternalTransferSpec{
		Created:       uc.clock.Now(),
		Products:      in.Products,
		TaskID:        taskID,
		SourceID:      source.ID,
		TargetID:      target.ID,
		SourceCraneID: sourceCrane.ID,
		TargetCraneID: targetCrane.ID,
		SourcePos:     source.Position,
		TargetPos:     target.Position,
	})
	if err := uc.registry.AddTask(task); err != nil {
		uc.allocator.Release(taskID, held)
		return nil, err
	}
	return task, nil
}

func (uc *CreateTransferTask) warehouse(id string, kind domain.WarehouseKind) (*domain.Warehouse, error) {
	w, ok := uc.registry.Warehouse(id)
	if !ok {
		return nil, fmt.Errorf("%s warehouse %s not found: %w", kind, id, domain.ErrMissingResource)
	}
	if w.Kind != kind {
		return nil, fmt.Errorf("warehouse %s is a %s warehouse, want %s: %w", id, w.Kind, kind, domain.ErrMissingResource)
	}
	return w, nil
}

func (uc *CreateTransferTask) validateProducts(products map[string]int) error {
	if len(products) == 0 {
		return fmt.Errorf("no products to transfer: %w", domain.ErrInvalidQuantity)
	}
	for _, id := range slices.Sorted(maps.Keys(products)) {
		if products[id] <= 0 {
			return fmt.Errorf("product %s: %w", id, domain.ErrInvalidQuantity)
		}
		if _, ok := uc.registry.Product(id); !ok {
			return fmt.Errorf("%s: %w", id, domain.ErrUnknownProduct)
		}
	}
	return nil
}
