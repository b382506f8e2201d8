package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// CreateShipTaskInput contains the parameters for creating a shipment task.
type CreateShipTaskInput struct {
	PlanID string // Ship plan to fulfil (required)
}

// CreateShipTaskOutput contains the result of creating a shipment task.
type CreateShipTaskOutput struct {
	Task *domain.Task // The stored task, with equipment reserved
}

// CreateShipTask is the use case for decomposing a ship plan into a shipment task.
// Fields are ordered to minimize memory padding.
type CreateShipTask struct {
	registry  domain.Registry
	events    domain.EventLog
	clock     domain.Clock
	allocator *Allocator
}

// NewCreateShipTask creates a new CreateShipTask use case.
func NewCreateShipTask(registry domain.Registry, allocator *Allocator, events domain.EventLog, clock domain.Clock) *CreateShipTask {
	return &CreateShipTask{
		registry:  registry,
		allocator: allocator,
		events:    events,
		clock:     clock,
	}
}

// Execute validates the plan, reserves a terminal crane, a frame truck and a frame,
// and stores the six-step shipment task. Nothing is stored or held on failure.
// A plan whose earlier tasks all failed or were cancelled gets a new attempt.
func (uc *CreateShipTask) Execute(_ context.Context, in CreateShipTaskInput) (*CreateShipTaskOutput, error) {
	task, err := uc.create(in.PlanID)
	if err != nil {
		errorf(uc.events, domain.ShipTaskID(in.PlanID), "create ship task for plan %s: %v", in.PlanID, err)
		return nil, err
	}

	first := task.SubTasks[0]
	infof(uc.events, task.ID, "ship task created for plan %s: crane %s, truck %s, frame %s",
		in.PlanID, task.SubTasks[2].Resources[domain.RoleCrane],
		first.Resources[domain.RoleFrameTruck], first.Resources[domain.RoleFrame])
	return &CreateShipTaskOutput{Task: task}, nil
}

func (uc *CreateShipTask) create(planID string) (*domain.Task, error) {
	plan, ok := uc.registry.Plan(planID)
	if !ok {
		return nil, fmt.Errorf("plan %s not found: %w", planID, domain.ErrPlanInvalid)
	}
	if err := uc.validatePlan(plan); err != nil {
		return nil, err
	}

	taskID, err := uc.nextTaskID(planID)
	if err != nil {
		return nil, err
	}

	targets := uc.registry.Warehouses(domain.WarehouseProduct)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no product warehouse registered: %w", domain.ErrResourceShortage)
	}
	target := targets[0]

	crane, truck, frame, err := uc.reserve(taskID, target.Position)
	if err != nil {
		return nil, err
	}
	held := []domain.Binding{
		{Role: domain.RoleCrane, ID: crane.ID},
		{Role: domain.RoleFrameTruck, ID: truck.ID},
		{Role: domain.RoleFrame, ID: frame.ID},
	}

	terminal, ok := uc.registry.Warehouse(crane.WarehouseID)
	if !ok {
		uc.allocator.Release(taskID, held)
		return nil, fmt.Errorf("warehouse %s of crane %s: %w", crane.WarehouseID, crane.ID, domain.ErrMissingResource)
	}

	var task *domain.Task
	err = uc.allocator.WithPlacementLock(func() error {
		slot, found := uc.allocator.ParkingSlot(frame.Location())
		if !found {
			return fmt.Errorf("no free parking slot: %w", domain.ErrResourceShortage)
		}
		task = domain.NewShipTransportTask(domain.ShipTransportSpec{
			Created:     uc.clock.Now(),
			Products:    plan.Products,
			TaskID:      taskID,
			PlanID:      plan.ID,
			CraneID:     crane.ID,
			TruckID:     truck.ID,
			FrameID:     frame.ID,
			TerminalID:  terminal.ID,
			ProductID:   target.ID,
			TruckPos:    truck.Location(),
			FramePos:    frame.Location(),
			TerminalPos: terminal.Position,
			ProductPos:  target.Position,
			ParkingSlot: slot,
		})
		return uc.registry.AddTask(task)
	})
	if err != nil {
		uc.allocator.Release(taskID, held)
		return nil, err
	}
	return task, nil
}

// nextTaskID returns the first unused attempt ID for a plan. Any pending,
// running or completed attempt blocks a new one.
func (uc *CreateShipTask) nextTaskID(planID string) (string, error) {
	for attempt := 1; ; attempt++ {
		id := domain.ShipTaskAttemptID(planID, attempt)
		existing, exists := uc.registry.Task(id)
		if !exists {
			return id, nil
		}
		if !existing.IsFailed() {
			return "", fmt.Errorf("%s: %w", id, domain.ErrDuplicateTask)
		}
	}
}

// validatePlan checks that terminal stock covers every line of the plan.
func (uc *CreateShipTask) validatePlan(plan *domain.ShipPlan) error {
	if len(plan.Products) == 0 {
		return fmt.Errorf("plan %s has no products: %w", plan.ID, domain.ErrPlanInvalid)
	}
	terminals := uc.registry.Warehouses(domain.WarehouseTerminal)
	for _, id := range slices.Sorted(maps.Keys(plan.Products)) {
		need := plan.Products[id]
		if need <= 0 {
			return fmt.Errorf("plan %s: product %s quantity %d: %w", plan.ID, id, need, domain.ErrPlanInvalid)
		}
		if have := domain.TotalStock(terminals, id); have < need {
			return fmt.Errorf("plan %s: product %s needs %d, terminal stock %d: %w", plan.ID, id, need, have, domain.ErrPlanInvalid)
		}
	}
	return nil
}

// reserve takes a terminal crane near the receiving warehouse, a truck near the
// crane and a frame near the truck. Partial reservations are released on failure.
func (uc *CreateShipTask) reserve(holder string, anchor domain.Position) (*domain.Crane, *domain.FrameTruck, *domain.Frame, error) {
	crane, ok := uc.allocator.ReserveCrane(domain.WarehouseTerminal, anchor, holder)
	if !ok {
		return nil, nil, nil, fmt.Errorf("no idle terminal crane: %w", domain.ErrResourceShortage)
	}
	held := []domain.Binding{{Role: domain.RoleCrane, ID: crane.ID}}

	truck, ok := uc.allocator.ReserveTruck(crane.Location(), holder)
	if !ok {
		uc.allocator.Release(holder, held)
		return nil, nil, nil, fmt.Errorf("no idle frame truck: %w", domain.ErrResourceShortage)
	}
	held = append(held, domain.Binding{Role: domain.RoleFrameTruck, ID: truck.ID})

	frame, ok := uc.allocator.ReserveFrame(truck.Location(), holder)
	if !ok {
		uc.allocator.Release(holder, held)
		return nil, nil, nil, fmt.Errorf("no idle frame: %w", domain.ErrResourceShortage)
	}
	return crane, truck, frame, nil
}
