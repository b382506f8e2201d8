package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// SetEquipmentStatusInput contains the parameters for an administrative status change.
type SetEquipmentStatusInput struct {
	Role   domain.Role
	ID     string
	Status domain.Status
}

// SetEquipmentStatusOutput contains the result of the status change.
type SetEquipmentStatusOutput struct {
	Previous domain.Status
	Current  domain.Status
}

// SetEquipmentStatus is the use case for taking equipment out of or back into service.
type SetEquipmentStatus struct {
	registry domain.Registry
	events   domain.EventLog
}

// NewSetEquipmentStatus creates a new SetEquipmentStatus use case.
func NewSetEquipmentStatus(registry domain.Registry, events domain.EventLog) *SetEquipmentStatus {
	return &SetEquipmentStatus{
		registry: registry,
		events:   events,
	}
}

// Execute changes the status. Busy cannot be set by hand, and equipment a
// task holds cannot be changed.
func (uc *SetEquipmentStatus) Execute(_ context.Context, in SetEquipmentStatusInput) (*SetEquipmentStatusOutput, error) {
	eq, ok := uc.registry.Equipment(in.Role, in.ID)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", in.Role, in.ID, domain.ErrUnknownEquipment)
	}

	prev := eq.CurrentStatus()
	if err := eq.SetStatus(in.Status); err != nil {
		return nil, err
	}
	if prev != in.Status {
		infof(uc.events, "", "%s %s: %s -> %s", in.Role, in.ID, prev, in.Status)
	}
	return &SetEquipmentStatusOutput{Previous: prev, Current: eq.CurrentStatus()}, nil
}
