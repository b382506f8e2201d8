package usecase

import (
	"context"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// OptimizeScheduleInput contains the parameters for ordering pending tasks.
type OptimizeScheduleInput struct{}

// OptimizeScheduleOutput contains the execution order.
type OptimizeScheduleOutput struct {
	TaskIDs []string // Pending task IDs, shipments first
}

// OptimizeSchedule is the use case for ordering pending tasks.
type OptimizeSchedule struct {
	registry domain.Registry
}

// NewOptimizeSchedule creates a new OptimizeSchedule use case.
func NewOptimizeSchedule(registry domain.Registry) *OptimizeSchedule {
	return &OptimizeSchedule{
		registry: registry,
	}
}

// Execute returns the IDs of tasks that have never run. Shipment tasks come
// before transfers; otherwise creation order is kept.
func (uc *OptimizeSchedule) Execute(_ context.Context, _ OptimizeScheduleInput) (*OptimizeScheduleOutput, error) {
	return &OptimizeScheduleOutput{
		TaskIDs: domain.OrderPending(uc.registry.Tasks()),
	}, nil
}
