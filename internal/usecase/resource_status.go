package usecase

import (
	"context"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// GetResourceStatusInput contains the parameters for the resource listing.
type GetResourceStatusInput struct{}

// GetResourceStatusOutput lists every registered record by category.
// Records are copies and safe to keep.
// Fields are ordered to minimize memory padding.
type GetResourceStatusOutput struct {
	Products     []*domain.Product    `json:"products"`
	Warehouses   []*domain.Warehouse  `json:"warehouses"`
	Cranes       []*domain.Crane      `json:"cranes"`
	Frames       []*domain.Frame      `json:"frames"`
	Trucks       []*domain.FrameTruck `json:"trucks"`
	Plans        []*domain.ShipPlan   `json:"plans"`
	Availability Availability         `json:"availability"`
}

// GetResourceStatus is the use case for the full resource listing.
// Fields are ordered to minimize memory padding.
type GetResourceStatus struct {
	registry  domain.Registry
	allocator *Allocator
}

// NewGetResourceStatus creates a new GetResourceStatus use case.
func NewGetResourceStatus(registry domain.Registry, allocator *Allocator) *GetResourceStatus {
	return &GetResourceStatus{
		registry:  registry,
		allocator: allocator,
	}
}

// Execute lists all records together with the idle equipment the allocator sees.
func (uc *GetResourceStatus) Execute(_ context.Context, _ GetResourceStatusInput) (*GetResourceStatusOutput, error) {
	snap := uc.registry.Snapshot()
	return &GetResourceStatusOutput{
		Products:     snap.Products,
		Warehouses:   snap.Warehouses,
		Cranes:       snap.Cranes,
		Frames:       snap.Frames,
		Trucks:       snap.Trucks,
		Plans:        snap.Plans,
		Availability: uc.allocator.FindAvailable(),
	}, nil
}
