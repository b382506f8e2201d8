package usecase

import (
	"context"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// AdjustStockInput contains the parameters for a stock adjustment.
type AdjustStockInput struct {
	WarehouseID string
	ProductID   string
	Delta       int // Positive adds stock, negative removes it
}

// AdjustStockOutput contains the result of a stock adjustment.
type AdjustStockOutput struct {
	Warehouse *domain.Warehouse // Copy of the warehouse after the change
	Quantity  int               // On-hand quantity of the product after the change
}

// AdjustStock is the use case for changing warehouse stock by hand.
type AdjustStock struct {
	registry domain.Registry
	events   domain.EventLog
}

// NewAdjustStock creates a new AdjustStock use case.
func NewAdjustStock(registry domain.Registry, events domain.EventLog) *AdjustStock {
	return &AdjustStock{
		registry: registry,
		events:   events,
	}
}

// Execute applies the delta. Removing more than is on hand fails with
// ErrInsufficientStock and adding past capacity with ErrCapacityExceeded.
func (uc *AdjustStock) Execute(_ context.Context, in AdjustStockInput) (*AdjustStockOutput, error) {
	if err := uc.registry.AdjustStock(in.WarehouseID, in.ProductID, in.Delta); err != nil {
		errorf(uc.events, "", "adjust stock %s/%s by %+d: %v", in.WarehouseID, in.ProductID, in.Delta, err)
		return nil, err
	}

	w, _ := uc.registry.Warehouse(in.WarehouseID)
	qty := w.Quantity(in.ProductID)
	infof(uc.events, "", "stock %s/%s adjusted by %+d to %d", in.WarehouseID, in.ProductID, in.Delta, qty)
	return &AdjustStockOutput{Warehouse: w.Clone(), Quantity: qty}, nil
}
