package domain

import (
	"fmt"
	"maps"
	"sort"
	"sync"
)

// WarehouseKind distinguishes the two warehouse tiers.
type WarehouseKind string

const (
	WarehouseTerminal WarehouseKind = "terminal" // Intake side, raw stock
	WarehouseProduct  WarehouseKind = "product"  // Outgoing side, stock ready to ship
)

// IsValid returns true if the kind is a known tier.
func (k WarehouseKind) IsValid() bool {
	return k == WarehouseTerminal || k == WarehouseProduct
}

// Display returns a human-readable representation of the kind.
func (k WarehouseKind) Display() string {
	switch k {
	case WarehouseTerminal:
		return "Terminal"
	case WarehouseProduct:
		return "Product"
	default:
		return string(k)
	}
}

// Warehouse holds on-hand stock for one tier of the yard.
// CurrentLoad is measured in units and always equals the sum of Products.
// A Capacity of zero means the warehouse is unbounded.
// Fields are ordered to minimize memory padding.
type Warehouse struct {
	Products    map[string]int `json:"products"` // product ID -> on-hand quantity, never zero
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        WarehouseKind  `json:"kind"`
	Position    Position       `json:"position"`
	Capacity    int            `json:"capacity"`
	CurrentLoad int            `json:"currentLoad"`
	mu          sync.Mutex
}

// NewWarehouse creates an empty warehouse.
func NewWarehouse(id, name string, kind WarehouseKind, pos Position, capacity int) *Warehouse {
	return &Warehouse{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Position: pos,
		Capacity: capacity,
		Products: make(map[string]int),
	}
}

// AddProduct increases the on-hand quantity of a product.
func (w *Warehouse) AddProduct(productID string, quantity int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addLocked(productID, quantity)
}

// RemoveProduct decreases the on-hand quantity of a product.
// The entry is deleted once it reaches zero.
func (w *Warehouse) RemoveProduct(productID string, quantity int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removeLocked(productID, quantity)
}

// Adjust applies a signed stock delta. Negative deltas require sufficient stock.
func (w *Warehouse) Adjust(productID string, delta int) error {
	switch {
	case delta > 0:
		return w.AddProduct(productID, delta)
	case delta < 0:
		return w.RemoveProduct(productID, -delta)
	default:
		return ErrInvalidQuantity
	}
}

// Quantity returns the on-hand quantity of a product.
func (w *Warehouse) Quantity(productID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Products[productID]
}

// Stock returns a copy of the product map.
func (w *Warehouse) Stock() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return maps.Clone(w.Products)
}

// Load returns the current load in units.
func (w *Warehouse) Load() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.CurrentLoad
}

// Normalize drops non-positive entries and recomputes the load.
// It is used after decoding records from outside the engine.
func (w *Warehouse) Normalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Products == nil {
		w.Products = make(map[string]int)
	}
	load := 0
	for id, qty := range w.Products {
		if qty < 0 {
			return fmt.Errorf("product %s in warehouse %s: %w", id, w.ID, ErrInvalidQuantity)
		}
		if qty == 0 {
			delete(w.Products, id)
			continue
		}
		load += qty
	}
	if w.Capacity > 0 && load > w.Capacity {
		return fmt.Errorf("warehouse %s holds %d units over capacity %d: %w", w.ID, load, w.Capacity, ErrCapacityExceeded)
	}
	w.CurrentLoad = load
	return nil
}

func (w *Warehouse) addLocked(productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if w.Capacity > 0 && w.CurrentLoad+quantity > w.Capacity {
		return fmt.Errorf("warehouse %s: %d + %d > %d: %w", w.ID, w.CurrentLoad, quantity, w.Capacity, ErrCapacityExceeded)
	}
	if w.Products == nil {
		w.Products = make(map[string]int)
	}
	w.Products[productID] += quantity
	w.CurrentLoad += quantity
	return nil
}

func (w *Warehouse) removeLocked(productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	have := w.Products[productID]
	if have < quantity {
		return fmt.Errorf("warehouse %s has %d of %s, need %d: %w", w.ID, have, productID, quantity, ErrInsufficientStock)
	}
	if have == quantity {
		delete(w.Products, productID)
	} else {
		w.Products[productID] = have - quantity
	}
	w.CurrentLoad -= quantity
	return nil
}

// Deposit adds every product line, or none if the total would exceed capacity.
func (w *Warehouse) Deposit(products map[string]int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := 0
	for id, qty := range products {
		if qty <= 0 {
			return fmt.Errorf("product %s: %w", id, ErrInvalidQuantity)
		}
		total += qty
	}
	if w.Capacity > 0 && w.CurrentLoad+total > w.Capacity {
		return fmt.Errorf("warehouse %s: %d + %d > %d: %w", w.ID, w.CurrentLoad, total, w.Capacity, ErrCapacityExceeded)
	}
	for _, id := range sortedMapKeys(products) {
		// Cannot fail: quantities and capacity were checked above.
		_ = w.addLocked(id, products[id])
	}
	return nil
}

// TotalStock sums the on-hand quantity of a product across warehouses.
func TotalStock(warehouses []*Warehouse, productID string) int {
	total := 0
	for _, w := range warehouses {
		total += w.Quantity(productID)
	}
	return total
}

// Withdrawal records how many units of each product were taken from each warehouse.
// warehouse ID -> product ID -> quantity
type Withdrawal map[string]map[string]int

// Withdraw removes the requested products from the warehouses, draining them
// in the given order. Either every line is satisfied or nothing changes.
// All warehouses are locked in slice order for the duration of the call.
func Withdraw(warehouses []*Warehouse, products map[string]int) (Withdrawal, error) {
	for _, w := range warehouses {
		w.mu.Lock()
		defer w.mu.Unlock()
	}

	ids := sortedMapKeys(products)
	for _, id := range ids {
		qty := products[id]
		if qty <= 0 {
			return nil, fmt.Errorf("product %s: %w", id, ErrInvalidQuantity)
		}
		have := 0
		for _, w := range warehouses {
			have += w.Products[id]
		}
		if have < qty {
			return nil, fmt.Errorf("%s: have %d, need %d: %w", id, have, qty, ErrInsufficientStock)
		}
	}

	out := make(Withdrawal)
	for _, id := range ids {
		remaining := products[id]
		for _, w := range warehouses {
			if remaining == 0 {
				break
			}
			take := min(w.Products[id], remaining)
			if take == 0 {
				continue
			}
			// Cannot fail: availability was checked under the same locks.
			_ = w.removeLocked(id, take)
			if out[w.ID] == nil {
				out[w.ID] = make(map[string]int)
			}
			out[w.ID][id] = take
			remaining -= take
		}
	}
	return out, nil
}

// sortedMapKeys returns the keys of a map sorted alphabetically.
func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
