package domain

import "time"

// Product is reference data shared by all warehouses.
type Product struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Volume float64 `json:"volume"`
}

// DefaultPlanPriority is used when a plan is registered without a priority.
// Lower numbers are more urgent.
const DefaultPlanPriority = 1

// ShipPlan requests products to be shipped out by a deadline.
// Fields are ordered to minimize memory padding.
type ShipPlan struct {
	Deadline time.Time      `json:"deadline"`
	Products map[string]int `json:"products"` // product ID -> quantity
	ID       string         `json:"id"`
	Priority int            `json:"priority"` // lower = more urgent
}

// TotalQuantity returns the number of units the plan requires.
func (p *ShipPlan) TotalQuantity() int {
	total := 0
	for _, qty := range p.Products {
		total += qty
	}
	return total
}
