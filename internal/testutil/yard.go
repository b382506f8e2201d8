package testutil

import (
	"testing"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/infra/registry"
	"github.com/stretchr/testify/require"
)

// Fixture IDs used by NewYard.
const (
	ProductSteel    = "P001"
	ProductCement   = "P002"
	TerminalWH      = "TW001"
	ProductWH       = "PW001"
	TerminalCrane   = "C001"
	ProductCrane    = "C002"
	DefaultFrame    = "F001"
	DefaultTruck    = "T001"
	DefaultPlan     = "SP001"
	FixtureDeadline = "2025-01-01T12:00:00Z"
)

// FixedTime is the time MockClock fixtures start at.
var FixedTime = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

// NewYard returns a registry seeded with a small yard:
// TW001 at (0,0) holding 100 P001 and 80 P002, PW001 at (0,9),
// crane C001 on TW001, crane C002 on PW001, frame F001 at (5,5),
// truck T001 at (5,4) and plan SP001 for 50 P001 and 30 P002.
func NewYard(t testing.TB) *registry.Registry {
	t.Helper()
	r := registry.New(domain.DefaultGrid)

	require.NoError(t, r.PutProduct(&domain.Product{ID: ProductSteel, Name: "Steel", Weight: 10, Volume: 5}))
	require.NoError(t, r.PutProduct(&domain.Product{ID: ProductCement, Name: "Cement", Weight: 8, Volume: 4}))

	tw := domain.NewWarehouse(TerminalWH, "Terminal 1", domain.WarehouseTerminal, domain.Position{X: 0, Y: 0}, 1000)
	require.NoError(t, tw.AddProduct(ProductSteel, 100))
	require.NoError(t, tw.AddProduct(ProductCement, 80))
	require.NoError(t, r.PutWarehouse(tw))
	require.NoError(t, r.PutWarehouse(domain.NewWarehouse(ProductWH, "Product 1", domain.WarehouseProduct, domain.Position{X: 0, Y: 9}, 2000)))

	require.NoError(t, r.PutCrane(domain.NewCrane(TerminalCrane, "Terminal crane 1", domain.Position{X: 0, Y: 0}, TerminalWH)))
	require.NoError(t, r.PutCrane(domain.NewCrane(ProductCrane, "Product crane 1", domain.Position{X: 0, Y: 9}, ProductWH)))
	require.NoError(t, r.PutFrame(domain.NewFrame(DefaultFrame, "Frame 1", domain.Position{X: 5, Y: 5})))
	require.NoError(t, r.PutTruck(domain.NewFrameTruck(DefaultTruck, "Truck 1", domain.Position{X: 5, Y: 4})))

	deadline, err := time.Parse(time.RFC3339, FixtureDeadline)
	require.NoError(t, err)
	require.NoError(t, r.PutPlan(&domain.ShipPlan{
		ID:       DefaultPlan,
		Products: map[string]int{ProductSteel: 50, ProductCement: 30},
		Deadline: deadline,
		Priority: 1,
	}))
	return r
}

// AssertAllIdle fails the test unless every piece of equipment is idle and unheld.
func AssertAllIdle(t testing.TB, r domain.Registry) {
	t.Helper()
	for _, c := range r.Cranes() {
		require.Equal(t, domain.StatusIdle, c.CurrentStatus(), "crane %s", c.ID)
		require.Empty(t, c.Holder(), "crane %s", c.ID)
	}
	for _, f := range r.Frames() {
		require.Equal(t, domain.StatusIdle, f.CurrentStatus(), "frame %s", f.ID)
		require.Empty(t, f.Holder(), "frame %s", f.ID)
	}
	for _, tr := range r.Trucks() {
		require.Equal(t, domain.StatusIdle, tr.CurrentStatus(), "truck %s", tr.ID)
		require.Empty(t, tr.Holder(), "truck %s", tr.ID)
	}
}
