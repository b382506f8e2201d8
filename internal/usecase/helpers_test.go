package usecase

import (
	"fmt"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/infra/eventlog"
	"github.com/runoshun/yard-dispatch/internal/infra/operator"
	"github.com/runoshun/yard-dispatch/internal/infra/registry"
	"github.com/runoshun/yard-dispatch/internal/testutil"
	"github.com/stretchr/testify/require"
)

// yardFixture wires the use cases over the seeded test yard.
type yardFixture struct {
	reg       *registry.Registry
	events    *eventlog.Log
	clock     *testutil.MockClock
	allocator *Allocator
}

func newYardFixture(t *testing.T) *yardFixture {
	t.Helper()
	reg := testutil.NewYard(t)
	return &yardFixture{
		reg:       reg,
		events:    eventlog.New(100, nil),
		clock:     &testutil.MockClock{NowTime: testutil.FixedTime},
		allocator: NewAllocator(reg, domain.FirstFit{}),
	}
}

func (f *yardFixture) createShip() *CreateShipTask {
	return NewCreateShipTask(f.reg, f.allocator, f.events, f.clock)
}

func (f *yardFixture) createTransfer() *CreateTransferTask {
	return NewCreateTransferTask(f.reg, f.allocator, f.events, f.clock)
}

func (f *yardFixture) execute(op domain.Operator) *ExecuteTask {
	return NewExecuteTask(f.reg, op, f.events, f.clock, nil, 0)
}

// simulated returns an operator that moves stock and equipment without delay.
func (f *yardFixture) simulated(failOn ...string) *operator.Simulated {
	return operator.NewSimulated(f.reg, nil, 0, failOn)
}

func (f *yardFixture) addPlan(t *testing.T, id string, products map[string]int) {
	t.Helper()
	require.NoError(t, f.reg.PutPlan(&domain.ShipPlan{ID: id, Products: products}))
}

func (f *yardFixture) equipmentStatus(t *testing.T, role domain.Role, id string) domain.Status {
	t.Helper()
	eq, ok := f.reg.Equipment(role, id)
	require.True(t, ok, "%s %s", role, id)
	return eq.CurrentStatus()
}

// addCranePairs registers n more crane pairs on the fixture warehouses,
// C1xx on the terminal side and C2xx on the product side, so that several
// transfers can hold cranes at the same time.
func (f *yardFixture) addCranePairs(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, f.reg.PutCrane(domain.NewCrane(fmt.Sprintf("C1%02d", i), "", domain.Position{X: 0, Y: 0}, testutil.TerminalWH)))
		require.NoError(t, f.reg.PutCrane(domain.NewCrane(fmt.Sprintf("C2%02d", i), "", domain.Position{X: 0, Y: 9}, testutil.ProductWH)))
	}
}

func eventMessages(events []domain.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Message
	}
	return out
}
