package usecase

import (
	"fmt"
	"sync"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_FindAvailable(t *testing.T) {
	// Setup
	f := newYardFixture(t)

	// Execute
	got := f.allocator.FindAvailable()

	// Assert
	assert.Equal(t, []string{testutil.TerminalCrane}, got.TerminalCranes)
	assert.Equal(t, []string{testutil.ProductCrane}, got.ProductCranes)
	assert.Equal(t, []string{testutil.DefaultTruck}, got.FrameTrucks)
	assert.Equal(t, []string{testutil.DefaultFrame}, got.Frames)
}

func TestAllocator_FindAvailable_SkipsNonIdle(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	require.NoError(t, f.reg.PutFrame(domain.NewFrame("F002", "", domain.Position{X: 7, Y: 7})))
	require.NoError(t, f.reg.PutFrame(domain.NewFrame("F003", "", domain.Position{X: 8, Y: 8})))
	frame, _ := f.reg.Frame(testutil.DefaultFrame)
	require.True(t, frame.TryReserve("other"))
	f3, _ := f.reg.Frame("F003")
	require.NoError(t, f3.SetStatus(domain.StatusMaintenance))
	crane, _ := f.reg.Crane(testutil.TerminalCrane)
	require.NoError(t, crane.SetStatus(domain.StatusUnavailable))

	// Execute
	got := f.allocator.FindAvailable()

	// Assert
	assert.Empty(t, got.TerminalCranes)
	assert.Equal(t, []string{"F002"}, got.Frames)
}

func TestAllocator_Reserve_FirstFitInRegistryOrder(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	require.NoError(t, f.reg.PutFrame(domain.NewFrame("F002", "", domain.Position{X: 5, Y: 6})))

	// Execute
	frame, ok := f.allocator.ReserveFrame(domain.Position{X: 5, Y: 6}, "task-1")

	// Assert
	require.True(t, ok)
	assert.Equal(t, testutil.DefaultFrame, frame.ID)
	assert.Equal(t, "task-1", frame.Holder())
}

func TestAllocator_Reserve_Nearest(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	require.NoError(t, f.reg.PutFrame(domain.NewFrame("F002", "", domain.Position{X: 12, Y: 12})))
	alloc := NewAllocator(f.reg, domain.Nearest{})

	// Execute
	frame, ok := alloc.ReserveFrame(domain.Position{X: 13, Y: 13}, "task-1")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "F002", frame.ID)
}

func TestAllocator_Reserve_SkipsLostCandidate(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	require.NoError(t, f.reg.PutFrame(domain.NewFrame("F002", "", domain.Position{})))
	candidates := f.allocator.frameCandidates()
	// Someone else takes F001 between listing and reserving
	f1, _ := f.reg.Frame(testutil.DefaultFrame)
	require.True(t, f1.TryReserve("other"))

	// Execute
	pick, ok := f.allocator.Reserve(domain.RoleFrame, candidates, domain.Position{}, "task-1")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "F002", pick.ID)
	assert.Equal(t, "other", f1.Holder())
}

func TestAllocator_Reserve_NoneAvailable(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	truck, _ := f.reg.Truck(testutil.DefaultTruck)
	require.True(t, truck.TryReserve("other"))

	// Execute
	_, ok := f.allocator.ReserveTruck(domain.Position{}, "task-1")

	// Assert
	assert.False(t, ok)
}

func TestAllocator_Reserve_Exclusive(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	for i := 2; i <= 4; i++ {
		require.NoError(t, f.reg.PutFrame(domain.NewFrame(fmt.Sprintf("F%03d", i), "", domain.Position{X: i, Y: 1})))
	}
	const workers = 16

	// Execute
	var wg sync.WaitGroup
	results := make([]string, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if frame, ok := f.allocator.ReserveFrame(domain.Position{}, fmt.Sprintf("task-%d", i)); ok {
				results[i] = frame.ID
			}
		}()
	}
	wg.Wait()

	// Assert
	won := make(map[string]int)
	for _, id := range results {
		if id != "" {
			won[id]++
		}
	}
	assert.Len(t, won, 4, "every frame reserved once")
	for id, n := range won {
		assert.Equal(t, 1, n, "frame %s reserved %d times", id, n)
	}
}

func TestAllocator_ParkingSlot(t *testing.T) {
	// Setup
	f := newYardFixture(t)

	// Execute
	var slot domain.Position
	var ok bool
	err := f.allocator.WithPlacementLock(func() error {
		slot, ok = f.allocator.ParkingSlot(domain.Position{X: 5, Y: 5})
		return nil
	})

	// Assert: (5,5) holds the frame, (5,4) the truck
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.Position{X: 4, Y: 5}, slot)
}

func TestAllocator_ParkingSlot_AvoidsPendingTargets(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	require.NoError(t, f.reg.AddTask(&domain.Task{
		ID:     "ship_task_X",
		Type:   domain.TaskShipTransport,
		Status: domain.StatusIdle,
		SubTasks: []*domain.SubTask{{
			ID:             "position_ship_task_X",
			Type:           domain.SubTaskFramePositioning,
			TargetPosition: &domain.Position{X: 4, Y: 5},
		}},
	}))

	// Execute
	slot, ok := f.allocator.ParkingSlot(domain.Position{X: 5, Y: 5})

	// Assert
	require.True(t, ok)
	assert.Equal(t, domain.Position{X: 6, Y: 5}, slot)
}

func TestAllocator_ParkingSlot_FullGrid(t *testing.T) {
	// Setup: a 1x1 yard whose only cell holds a warehouse
	reg := testutil.NewYard(t)
	small := NewAllocator(smallGridRegistry{reg}, nil)

	// Execute
	_, ok := small.ParkingSlot(domain.Position{})

	// Assert
	assert.False(t, ok)
}

// smallGridRegistry shrinks the yard to the origin cell.
type smallGridRegistry struct {
	domain.Registry
}

func (smallGridRegistry) Grid() domain.Grid {
	return domain.Grid{Width: 1, Height: 1}
}
