package domain

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipment_ReserveRelease(t *testing.T) {
	c := NewCrane("C001", "Crane 1", Position{}, "TW001")

	require.True(t, c.TryReserve("task-a"))
	assert.Equal(t, StatusBusy, c.CurrentStatus())
	assert.Equal(t, "task-a", c.Holder())

	assert.False(t, c.TryReserve("task-b"), "busy equipment cannot be reserved")
	assert.True(t, c.Acquire("task-a"), "holder re-acquires")
	assert.False(t, c.Acquire("task-b"))

	assert.False(t, c.Release("task-b"), "only the holder releases")
	assert.True(t, c.Release("task-a"))
	assert.Equal(t, StatusIdle, c.CurrentStatus())
	assert.Empty(t, c.Holder())
}

func TestEquipment_TryReserveExclusive(t *testing.T) {
	f := NewFrame("F001", "Frame 1", Position{X: 5, Y: 5})

	const workers = 32
	var won atomic.Int32
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.TryReserve(fmt.Sprintf("task-%d", i)) {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, StatusBusy, f.CurrentStatus())
}

func TestEquipment_SetStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
	}{
		{"idle -> maintenance", StatusIdle, StatusMaintenance, nil},
		{"maintenance -> idle", StatusMaintenance, StatusIdle, nil},
		{"unavailable -> idle", StatusUnavailable, StatusIdle, nil},
		{"same status", StatusIdle, StatusIdle, nil},
		{"idle -> busy", StatusIdle, StatusBusy, ErrInvalidTransition},
		{"unavailable -> maintenance", StatusUnavailable, StatusMaintenance, ErrInvalidTransition},
		{"invalid", StatusIdle, Status("x"), ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewFrameTruck("T001", "Truck 1", Position{})
			tr.Status = tt.from
			err := tr.SetStatus(tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, tr.CurrentStatus())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, tr.CurrentStatus())
		})
	}
}

func TestEquipment_SetStatusHeld(t *testing.T) {
	c := NewCrane("C001", "Crane 1", Position{}, "TW001")
	require.True(t, c.TryReserve("task-a"))

	err := c.SetStatus(StatusMaintenance)

	require.ErrorIs(t, err, ErrEquipmentBusy)
	assert.Equal(t, StatusBusy, c.CurrentStatus())
}

func TestEquipment_Normalize(t *testing.T) {
	e := &Equipment{ID: "X"}
	require.NoError(t, e.Normalize())
	assert.Equal(t, StatusIdle, e.Status)

	orphan := &Equipment{ID: "Y", Status: StatusBusy}
	require.NoError(t, orphan.Normalize())
	assert.Equal(t, StatusIdle, orphan.Status)

	bad := &Equipment{ID: "Z", Status: "broken"}
	assert.ErrorIs(t, bad.Normalize(), ErrInvalidStatus)
}

func TestFrame_Cargo(t *testing.T) {
	f := NewFrame("F001", "Frame 1", Position{})
	f.LoadProducts(map[string]int{"P001": 3})
	f.LoadProducts(map[string]int{"P001": 2, "P002": 1})

	assert.Equal(t, map[string]int{"P001": 5, "P002": 1}, f.Cargo())
	assert.Equal(t, map[string]int{"P001": 5, "P002": 1}, f.UnloadProducts())
	assert.Empty(t, f.Cargo())
	assert.Equal(t, map[string]int{}, f.UnloadProducts())
}

func TestFrameTruck_Attach(t *testing.T) {
	tr := NewFrameTruck("T001", "Truck 1", Position{})
	tr.Attach("F001")
	assert.Equal(t, "F001", tr.Attached())
	assert.Equal(t, "F001", tr.Detach())
	assert.Empty(t, tr.Attached())
}

func TestClone_Independent(t *testing.T) {
	f := NewFrame("F001", "Frame 1", Position{X: 1, Y: 2})
	f.LoadProducts(map[string]int{"P001": 1})
	require.True(t, f.TryReserve("task-a"))

	c := f.Clone()
	f.LoadProducts(map[string]int{"P001": 1})
	f.MoveTo(Position{X: 9, Y: 9})

	assert.Equal(t, "task-a", c.HeldBy)
	assert.Equal(t, Position{X: 1, Y: 2}, c.Position)
	assert.Equal(t, map[string]int{"P001": 1}, c.LoadedProducts)
}
