package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot() *domain.Snapshot {
	snap := domain.NewSnapshot(domain.DefaultGrid)
	tw := domain.NewWarehouse("TW001", "Terminal 1", domain.WarehouseTerminal, domain.Position{}, 1000)
	_ = tw.AddProduct("P001", 100)
	pw := domain.NewWarehouse("PW001", "Product 1", domain.WarehouseProduct, domain.Position{Y: 9}, 2000)
	snap.Products = []*domain.Product{{ID: "P002", Name: "B"}, {ID: "P001", Name: "A"}}
	snap.Warehouses = []*domain.Warehouse{tw, pw}
	snap.Cranes = []*domain.Crane{domain.NewCrane("C001", "Crane 1", domain.Position{}, "TW001")}
	snap.Frames = []*domain.Frame{domain.NewFrame("F001", "Frame 1", domain.Position{X: 5, Y: 5})}
	snap.Trucks = []*domain.FrameTruck{domain.NewFrameTruck("T001", "Truck 1", domain.Position{X: 5, Y: 4})}
	snap.Tasks = []*domain.Task{
		{ID: "ship_task_SP002", Type: domain.TaskShipTransport, Status: domain.StatusIdle},
		{ID: "ship_task_SP001", Type: domain.TaskShipTransport, Status: domain.StatusIdle},
	}
	snap.Events = []domain.Event{{Level: domain.LevelInfo, Message: "seeded"}}
	snap.EventTotal = 1
	return snap
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), ".yard", "state.json"))
	require.NoError(t, store.Initialize(newTestSnapshot()))
	return store
}

func TestStore_Initialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".yard", "state.json")
	store := New(path)

	assert.False(t, store.IsInitialized())
	require.NoError(t, store.Initialize(newTestSnapshot()))
	assert.True(t, store.IsInitialized())
	assert.FileExists(t, path)

	err := store.Initialize(newTestSnapshot())
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestStore_LoadNotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "state.json"))

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_LoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load()
	require.NoError(t, err)

	require.Len(t, snap.Products, 2)
	assert.Equal(t, "P002", snap.Products[0].ID, "insertion order is kept")
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "ship_task_SP002", snap.Tasks[0].ID)

	require.Len(t, snap.Warehouses, 2)
	assert.Equal(t, 100, snap.Warehouses[0].Products["P001"])
	assert.Equal(t, 100, snap.Warehouses[0].CurrentLoad)
	assert.Equal(t, "TW001", snap.Cranes[0].WarehouseID)
	assert.Equal(t, domain.Position{X: 5, Y: 5}, snap.Frames[0].Position)
	assert.Equal(t, domain.StatusIdle, snap.Trucks[0].Status)
	assert.Equal(t, domain.DefaultGrid, snap.Grid)
	assert.Equal(t, 1, snap.EventTotal)
	assert.False(t, snap.Saved.IsZero())
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	err := store.Update(func(s *domain.Snapshot) (*domain.Snapshot, error) {
		s.Tasks = append(s.Tasks, &domain.Task{ID: "internal_x", Type: domain.TaskInternalTransfer})
		return s, nil
	})
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 3)
	assert.Equal(t, "internal_x", snap.Tasks[2].ID)
	assert.True(t, snap.Saved.Equal(fixed))
}

func TestStore_UpdateErrorLeavesFile(t *testing.T) {
	store := newTestStore(t)
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Update(func(s *domain.Snapshot) (*domain.Snapshot, error) {
		s.Tasks = nil
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_UpdateNotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "state.json"))

	err := store.Update(func(s *domain.Snapshot) (*domain.Snapshot, error) { return s, nil })

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_RejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"meta":{"version":99},"yard":{}}`), 0o600))

	_, err := New(path).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}
