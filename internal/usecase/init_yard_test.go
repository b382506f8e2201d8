package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/infra/eventlog"
	"github.com/runoshun/yard-dispatch/internal/infra/registry"
	"github.com/runoshun/yard-dispatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInitYard(store *testutil.MockStateStore, layouts *testutil.MockLayoutLoader) (*InitYard, *registry.Registry) {
	reg := registry.New(domain.DefaultGrid)
	events := eventlog.New(100, nil)
	return NewInitYard(store, layouts, reg, events, &testutil.MockClock{NowTime: testutil.FixedTime}), reg
}

func TestInitYard_Execute_FromLayout(t *testing.T) {
	// Setup
	store := testutil.NewMockStateStore(nil)
	layouts := &testutil.MockLayoutLoader{Snapshot: testutil.NewYard(t).Snapshot()}
	uc, reg := newInitYard(store, layouts)

	// Execute
	out, err := uc.Execute(context.Background(), InitYardInput{LayoutPath: "yard.yaml", Grid: domain.DefaultGrid})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "yard.yaml", out.Source)
	assert.Equal(t, "yard.yaml", layouts.Path)
	assert.Same(t, out.Snapshot, store.Snapshot)
	assert.Equal(t, testutil.FixedTime, out.Snapshot.Saved)
	assert.Len(t, out.Snapshot.Warehouses, 2)
	assert.Len(t, out.Snapshot.Cranes, 2)
	require.Len(t, out.Snapshot.Events, 1)
	assert.Equal(t, "yard initialized from yard.yaml", out.Snapshot.Events[0].Message)
	assert.Equal(t, 1, out.Snapshot.EventTotal)

	_, ok := reg.Crane(testutil.TerminalCrane)
	assert.True(t, ok)
}

func TestInitYard_Execute_Demo(t *testing.T) {
	store := testutil.NewMockStateStore(nil)
	layouts := &testutil.MockLayoutLoader{}
	uc, _ := newInitYard(store, layouts)

	out, err := uc.Execute(context.Background(), InitYardInput{Grid: domain.DefaultGrid})

	require.NoError(t, err)
	assert.Equal(t, "demo", out.Source)
	assert.Empty(t, layouts.Path)
}

func TestInitYard_Execute_Empty(t *testing.T) {
	// Setup
	store := testutil.NewMockStateStore(nil)
	layouts := &testutil.MockLayoutLoader{LoadErr: errors.New("must not be called")}
	uc, _ := newInitYard(store, layouts)

	// Execute
	out, err := uc.Execute(context.Background(), InitYardInput{Empty: true, Grid: domain.Grid{Width: 5, Height: 5}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "empty", out.Source)
	assert.Empty(t, out.Snapshot.Warehouses)
	assert.NotNil(t, store.Snapshot)
}

func TestInitYard_Execute_Errors(t *testing.T) {
	badLayout := domain.NewSnapshot(domain.DefaultGrid)
	badLayout.Cranes = []*domain.Crane{domain.NewCrane("C001", "", domain.Position{}, "TW404")}

	tests := []struct {
		name    string
		store   *testutil.MockStateStore
		layouts *testutil.MockLayoutLoader
		wantErr error
		wantMsg string
	}{
		{
			name:    "already initialized",
			store:   testutil.NewMockStateStore(domain.NewSnapshot(domain.DefaultGrid)),
			layouts: &testutil.MockLayoutLoader{},
			wantErr: domain.ErrAlreadyInitialized,
		},
		{
			name:    "layout not readable",
			store:   testutil.NewMockStateStore(nil),
			layouts: &testutil.MockLayoutLoader{LoadErr: assert.AnError},
			wantErr: assert.AnError,
			wantMsg: "load layout",
		},
		{
			name:    "layout rejected",
			store:   testutil.NewMockStateStore(nil),
			layouts: &testutil.MockLayoutLoader{Snapshot: badLayout},
			wantErr: domain.ErrUnknownWarehouse,
			wantMsg: "invalid layout",
		},
		{
			name:    "store fails",
			store:   &testutil.MockStateStore{InitErr: assert.AnError},
			layouts: &testutil.MockLayoutLoader{},
			wantErr: assert.AnError,
			wantMsg: "initialize store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			uc, _ := newInitYard(tt.store, tt.layouts)

			// Execute
			out, err := uc.Execute(context.Background(), InitYardInput{Grid: domain.DefaultGrid})

			// Assert
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestInitYard_Execute_Force(t *testing.T) {
	// Setup: a yard with a pending shipment
	old := testutil.NewYard(t)
	task := domain.NewShipTransportTask(domain.ShipTransportSpec{TaskID: "ship_task_SP001", CraneID: testutil.TerminalCrane})
	require.NoError(t, old.AddTask(task))
	oldSnap := old.Snapshot()
	oldSnap.EventTotal = 42
	store := testutil.NewMockStateStore(oldSnap)
	layouts := &testutil.MockLayoutLoader{Snapshot: testutil.NewYard(t).Snapshot()}
	uc, reg := newInitYard(store, layouts)

	// Execute
	out, err := uc.Execute(context.Background(), InitYardInput{Grid: domain.DefaultGrid, Force: true})

	// Assert: the layout replaces everything, tasks and events included
	require.NoError(t, err)
	assert.True(t, out.Reset)
	assert.Same(t, out.Snapshot, store.Snapshot)
	assert.Empty(t, out.Snapshot.Tasks)
	assert.Empty(t, reg.Tasks())
	assert.Len(t, out.Snapshot.Warehouses, 2)
	require.Len(t, out.Snapshot.Events, 1)
	assert.Equal(t, "yard reset from demo", out.Snapshot.Events[0].Message)
	assert.Equal(t, 1, out.Snapshot.EventTotal)
	assert.Equal(t, 1, store.Updates)
}

func TestInitYard_Execute_ForceOnNewYard(t *testing.T) {
	store := testutil.NewMockStateStore(nil)
	uc, _ := newInitYard(store, &testutil.MockLayoutLoader{})

	out, err := uc.Execute(context.Background(), InitYardInput{Grid: domain.DefaultGrid, Force: true})

	require.NoError(t, err)
	assert.False(t, out.Reset)
	assert.Zero(t, store.Updates)
	assert.Same(t, out.Snapshot, store.Snapshot)
}

func TestInitYard_Execute_ForceKeepsStateOnBadLayout(t *testing.T) {
	// Setup
	oldSnap := testutil.NewYard(t).Snapshot()
	store := testutil.NewMockStateStore(oldSnap)
	uc, _ := newInitYard(store, &testutil.MockLayoutLoader{LoadErr: assert.AnError})

	// Execute
	out, err := uc.Execute(context.Background(), InitYardInput{LayoutPath: "broken.yaml", Grid: domain.DefaultGrid, Force: true})

	// Assert
	assert.Nil(t, out)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Same(t, oldSnap, store.Snapshot)
	assert.Zero(t, store.Updates)
}
