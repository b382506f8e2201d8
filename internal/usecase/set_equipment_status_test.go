package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEquipmentStatus_Execute(t *testing.T) {
	// Setup
	f := newYardFixture(t)
	uc := NewSetEquipmentStatus(f.reg, f.events)

	// Execute
	out, err := uc.Execute(context.Background(), SetEquipmentStatusInput{
		Role:   domain.RoleFrameTruck,
		ID:     testutil.DefaultTruck,
		Status: domain.StatusMaintenance,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, out.Previous)
	assert.Equal(t, domain.StatusMaintenance, out.Current)
	assert.Equal(t, domain.StatusMaintenance, f.equipmentStatus(t, domain.RoleFrameTruck, testutil.DefaultTruck))
	assert.Equal(t, "frame_truck T001: idle -> maintenance", f.events.Tail(1)[0].Message)

	// Maintained trucks are not allocated
	_, err = f.createShip().Execute(context.Background(), CreateShipTaskInput{PlanID: testutil.DefaultPlan})
	assert.ErrorIs(t, err, domain.ErrResourceShortage)

	// And back into service
	out, err = uc.Execute(context.Background(), SetEquipmentStatusInput{
		Role:   domain.RoleFrameTruck,
		ID:     testutil.DefaultTruck,
		Status: domain.StatusIdle,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMaintenance, out.Previous)
	assert.Equal(t, domain.StatusIdle, out.Current)
}

func TestSetEquipmentStatus_Execute_Unchanged(t *testing.T) {
	f := newYardFixture(t)

	out, err := NewSetEquipmentStatus(f.reg, f.events).Execute(context.Background(), SetEquipmentStatusInput{
		Role:   domain.RoleCrane,
		ID:     testutil.TerminalCrane,
		Status: domain.StatusIdle,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, out.Current)
	assert.Zero(t, f.events.Total())
}

func TestSetEquipmentStatus_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		id      string
		status  domain.Status
		held    bool
		wantErr error
	}{
		{name: "unknown equipment", role: domain.RoleFrame, id: "F999", status: domain.StatusMaintenance, wantErr: domain.ErrUnknownEquipment},
		{name: "wrong role", role: domain.RoleFrame, id: testutil.TerminalCrane, status: domain.StatusMaintenance, wantErr: domain.ErrUnknownEquipment},
		{name: "busy by hand", role: domain.RoleFrame, id: testutil.DefaultFrame, status: domain.StatusBusy, wantErr: domain.ErrInvalidTransition},
		{name: "invalid status", role: domain.RoleFrame, id: testutil.DefaultFrame, status: "broken", wantErr: domain.ErrInvalidStatus},
		{name: "held by a task", role: domain.RoleFrame, id: testutil.DefaultFrame, status: domain.StatusMaintenance, held: true, wantErr: domain.ErrEquipmentBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			f := newYardFixture(t)
			if tt.held {
				f.mustShip(t, testutil.DefaultPlan)
			}

			// Execute
			out, err := NewSetEquipmentStatus(f.reg, f.events).Execute(context.Background(), SetEquipmentStatusInput{
				Role:   tt.role,
				ID:     tt.id,
				Status: tt.status,
			})

			// Assert
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
