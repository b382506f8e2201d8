package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderPending(t *testing.T) {
	now := time.Now()
	tasks := []*Task{
		{ID: "internal_a", Type: TaskInternalTransfer, Status: StatusIdle},
		{ID: "ship_1", Type: TaskShipTransport, Status: StatusIdle},
		{ID: "ship_done", Type: TaskShipTransport, Status: StatusIdle, Started: now, Ended: now},
		{ID: "internal_b", Type: TaskInternalTransfer, Status: StatusIdle},
		{ID: "ship_failed", Type: TaskShipTransport, Status: StatusUnavailable, Started: now},
		{ID: "ship_2", Type: TaskShipTransport, Status: StatusIdle},
	}

	got := OrderPending(tasks)

	assert.Equal(t, []string{"ship_1", "ship_2", "internal_a", "internal_b"}, got)
}

func TestOrderPending_Empty(t *testing.T) {
	assert.Empty(t, OrderPending(nil))
}
