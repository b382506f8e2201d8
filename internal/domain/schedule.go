package domain

import (
	"cmp"
	"slices"
)

// TypeRank orders task types for scheduling; lower runs first.
func TypeRank(t TaskType) int {
	switch t {
	case TaskShipTransport:
		return 1
	case TaskInternalTransfer:
		return 2
	default:
		return 3
	}
}

// OrderPending returns the IDs of pending tasks, ship transports first.
// tasks must be in registry insertion order; ties keep that order.
func OrderPending(tasks []*Task) []string {
	pending := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsPending() {
			pending = append(pending, t)
		}
	}
	slices.SortStableFunc(pending, func(a, b *Task) int {
		return cmp.Compare(TypeRank(a.Type), TypeRank(b.Type))
	})
	ids := make([]string, len(pending))
	for i, t := range pending {
		ids[i] = t.ID
	}
	return ids
}
