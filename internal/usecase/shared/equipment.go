package shared

import "github.com/runoshun/yard-dispatch/internal/domain"

// Release returns every listed binding held by holder to idle.
// Bindings that are missing or held by someone else are skipped.
// It returns the IDs that were released.
func Release(registry domain.Registry, holder string, bindings []domain.Binding) []string {
	var released []string
	for _, b := range bindings {
		eq, ok := registry.Equipment(b.Role, b.ID)
		if !ok {
			continue
		}
		if eq.Release(holder) {
			released = append(released, b.ID)
		}
	}
	return released
}

// ReleaseTask releases every piece of equipment the task's sub-tasks bind.
func ReleaseTask(registry domain.Registry, task *domain.Task) []string {
	return Release(registry, task.ID, task.Bindings(0))
}
