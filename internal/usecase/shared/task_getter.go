// Package shared provides shared utilities for use cases.
package shared

import (
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrUnknownTask if not found.
// This centralizes the common pattern of:
//
//	task, ok := registry.Task(taskID)
//	if !ok { return nil, fmt.Errorf("%s: %w", taskID, domain.ErrUnknownTask) }
func GetTask(registry domain.Registry, taskID string) (*domain.Task, error) {
	task, ok := registry.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", taskID, domain.ErrUnknownTask)
	}
	return task, nil
}
