package usecase

import (
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// infof appends an INFO event.
func infof(events domain.EventLog, taskID, format string, args ...any) {
	events.Append(domain.Event{Level: domain.LevelInfo, TaskID: taskID, Message: fmt.Sprintf(format, args...)})
}

// errorf appends an ERROR event.
func errorf(events domain.EventLog, taskID, format string, args ...any) {
	events.Append(domain.Event{Level: domain.LevelError, TaskID: taskID, Message: fmt.Sprintf(format, args...)})
}

// tailOrDefault returns n, or the default tail length when n is not positive.
func tailOrDefault(n int) int {
	if n <= 0 {
		return domain.DefaultEventTail
	}
	return n
}
