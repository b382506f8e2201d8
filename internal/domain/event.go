package domain

import "time"

// EventLevel is the severity of an event log entry.
type EventLevel string

const (
	LevelInfo  EventLevel = "INFO"
	LevelError EventLevel = "ERROR"
)

// Event is one entry of the engine's event log.
// Fields are ordered to minimize memory padding.
type Event struct {
	Time    time.Time  `json:"timestamp"`
	Level   EventLevel `json:"level"`
	TaskID  string     `json:"taskId,omitempty"`
	Message string     `json:"message"`
}

// DefaultEventTail is how many entries status views return.
const DefaultEventTail = 10
