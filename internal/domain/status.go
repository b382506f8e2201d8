package domain

// Status is the state shared by equipment, tasks and sub-tasks.
type Status string

const (
	StatusIdle        Status = "idle"        // Free for assignment, or task pending/finished
	StatusBusy        Status = "busy"        // Reserved or working
	StatusMaintenance Status = "maintenance" // Administratively withdrawn
	StatusUnavailable Status = "unavailable" // Failed or out of service
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusIdle,
		StatusBusy,
		StatusMaintenance,
		StatusUnavailable,
	}
}

// transitions defines the allowed status transitions.
// Run flow: idle → busy → idle (success) | unavailable (failure)
//
// maintenance and unavailable are only entered from idle by an operator,
// and left back to idle the same way.
var transitions = map[Status][]Status{
	StatusIdle:        {StatusBusy, StatusMaintenance, StatusUnavailable},
	StatusBusy:        {StatusIdle, StatusUnavailable},
	StatusMaintenance: {StatusIdle, StatusUnavailable},
	StatusUnavailable: {StatusIdle},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsAssignable returns true if equipment in this status may be allocated.
func (s Status) IsAssignable() bool {
	return s == StatusIdle
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusBusy:
		return "Busy"
	case StatusMaintenance:
		return "Maintenance"
	case StatusUnavailable:
		return "Unavailable"
	default:
		return string(s)
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusBusy, StatusMaintenance, StatusUnavailable:
		return true
	default:
		return false
	}
}

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
