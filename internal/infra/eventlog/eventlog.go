// Package eventlog provides the bounded in-memory event log.
package eventlog

import (
	"sync"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Ensure Log implements domain.EventLog interface.
var _ domain.EventLog = (*Log)(nil)

// category is the logger category events are mirrored under.
const category = "event"

// Log keeps the most recent events in a ring buffer and mirrors every
// append to a Logger. Older entries survive only in the log files.
// Fields are ordered to minimize memory padding.
type Log struct {
	logger domain.Logger
	now    func() time.Time
	buf    []domain.Event
	start  int // index of the oldest retained event
	size   int // retained events
	total  int // events ever appended
	mu     sync.Mutex
}

// New creates a Log retaining up to capacity events.
// A non-positive capacity selects the default.
func New(capacity int, logger domain.Logger) *Log {
	if capacity <= 0 {
		capacity = domain.DefaultEventCapacity
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Log{
		logger: logger,
		now:    time.Now,
		buf:    make([]domain.Event, capacity),
	}
}

// Restore replaces the contents with previously saved events.
// Only the newest events that fit are kept; total is the lifetime count.
func (l *Log) Restore(events []domain.Event, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(events) > len(l.buf) {
		events = events[len(events)-len(l.buf):]
	}
	l.start = 0
	l.size = copy(l.buf, events)
	l.total = max(total, l.size)
}

// Append records an event, stamping the time if unset.
func (l *Log) Append(e domain.Event) {
	if e.Time.IsZero() {
		e.Time = l.now()
	}

	l.mu.Lock()
	end := (l.start + l.size) % len(l.buf)
	l.buf[end] = e
	if l.size < len(l.buf) {
		l.size++
	} else {
		l.start = (l.start + 1) % len(l.buf)
	}
	l.total++
	l.mu.Unlock()

	if e.Level == domain.LevelError {
		l.logger.Error(e.TaskID, category, e.Message)
	} else {
		l.logger.Info(e.TaskID, category, e.Message)
	}
}

// Info appends an INFO event.
func (l *Log) Info(taskID, msg string) {
	l.Append(domain.Event{Level: domain.LevelInfo, TaskID: taskID, Message: msg})
}

// Error appends an ERROR event.
func (l *Log) Error(taskID, msg string) {
	l.Append(domain.Event{Level: domain.LevelError, TaskID: taskID, Message: msg})
}

// Tail returns up to n of the most recent events, oldest first.
func (l *Log) Tail(n int) []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	n = min(max(n, 0), l.size)
	out := make([]domain.Event, n)
	first := l.start + l.size - n
	for i := range n {
		out[i] = l.buf[(first+i)%len(l.buf)]
	}
	return out
}

// Events returns every retained event, oldest first.
func (l *Log) Events() []domain.Event {
	return l.Tail(len(l.buf))
}

// Total returns how many events were ever appended.
func (l *Log) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Capacity returns the number of events retained.
func (l *Log) Capacity() int {
	return len(l.buf)
}
