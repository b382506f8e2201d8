package eventlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	domain.NopLogger
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Info(taskID, category, msg string) {
	r.record("INFO", taskID, category, msg)
}

func (r *recordingLogger) Error(taskID, category, msg string) {
	r.record("ERROR", taskID, category, msg)
}

func (r *recordingLogger) record(level, taskID, category, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf("%s %s %s %s", level, taskID, category, msg))
}

func messages(events []domain.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Message
	}
	return out
}

func TestLog_TailOrder(t *testing.T) {
	l := New(10, nil)
	for i := range 5 {
		l.Info("", fmt.Sprintf("m%d", i))
	}

	assert.Equal(t, []string{"m2", "m3", "m4"}, messages(l.Tail(3)))
	assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4"}, messages(l.Tail(100)))
	assert.Empty(t, l.Tail(0))
	assert.Empty(t, l.Tail(-1))
}

func TestLog_Bounded(t *testing.T) {
	l := New(3, nil)
	for i := range 7 {
		l.Info("", fmt.Sprintf("m%d", i))
	}

	assert.Equal(t, []string{"m4", "m5", "m6"}, messages(l.Events()))
	assert.Equal(t, 7, l.Total())
	assert.Equal(t, 3, l.Capacity())
}

func TestLog_DefaultCapacity(t *testing.T) {
	assert.Equal(t, domain.DefaultEventCapacity, New(0, nil).Capacity())
}

func TestLog_StampsTime(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(5, nil)
	l.now = func() time.Time { return fixed }

	l.Info("t1", "started")
	explicit := fixed.Add(time.Hour)
	l.Append(domain.Event{Time: explicit, Level: domain.LevelInfo, Message: "given"})

	events := l.Events()
	require.Len(t, events, 2)
	assert.Equal(t, fixed, events[0].Time)
	assert.Equal(t, "t1", events[0].TaskID)
	assert.Equal(t, explicit, events[1].Time)
}

func TestLog_MirrorsToLogger(t *testing.T) {
	logger := &recordingLogger{}
	l := New(5, logger)

	l.Info("t1", "started")
	l.Error("t1", "failed")

	assert.Equal(t, []string{
		"INFO t1 event started",
		"ERROR t1 event failed",
	}, logger.lines)
}

func TestLog_Restore(t *testing.T) {
	l := New(2, nil)
	saved := []domain.Event{{Message: "a"}, {Message: "b"}, {Message: "c"}}

	l.Restore(saved, 10)
	assert.Equal(t, []string{"b", "c"}, messages(l.Events()))
	assert.Equal(t, 10, l.Total())

	l.Info("", "d")
	assert.Equal(t, []string{"c", "d"}, messages(l.Events()))
	assert.Equal(t, 11, l.Total())
}

func TestLog_ConcurrentAppend(t *testing.T) {
	l := New(50, nil)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				l.Info("", fmt.Sprintf("%d-%d", i, j))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, l.Total())
	assert.Len(t, l.Events(), 50)
}
