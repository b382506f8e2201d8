package tui

import (
	"time"

	"github.com/runoshun/yard-dispatch/internal/usecase"
)

// Msg is the sealed interface for all dashboard messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgStatusLoaded is sent when the yard state has been read.
type MsgStatusLoaded struct {
	At     time.Time
	Status *usecase.GetSystemStatusOutput
	Tasks  []usecase.TaskSummary
}

func (MsgStatusLoaded) sealed() {}

// MsgTaskExecuted is sent when a task run has finished.
type MsgTaskExecuted struct {
	Failure   error
	TaskID    string
	Succeeded bool
}

func (MsgTaskExecuted) sealed() {}

// MsgScheduleRun is sent when every pending task has been run.
type MsgScheduleRun struct {
	Succeeded int
	Failed    int
}

func (MsgScheduleRun) sealed() {}

// MsgTaskCancelled is sent when a pending task is cancelled.
type MsgTaskCancelled struct {
	TaskID string
}

func (MsgTaskCancelled) sealed() {}

// MsgStateChanged is sent when the state file has been rewritten.
type MsgStateChanged struct{}

func (MsgStateChanged) sealed() {}

// MsgTick triggers a periodic refresh.
type MsgTick struct{}

func (MsgTick) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
