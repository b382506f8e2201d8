package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
)

// RefreshInterval is how often the dashboard re-reads the state file.
// Changes made by other yard commands are also picked up through a file
// watcher when one is available.
const RefreshInterval = 2 * time.Second

// Model is the main bubbletea model for the dashboard.
// The container is used by one command at a time; busy is set while a
// command that reads or writes the state is in flight.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	watcher   *fsnotify.Watcher // nil when file notifications are unavailable
	status    *usecase.GetSystemStatusOutput
	err       error

	// State (slices - contain pointers)
	tasks []usecase.TaskSummary
	info  string

	// Components (structs with pointers)
	keys           KeyMap
	styles         Styles
	help           help.Model
	taskList       list.Model
	detailViewport viewport.Model
	refreshed      time.Time

	// Numeric state (smaller types last)
	confirmTaskID string
	mode          Mode
	confirmAction ConfirmAction
	width         int
	height        int
	busy          bool
	infoFailed    bool
	showMap       bool
}

// New creates a new dashboard Model with the given container.
func New(c *app.Container) *Model {
	styles := DefaultStyles()
	delegate := newTaskDelegate(styles)
	taskList := list.New([]list.Item{}, delegate, 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	return &Model{
		container: c,
		watcher:   newStateWatcher(c),
		mode:      ModeNormal,
		keys:      DefaultKeyMap(),
		styles:    styles,
		help:      help.New(),
		taskList:  taskList,
	}
}

// newStateWatcher watches the directory holding the state file.
// The file is replaced by rename on every write, so the file itself
// cannot be watched.
func newStateWatcher(c *app.Container) *fsnotify.Watcher {
	if c == nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	if err := w.Add(filepath.Dir(c.Config.StatePath)); err != nil {
		_ = w.Close()
		return nil
	}
	return w
}

// Close stops the state file watcher.
func (m *Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	return tea.Batch(m.loadStatus(), tick(), m.watchState())
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

// watchState returns a command that waits for the next change to the state file.
func (m *Model) watchState() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	path := filepath.Clean(m.container.Config.StatePath)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) == path && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					return MsgStateChanged{}
				}
			case _, ok := <-w.Errors:
				// Dropped notifications are covered by the refresh tick
				if !ok {
					return nil
				}
			}
		}
	}
}

// loadStatus returns a command that re-reads the state file.
func (m *Model) loadStatus() tea.Cmd {
	c := m.container
	return func() tea.Msg {
		ctx := context.Background()
		if err := c.Load(); err != nil {
			return MsgError{Err: err}
		}
		status, err := c.GetSystemStatusUseCase().Execute(ctx, usecase.GetSystemStatusInput{EventTail: c.AppConfig.Events.Tail})
		if err != nil {
			return MsgError{Err: err}
		}
		tasks, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgStatusLoaded{Status: status, Tasks: tasks.Tasks, At: c.Clock.Now()}
	}
}

// executeTask returns a command that runs one task to completion.
func (m *Model) executeTask(taskID string) tea.Cmd {
	c := m.container
	return func() tea.Msg {
		var out *usecase.ExecuteTaskOutput
		err := c.Update(func() error {
			var err error
			out, err = c.ExecuteTaskUseCase().Execute(context.Background(), usecase.ExecuteTaskInput{TaskID: taskID})
			return err
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskExecuted{TaskID: taskID, Succeeded: out.Succeeded, Failure: out.Failure}
	}
}

// runAll returns a command that runs every pending task in schedule order.
func (m *Model) runAll() tea.Cmd {
	c := m.container
	return func() tea.Msg {
		var out *usecase.RunScheduleOutput
		err := c.Update(func() error {
			var err error
			out, err = c.RunScheduleUseCase(0).Execute(context.Background(), usecase.RunScheduleInput{})
			return err
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgScheduleRun{Succeeded: out.Succeeded, Failed: out.Failed}
	}
}

// cancelTask returns a command that cancels a pending task.
func (m *Model) cancelTask(taskID string) tea.Cmd {
	c := m.container
	return func() tea.Msg {
		err := c.Update(func() error {
			_, err := c.CancelTaskUseCase().Execute(context.Background(), usecase.CancelTaskInput{TaskID: taskID})
			return err
		})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskCancelled{TaskID: taskID}
	}
}

// SelectedTask returns the currently selected task summary, or nil if none.
func (m *Model) SelectedTask() *usecase.TaskSummary {
	if m.taskList.SelectedItem() == nil {
		return nil
	}
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		return &ti.summary
	}
	return nil
}

// updateTaskList updates the task list items, keeping the selection on the same task.
func (m *Model) updateTaskList() {
	selectedID := ""
	if s := m.SelectedTask(); s != nil {
		selectedID = s.Task.ID
	}
	items := make([]list.Item, 0, len(m.tasks))
	selected := 0
	for i, s := range m.tasks {
		if s.Task.ID == selectedID {
			selected = i
		}
		items = append(items, taskItem{summary: s})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(selected)
	}
}

func (m *Model) initDetailViewport() {
	width := max(m.width-12, 40)
	height := max(m.height-10, 10)
	m.detailViewport = viewport.New(width, height)
	m.detailViewport.SetContent(m.detailContent())
}

func (m *Model) detailContent() string {
	s := m.SelectedTask()
	if s == nil {
		return "No task selected"
	}
	task := s.Task

	var lines []string
	lines = append(lines, m.styles.DetailTitle.Render(task.ID))
	row := func(label, value string) {
		lines = append(lines, m.styles.DetailLabel.Render(label)+m.styles.DetailValue.Render(value))
	}
	row("Type", task.Type.Display())
	row("Phase", m.styles.PhaseStyle(s.Phase).Render(s.Phase)+" ("+progressText(*s)+")")
	row("Products", productsText(task.Products))
	row("Created", task.Created.Format("2006-01-02 15:04:05"))
	if !task.Ended.IsZero() {
		row("Ended", task.Ended.Format("2006-01-02 15:04:05"))
	}
	if task.FailureReason != "" {
		row("Failure", m.styles.ErrorMsg.Render(task.FailureReason))
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.PaneTitle.Render("Sub-tasks"))
	for _, st := range task.SubTasks {
		var bound []string
		for _, b := range st.Bindings() {
			bound = append(bound, b.ID)
		}
		lines = append(lines, fmt.Sprintf("  %s %-40s %s",
			m.styles.StatusStyle(st.Status).Render(subTaskIcon(st)),
			st.ID,
			m.styles.TaskDesc.Render(strings.Join(bound, " "))))
	}

	if m.status != nil {
		var events []string
		for _, e := range m.status.Events {
			if e.TaskID == task.ID {
				events = append(events, m.renderEvent(e))
			}
		}
		if len(events) > 0 {
			lines = append(lines, "")
			lines = append(lines, m.styles.PaneTitle.Render("Recent events"))
			lines = append(lines, events...)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// subTaskIcon marks finished sub-tasks with a check.
func subTaskIcon(st *domain.SubTask) string {
	if st.Status == domain.StatusIdle && !st.Ended.IsZero() {
		return "✓"
	}
	return StatusIcon(st.Status)
}
