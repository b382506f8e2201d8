package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// errBusy is shown when an action is requested while another is in flight.
var errBusy = errors.New("another operation is in progress")

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgStatusLoaded:
		m.busy = false
		m.err = nil
		m.status = msg.Status
		m.tasks = msg.Tasks
		m.refreshed = msg.At
		m.updateTaskList()
		m.resizeTaskList()
		if m.mode == ModeDetail {
			m.detailViewport.SetContent(m.detailContent())
		}
		return m, nil

	case MsgTaskExecuted:
		if msg.Succeeded {
			m.setInfo(fmt.Sprintf("%s completed", msg.TaskID), false)
		} else {
			m.setInfo(fmt.Sprintf("%s failed: %v", msg.TaskID, msg.Failure), true)
		}
		return m, m.loadStatus()

	case MsgScheduleRun:
		m.setInfo(fmt.Sprintf("run finished: %d completed, %d failed", msg.Succeeded, msg.Failed), msg.Failed > 0)
		return m, m.loadStatus()

	case MsgTaskCancelled:
		m.setInfo(fmt.Sprintf("%s cancelled", msg.TaskID), false)
		return m, m.loadStatus()

	case MsgTick:
		if m.busy || m.mode == ModeConfirm {
			return m, tick()
		}
		m.busy = true
		return m, tea.Batch(m.loadStatus(), tick())

	case MsgStateChanged:
		if m.busy || m.mode == ModeConfirm {
			return m, m.watchState()
		}
		m.busy = true
		return m, tea.Batch(m.loadStatus(), m.watchState())

	case MsgError:
		m.busy = false
		m.setInfo("", false)
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input based on the current mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}
	return m, nil
}

// handleNormalMode handles keys in the task list.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.startAction(m.loadStatus)

	case key.Matches(msg, m.keys.Map):
		m.showMap = !m.showMap
		m.resizeTaskList()
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if m.SelectedTask() == nil {
			return m, nil
		}
		m.mode = ModeDetail
		m.initDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Exec):
		s := m.SelectedTask()
		if s == nil {
			return m, nil
		}
		if s.Phase != "pending" {
			m.err = fmt.Errorf("%s is %s, only pending tasks can be executed", s.Task.ID, s.Phase)
			return m, nil
		}
		id := s.Task.ID
		return m.startAction(func() tea.Cmd {
			m.setInfo(fmt.Sprintf("executing %s...", id), false)
			return m.executeTask(id)
		})

	case key.Matches(msg, m.keys.Cancel):
		s := m.SelectedTask()
		if s == nil {
			return m, nil
		}
		if s.Phase != "pending" {
			m.err = fmt.Errorf("%s is %s, only pending tasks can be cancelled", s.Task.ID, s.Phase)
			return m, nil
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmCancel
		m.confirmTaskID = s.Task.ID
		return m, nil

	case key.Matches(msg, m.keys.RunAll):
		m.mode = ModeConfirm
		m.confirmAction = ConfirmRunAll
		m.confirmTaskID = ""
		return m, nil
	}

	// Navigation is handled by the list
	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// handleConfirmMode handles the yes/no dialog.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		action, id := m.confirmAction, m.confirmTaskID
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		m.confirmTaskID = ""
		switch action {
		case ConfirmCancel:
			return m.startAction(func() tea.Cmd { return m.cancelTask(id) })
		case ConfirmRunAll:
			return m.startAction(func() tea.Cmd {
				m.setInfo("running pending tasks...", false)
				return m.runAll()
			})
		case ConfirmNone:
		}
		return m, nil

	case key.Matches(msg, m.keys.Decline):
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		m.confirmTaskID = ""
		return m, nil
	}
	return m, nil
}

// handleHelpMode closes the help overlay on any dismiss key.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
		m.mode = ModeNormal
		m.help.ShowAll = false
	}
	return m, nil
}

// handleDetailMode scrolls the detail view.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape, m.keys.Quit, m.keys.PrevPage) {
		m.mode = ModeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// startAction runs a container command unless another is in flight.
func (m *Model) startAction(build func() tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy {
		m.err = errBusy
		return m, nil
	}
	m.busy = true
	m.err = nil
	return m, build()
}

// setInfo replaces the outcome line shown under the header.
func (m *Model) setInfo(text string, failed bool) {
	m.info = text
	m.infoFailed = failed
}

// updateLayoutSizes resizes every component after a window change.
func (m *Model) updateLayoutSizes() {
	m.resizeTaskList()
	if m.mode == ModeDetail {
		m.initDetailViewport()
	}
}

// resizeTaskList sizes the task list to the space left by the other panes.
// The top and event panes grow with the yard, so this also runs on reload.
func (m *Model) resizeTaskList() {
	listWidth := max(m.width-6, 40)
	listHeight := max(m.height-m.fixedHeight(), 3)
	m.taskList.SetSize(listWidth, listHeight)
}

// fixedHeight is the number of rows used by everything but the task list.
func (m *Model) fixedHeight() int {
	rows := 2 + 2 + 2 // app padding, header, footer
	rows += m.topPaneRows() + 2
	rows += m.eventRows() + 2
	rows += 2 // task pane border
	return rows
}
