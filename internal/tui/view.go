package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/yard-dispatch/internal/domain"
)

// equipmentRow is one piece of equipment in the equipment pane.
type equipmentRow struct {
	id     string
	holder string
	status domain.Status
	pos    domain.Position
}

// mapCell is one grid position in the map pane.
type mapCell struct {
	status domain.Status // Equipment only
	glyph  byte
	equip  bool
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeNormal, ModeConfirm:
		content = m.viewMain()
	}

	return m.styles.App.Render(content)
}

// viewMain renders the yard overview with the task list.
func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n")
	} else if m.info != "" {
		if m.infoFailed {
			b.WriteString(m.styles.ErrorMsg.Render(m.info) + "\n")
		} else {
			b.WriteString(m.styles.InfoMsg.Render(m.info) + "\n")
		}
	}

	if m.status != nil {
		panes := []string{m.viewWarehouses(), " ", m.viewEquipment()}
		if m.showMap {
			panes = append(panes, " ", m.viewMap())
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
		b.WriteString("\n")
	}

	b.WriteString(m.viewTasks())
	b.WriteString("\n")

	if m.status != nil {
		b.WriteString(m.viewEvents())
		b.WriteString("\n")
	}

	if m.mode == ModeConfirm {
		b.WriteString(m.viewConfirmDialog())
		b.WriteString("\n")
	}

	b.WriteString(m.viewFooter())
	return b.String()
}

// viewHeader renders the title with the task count and refresh time.
func (m *Model) viewHeader() string {
	title := m.styles.HeaderText.Render("Yard Dispatch")

	right := fmt.Sprintf("%d tasks", len(m.tasks))
	switch {
	case m.busy:
		right += " · working..."
	case !m.refreshed.IsZero():
		right += " · refreshed " + m.refreshed.Format("15:04:05")
	}
	rightText := lipgloss.NewStyle().Foreground(Colors.Muted).Render(right)

	headerWidth := max(m.width-6, 40)
	spacing := max(headerWidth-lipgloss.Width(title)-lipgloss.Width(rightText), 1)

	return m.styles.Header.Render(title + strings.Repeat(" ", spacing) + rightText)
}

func (m *Model) viewWarehouses() string {
	lines := []string{m.styles.PaneTitle.Render("Warehouses")}
	for _, w := range m.status.Warehouses {
		load := fmt.Sprintf("%d", w.CurrentLoad)
		if w.Capacity > 0 {
			load = fmt.Sprintf("%d/%d", w.CurrentLoad, w.Capacity)
		}
		stock := productsText(w.Products)
		if stock == "" {
			stock = "-"
		}
		lines = append(lines, fmt.Sprintf("%-8s %-8s %-9s %s", w.ID, w.Kind, load, m.styles.TaskDesc.Render(stock)))
	}
	return m.styles.Pane.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewEquipment() string {
	lines := []string{m.styles.PaneTitle.Render("Equipment")}
	for _, r := range m.equipmentRows() {
		holder := r.holder
		if holder == "" {
			holder = "-"
		}
		lines = append(lines, fmt.Sprintf("%s %-6s %-11s %-7s %s",
			m.styles.StatusStyle(r.status).Render(StatusIcon(r.status)),
			r.id,
			m.styles.StatusStyle(r.status).Render(fmt.Sprintf("%-11s", r.status)),
			r.pos,
			m.styles.TaskDesc.Render(holder)))
	}
	return m.styles.Pane.Render(strings.Join(lines, "\n"))
}

// equipmentRows lists cranes, trucks and frames in that order.
func (m *Model) equipmentRows() []equipmentRow {
	if m.status == nil {
		return nil
	}
	var rows []equipmentRow
	for _, c := range m.status.Cranes {
		rows = append(rows, equipmentRow{id: c.ID, status: c.Status, pos: c.Position, holder: c.HeldBy})
	}
	for _, t := range m.status.Trucks {
		rows = append(rows, equipmentRow{id: t.ID, status: t.Status, pos: t.Position, holder: t.HeldBy})
	}
	for _, f := range m.status.Frames {
		rows = append(rows, equipmentRow{id: f.ID, status: f.Status, pos: f.Position, holder: f.HeldBy})
	}
	return rows
}

// viewMap draws the yard grid with one letter per occupied cell.
// Equipment is colored by status and covers a warehouse on the same cell.
func (m *Model) viewMap() string {
	g := m.status.Grid
	lines := []string{m.styles.PaneTitle.Render(fmt.Sprintf("Map %dx%d", g.Width, g.Height))}
	for _, row := range m.mapCells() {
		var b strings.Builder
		for _, c := range row {
			text := string(c.glyph)
			switch {
			case c.equip:
				text = m.styles.StatusStyle(c.status).Render(text)
			case c.glyph == '.':
				text = m.styles.TaskDesc.Render(text)
			default:
				text = m.styles.HeaderText.Render(text)
			}
			b.WriteString(text + " ")
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, m.styles.TaskDesc.Render("T/P warehouse  C crane  K truck  F frame"))
	return m.styles.Pane.Render(strings.Join(lines, "\n"))
}

// mapCells lays out warehouses, then cranes, frames and trucks, on the grid.
// Rows are indexed by Y. Records outside the grid are not drawn.
func (m *Model) mapCells() [][]mapCell {
	g := m.status.Grid
	cells := make([][]mapCell, max(g.Height, 0))
	for y := range cells {
		cells[y] = make([]mapCell, max(g.Width, 0))
		for x := range cells[y] {
			cells[y][x].glyph = '.'
		}
	}
	put := func(p domain.Position, c mapCell) {
		if g.Contains(p) {
			cells[p.Y][p.X] = c
		}
	}

	for _, w := range m.status.Warehouses {
		glyph := byte('P')
		if w.Kind == domain.WarehouseTerminal {
			glyph = 'T'
		}
		put(w.Position, mapCell{glyph: glyph})
	}
	for _, c := range m.status.Cranes {
		put(c.Position, mapCell{glyph: 'C', status: c.Status, equip: true})
	}
	for _, f := range m.status.Frames {
		put(f.Position, mapCell{glyph: 'F', status: f.Status, equip: true})
	}
	for _, t := range m.status.Trucks {
		put(t.Position, mapCell{glyph: 'K', status: t.Status, equip: true})
	}
	return cells
}

// topPaneRows is the content height of the top row of panes.
func (m *Model) topPaneRows() int {
	if m.status == nil {
		return 0
	}
	rows := max(len(m.status.Warehouses), len(m.equipmentRows()))
	if m.showMap {
		rows = max(rows, m.status.Grid.Height+1) // grid plus legend
	}
	return 1 + rows
}

func (m *Model) viewTasks() string {
	title := m.styles.PaneTitle.Render("Tasks")
	if len(m.tasks) == 0 {
		return m.styles.Pane.Render(title + "\n" + m.styles.TaskDesc.Render("No tasks. Create one with 'yard ship' or 'yard transfer'."))
	}
	return m.styles.Pane.Render(title + "\n" + m.taskList.View())
}

func (m *Model) viewEvents() string {
	lines := []string{m.styles.PaneTitle.Render(fmt.Sprintf("Events (%d total)", m.status.EventTotal))}
	for _, e := range m.status.Events {
		lines = append(lines, m.renderEvent(e))
	}
	return m.styles.Pane.Render(strings.Join(lines, "\n"))
}

// eventRows is the content height of the events pane.
func (m *Model) eventRows() int {
	if m.status == nil {
		return 0
	}
	return 1 + len(m.status.Events)
}

func (m *Model) renderEvent(e domain.Event) string {
	text := e.Message
	if e.TaskID != "" {
		text = "[" + e.TaskID + "] " + text
	}
	if e.Level == domain.LevelError {
		text = m.styles.EventError.Render(text)
	}
	return m.styles.EventTime.Render(e.Time.Format("15:04:05")) + " " + text
}

func (m *Model) viewConfirmDialog() string {
	var prompt string
	switch m.confirmAction {
	case ConfirmCancel:
		prompt = fmt.Sprintf("Cancel task %s and release its equipment?", m.confirmTaskID)
	case ConfirmRunAll:
		prompt = "Run every pending task in schedule order?"
	case ConfirmNone:
	}
	title := m.styles.DialogTitle.Render("Confirm " + m.confirmAction.String())
	return m.styles.Dialog.Render(title + "\n\n" + prompt + "\n\n" +
		m.styles.FooterKey.Render("y") + " yes  " + m.styles.FooterKey.Render("n") + " no")
}

func (m *Model) viewHelp() string {
	title := m.styles.DialogTitle.Render("Keybindings")
	return m.styles.Dialog.Render(title + "\n\n" + m.help.View(m.keys))
}

func (m *Model) viewDetail() string {
	return m.detailViewport.View() + "\n" + m.viewFooter()
}

func (m *Model) viewFooter() string {
	return NewStatusLine(max(m.width-4, 40), &m.styles).Render(m.GetStatusInfo())
}
