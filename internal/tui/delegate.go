package tui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/yard-dispatch/internal/usecase"
)

type taskItem struct {
	summary usecase.TaskSummary
}

func (t taskItem) FilterValue() string {
	return t.summary.Task.ID
}

// progressText renders "done/total step" for a task.
func progressText(s usecase.TaskSummary) string {
	text := fmt.Sprintf("%d/%d", s.Done, s.Total)
	if s.Current != nil && s.Phase != "pending" {
		text += " " + string(s.Current.Type)
	}
	return text
}

// productsText renders products as "P001=5 P002=3" in ID order.
func productsText(products map[string]int) string {
	parts := make([]string, 0, len(products))
	for _, id := range slices.Sorted(maps.Keys(products)) {
		parts = append(parts, fmt.Sprintf("%s=%d", id, products[id]))
	}
	return strings.Join(parts, " ")
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 1
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	s := ti.summary
	selected := index == m.Index()

	indicatorChar := " "
	if selected {
		indicatorChar = ">"
	}

	phaseStyle := d.styles.PhaseStyle(s.Phase)
	phaseText := fmt.Sprintf("%-9s", s.Phase)
	progress := fmt.Sprintf("%-22s", progressText(s))

	prefix := " " + indicatorChar + " " + PhaseIcon(s.Phase) + " " + phaseText + " " + progress + " "
	listWidth := m.Width()
	maxTitleLen := listWidth - runewidth.StringWidth(prefix) - 2
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}

	title := s.Task.ID
	if products := productsText(s.Task.Products); products != "" {
		title += "  " + products
	}
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen-3, "...")
	}

	var line string
	if selected {
		line = " " + d.styles.SelectionIndicator.Bold(true).Render(indicatorChar) + " " +
			phaseStyle.Bold(true).Render(PhaseIcon(s.Phase)+" "+phaseText) + " " +
			d.styles.TaskDesc.Render(progress) + " " +
			d.styles.TaskTitle.Bold(true).Render(title)
	} else {
		line = " " + d.styles.SelectionIndicator.Render(indicatorChar) + " " +
			phaseStyle.Render(PhaseIcon(s.Phase)+" "+phaseText) + " " +
			d.styles.TaskDesc.Render(progress) + " " +
			d.styles.TaskTitle.Render(title)
	}
	_, _ = fmt.Fprint(w, line)
}
