package tui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/stretchr/testify/assert"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
)

func TestProgressText(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		summary usecase.TaskSummary
	}{
		{
			name:    "pending shows no step",
			summary: usecase.Summarize(newPendingTask("ship_task_SP001")),
			want:    "0/2",
		},
		{
			name:    "completed",
			summary: usecase.Summarize(newCompletedTask("internal_W1_W2_ab12")),
			want:    "1/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progressText(tt.summary))
		})
	}
}

func TestProgressText_Running(t *testing.T) {
	// Setup
	task := newPendingTask("ship_task_SP001")
	task.Started = testNow
	task.Status = domain.StatusBusy
	task.SubTasks[0].Started = testNow
	task.SubTasks[0].Ended = testNow

	// Execute
	got := progressText(usecase.Summarize(task))

	// Assert
	assert.Equal(t, "1/2 transport", got)
}

func TestProductsText(t *testing.T) {
	assert.Equal(t, "", productsText(nil))
	assert.Equal(t, "P001=5", productsText(map[string]int{"P001": 5}))
	assert.Equal(t, "P001=5 P002=3", productsText(map[string]int{"P002": 3, "P001": 5}))
}

func TestTaskDelegate_Render(t *testing.T) {
	// Setup
	d := newTaskDelegate(DefaultStyles())
	items := []list.Item{
		taskItem{summary: usecase.Summarize(newPendingTask("ship_task_SP001"))},
		taskItem{summary: usecase.Summarize(newCompletedTask("internal_W1_W2_ab12"))},
	}
	l := list.New(items, d, 100, 10)

	// Execute
	var selected, other bytes.Buffer
	d.Render(&selected, l, 0, items[0])
	d.Render(&other, l, 1, items[1])

	// Assert
	assert.Contains(t, selected.String(), ">")
	assert.Contains(t, selected.String(), "ship_task_SP001")
	assert.Contains(t, selected.String(), "P001=5")
	assert.Contains(t, selected.String(), "pending")
	assert.NotContains(t, other.String(), ">")
	assert.Contains(t, other.String(), "completed")
	assert.Contains(t, other.String(), "✓")
}

func TestTaskDelegate_Render_Truncates(t *testing.T) {
	// Setup
	d := newTaskDelegate(DefaultStyles())
	task := newPendingTask("ship_task_SP001")
	task.Products = map[string]int{"P001": 5, "P002": 5, "P003": 5, "P004": 5, "P005": 5, "P006": 5}
	item := taskItem{summary: usecase.Summarize(task)}
	l := list.New([]list.Item{item}, d, 50, 10)

	// Execute
	var buf bytes.Buffer
	d.Render(&buf, l, 0, item)

	// Assert
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), "P006")
}

func TestTaskDelegate_Render_IgnoresOtherItems(t *testing.T) {
	d := newTaskDelegate(DefaultStyles())
	l := list.New(nil, d, 50, 10)

	var buf bytes.Buffer
	d.Render(&buf, l, 0, nil)

	assert.Empty(t, buf.String())
}
