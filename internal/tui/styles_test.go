package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

func TestStyles_StatusStyle(t *testing.T) {
	styles := DefaultStyles()

	for _, status := range domain.AllStatuses() {
		t.Run(string(status), func(t *testing.T) {
			rendered := styles.StatusStyle(status).Render(status.Display())
			assert.NotEmpty(t, rendered)
		})
	}
}

func TestStyles_StatusStyle_UnknownStatus(t *testing.T) {
	styles := DefaultStyles()
	// Unknown statuses fall back to the idle style
	_ = styles.StatusStyle(domain.Status("unknown")).Render("unknown")
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status domain.Status
		want   string
	}{
		{domain.StatusIdle, "○"},
		{domain.StatusBusy, "●"},
		{domain.StatusMaintenance, "◐"},
		{domain.StatusUnavailable, "✗"},
		{domain.Status("unknown"), "?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusIcon(tt.status))
		})
	}
}

func TestPhaseIcon(t *testing.T) {
	tests := []struct {
		phase string
		want  string
	}{
		{"pending", "○"},
		{"running", "●"},
		{"completed", "✓"},
		{"failed", "✗"},
		{"other", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.phase, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseIcon(tt.phase))
		})
	}
}
