package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Colors defines the color palette for the dashboard.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Title/text colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Status colors
	Idle        lipgloss.Color
	Busy        lipgloss.Color
	Maintenance lipgloss.Color
	Unavailable lipgloss.Color
	Completed   lipgloss.Color

	// Pane border
	PaneBorder lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)

	Idle:        lipgloss.Color("#74B9FF"), // Light blue
	Busy:        lipgloss.Color("#FDCB6E"), // Yellow
	Maintenance: lipgloss.Color("#A29BFE"), // Lavender
	Unavailable: lipgloss.Color("#D63031"), // Red
	Completed:   lipgloss.Color("#00B894"), // Green

	PaneBorder: lipgloss.Color("#636E72"),
}

// Styles contains all the lipgloss styles for the dashboard.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	// Panes
	Pane      lipgloss.Style
	PaneTitle lipgloss.Style

	// Task list
	TaskID             lipgloss.Style
	TaskTitle          lipgloss.Style
	TaskDesc           lipgloss.Style
	SelectionIndicator lipgloss.Style

	// Equipment status
	StatusIdle        lipgloss.Style
	StatusBusy        lipgloss.Style
	StatusMaintenance lipgloss.Style
	StatusUnavailable lipgloss.Style

	// Task phases
	PhaseCompleted lipgloss.Style

	// Events
	EventTime  lipgloss.Style
	EventError lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Dialog
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style

	// Messages
	ErrorMsg lipgloss.Style
	InfoMsg  lipgloss.Style

	// Detail view
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
}

// DefaultStyles returns the default styles for the dashboard.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		HeaderText: lipgloss.NewStyle().
			Bold(true),

		Pane: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.PaneBorder),

		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Secondary),

		TaskID: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskDesc: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		SelectionIndicator: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected),

		StatusIdle: lipgloss.NewStyle().
			Foreground(Colors.Idle),

		StatusBusy: lipgloss.NewStyle().
			Foreground(Colors.Busy),

		StatusMaintenance: lipgloss.NewStyle().
			Foreground(Colors.Maintenance),

		StatusUnavailable: lipgloss.NewStyle().
			Foreground(Colors.Unavailable),

		PhaseCompleted: lipgloss.NewStyle().
			Foreground(Colors.Completed),

		EventTime: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		EventError: lipgloss.NewStyle().
			Foreground(Colors.Error),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		InfoMsg: lipgloss.NewStyle().
			Foreground(Colors.Success),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),

		DetailValue: lipgloss.NewStyle(),
	}
}

// StatusStyle returns the style for an equipment status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusIdle:
		return s.StatusIdle
	case domain.StatusBusy:
		return s.StatusBusy
	case domain.StatusMaintenance:
		return s.StatusMaintenance
	case domain.StatusUnavailable:
		return s.StatusUnavailable
	default:
		return s.StatusIdle
	}
}

// PhaseStyle returns the style for a task phase.
func (s Styles) PhaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "running":
		return s.StatusBusy
	case "completed":
		return s.PhaseCompleted
	case "failed":
		return s.StatusUnavailable
	default:
		return s.StatusIdle
	}
}

// StatusIcon returns an icon for an equipment status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusIdle:
		return "○"
	case domain.StatusBusy:
		return "●"
	case domain.StatusMaintenance:
		return "◐"
	case domain.StatusUnavailable:
		return "✗"
	default:
		return "?"
	}
}

// PhaseIcon returns an icon for a task phase.
func PhaseIcon(phase string) string {
	switch phase {
	case "pending":
		return "○"
	case "running":
		return "●"
	case "completed":
		return "✓"
	case "failed":
		return "✗"
	default:
		return "?"
	}
}
