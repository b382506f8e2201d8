package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/tui"
)

// newDashboardCommand creates the dashboard command.
// Running yard without arguments opens the same dashboard.
func newDashboardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"tui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the interactive terminal dashboard.

The dashboard shows warehouses, equipment, tasks and recent events and
refreshes from the state file every few seconds. Pending tasks can be
executed or cancelled from the task list, and R runs the whole schedule.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the dashboard until the user quits.
func launchTUI(c *app.Container) error {
	m := tui.New(c)
	defer func() { _ = m.Close() }()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
