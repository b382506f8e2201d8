// Package cli provides the command-line interface for yard.
package cli

import (
	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupYard  = "yard"
	groupTask  = "task"
)

// launchTUIFunc is a function variable for launching the dashboard, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for yard.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var workflowHelp bool

	root := &cobra.Command{
		Use:   "yard",
		Short: "Yard equipment dispatch engine",
		Long: `yard dispatches cranes, frame trucks and frames to move products
between terminal and product warehouses.

Ship plans become six-step shipment tasks with reserved equipment;
direct transfers become three-step tasks. Tasks are executed one
sub-task at a time and every step is recorded in the event log.

Use --help-workflow for a walkthrough.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				printOutcome(cmd.ErrOrStderr(), colorWarn, "Warning: %s", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workflowHelp {
				return showWorkflowHelp(cmd.OutOrStdout(), c)
			}
			// Default: launch the dashboard
			return launchTUIFunc(c)
		},
	}

	root.Flags().BoolVar(&workflowHelp, "help-workflow", false, "Show the dispatch workflow guide")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupYard, Title: "Yard Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	addCmd := newAddCommand(c)
	addCmd.GroupID = groupSetup

	// Yard commands
	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupYard

	resourcesCmd := newResourcesCommand(c)
	resourcesCmd.GroupID = groupYard

	stockCmd := newStockCommand(c)
	stockCmd.GroupID = groupYard

	equipmentCmd := newEquipmentCommand(c)
	equipmentCmd.GroupID = groupYard

	dashboardCmd := newDashboardCommand(c)
	dashboardCmd.GroupID = groupYard

	// Task commands
	shipCmd := newShipCommand(c)
	shipCmd.GroupID = groupTask

	transferCmd := newTransferCommand(c)
	transferCmd.GroupID = groupTask

	tasksCmd := newTasksCommand(c)
	tasksCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	execCmd := newExecCommand(c)
	execCmd.GroupID = groupTask

	cancelCmd := newCancelCommand(c)
	cancelCmd.GroupID = groupTask

	scheduleCmd := newScheduleCommand(c)
	scheduleCmd.GroupID = groupTask

	runCmd := newRunCommand(c)
	runCmd.GroupID = groupTask

	// Add subcommands
	root.AddCommand(
		initCmd,
		configCmd,
		addCmd,
		statusCmd,
		resourcesCmd,
		stockCmd,
		equipmentCmd,
		dashboardCmd,
		shipCmd,
		transferCmd,
		tasksCmd,
		showCmd,
		execCmd,
		cancelCmd,
		scheduleCmd,
		runCmd,
	)

	return root
}
