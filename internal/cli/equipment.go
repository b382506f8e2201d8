package cli

import (
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// newEquipmentCommand creates the equipment command.
func newEquipmentCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equipment",
		Short: "Manage equipment status",
		Long:  `Manage cranes, frame trucks and frames.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newEquipmentSetStatusCommand(c))

	return cmd
}

// newEquipmentSetStatusCommand creates the equipment set-status subcommand.
func newEquipmentSetStatusCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <crane|truck|frame> <id> <status>",
		Short: "Take equipment out of service or return it",
		Long: `Change the status of a piece of equipment.

Allowed statuses: idle, maintenance, unavailable.
Equipment in maintenance or unavailable is never allocated.
Busy is set by task execution only, and equipment reserved by a
task cannot be changed.

Example:
  yard equipment set-status crane C001 maintenance`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseStatus(args[2])
			if err != nil {
				return fmt.Errorf("%q: %w", args[2], err)
			}
			var out *usecase.SetEquipmentStatusOutput
			err = c.Update(func() error {
				var err error
				out, err = c.SetEquipmentStatusUseCase().Execute(cmd.Context(), usecase.SetEquipmentStatusInput{
					Role:   role,
					ID:     args[1],
					Status: status,
				})
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s -> %s\n", role, args[1], out.Previous, out.Current)
			return nil
		},
	}
	return cmd
}
