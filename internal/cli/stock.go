package cli

import (
	"fmt"
	"strconv"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// newStockCommand creates the stock command.
func newStockCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock <warehouse> <product> <delta>",
		Short: "Adjust warehouse stock by hand",
		Long: `Add or remove stock in one warehouse.

A positive delta adds units, a negative delta removes them.
Removal fails when the warehouse holds fewer units, and addition
fails when it would exceed the warehouse capacity.

Examples:
  yard stock TW001 P001 20
  yard stock PW001 P002 -5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid delta %q: %w", args[2], err)
			}
			var out *usecase.AdjustStockOutput
			err = c.Update(func() error {
				var err error
				out, err = c.AdjustStockUseCase().Execute(cmd.Context(), usecase.AdjustStockInput{
					WarehouseID: args[0],
					ProductID:   args[1],
					Delta:       delta,
				})
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d (load %s)\n",
				out.Warehouse.ID, args[1], out.Quantity, formatLoad(out.Warehouse))
			return nil
		},
	}
	// Negative deltas are arguments, not shorthand flags
	cmd.Flags().SetInterspersed(false)
	return cmd
}
