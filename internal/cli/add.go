package cli

import (
	"fmt"
	"time"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register yard records",
		Long: `Register products, warehouses, equipment and ship plans.

Registering an existing ID replaces the record. Equipment that a task
has reserved cannot be replaced.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newAddProductCommand(c),
		newAddWarehouseCommand(c),
		newAddCraneCommand(c),
		newAddFrameCommand(c),
		newAddTruckCommand(c),
		newAddPlanCommand(c),
		newAddFileCommand(c),
	)

	return cmd
}

// register runs the Register use case under the state lock and reports the IDs.
func register(cmd *cobra.Command, c *app.Container, in usecase.RegisterInput) error {
	var out *usecase.RegisterOutput
	err := c.Update(func() error {
		var err error
		out, err = c.RegisterUseCase().Execute(cmd.Context(), in)
		return err
	})
	if err != nil {
		return err
	}
	for _, id := range out.IDs {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", id)
	}
	return nil
}

func newAddProductCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name   string
		Weight float64
		Volume float64
	}

	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Register a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return register(cmd, c, usecase.RegisterInput{
				Products: []*domain.Product{{ID: args[0], Name: opts.Name, Weight: opts.Weight, Volume: opts.Volume}},
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().Float64Var(&opts.Weight, "weight", 0, "Unit weight")
	cmd.Flags().Float64Var(&opts.Volume, "volume", 0, "Unit volume")

	return cmd
}

func newAddWarehouseCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Kind     string
		At       string
		Stock    []string
		Capacity int
	}

	cmd := &cobra.Command{
		Use:   "warehouse <id>",
		Short: "Register a warehouse",
		Long: `Register a terminal or product warehouse.

Capacity is counted in units; 0 means unbounded.

Example:
  yard add warehouse PW002 --kind product --at 10,9 --capacity 500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.WarehouseKind(opts.Kind)
			if !kind.IsValid() {
				return fmt.Errorf("unknown warehouse kind %q (want terminal or product)", opts.Kind)
			}
			pos, err := parsePosition(opts.At)
			if err != nil {
				return err
			}
			stock, err := parseProducts(opts.Stock)
			if err != nil {
				return err
			}
			wh := domain.NewWarehouse(args[0], opts.Name, kind, pos, opts.Capacity)
			for id, qty := range stock {
				wh.Products[id] = qty
			}
			return register(cmd, c, usecase.RegisterInput{Warehouses: []*domain.Warehouse{wh}})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.Kind, "kind", string(domain.WarehouseTerminal), "Warehouse kind: terminal or product")
	cmd.Flags().StringVar(&opts.At, "at", "0,0", "Position as X,Y")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "Capacity in units (0 = unbounded)")
	cmd.Flags().StringArrayVar(&opts.Stock, "stock", nil, "Opening stock as PRODUCT=QUANTITY (repeatable)")

	return cmd
}

func newAddCraneCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name         string
		Warehouse    string
		At           string
		LoadCapacity float64
	}

	cmd := &cobra.Command{
		Use:   "crane <id>",
		Short: "Register a crane",
		Long: `Register a crane serving one warehouse.

Example:
  yard add crane C003 --warehouse PW002 --at 10,8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(opts.At)
			if err != nil {
				return err
			}
			crane := domain.NewCrane(args[0], opts.Name, pos, opts.Warehouse)
			if opts.LoadCapacity > 0 {
				crane.LoadCapacity = opts.LoadCapacity
			}
			return register(cmd, c, usecase.RegisterInput{Cranes: []*domain.Crane{crane}})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.Warehouse, "warehouse", "", "Warehouse the crane serves (required)")
	cmd.Flags().StringVar(&opts.At, "at", "0,0", "Position as X,Y")
	cmd.Flags().Float64Var(&opts.LoadCapacity, "load-capacity", 0, "Load capacity (default 100)")
	_ = cmd.MarkFlagRequired("warehouse")

	return cmd
}

func newAddFrameCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		At       string
		Capacity float64
	}

	cmd := &cobra.Command{
		Use:   "frame <id>",
		Short: "Register a frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(opts.At)
			if err != nil {
				return err
			}
			frame := domain.NewFrame(args[0], opts.Name, pos)
			if opts.Capacity > 0 {
				frame.Capacity = opts.Capacity
			}
			return register(cmd, c, usecase.RegisterInput{Frames: []*domain.Frame{frame}})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.At, "at", "0,0", "Position as X,Y")
	cmd.Flags().Float64Var(&opts.Capacity, "capacity", 0, "Frame capacity (default 50)")

	return cmd
}

func newAddTruckCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name  string
		At    string
		Speed float64
	}

	cmd := &cobra.Command{
		Use:     "truck <id>",
		Aliases: []string{"frame-truck"},
		Short:   "Register a frame truck",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(opts.At)
			if err != nil {
				return err
			}
			truck := domain.NewFrameTruck(args[0], opts.Name, pos)
			if opts.Speed > 0 {
				truck.Speed = opts.Speed
			}
			return register(cmd, c, usecase.RegisterInput{Trucks: []*domain.FrameTruck{truck}})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.At, "at", "0,0", "Position as X,Y")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 0, "Travel speed (default 10)")

	return cmd
}

func newAddPlanCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Products []string
		Deadline string
		DueIn    time.Duration
		Priority int
	}

	cmd := &cobra.Command{
		Use:   "plan <id>",
		Short: "Register a ship plan",
		Long: `Register a ship plan: products to ship out by a deadline.

The deadline is an RFC 3339 time (--deadline) or a duration from now
(--due-in). Lower priority numbers are more urgent.

Example:
  yard add plan SP002 --product P001=10 --product P002=5 --due-in 4h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := parseProducts(opts.Products)
			if err != nil {
				return err
			}
			plan := &domain.ShipPlan{ID: args[0], Products: products, Priority: opts.Priority}
			switch {
			case opts.Deadline != "" && opts.DueIn != 0:
				return fmt.Errorf("--deadline and --due-in cannot be used together")
			case opts.Deadline != "":
				if plan.Deadline, err = time.Parse(time.RFC3339, opts.Deadline); err != nil {
					return fmt.Errorf("invalid deadline: %w", err)
				}
			case opts.DueIn != 0:
				plan.Deadline = c.Clock.Now().Add(opts.DueIn)
			}
			return register(cmd, c, usecase.RegisterInput{Plans: []*domain.ShipPlan{plan}})
		},
	}

	cmd.Flags().StringArrayVar(&opts.Products, "product", nil, "Product to ship as PRODUCT=QUANTITY (repeatable)")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "Deadline (RFC 3339)")
	cmd.Flags().DurationVar(&opts.DueIn, "due-in", 0, "Deadline relative to now")
	cmd.Flags().IntVar(&opts.Priority, "priority", domain.DefaultPlanPriority, "Priority (lower is more urgent)")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newAddFileCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <layout.yaml>",
		Short: "Register every record of a layout file",
		Long: `Register every record of a YAML layout file into the current yard.

The file uses the same format as "yard init --layout".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.Layouts.Load(args[0], c.AppConfig.Yard.Grid())
			if err != nil {
				return err
			}
			return register(cmd, c, usecase.RegisterInput{
				Products:   snap.Products,
				Warehouses: snap.Warehouses,
				Cranes:     snap.Cranes,
				Frames:     snap.Frames,
				Trucks:     snap.Trucks,
				Plans:      snap.Plans,
			})
		},
	}
	return cmd
}
