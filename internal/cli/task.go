package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// errTaskFailed marks a run that stopped on a sub-task failure, so the
// process exits non-zero after the outcome is printed.
var errTaskFailed = errors.New("task failed")

// newShipCommand creates the ship command.
func newShipCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ship <plan-id>",
		Short: "Create a shipment task for a ship plan",
		Long: `Create a shipment task that moves a ship plan's products from the
terminal warehouses to a product warehouse.

The task is decomposed into six sub-tasks:
  frame_pulling -> transport -> terminal_loading
  -> transport -> product_unloading -> frame_positioning

A crane, a frame truck and a frame are reserved for the task.
Nothing is reserved when any of them is unavailable.

Error conditions:
- Unknown plan or no product warehouse: "ship plan invalid"
- Not enough terminal stock: "insufficient stock"
- No idle crane, frame truck or frame: "insufficient idle equipment"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out *usecase.CreateShipTaskOutput
			err := c.Update(func() error {
				var err error
				out, err = c.CreateShipTaskUseCase().Execute(cmd.Context(), usecase.CreateShipTaskInput{PlanID: args[0]})
				return err
			})
			if err != nil {
				return err
			}
			printCreatedTask(cmd.OutOrStdout(), out.Task)
			return nil
		},
	}
	return cmd
}

// newTransferCommand creates the transfer command.
func newTransferCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <source> <target> <product=qty>...",
		Short: "Create a direct transfer task between two warehouses",
		Long: `Create a transfer task that moves products from a terminal warehouse
directly into a product warehouse using the cranes of both warehouses.

The task is decomposed into three sub-tasks:
  terminal_loading -> transport -> product_unloading

Examples:
  yard transfer TW001 PW001 P001=5
  yard transfer TW001 PW001 P001=5 P002=3`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := parseProducts(args[2:])
			if err != nil {
				return err
			}
			var out *usecase.CreateTransferTaskOutput
			err = c.Update(func() error {
				var err error
				out, err = c.CreateTransferTaskUseCase().Execute(cmd.Context(), usecase.CreateTransferTaskInput{
					SourceID: args[0],
					TargetID: args[1],
					Products: products,
				})
				return err
			})
			if err != nil {
				return err
			}
			printCreatedTask(cmd.OutOrStdout(), out.Task)
			return nil
		},
	}
	return cmd
}

func printCreatedTask(w io.Writer, t *domain.Task) {
	_, _ = fmt.Fprintf(w, "Created %s task %s\n", t.Type.Display(), t.ID)
	for _, st := range t.SubTasks {
		_, _ = fmt.Fprintf(w, "  %s\n", st.ID)
	}
}

// newTasksCommand creates the tasks command.
func newTasksCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Type   string
		Phase  string
		Format string
	}

	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks in creation order.

Filter by --type (ship_transport, internal_transfer) or
--phase (pending, running, completed, failed).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Load(); err != nil {
				return err
			}
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Type:  domain.TaskType(opts.Type),
				Phase: opts.Phase,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, opts.Format, out.Tasks); done || err != nil {
				return err
			}
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No tasks")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tTYPE\tPHASE\tPROGRESS\tPRODUCTS")
			for _, s := range out.Tasks {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					s.Task.ID, s.Task.Type, s.Phase, formatProgress(s), formatProducts(s.Task.Products))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by task type")
	cmd.Flags().StringVar(&opts.Phase, "phase", "", "Filter by phase")
	addFormatFlag(cmd, &opts.Format)

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details",
		Long:  `Show a task with its sub-tasks, bound equipment and events.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Load(); err != nil {
				return err
			}
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, format, out); done || err != nil {
				return err
			}
			printTaskDetail(w, out)
			return nil
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func printTaskDetail(w io.Writer, out *usecase.ShowTaskOutput) {
	t := out.Summary.Task
	_, _ = fmt.Fprintf(w, "Task:     %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "Type:     %s\n", t.Type.Display())
	_, _ = fmt.Fprintf(w, "Phase:    %s (%s)\n", out.Summary.Phase, formatProgress(out.Summary))
	_, _ = fmt.Fprintf(w, "Products: %s\n", formatProducts(t.Products))
	for _, k := range []string{domain.DetailPlanID, domain.DetailSourceWarehouseID, domain.DetailTargetWarehouseID} {
		if v, ok := t.Details[k]; ok {
			_, _ = fmt.Fprintf(w, "%-9s %s\n", k+":", v)
		}
	}
	_, _ = fmt.Fprintf(w, "Created:  %s\n", t.Created.Format("2006-01-02 15:04:05"))
	if !t.Ended.IsZero() {
		_, _ = fmt.Fprintf(w, "Ended:    %s\n", t.Ended.Format("2006-01-02 15:04:05"))
	}
	if t.FailureReason != "" {
		_, _ = fmt.Fprintf(w, "Failure:  %s\n", t.FailureReason)
	}

	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SUB-TASK\tSTATUS\tCRANE\tTRUCK\tFRAME\tROUTE")
	for _, st := range t.SubTasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			st.ID, subTaskState(st),
			holderOrDash(st.Resources[domain.RoleCrane]),
			holderOrDash(st.Resources[domain.RoleFrameTruck]),
			holderOrDash(st.Resources[domain.RoleFrame]),
			formatRoute(st))
	}
	_ = tw.Flush()

	if len(out.Events) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Events:")
		printEvents(w, out.Events)
	}
}

// subTaskState labels a sub-task as pending, running, done or failed.
func subTaskState(st *domain.SubTask) string {
	switch {
	case st.Status == domain.StatusUnavailable:
		return "failed"
	case st.Status == domain.StatusBusy:
		return "running"
	case !st.Ended.IsZero():
		return "done"
	default:
		return "pending"
	}
}

func formatRoute(st *domain.SubTask) string {
	switch {
	case st.SourcePosition != nil && st.TargetPosition != nil:
		return st.SourcePosition.String() + " -> " + st.TargetPosition.String()
	case st.TargetPosition != nil:
		return "-> " + st.TargetPosition.String()
	case st.WarehouseID != "":
		return "@" + st.WarehouseID
	default:
		return "-"
	}
}

// newExecCommand creates the exec command.
func newExecCommand(c *app.Container) *cobra.Command {
	var failOn []string

	cmd := &cobra.Command{
		Use:   "exec <task-id>",
		Short: "Execute a pending task",
		Long: `Execute a pending task one sub-task at a time.

Each sub-task holds its equipment while it runs. When a sub-task fails
the task stops, every machine it reserved is released and the command
exits non-zero. Completed sub-tasks are not rolled back.

Use --fail-on with sub-task types or IDs to inject a failure:
  yard exec ship_task_SP001 --fail-on transport`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(failOn) > 0 {
				c.SetFailOn(failOn)
			}
			var out *usecase.ExecuteTaskOutput
			err := c.Update(func() error {
				var err error
				out, err = c.ExecuteTaskUseCase().Execute(cmd.Context(), usecase.ExecuteTaskInput{TaskID: args[0]})
				return err
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printEvents(w, out.Events)
			if !out.Succeeded {
				printOutcome(w, colorFail, "Task %s failed: %v", out.Task.ID, out.Failure)
				return fmt.Errorf("%s: %w", out.Task.ID, errTaskFailed)
			}
			printOutcome(w, colorOK, "Task %s completed", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&failOn, "fail-on", nil, "Fail sub-tasks of these types or IDs")

	return cmd
}

// newCancelCommand creates the cancel command.
func newCancelCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a pending task",
		Long: `Cancel a pending task and release the equipment it reserved.

Running, completed and failed tasks cannot be cancelled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out *usecase.CancelTaskOutput
			err := c.Update(func() error {
				var err error
				out, err = c.CancelTaskUseCase().Execute(cmd.Context(), usecase.CancelTaskInput{TaskID: args[0]})
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cancelled task %s (released: %s)\n", out.Task.ID, joinOrDash(out.Released))
			return nil
		},
	}
	return cmd
}

// newScheduleCommand creates the schedule command.
func newScheduleCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the execution order of pending tasks",
		Long: `Show the order in which "yard run" executes pending tasks.

Shipment tasks come before internal transfers; tasks of the same
type keep their creation order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Load(); err != nil {
				return err
			}
			out, err := c.OptimizeScheduleUseCase().Execute(cmd.Context(), usecase.OptimizeScheduleInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, format, out.TaskIDs); done || err != nil {
				return err
			}
			if len(out.TaskIDs) == 0 {
				_, _ = fmt.Fprintln(w, "No pending tasks")
				return nil
			}
			for i, id := range out.TaskIDs {
				_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, id)
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

// newRunCommand creates the run command.
func newRunCommand(c *app.Container) *cobra.Command {
	var opts struct {
		FailOn   []string
		Parallel int
	}

	cmd := &cobra.Command{
		Use:   "run [task-id...]",
		Short: "Execute pending tasks in schedule order",
		Long: `Execute tasks in order. Without arguments every pending task runs in
the order shown by "yard schedule".

With --parallel greater than one, that many tasks run at once.
A failing task does not stop the others. Interrupting the command
leaves tasks that have not started pending.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.FailOn) > 0 {
				c.SetFailOn(opts.FailOn)
			}
			var ids []string
			if len(args) > 0 {
				ids = args
			}
			var out *usecase.RunScheduleOutput
			err := c.Update(func() error {
				var err error
				out, err = c.RunScheduleUseCase(opts.Parallel).Execute(cmd.Context(), usecase.RunScheduleInput{TaskIDs: ids})
				return err
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Results) == 0 {
				_, _ = fmt.Fprintln(w, "No pending tasks")
				return nil
			}
			for _, r := range out.Results {
				switch {
				case r.Err != nil:
					printOutcome(w, colorWarn, "%s: skipped: %v", r.TaskID, r.Err)
				case r.Succeeded:
					printOutcome(w, colorOK, "%s: completed", r.TaskID)
				default:
					printOutcome(w, colorFail, "%s: failed: %v", r.TaskID, r.Failure)
				}
			}
			_, _ = fmt.Fprintf(w, "%d completed, %d failed\n", out.Succeeded, out.Failed)
			if out.Failed > 0 {
				return fmt.Errorf("%d of %d: %w", out.Failed, len(out.Results), errTaskFailed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "p", 0, "Tasks to run at once (default from config)")
	cmd.Flags().StringSliceVar(&opts.FailOn, "fail-on", nil, "Fail sub-tasks of these types or IDs")

	return cmd
}
