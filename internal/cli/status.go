package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		Tail   int
	}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the yard overview",
		Long: `Show the yard overview: warehouse stock, equipment by status,
tasks that are not idle and the most recent events.

Output formats:
  table   Human-readable sections (default)
  json    The full snapshot as JSON
  yaml    The full snapshot as YAML`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Load(); err != nil {
				return err
			}
			tail := opts.Tail
			if tail == 0 {
				tail = c.AppConfig.Events.Tail
			}
			out, err := c.GetSystemStatusUseCase().Execute(cmd.Context(), usecase.GetSystemStatusInput{EventTail: tail})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, opts.Format, out); done || err != nil {
				return err
			}
			printSystemStatus(w, out)
			return nil
		},
	}

	addFormatFlag(cmd, &opts.Format)
	cmd.Flags().IntVarP(&opts.Tail, "tail", "n", 0, "Number of events to show (default from config)")

	return cmd
}

func printSystemStatus(w io.Writer, out *usecase.GetSystemStatusOutput) {
	_, _ = fmt.Fprintln(w, "Warehouses:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  ID\tKIND\tLOAD\tSTOCK")
	for _, wh := range out.Warehouses {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", wh.ID, wh.Kind.Display(), formatLoad(wh), formatProducts(wh.Products))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Equipment:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ec := range out.Equipment {
		_, _ = fmt.Fprintf(tw, "  %s\t%d\t%s\n", ec.Category, ec.Total, formatStatusCounts(ec.ByStatus))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Active tasks:")
	if len(out.ActiveTasks) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
	} else {
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range out.ActiveTasks {
			s := usecase.Summarize(t)
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", t.ID, t.Type.Display(), s.Phase, formatProgress(s))
		}
		_ = tw.Flush()
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Events (%d of %d):\n", len(out.Events), out.EventTotal)
	printEvents(w, out.Events)
}

// newResourcesCommand creates the resources command.
func newResourcesCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List every registered record",
		Long: `List products, warehouses, cranes, frame trucks, frames and ship plans,
followed by the idle equipment available for new tasks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Load(); err != nil {
				return err
			}
			out, err := c.GetResourceStatusUseCase().Execute(cmd.Context(), usecase.GetResourceStatusInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if done, err := writeStructured(w, format, out); done || err != nil {
				return err
			}
			printResources(w, out)
			return nil
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}

func printResources(w io.Writer, out *usecase.GetResourceStatusOutput) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "PRODUCTS")
	for _, p := range out.Products {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\tweight=%g\tvolume=%g\n", p.ID, p.Name, p.Weight, p.Volume)
	}

	_, _ = fmt.Fprintln(tw, "WAREHOUSES")
	for _, wh := range out.Warehouses {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", wh.ID, wh.Kind.Display(), wh.Position, formatLoad(wh), formatProducts(wh.Products))
	}

	_, _ = fmt.Fprintln(tw, "CRANES")
	for _, cr := range out.Cranes {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", cr.ID, cr.Status.Display(), cr.Position, cr.WarehouseID, holderOrDash(cr.HeldBy))
	}

	_, _ = fmt.Fprintln(tw, "FRAME TRUCKS")
	for _, t := range out.Trucks {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", t.ID, t.Status.Display(), t.Position, holderOrDash(t.AttachedFrameID), holderOrDash(t.HeldBy))
	}

	_, _ = fmt.Fprintln(tw, "FRAMES")
	for _, f := range out.Frames {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", f.ID, f.Status.Display(), f.Position, formatProducts(f.LoadedProducts), holderOrDash(f.HeldBy))
	}

	_, _ = fmt.Fprintln(tw, "SHIP PLANS")
	for _, p := range out.Plans {
		_, _ = fmt.Fprintf(tw, "  %s\tpriority=%d\t%s\t%s\n", p.ID, p.Priority, p.Deadline.Format("2006-01-02 15:04"), formatProducts(p.Products))
	}
	_ = tw.Flush()

	a := out.Availability
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Available:")
	_, _ = fmt.Fprintf(w, "  terminal cranes: %s\n", joinOrDash(a.TerminalCranes))
	_, _ = fmt.Fprintf(w, "  product cranes:  %s\n", joinOrDash(a.ProductCranes))
	_, _ = fmt.Fprintf(w, "  frame trucks:    %s\n", joinOrDash(a.FrameTrucks))
	_, _ = fmt.Fprintf(w, "  frames:          %s\n", joinOrDash(a.Frames))
}

// formatLoad renders "load/capacity", or the load alone for unbounded warehouses.
func formatLoad(w *domain.Warehouse) string {
	if w.Capacity == 0 {
		return fmt.Sprintf("%d", w.CurrentLoad)
	}
	return fmt.Sprintf("%d/%d", w.CurrentLoad, w.Capacity)
}

// formatStatusCounts renders status counts in status order, e.g. "idle=2 busy=1".
func formatStatusCounts(counts map[domain.Status]int) string {
	var parts []string
	for _, s := range domain.AllStatuses() {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", s, n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// formatProgress renders "done/total current-step".
func formatProgress(s usecase.TaskSummary) string {
	progress := fmt.Sprintf("%d/%d", s.Done, s.Total)
	if s.Current != nil {
		progress += " " + string(s.Current.Type)
	}
	return progress
}

func holderOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
