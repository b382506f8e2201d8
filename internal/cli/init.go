package cli

import (
	"fmt"
	"os"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Layout string
		Empty  bool
		Force  bool
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a yard in the current directory",
		Long: `Initialize a yard in the current directory.

This command creates the .yard/ directory with:
- state.json: the yard snapshot (entities, tasks, events)
- logs/: directory for log files (created on first use)

The yard is seeded from the built-in demo layout unless --layout
names a YAML layout file or --empty is given.

With --force an existing yard is reset: every record, task and event
is replaced by the new layout. Use it to start a demo over.

Error conditions:
- Already initialized without --force: "yard already initialized"
- Layout rejected: "invalid layout: ..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Empty && opts.Layout != "" {
				return fmt.Errorf("--empty and --layout cannot be used together")
			}
			if err := os.MkdirAll(c.Config.YardDir, 0o755); err != nil {
				return fmt.Errorf("create yard directory: %w", err)
			}

			out, err := c.InitYardUseCase().Execute(cmd.Context(), usecase.InitYardInput{
				LayoutPath: opts.Layout,
				Grid:       c.AppConfig.Yard.Grid(),
				Empty:      opts.Empty,
				Force:      opts.Force,
			})
			if err != nil {
				return err
			}

			s := out.Snapshot
			verb := "Initialized"
			if out.Reset {
				verb = "Reset"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s yard in %s from %s\n", verb, c.Config.YardDir, out.Source)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d warehouses, %d cranes, %d frames, %d trucks, %d plans\n",
				len(s.Warehouses), len(s.Cranes), len(s.Frames), len(s.Trucks), len(s.Plans))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Layout, "layout", "", "YAML layout file (default: built-in demo)")
	cmd.Flags().BoolVar(&opts.Empty, "empty", false, "Start with no entities")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Reset an existing yard")

	return cmd
}
