package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage yard configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand(c))
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were found and the final merged configuration.
The yard-local file (.yard/config.toml) overrides the global file
(~/.config/yard/config.toml), which overrides the built-in defaults.

Unknown keys are listed under [Warnings], as is any file that would be
invalid on its own even when the other file overrides the bad value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{out.GlobalConfig, out.LocalConfig} {
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			if err := formatEffectiveConfig(w, out.EffectiveConfig); err != nil {
				return err
			}

			if len(out.Warnings) > 0 {
				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprintln(w, "[Warnings]")
				for _, warning := range out.Warnings {
					_, _ = fmt.Fprintf(w, "- %s\n", warning)
				}
			}
			return nil
		},
	}

	return cmd
}

// formatEffectiveConfig formats the effective config in TOML format.
// Durations are written as strings so the output can be pasted back into a config file.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	output := map[string]any{
		"engine": map[string]any{
			"strategy":      cfg.Engine.Strategy,
			"subtask_delay": cfg.Engine.SubTaskDelay.String(),
			"parallelism":   cfg.Engine.Parallelism,
		},
		"yard": map[string]any{
			"grid_width":  cfg.Yard.GridWidth,
			"grid_height": cfg.Yard.GridHeight,
		},
		"events": map[string]any{
			"capacity": cfg.Events.Capacity,
			"tail":     cfg.Events.Tail,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
	}

	// Encode to TOML
	if err := toml.NewEncoder(w).Encode(output); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template to stdout.

The template lists every setting with its default value.
It does not depend on existing configuration files and will work even if they are broken.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigTemplateUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigTemplateInput{
				Config: domain.NewDefaultConfig(),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
			return nil
		},
	}

	return cmd
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file template.

By default, creates the yard configuration file at .yard/config.toml.
With --global, creates the global configuration file at ~/.config/yard/config.toml.

Error conditions:
- Target file already exists: error`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{
				Global: global,
				Config: domain.NewDefaultConfig(),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s (strategy %s, grid %dx%d)\n",
				out.Path, out.Strategy, out.Grid.Width, out.Grid.Height)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
