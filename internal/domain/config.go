package domain

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"` // Warnings found while loading (unknown keys, bad values)
	Engine   EngineConfig `toml:"engine"`
	Log      LogConfig    `toml:"log"`
	Yard     YardConfig   `toml:"yard"`
	Events   EventsConfig `toml:"events"`
}

// EngineConfig holds execution settings from the [engine] section.
type EngineConfig struct {
	Strategy     string        `toml:"strategy"`      // Equipment selection strategy: first_fit, nearest
	SubTaskDelay time.Duration `toml:"subtask_delay"` // Simulated operation time per sub-task
	Parallelism  int           `toml:"parallelism"`   // Tasks run at once by run-schedule
}

// YardConfig holds layout settings from the [yard] section.
type YardConfig struct {
	GridWidth  int `toml:"grid_width"`
	GridHeight int `toml:"grid_height"`
}

// Grid returns the configured yard grid.
func (y YardConfig) Grid() Grid {
	return Grid{Width: y.GridWidth, Height: y.GridHeight}
}

// EventsConfig holds event log settings from the [events] section.
type EventsConfig struct {
	Capacity int `toml:"capacity"` // Events kept in memory and in the state file
	Tail     int `toml:"tail"`     // Events shown by status views
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // Log level: debug, info, warn, error
}

// Default configuration values.
const (
	DefaultSubTaskDelay  = 100 * time.Millisecond
	DefaultParallelism   = 1
	DefaultEventCapacity = 1000
	DefaultLogLevel      = "info"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Strategy:     StrategyFirstFit,
			SubTaskDelay: DefaultSubTaskDelay,
			Parallelism:  DefaultParallelism,
		},
		Yard: YardConfig{
			GridWidth:  DefaultGrid.Width,
			GridHeight: DefaultGrid.Height,
		},
		Events: EventsConfig{
			Capacity: DefaultEventCapacity,
			Tail:     DefaultEventTail,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks values that would make the engine misbehave.
func (c *Config) Validate() error {
	if _, err := NewStrategy(c.Engine.Strategy); err != nil {
		return err
	}
	if c.Engine.SubTaskDelay < 0 {
		return fmt.Errorf("engine.subtask_delay must not be negative, got %s", c.Engine.SubTaskDelay)
	}
	if c.Engine.Parallelism < 1 {
		return fmt.Errorf("engine.parallelism must be at least 1, got %d", c.Engine.Parallelism)
	}
	if c.Yard.GridWidth < 1 || c.Yard.GridHeight < 1 {
		return fmt.Errorf("yard grid must be at least 1x1, got %dx%d", c.Yard.GridWidth, c.Yard.GridHeight)
	}
	if c.Events.Capacity < 1 {
		return fmt.Errorf("events.capacity must be at least 1, got %d", c.Events.Capacity)
	}
	return nil
}

const configTemplateContent = `# yard configuration
# Values below are the defaults; uncomment to change.

[engine]
# Equipment selection strategy: "first_fit" or "nearest"
# strategy = "<<.Engine.Strategy>>"
# Simulated operation time per sub-task
# subtask_delay = "<<.Engine.SubTaskDelay>>"
# Tasks executed at once by "yard run"
# parallelism = <<.Engine.Parallelism>>

[yard]
# grid_width = <<.Yard.GridWidth>>
# grid_height = <<.Yard.GridHeight>>

[events]
# Events kept in the state file
# capacity = <<.Events.Capacity>>
# Events shown by "yard status"
# tail = <<.Events.Tail>>

[log]
# Log level: debug, info, warn, error
# level = "<<.Log.Level>>"
`

// RenderConfigTemplate renders a commented config file from the given Config.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
