// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	yardDir       string // Path to .yard directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/yard)
}

// NewLoader creates a new Loader.
func NewLoader(yardDir string) *Loader {
	return &Loader{
		yardDir:       yardDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(yardDir, globalConfDir string) *Loader {
	return &Loader{
		yardDir:       yardDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalDir(configHome)
}

// Load returns the merged configuration.
// Yard-local config takes precedence over global config, which takes
// precedence over the defaults.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	for _, path := range []string{l.globalPath(), domain.LocalConfigPath(l.yardDir)} {
		if path == "" {
			continue
		}
		ov, err := l.loadOverlay(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ov.apply(base)
	}

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigInvalid, err)
	}
	return base, nil
}

// LoadGlobal returns the defaults overlaid with the global configuration only.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(l.globalPath())
}

// LoadLocal returns the defaults overlaid with the yard-local configuration only.
func (l *Loader) LoadLocal() (*domain.Config, error) {
	return l.loadFile(domain.LocalConfigPath(l.yardDir))
}

func (l *Loader) globalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// loadFile loads a single file on top of the defaults.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	ov, err := l.loadOverlay(path)
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	ov.apply(cfg)
	return cfg, nil
}

func (l *Loader) loadOverlay(path string) (*overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return parseRaw(raw), nil
}

// overlay holds the values a file sets. Nil fields were not present.
// Fields are ordered to minimize memory padding.
type overlay struct {
	strategy      *string
	subTaskDelay  *time.Duration
	parallelism   *int
	gridWidth     *int
	gridHeight    *int
	eventCapacity *int
	eventTail     *int
	logLevel      *string
	warnings      []string
}

// apply copies the set values onto cfg.
func (o *overlay) apply(cfg *domain.Config) {
	if o.strategy != nil {
		cfg.Engine.Strategy = *o.strategy
	}
	if o.subTaskDelay != nil {
		cfg.Engine.SubTaskDelay = *o.subTaskDelay
	}
	if o.parallelism != nil {
		cfg.Engine.Parallelism = *o.parallelism
	}
	if o.gridWidth != nil {
		cfg.Yard.GridWidth = *o.gridWidth
	}
	if o.gridHeight != nil {
		cfg.Yard.GridHeight = *o.gridHeight
	}
	if o.eventCapacity != nil {
		cfg.Events.Capacity = *o.eventCapacity
	}
	if o.eventTail != nil {
		cfg.Events.Tail = *o.eventTail
	}
	if o.logLevel != nil {
		cfg.Log.Level = *o.logLevel
	}
	cfg.Warnings = append(cfg.Warnings, o.warnings...)
}

// parseRaw converts the raw TOML map into an overlay and collects warnings.
func parseRaw(raw map[string]any) *overlay {
	o := &overlay{}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			o.warn("unknown key: %s", section)
			continue
		}
		for k, v := range m {
			o.parseKey(section, k, v)
		}
	}

	sort.Strings(o.warnings)
	return o
}

func (o *overlay) parseKey(section, key string, v any) {
	switch section + "." + key {
	case "engine.strategy":
		o.strategy = o.str(section, key, v)
	case "engine.subtask_delay":
		o.subTaskDelay = o.duration(section, key, v)
	case "engine.parallelism":
		o.parallelism = o.integer(section, key, v)
	case "yard.grid_width":
		o.gridWidth = o.integer(section, key, v)
	case "yard.grid_height":
		o.gridHeight = o.integer(section, key, v)
	case "events.capacity":
		o.eventCapacity = o.integer(section, key, v)
	case "events.tail":
		o.eventTail = o.integer(section, key, v)
	case "log.level":
		o.logLevel = o.str(section, key, v)
	default:
		switch section {
		case "engine", "yard", "events", "log":
			o.warn("unknown key in [%s]: %s", section, key)
		default:
			o.warn("unknown section: %s", section)
		}
	}
}

func (o *overlay) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	for _, w := range o.warnings {
		if w == msg {
			return
		}
	}
	o.warnings = append(o.warnings, msg)
}

func (o *overlay) str(section, key string, v any) *string {
	s, ok := v.(string)
	if !ok {
		o.warn("[%s] %s: expected a string, got %T", section, key, v)
		return nil
	}
	return &s
}

func (o *overlay) integer(section, key string, v any) *int {
	n, ok := v.(int64)
	if !ok {
		o.warn("[%s] %s: expected an integer, got %T", section, key, v)
		return nil
	}
	i := int(n)
	return &i
}

// duration accepts a Go duration string ("250ms") or an integer of milliseconds.
func (o *overlay) duration(section, key string, v any) *time.Duration {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			o.warn("[%s] %s: %v", section, key, err)
			return nil
		}
		return &parsed
	case int64:
		parsed := time.Duration(d) * time.Millisecond
		return &parsed
	default:
		o.warn("[%s] %s: expected a duration, got %T", section, key, v)
		return nil
	}
}
