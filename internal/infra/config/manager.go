package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	yardDir       string // Path to .yard directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/yard)
}

// NewManager creates a new Manager.
func NewManager(yardDir string) *Manager {
	return &Manager{
		yardDir:       yardDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(yardDir, globalConfDir string) *Manager {
	return &Manager{
		yardDir:       yardDir,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about the yard-local config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(domain.LocalConfigPath(m.yardDir))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig creates a yard-local config file from the template.
func (m *Manager) InitLocalConfig(cfg *domain.Config) error {
	if err := os.MkdirAll(m.yardDir, 0o750); err != nil {
		return err
	}
	return m.initConfig(domain.LocalConfigPath(m.yardDir), cfg)
}

// InitGlobalConfig creates a global config file from the template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}

	return m.initConfig(filepath.Join(m.globalConfDir, domain.ConfigFileName), cfg)
}

// initConfig writes the template for cfg to path.
// The rendered file must read back without warnings, so a template that
// drifts from the loader's keys is caught before it reaches disk.
func (m *Manager) initConfig(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigInvalid, err)
	}

	content := domain.RenderConfigTemplate(cfg)
	if err := checkTemplate(content); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), 0o600)
}

// checkTemplate parses rendered content the way the loader does.
func checkTemplate(content string) error {
	var raw map[string]any
	if err := toml.Unmarshal([]byte(content), &raw); err != nil {
		return fmt.Errorf("rendered template: %w", err)
	}
	if ov := parseRaw(raw); len(ov.warnings) > 0 {
		return fmt.Errorf("rendered template: %s", strings.Join(ov.warnings, "; "))
	}
	return nil
}
