// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	EffectiveConfig *domain.Config    // Merged configuration in effect
	Warnings        []string          // Loader warnings and problems found in single files
	GlobalConfig    domain.ConfigInfo // Global config file info
	LocalConfig     domain.ConfigInfo // Yard-local config file info
}

// ShowConfig displays configuration file information.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		configLoader:  configLoader,
	}
}

// Execute retrieves configuration file information and the effective configuration.
// Each existing file is also checked on its own: a bad global value hidden by
// a local override surfaces as a warning.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	out := &ShowConfigOutput{
		EffectiveConfig: cfg,
		Warnings:        append([]string(nil), cfg.Warnings...),
		GlobalConfig:    uc.configManager.GetGlobalConfigInfo(),
		LocalConfig:     uc.configManager.GetLocalConfigInfo(),
	}

	layers := []struct {
		load func() (*domain.Config, error)
		name string
		info domain.ConfigInfo
	}{
		{uc.configLoader.LoadGlobal, "global", out.GlobalConfig},
		{uc.configLoader.LoadLocal, "local", out.LocalConfig},
	}
	for _, l := range layers {
		if !l.info.Exists {
			continue
		}
		single, err := l.load()
		if err == nil {
			err = single.Validate()
		}
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s config %s: %v", l.name, l.info.Path, err))
		}
	}
	return out, nil
}
