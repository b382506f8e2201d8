package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Config *domain.Config // Values written into the template
	Global bool           // If true, initialize global config; otherwise the yard-local config
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path     string      // Path to the created config file
	Strategy string      // Selection strategy written to the file
	Grid     domain.Grid // Yard grid written to the file
}

// InitConfig writes a configuration file template for the yard or the user.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{
		configManager: configManager,
	}
}

// Execute creates a configuration file from the template.
// Invalid values are refused before any file is touched.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	if in.Config == nil {
		in.Config = domain.NewDefaultConfig()
	}
	if err := in.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigInvalid, err)
	}

	var err error
	var path string

	if in.Global {
		path = uc.configManager.GetGlobalConfigInfo().Path
		err = uc.configManager.InitGlobalConfig(in.Config)
	} else {
		path = uc.configManager.GetLocalConfigInfo().Path
		err = uc.configManager.InitLocalConfig(in.Config)
	}

	if err != nil {
		return nil, err
	}

	return &InitConfigOutput{
		Path:     path,
		Strategy: in.Config.Engine.Strategy,
		Grid:     in.Config.Yard.Grid(),
	}, nil
}
