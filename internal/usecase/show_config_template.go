package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// ShowConfigTemplateInput contains the input for the ShowConfigTemplate use case.
type ShowConfigTemplateInput struct {
	Config *domain.Config // Values shown in the template
}

// ShowConfigTemplateOutput contains the output of the ShowConfigTemplate use case.
type ShowConfigTemplateOutput struct {
	Template string // Configuration template content
}

// ShowConfigTemplate renders the commented config file for a set of values.
// Values the engine would refuse at startup are not rendered.
type ShowConfigTemplate struct{}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate() *ShowConfigTemplate {
	return &ShowConfigTemplate{}
}

// Execute validates the values and renders the template.
func (uc *ShowConfigTemplate) Execute(_ context.Context, in ShowConfigTemplateInput) (*ShowConfigTemplateOutput, error) {
	if in.Config == nil {
		return nil, domain.ErrConfigNil
	}
	if err := in.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigInvalid, err)
	}
	return &ShowConfigTemplateOutput{Template: domain.RenderConfigTemplate(in.Config)}, nil
}
