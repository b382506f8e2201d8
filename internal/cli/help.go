package cli

import (
	"fmt"
	"io"

	"github.com/runoshun/yard-dispatch/internal/app"
	"github.com/runoshun/yard-dispatch/internal/domain"
)

func buildHelpData(c *app.Container) domain.HelpData {
	cfg := domain.NewDefaultConfig()
	if c != nil && c.AppConfig != nil {
		cfg = c.AppConfig
	}
	return domain.HelpData{
		Strategies: domain.AllStrategies(),
		Config:     cfg,
	}
}

func showWorkflowHelp(w io.Writer, c *app.Container) error {
	help, err := domain.RenderWorkflowHelp(buildHelpData(c))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, help)
	return err
}
