package domain

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed workflow.md
var workflowTmpl string

// HelpData holds data for rendering the workflow help.
type HelpData struct {
	Strategies []string
	Config     *Config
}

// RenderWorkflowHelp renders the dispatch workflow guide.
func RenderWorkflowHelp(data HelpData) (string, error) {
	tmpl, err := template.New("help").Parse(workflowTmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
