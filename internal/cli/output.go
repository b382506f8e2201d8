package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Outcome colours. color turns them off when stdout is not a terminal.
var (
	colorOK   = color.New(color.FgGreen)
	colorFail = color.New(color.FgRed)
	colorWarn = color.New(color.FgYellow)
)

// printOutcome prints one result line in the given colour.
func printOutcome(w io.Writer, c *color.Color, format string, args ...any) {
	_, _ = fmt.Fprintln(w, c.Sprintf(format, args...))
}

// addFormatFlag registers --format on cmd.
func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "o", formatTable, "Output format: table, json, yaml")
}

// writeStructured writes v as JSON or YAML. It returns false for the table
// format, leaving the caller to print its own layout.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatTable, "":
		return false, nil
	case formatJSON:
		return true, writeJSON(w, v)
	case formatYAML:
		return true, writeYAML(w, v)
	default:
		return false, fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON so field names match the JSON output.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// formatProducts renders a product map as "P001=5 P002=3" in ID order.
func formatProducts(products map[string]int) string {
	if len(products) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(products))
	for _, id := range slices.Sorted(maps.Keys(products)) {
		parts = append(parts, fmt.Sprintf("%s=%d", id, products[id]))
	}
	return strings.Join(parts, " ")
}

// parseProducts parses "P001=5" arguments into a product map.
// Repeated products are summed.
func parseProducts(args []string) (map[string]int, error) {
	products := make(map[string]int, len(args))
	for _, arg := range args {
		id, qty, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid product %q: want PRODUCT=QUANTITY", arg)
		}
		n, err := strconv.Atoi(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", arg, err)
		}
		products[id] += n
	}
	return products, nil
}

// parsePosition parses "x,y".
func parsePosition(s string) (domain.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Position{}, fmt.Errorf("invalid position %q: want X,Y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return domain.Position{X: x, Y: y}, nil
}

// parseRole accepts the role names and their short forms.
func parseRole(s string) (domain.Role, error) {
	switch strings.ToLower(s) {
	case "crane", "cranes":
		return domain.RoleCrane, nil
	case "frame", "frames":
		return domain.RoleFrame, nil
	case "truck", "trucks", "frame_truck", "frame-truck":
		return domain.RoleFrameTruck, nil
	default:
		return "", fmt.Errorf("unknown equipment type %q (want crane, frame or truck)", s)
	}
}

// printEvents prints event log entries, oldest first.
func printEvents(w io.Writer, events []domain.Event) {
	for _, e := range events {
		task := ""
		if e.TaskID != "" {
			task = " [" + e.TaskID + "]"
		}
		_, _ = fmt.Fprintf(w, "%s %-5s%s %s\n", e.Time.Format("15:04:05"), e.Level, task, e.Message)
	}
}
