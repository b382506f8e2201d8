// Package layout reads yard layouts from YAML.
package layout

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoLayout []byte

// Ensure Loader implements domain.LayoutLoader.
var _ domain.LayoutLoader = (*Loader)(nil)

// Layout is the YAML document describing a yard.
type Layout struct {
	Products   []Product   `yaml:"products"`
	Warehouses []Warehouse `yaml:"warehouses"`
	Cranes     []Crane     `yaml:"cranes"`
	Frames     []Frame     `yaml:"frames"`
	Trucks     []Truck     `yaml:"trucks"`
	Plans      []Plan      `yaml:"plans"`
}

// Product is a product entry.
type Product struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Volume float64 `yaml:"volume"`
}

// Warehouse is a warehouse entry with its opening stock.
// Fields are ordered to minimize memory padding.
type Warehouse struct {
	Stock    map[string]int  `yaml:"stock"`
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Kind     string          `yaml:"kind"`
	Position domain.Position `yaml:"position"`
	Capacity int             `yaml:"capacity"`
}

// Crane is a crane entry.
type Crane struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Warehouse    string          `yaml:"warehouse"`
	Position     domain.Position `yaml:"position"`
	LoadCapacity float64         `yaml:"load_capacity"`
}

// Frame is a frame entry.
type Frame struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Position domain.Position `yaml:"position"`
	Capacity float64         `yaml:"capacity"`
}

// Truck is a frame truck entry.
type Truck struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Position domain.Position `yaml:"position"`
	Speed    float64         `yaml:"speed"`
}

// Plan is a ship plan entry. The deadline is either absolute (RFC 3339)
// or relative to load time through due_in.
type Plan struct {
	Products map[string]int `yaml:"products"`
	ID       string         `yaml:"id"`
	Deadline string         `yaml:"deadline"`
	DueIn    string         `yaml:"due_in"`
	Priority int            `yaml:"priority"`
}

// Parse decodes a layout document. Unknown fields are rejected.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &l, nil
}

// Demo returns the built-in demo layout.
func Demo() *Layout {
	l, err := Parse(demoLayout)
	if err != nil {
		// Should never happen with embedded layout
		panic(fmt.Sprintf("failed to parse demo layout: %v", err))
	}
	return l
}

// Snapshot converts the layout into registry records.
// Relative plan deadlines are resolved against now.
func (l *Layout) Snapshot(grid domain.Grid, now time.Time) (*domain.Snapshot, error) {
	s := domain.NewSnapshot(grid)

	for _, p := range l.Products {
		s.Products = append(s.Products, &domain.Product{ID: p.ID, Name: p.Name, Weight: p.Weight, Volume: p.Volume})
	}
	for _, w := range l.Warehouses {
		kind := domain.WarehouseKind(w.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("warehouse %s: unknown kind %q", w.ID, w.Kind)
		}
		wh := domain.NewWarehouse(w.ID, w.Name, kind, w.Position, w.Capacity)
		for id, qty := range w.Stock {
			wh.Products[id] = qty
		}
		s.Warehouses = append(s.Warehouses, wh)
	}
	for _, c := range l.Cranes {
		crane := domain.NewCrane(c.ID, c.Name, c.Position, c.Warehouse)
		if c.LoadCapacity > 0 {
			crane.LoadCapacity = c.LoadCapacity
		}
		s.Cranes = append(s.Cranes, crane)
	}
	for _, f := range l.Frames {
		frame := domain.NewFrame(f.ID, f.Name, f.Position)
		if f.Capacity > 0 {
			frame.Capacity = f.Capacity
		}
		s.Frames = append(s.Frames, frame)
	}
	for _, t := range l.Trucks {
		truck := domain.NewFrameTruck(t.ID, t.Name, t.Position)
		if t.Speed > 0 {
			truck.Speed = t.Speed
		}
		s.Trucks = append(s.Trucks, truck)
	}
	for _, p := range l.Plans {
		deadline, err := p.deadline(now)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", p.ID, err)
		}
		s.Plans = append(s.Plans, &domain.ShipPlan{
			ID:       p.ID,
			Products: p.Products,
			Deadline: deadline,
			Priority: p.Priority,
		})
	}
	return s, nil
}

func (p Plan) deadline(now time.Time) (time.Time, error) {
	switch {
	case p.Deadline != "" && p.DueIn != "":
		return time.Time{}, fmt.Errorf("set either deadline or due_in, not both")
	case p.Deadline != "":
		return time.Parse(time.RFC3339, p.Deadline)
	case p.DueIn != "":
		d, err := time.ParseDuration(p.DueIn)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(d), nil
	default:
		return time.Time{}, nil
	}
}

// Loader reads layouts from files, or the demo layout when no path is given.
type Loader struct {
	now func() time.Time
}

// NewLoader creates a Loader using the system clock.
func NewLoader() *Loader {
	return &Loader{now: time.Now}
}

// Load reads the layout at path and converts it into a snapshot.
// An empty path selects the demo layout.
func (ld *Loader) Load(path string, grid domain.Grid) (*domain.Snapshot, error) {
	l := Demo()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read layout: %w", err)
		}
		if l, err = Parse(data); err != nil {
			return nil, err
		}
	}
	return l.Snapshot(grid, ld.now())
}
