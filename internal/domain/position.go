package domain

import (
	"fmt"
	"math"
)

// Position is a cell on the yard grid.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// String returns the position as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// DistanceTo returns the Euclidean distance to another position.
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Grid is the rectangular yard area equipment can be parked on.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the position lies inside the grid.
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}
