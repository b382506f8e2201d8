package domain

import (
	"cmp"
	"slices"
)

// DefaultGrid is the yard size used when none is configured.
var DefaultGrid = Grid{Width: 15, Height: 15}

// ParkingSlot returns the free grid cell nearest to from.
// Ties are broken by row, then column, so the choice is deterministic.
// A cell is free when it is inside the grid and not in occupied.
func ParkingSlot(grid Grid, from Position, occupied map[Position]bool) (Position, bool) {
	cells := make([]Position, 0, grid.Width*grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := Position{X: x, Y: y}
			if !occupied[p] {
				cells = append(cells, p)
			}
		}
	}
	if len(cells) == 0 {
		return Position{}, false
	}
	slices.SortStableFunc(cells, func(a, b Position) int {
		return cmp.Compare(squaredDistance(a, from), squaredDistance(b, from))
	})
	return cells[0], true
}

func squaredDistance(a, b Position) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
