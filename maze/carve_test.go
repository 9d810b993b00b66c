package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// openLinks counts open walls between horizontally or vertically adjacent
// cells that both lie inside r.
func openLinks(g *Grid, r Rect) int {
	links := 0
	for row := r.Y; row <= r.Bottom(); row++ {
		for col := r.X; col <= r.Right(); col++ {
			cell := g.cells[row][col]
			if col < r.Right() && !cell.EastWall {
				links++
			}
			if row < r.Bottom() && !cell.SouthWall {
				links++
			}
		}
	}
	return links
}

func TestCarve(t *testing.T) {
	newRegion := func() (*Grid, *Region) {
		g := NewGrid(12, 12)
		r := &Region{ID: 3, Inner: Rect{X: 2, Y: 2, Width: 6, Height: 5}, Color: "#e24a4a"}
		carve(g, r, NewRandom(12345))
		return g, r
	}

	t.Run("Claims the inner bounds", func(t *testing.T) {
		g, r := newRegion()
		for row := 0; row < g.Rows(); row++ {
			for col := 0; col < g.Cols(); col++ {
				pos := CellPosition{Row: row, Col: col}
				cell, _ := g.At(pos)
				if r.Inner.Contains(pos) {
					assert.Equal(t, 3, cell.RegionID)
					assert.Equal(t, "#e24a4a", cell.Color)
				} else {
					assert.Equal(t, Unassigned, cell.RegionID)
					assert.Equal(t, Walls{NorthWall: true, EastWall: true, SouthWall: true, WestWall: true}, cell.Walls)
				}
			}
		}
	})

	t.Run("Produces a perfect maze", func(t *testing.T) {
		g, r := newRegion()
		cells := r.Inner.Width * r.Inner.Height

		assert.Equal(t, cells-1, openLinks(g, r.Inner))
		assert.Equal(t, cells, g.Reachable(CellPosition{Row: 2, Col: 2}).Size())
	})

	t.Run("Same stream carves the same maze", func(t *testing.T) {
		a, _ := newRegion()
		b, _ := newRegion()
		assert.Equal(t, a.String(), b.String())
	})

	t.Run("Clipped to the grid", func(t *testing.T) {
		g := NewGrid(6, 6)
		r := &Region{ID: 0, Inner: Rect{X: 3, Y: 3, Width: 5, Height: 5}}
		assert.NotPanics(t, func() { carve(g, r, NewRandom(1)) })
		assert.Equal(t, 9, g.Reachable(CellPosition{Row: 3, Col: 3}).Size())
	})
}
