package maze

import (
	"strings"

	"github.com/zyedidia/generic/mapset"
)

type direction struct {
	name string
	dRow int
	dCol int
}

// directions is ordered north, east, south, west. Carving shuffles a copy of
// it, so the order is part of the reproducible stream.
var directions = [4]direction{
	{name: "North", dRow: -1, dCol: 0},
	{name: "East", dRow: 0, dCol: 1},
	{name: "South", dRow: 1, dCol: 0},
	{name: "West", dRow: 0, dCol: -1},
}

// Grid is a rows x cols array of cells, all walls up and unassigned when
// created.
type Grid struct {
	rows  int
	cols  int
	cells [][]*Cell
}

// NewGrid allocates a grid with every wall present.
func NewGrid(rows, cols int) *Grid {
	cells := make([][]*Cell, rows)
	for i := range cells {
		cells[i] = make([]*Cell, cols)
		for j := range cells[i] {
			cells[i][j] = &Cell{
				Walls: Walls{
					NorthWall: true,
					EastWall:  true,
					SouthWall: true,
					WestWall:  true,
				},
				RegionID: Unassigned,
			}
		}
	}

	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// InBound reports whether pos addresses a cell of the grid.
func (g *Grid) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

// At returns the cell at pos, or false when pos is out of bounds.
func (g *Grid) At(pos CellPosition) (*Cell, bool) {
	if !g.InBound(pos) {
		return nil, false
	}
	return g.cells[pos.Row][pos.Col], true
}

// moveBetween builds the move linking two orthogonally adjacent cells.
func (g *Grid) moveBetween(from, to CellPosition) (Move, bool) {
	for _, d := range directions {
		if from.Row+d.dRow == to.Row && from.Col+d.dCol == to.Col {
			return Move{From: from, To: to, Direction: d.name}, true
		}
	}
	return Move{}, false
}

// openWall removes the wall between two adjacent cells on both sides.
// Moves leaving the grid are ignored.
func (g *Grid) openWall(move Move) bool {
	if !g.InBound(move.From) || !g.InBound(move.To) {
		return false
	}

	from := g.cells[move.From.Row][move.From.Col]
	to := g.cells[move.To.Row][move.To.Col]
	switch move.Direction {
	case "North":
		from.NorthWall = false
		to.SouthWall = false
	case "East":
		from.EastWall = false
		to.WestWall = false
	case "South":
		from.SouthWall = false
		to.NorthWall = false
	case "West":
		from.WestWall = false
		to.EastWall = false
	default:
		return false
	}
	return true
}

// link opens the wall between two adjacent positions.
func (g *Grid) link(from, to CellPosition) bool {
	move, ok := g.moveBetween(from, to)
	if !ok {
		return false
	}
	return g.openWall(move)
}

// passable reports whether a step in direction d leaves pos through an open
// wall and stays inside the grid.
func (g *Grid) passable(pos CellPosition, d direction) (CellPosition, bool) {
	next := CellPosition{Row: pos.Row + d.dRow, Col: pos.Col + d.dCol}
	cell, ok := g.At(pos)
	if !ok || !g.InBound(next) {
		return next, false
	}

	switch d.name {
	case "North":
		return next, !cell.NorthWall
	case "East":
		return next, !cell.EastWall
	case "South":
		return next, !cell.SouthWall
	default:
		return next, !cell.WestWall
	}
}

// Reachable floods the grid from start through open walls and returns every
// cell it reaches.
func (g *Grid) Reachable(start CellPosition) mapset.Set[CellPosition] {
	reached := mapset.New[CellPosition]()
	if !g.InBound(start) {
		return reached
	}

	queue := []CellPosition{start}
	reached.Put(start)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range directions {
			next, ok := g.passable(current, d)
			if ok && !reached.Has(next) {
				reached.Put(next)
				queue = append(queue, next)
			}
		}
	}

	return reached
}

// String provides a textual representation of the grid.
func (g *Grid) String() string {
	var output strings.Builder
	if g.rows == 0 || g.cols == 0 {
		return ""
	}

	// Top boundary
	output.WriteString("+")
	for col := 0; col < g.cols; col++ {
		if g.cells[0][col].NorthWall {
			output.WriteString("---+")
		} else {
			output.WriteString("   +")
		}
	}
	output.WriteString("\n")

	for row := 0; row < g.rows; row++ {
		// Cell rows
		if g.cells[row][0].WestWall {
			output.WriteString("|")
		} else {
			output.WriteString(" ")
		}
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row][col]
			switch {
			case cell.IsStart:
				output.WriteString(" S ")
			case cell.IsExit:
				output.WriteString(" E ")
			case cell.RegionID == CorridorRegion:
				output.WriteString(" . ")
			default:
				output.WriteString("   ")
			}

			if cell.EastWall {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < g.cols; col++ {
			if g.cells[row][col].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
