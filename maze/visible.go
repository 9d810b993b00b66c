package maze

import (
	"iter"
	"math"
)

// Viewport is the on-screen window in pixels.
type Viewport struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// VisibleCell is what a renderer needs to draw one cell. Cells that are not
// discovered come back redacted: no walls, no colour and no markers.
type VisibleCell struct {
	Walls
	Pos        CellPosition `json:"pos"`
	Color      string       `json:"color"`
	IsStart    bool         `json:"is_start"`
	IsExit     bool         `json:"is_exit"`
	Corridor   bool         `json:"corridor"`
	Discovered bool         `json:"discovered"`
}

// VisibleCells yields every cell overlapping the viewport plus a one cell
// margin, row by row.
func (l *layout) VisibleCells(v Viewport) iter.Seq[VisibleCell] {
	minCol := max(0, int(math.Floor(v.X/CellSize))-1)
	maxCol := min(l.grid.Cols(), int(math.Ceil((v.X+v.Width)/CellSize))+1)
	minRow := max(0, int(math.Floor(v.Y/CellSize))-1)
	maxRow := min(l.grid.Rows(), int(math.Ceil((v.Y+v.Height)/CellSize))+1)

	return func(yield func(VisibleCell) bool) {
		for row := minRow; row < maxRow; row++ {
			for col := minCol; col < maxCol; col++ {
				pos := CellPosition{Row: row, Col: col}
				if !yield(l.visibleCell(pos)) {
					return
				}
			}
		}
	}
}

func (l *layout) visibleCell(pos CellPosition) VisibleCell {
	if !l.IsDiscovered(pos) {
		return VisibleCell{Pos: pos}
	}

	cell := l.grid.cells[pos.Row][pos.Col]
	return VisibleCell{
		Walls:      cell.Walls,
		Pos:        pos,
		Color:      cell.Color,
		IsStart:    cell.IsStart,
		IsExit:     cell.IsExit,
		Corridor:   cell.RegionID == CorridorRegion,
		Discovered: true,
	}
}
