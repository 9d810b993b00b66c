package game

import (
	"iter"

	"github.com/beka-birhanu/vinom-campaign/maze"
)

// Maze defines the methods that a playable maze must implement.
type Maze interface {
	// Size returns the number of rows and columns.
	Size() (int, int)
	// CellAt returns a copy of the cell at pos.
	CellAt(pos maze.CellPosition) (maze.Cell, bool)
	// StartPosition returns the pixel center of the start cell.
	StartPosition() maze.Point
	// ExitCell returns the goal cell.
	ExitCell() maze.CellPosition
	// CanMove reports whether a circle may move by (dx, dy).
	CanMove(x, y, dx, dy, radius float64) bool
	// Slide applies a move one axis at a time.
	Slide(x, y, dx, dy, radius float64) maze.Point
	// Walk slides a bounded move in sub-steps so no wall is skipped.
	Walk(x, y, dx, dy, radius float64) maze.Point
	// Path returns the shortest open walk between two cells.
	Path(from, to maze.CellPosition) []maze.CellPosition
	CheckWin(x, y float64) bool
	UpdateDiscovery(x, y float64)
	CameraFocus() maze.Focus
	VisibleCells(v maze.Viewport) iter.Seq[maze.VisibleCell]
	Discovery() maze.Discovery
	RestoreDiscovery(d maze.Discovery)
}

var (
	_ Maze = (*maze.CampaignMaze)(nil)
	_ Maze = (*maze.FixtureMaze)(nil)
)
