package maze

import (
	"fmt"
	"math"
)

// CellSize is the pixel edge of one cell.
const CellSize = 20

// ConnectivityWarning reports regions that cannot be reached from the start
// cell. Generation refuses such a maze instead of handing it out.
type ConnectivityWarning struct {
	Unreached []int // region ids
}

// Error implements error.
func (w *ConnectivityWarning) Error() string {
	return fmt.Sprintf("maze is disconnected: regions %v unreachable from start", w.Unreached)
}

// layout is the finished, walkable part of a maze shared by generated and
// hand-built mazes: the grid, the regions and corridors, the start and exit
// cells and the discovery state driven by the player position.
type layout struct {
	grid        *Grid
	regions     []*Region
	corridors   []*Corridor
	corridorAt  map[CellPosition]int
	start       CellPosition
	exit        CellPosition
	startRegion int
	exitRegion  int

	currentRegion   int
	currentCorridor int
}

// finish indexes corridor cells, marks start and exit and discovers the
// start region.
func (l *layout) finish() {
	l.corridorAt = make(map[CellPosition]int)
	for _, c := range l.corridors {
		for _, pos := range c.Cells {
			if _, taken := l.corridorAt[pos]; !taken {
				l.corridorAt[pos] = c.ID
			}
		}
	}

	if cell, ok := l.grid.At(l.start); ok {
		cell.IsStart = true
	}
	if cell, ok := l.grid.At(l.exit); ok {
		cell.IsExit = true
	}

	l.regions[l.startRegion].Discovered = true
	l.currentRegion = l.startRegion
	l.currentCorridor = -1
}

// verify checks that every region can be walked to from the start cell.
func (l *layout) verify() error {
	reached := l.grid.Reachable(l.start)

	var unreached []int
	for _, r := range l.regions {
		if !reached.Has(CellPosition{Row: r.Inner.Y, Col: r.Inner.X}) {
			unreached = append(unreached, r.ID)
		}
	}
	if len(unreached) > 0 {
		return &ConnectivityWarning{Unreached: unreached}
	}
	return nil
}

// cellAtPixel converts a continuous position to the cell it lies in.
func cellAtPixel(x, y float64) CellPosition {
	return CellPosition{
		Row: int(math.Floor(y / CellSize)),
		Col: int(math.Floor(x / CellSize)),
	}
}

// Grid exposes the generated grid. It must be treated as read-only.
func (l *layout) Grid() *Grid {
	return l.grid
}

// Size returns the grid dimensions.
func (l *layout) Size() (int, int) {
	return l.grid.Rows(), l.grid.Cols()
}

// CellAt returns a copy of the cell at pos.
func (l *layout) CellAt(pos CellPosition) (Cell, bool) {
	cell, ok := l.grid.At(pos)
	if !ok {
		return Cell{}, false
	}
	return *cell, true
}

// Regions returns the regions indexed by id.
func (l *layout) Regions() []*Region {
	return l.regions
}

// Corridors returns the corridors in creation order.
func (l *layout) Corridors() []*Corridor {
	return l.corridors
}

// StartCell returns the start cell.
func (l *layout) StartCell() CellPosition {
	return l.start
}

// ExitCell returns the exit cell.
func (l *layout) ExitCell() CellPosition {
	return l.exit
}

// ExitRegion returns the id of the region holding the exit.
func (l *layout) ExitRegion() int {
	return l.exitRegion
}

// StartPosition returns the pixel center of the start cell.
func (l *layout) StartPosition() Point {
	return CellCenter(l.start)
}
