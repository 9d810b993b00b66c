package maze

// Region id markers stored on cells.
const (
	Unassigned     = -1 // cell belongs to no region and no corridor
	CorridorRegion = -2 // cell was claimed by a corridor
)

// Walls holds the four wall flags of a cell. North is the top edge, east the
// right edge, south the bottom edge and west the left edge.
type Walls struct {
	NorthWall bool `json:"north"` // NorthWall indicates whether there is a wall on the north side of the cell.
	EastWall  bool `json:"east"`  // EastWall indicates whether there is a wall on the east side of the cell.
	SouthWall bool `json:"south"` // SouthWall indicates whether there is a wall on the south side of the cell.
	WestWall  bool `json:"west"`  // WestWall indicates whether there is a wall on the west side of the cell.
}

// Cell represents a single cell in a maze grid.
type Cell struct {
	Walls
	RegionID int    // Region index, Unassigned or CorridorRegion.
	IsStart  bool   // IsStart marks the player start cell.
	IsExit   bool   // IsExit marks the exit cell.
	Color    string // Color of the owning region, empty when unassigned.

	visited bool // carving scratch flag
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int `json:"row"` // Row index of the cell
	Col int `json:"col"` // Column index of the cell
}

// Point is a continuous position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Move represents a step from one cell to an adjacent one.
type Move struct {
	From      CellPosition // Starting cell
	To        CellPosition // Destination cell
	Direction string       // Direction of the move (North, East, South, West)
}

// Rect is an axis aligned rectangle measured in cells. X is a column and Y a
// row.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the last column covered by r.
func (r Rect) Right() int {
	return r.X + r.Width - 1
}

// Bottom returns the last row covered by r.
func (r Rect) Bottom() int {
	return r.Y + r.Height - 1
}

// Center returns the geometric center of r in cell units.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// Contains reports whether pos lies inside r.
func (r Rect) Contains(pos CellPosition) bool {
	return pos.Col >= r.X && pos.Col < r.X+r.Width && pos.Row >= r.Y && pos.Row < r.Y+r.Height
}
