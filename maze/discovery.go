package maze

// FocusKind tells whether the camera should frame a region or a corridor.
type FocusKind int

const (
	FocusRegion FocusKind = iota
	FocusCorridor
)

// Focus carries what an external camera needs to frame the player's current
// location. Bounds are in cells, Center and View in pixels.
type Focus struct {
	Kind     FocusKind `json:"kind"`
	Region   int       `json:"region"`   // region id, -1 when framing a corridor
	Corridor int       `json:"corridor"` // corridor id, -1 when framing a region
	Bounds   Rect      `json:"bounds"`
	Center   Point     `json:"center"`
	View     Point     `json:"view"` // width and height of the area worth showing
}

// corridorFocusMargin widens the corridor view by this many cells.
const corridorFocusMargin = 10

// Discovery is a snapshot of the fog state.
type Discovery struct {
	Regions         []int `json:"regions"`          // discovered region ids, ascending
	Corridors       []int `json:"corridors"`        // discovered corridor ids, ascending
	CurrentRegion   int   `json:"current_region"`   // -1 when the player stands in a corridor
	CurrentCorridor int   `json:"current_corridor"` // -1 when the player stands in a region
}

// UpdateDiscovery reveals whatever the player at (x, y) stands in. Entering
// a region also reveals every corridor leading out of it. Discovery never
// reverts.
func (l *layout) UpdateDiscovery(x, y float64) {
	pos := cellAtPixel(x, y)
	cell, ok := l.grid.At(pos)
	if !ok {
		return
	}

	switch {
	case cell.RegionID == CorridorRegion:
		id, ok := l.corridorAt[pos]
		if !ok {
			return
		}
		l.corridors[id].Discovered = true
		l.currentCorridor = id
		l.currentRegion = -1
	case cell.RegionID >= 0 && cell.RegionID < len(l.regions):
		l.regions[cell.RegionID].Discovered = true
		l.currentRegion = cell.RegionID
		l.currentCorridor = -1
		for _, c := range l.corridors {
			if c.ConnectsRegion(cell.RegionID) {
				c.Discovered = true
			}
		}
	}
}

// CameraFocus describes the current region or corridor. Before any update
// it frames the start region.
func (l *layout) CameraFocus() Focus {
	if l.currentCorridor >= 0 && len(l.corridors[l.currentCorridor].Cells) > 0 {
		cells := l.corridors[l.currentCorridor].Cells
		minCol, maxCol := cells[0].Col, cells[0].Col
		minRow, maxRow := cells[0].Row, cells[0].Row
		for _, c := range cells[1:] {
			minCol, maxCol = min(minCol, c.Col), max(maxCol, c.Col)
			minRow, maxRow = min(minRow, c.Row), max(maxRow, c.Row)
		}

		return Focus{
			Kind:     FocusCorridor,
			Region:   -1,
			Corridor: l.currentCorridor,
			Bounds:   Rect{X: minCol, Y: minRow, Width: maxCol - minCol + 1, Height: maxRow - minRow + 1},
			Center: Point{
				X: (float64(minCol+maxCol)/2 + 0.5) * CellSize,
				Y: (float64(minRow+maxRow)/2 + 0.5) * CellSize,
			},
			View: Point{
				X: float64(maxCol-minCol+corridorFocusMargin) * CellSize,
				Y: float64(maxRow-minRow+corridorFocusMargin) * CellSize,
			},
		}
	}

	region := l.startRegion
	if l.currentRegion >= 0 {
		region = l.currentRegion
	}
	inner := l.regions[region].Inner
	cx, cy := inner.Center()
	return Focus{
		Kind:     FocusRegion,
		Region:   region,
		Corridor: -1,
		Bounds:   inner,
		Center:   Point{X: cx * CellSize, Y: cy * CellSize},
		View:     Point{X: float64(inner.Width) * CellSize, Y: float64(inner.Height) * CellSize},
	}
}

// Discovery returns the current fog state.
func (l *layout) Discovery() Discovery {
	d := Discovery{
		Regions:         []int{},
		Corridors:       []int{},
		CurrentRegion:   l.currentRegion,
		CurrentCorridor: l.currentCorridor,
	}
	for _, r := range l.regions {
		if r.Discovered {
			d.Regions = append(d.Regions, r.ID)
		}
	}
	for _, c := range l.corridors {
		if c.Discovered {
			d.Corridors = append(d.Corridors, c.ID)
		}
	}
	return d
}

// RestoreDiscovery reapplies a snapshot taken from a maze with the same
// level and seed. Unknown ids are skipped and nothing already discovered is
// hidden again.
func (l *layout) RestoreDiscovery(d Discovery) {
	for _, id := range d.Regions {
		if id >= 0 && id < len(l.regions) {
			l.regions[id].Discovered = true
		}
	}
	for _, id := range d.Corridors {
		if id >= 0 && id < len(l.corridors) {
			l.corridors[id].Discovered = true
		}
	}

	switch {
	case d.CurrentCorridor >= 0 && d.CurrentCorridor < len(l.corridors):
		l.currentCorridor = d.CurrentCorridor
		l.currentRegion = -1
	case d.CurrentRegion >= 0 && d.CurrentRegion < len(l.regions):
		l.currentRegion = d.CurrentRegion
		l.currentCorridor = -1
	}
}

// IsDiscovered reports whether the cell at pos may be drawn.
func (l *layout) IsDiscovered(pos CellPosition) bool {
	cell, ok := l.grid.At(pos)
	if !ok {
		return false
	}

	switch {
	case cell.RegionID == CorridorRegion:
		id, ok := l.corridorAt[pos]
		return ok && l.corridors[id].Discovered
	case cell.RegionID >= 0 && cell.RegionID < len(l.regions):
		return l.regions[cell.RegionID].Discovered
	default:
		return false
	}
}
