package maze

import "math"

// CorridorShape describes how a corridor was routed.
type CorridorShape int

const (
	// ShapeStraight runs along the preferred axis through the overlap of
	// both inner bounds.
	ShapeStraight CorridorShape = iota
	// ShapeTransverse runs straight along the other axis because the inner
	// bounds do not overlap on the preferred one.
	ShapeTransverse
	// ShapeElbow turns once, either because the inner bounds overlap on
	// neither axis or because both straight candidates were blocked.
	ShapeElbow
)

// String implements fmt.Stringer.
func (s CorridorShape) String() string {
	switch s {
	case ShapeStraight:
		return "straight"
	case ShapeTransverse:
		return "transverse"
	case ShapeElbow:
		return "elbow"
	default:
		return "unknown"
	}
}

// Corridor is a carved path joining two regions.
type Corridor struct {
	ID         int
	Cells      []CellPosition // cells claimed by this corridor, in walking order
	Connects   [2]int         // region ids on both ends
	Midpoint   CellPosition
	Shape      CorridorShape
	Discovered bool
}

// ConnectsRegion reports whether id is one of the corridor's ends.
func (c *Corridor) ConnectsRegion(id int) bool {
	return c.Connects[0] == id || c.Connects[1] == id
}

// router joins the regions of a partition pairwise along the tree.
type router struct {
	grid      *Grid
	tree      *BSPTree
	rng       *Random
	regionOf  map[int]*Region // leaf node index to region
	corridors []*Corridor
}

// route visits the internal nodes in post-order and connects the closest
// pair of leaves across each node's two subtrees.
func (rt *router) route() []*Corridor {
	for _, n := range rt.tree.PostOrder() {
		left, right := rt.tree.Children(n)
		a, b := rt.closestPair(rt.tree.Leaves(left), rt.tree.Leaves(right))
		rt.connect(a, b)
	}
	return rt.corridors
}

// closestPair picks the first leaf pair with the smallest Manhattan distance
// between rectangle centers.
func (rt *router) closestPair(leavesA, leavesB []int) (*Region, *Region) {
	var bestA, bestB *Region
	best := math.Inf(1)
	for _, la := range leavesA {
		for _, lb := range leavesB {
			a, b := rt.regionOf[la], rt.regionOf[lb]
			if d := centerDistance(a.Bounds, b.Bounds); d < best {
				best = d
				bestA, bestB = a, b
			}
		}
	}
	return bestA, bestB
}

func centerDistance(a, b Rect) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Abs(ax-bx) + math.Abs(ay-by)
}

// connect carves one corridor between a and b. Candidates are tried in
// order: straight on the preferred axis, straight on the other axis, then an
// elbow turning horizontal-first and one turning vertical-first. A candidate
// is only carved when every cell between its two ends is unassigned, so no
// third region or earlier corridor gains a link. When none qualifies the
// pair stays unconnected and the maze fails verification. Rejected
// candidates still consume their draws.
func (rt *router) connect(a, b *Region) {
	ax, ay := a.Bounds.Center()
	bx, by := b.Bounds.Center()
	horizontal := math.Abs(ax-bx) > math.Abs(ay-by)

	if waypoints, ok := rt.straight(a, b, horizontal); ok && rt.clear(a, b, waypoints) {
		rt.addCorridor(a, b, waypoints, ShapeStraight)
		return
	}
	if waypoints, ok := rt.straight(a, b, !horizontal); ok && rt.clear(a, b, waypoints) {
		rt.addCorridor(a, b, waypoints, ShapeTransverse)
		return
	}
	if waypoints := rt.elbow(a, b); rt.clear(a, b, waypoints) {
		rt.addCorridor(a, b, waypoints, ShapeElbow)
		return
	}
	if waypoints := rt.elbowVertical(a, b); rt.clear(a, b, waypoints) {
		rt.addCorridor(a, b, waypoints, ShapeElbow)
	}
}

// clear reports whether the path through waypoints stays in the grid,
// starts and ends inside a or b and crosses only unassigned cells between.
func (rt *router) clear(a, b *Region, waypoints []CellPosition) bool {
	ends := func(pos CellPosition) bool {
		cell, ok := rt.grid.At(pos)
		return ok && (cell.RegionID == a.ID || cell.RegionID == b.ID)
	}

	current, last := waypoints[0], waypoints[len(waypoints)-1]
	if !ends(current) || !ends(last) {
		return false
	}
	for _, target := range waypoints[1:] {
		for current != target {
			current = stepToward(current, target)
			if current == last {
				break
			}
			if cell, ok := rt.grid.At(current); !ok || cell.RegionID != Unassigned {
				return false
			}
		}
	}
	return true
}

// addCorridor carves the path through waypoints and records it as a
// corridor between a and b.
func (rt *router) addCorridor(a, b *Region, waypoints []CellPosition, shape CorridorShape) *Corridor {
	corridor := &Corridor{
		ID:       len(rt.corridors),
		Connects: [2]int{a.ID, b.ID},
		Shape:    shape,
	}
	corridor.Cells = rt.carvePath(waypoints)
	corridor.Midpoint = waypoints[len(waypoints)-1]
	if len(corridor.Cells) > 0 {
		corridor.Midpoint = corridor.Cells[len(corridor.Cells)/2]
	}

	a.Connections = append(a.Connections, Connection{Target: b.ID, Corridor: corridor.ID, Point: corridor.Midpoint})
	b.Connections = append(b.Connections, Connection{Target: a.ID, Corridor: corridor.ID, Point: corridor.Midpoint})
	rt.corridors = append(rt.corridors, corridor)
	return corridor
}

// pickWithin draws a position in [start, end). The last slot is only chosen
// when it is the only one.
func (rt *router) pickWithin(start, end int) int {
	return start + rt.rng.Intn(end-start-1)
}

// straight returns the two boundary cells of a straight corridor, or false
// when the inner bounds share no row (horizontal) or column (vertical).
func (rt *router) straight(a, b *Region, horizontal bool) ([]CellPosition, bool) {
	if horizontal {
		left, right := a.Inner, b.Inner
		if right.X < left.X {
			left, right = right, left
		}
		start := max(left.Y, right.Y)
		end := min(left.Y+left.Height, right.Y+right.Height)
		if end <= start {
			return nil, false
		}
		row := rt.pickWithin(start, end)
		return []CellPosition{
			{Row: row, Col: left.Right()},
			{Row: row, Col: right.X},
		}, true
	}

	top, bottom := a.Inner, b.Inner
	if bottom.Y < top.Y {
		top, bottom = bottom, top
	}
	start := max(top.X, bottom.X)
	end := min(top.X+top.Width, bottom.X+bottom.Width)
	if end <= start {
		return nil, false
	}
	col := rt.pickWithin(start, end)
	return []CellPosition{
		{Row: top.Bottom(), Col: col},
		{Row: bottom.Y, Col: col},
	}, true
}

// elbow leaves the left region eastwards on one of its rows, runs to one of
// the right region's columns and turns into it.
func (rt *router) elbow(a, b *Region) []CellPosition {
	left, right := a.Inner, b.Inner
	if right.X < left.X {
		left, right = right, left
	}

	row := rt.pickWithin(left.Y, left.Y+left.Height)
	col := rt.pickWithin(right.X, right.X+right.Width)
	entry := right.Bottom()
	if right.Y > row {
		entry = right.Y
	}

	return []CellPosition{
		{Row: row, Col: left.Right()},
		{Row: row, Col: col},
		{Row: entry, Col: col},
	}
}

// elbowVertical leaves the left region vertically on one of its columns,
// runs to one of the right region's rows and turns east into it.
func (rt *router) elbowVertical(a, b *Region) []CellPosition {
	left, right := a.Inner, b.Inner
	if right.X < left.X {
		left, right = right, left
	}

	col := rt.pickWithin(left.X, left.X+left.Width)
	row := rt.pickWithin(right.Y, right.Y+right.Height)
	exit := left.Y
	if row > left.Y {
		exit = left.Bottom()
	}

	return []CellPosition{
		{Row: exit, Col: col},
		{Row: row, Col: col},
		{Row: row, Col: right.X},
	}
}

// carvePath walks the waypoints one cell at a time, opening every wall it
// crosses. Unassigned cells along the way become corridor cells and are
// returned; cells already owned by a region or corridor are passed through.
func (rt *router) carvePath(waypoints []CellPosition) []CellPosition {
	var claimed []CellPosition
	current := waypoints[0]
	for _, target := range waypoints[1:] {
		for current != target {
			next := stepToward(current, target)
			if !rt.grid.link(current, next) {
				return claimed
			}
			current = next

			cell := rt.grid.cells[current.Row][current.Col]
			if cell.RegionID == Unassigned {
				cell.RegionID = CorridorRegion
				cell.Color = CorridorColor
				claimed = append(claimed, current)
			}
		}
	}
	return claimed
}

// stepToward moves one cell from current towards target, columns first.
func stepToward(current, target CellPosition) CellPosition {
	switch {
	case target.Col > current.Col:
		current.Col++
	case target.Col < current.Col:
		current.Col--
	case target.Row > current.Row:
		current.Row++
	case target.Row < current.Row:
		current.Row--
	}
	return current
}
