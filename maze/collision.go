package maze

import "math"

const (
	// PlayerRadius is the collision radius of the player circle.
	PlayerRadius = 6
	// MinRadius is the smallest radius Walk accepts.
	MinRadius = 1
	// MaxStep bounds each axis of a single Walk, in pixels.
	MaxStep = CellSize
)

// CanMove reports whether a circle of the given radius centered at (x, y)
// may move by (dx, dy). The move is rejected when the circle would leave the
// grid or touch any present wall of a cell it could overlap. A negative
// radius or a NaN or infinite argument never moves. Only the destination is
// tested; see Walk for moves longer than the radius.
func (l *layout) CanMove(x, y, dx, dy, radius float64) bool {
	if radius < 0 || !finite(x, y, dx, dy, radius) {
		return false
	}

	nx, ny := x+dx, y+dy
	width := float64(l.grid.Cols()) * CellSize
	height := float64(l.grid.Rows()) * CellSize
	if nx-radius < 0 || nx+radius >= width || ny-radius < 0 || ny+radius >= height {
		return false
	}

	topLeft := cellAtPixel(nx-radius, ny-radius)
	bottomRight := cellAtPixel(nx+radius, ny+radius)
	minRow, maxRow := max(0, topLeft.Row), min(l.grid.Rows()-1, bottomRight.Row)
	minCol, maxCol := max(0, topLeft.Col), min(l.grid.Cols()-1, bottomRight.Col)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			cell := l.grid.cells[row][col]
			left := float64(col) * CellSize
			top := float64(row) * CellSize
			right := left + CellSize
			bottom := top + CellSize

			if cell.NorthWall && circleHitsSegment(nx, ny, radius, left, top, right, top) {
				return false
			}
			if cell.SouthWall && circleHitsSegment(nx, ny, radius, left, bottom, right, bottom) {
				return false
			}
			if cell.WestWall && circleHitsSegment(nx, ny, radius, left, top, left, bottom) {
				return false
			}
			if cell.EastWall && circleHitsSegment(nx, ny, radius, right, top, right, bottom) {
				return false
			}
		}
	}

	return true
}

// Slide applies dx and then dy, each only when CanMove allows it, and
// returns the resulting position.
func (l *layout) Slide(x, y, dx, dy, radius float64) Point {
	if dx != 0 && l.CanMove(x, y, dx, 0, radius) {
		x += dx
	}
	if dy != 0 && l.CanMove(x, y, 0, dy, radius) {
		y += dy
	}
	return Point{X: x, Y: y}
}

// Walk moves a circle from (x, y) by (dx, dy) in sub-steps no longer than
// its radius, sliding each sub-step like Slide. An axis that hits a wall
// stays where it stopped for the rest of the walk. A walk longer than
// MaxStep on either axis, or with a radius below MinRadius, does not move
// at all.
func (l *layout) Walk(x, y, dx, dy, radius float64) Point {
	origin := Point{X: x, Y: y}
	if radius < MinRadius || !finite(x, y, dx, dy, radius) || math.Abs(dx) > MaxStep || math.Abs(dy) > MaxStep {
		return origin
	}

	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy)) / radius))
	pos := origin
	blockedX, blockedY := false, false
	for i := 1; i <= steps; i++ {
		tx := x + dx*float64(i)/float64(steps)
		ty := y + dy*float64(i)/float64(steps)
		if i == steps {
			tx, ty = x+dx, y+dy
		}

		if !blockedX && tx != pos.X {
			if l.CanMove(pos.X, pos.Y, tx-pos.X, 0, radius) {
				pos.X = tx
			} else {
				blockedX = true
			}
		}
		if !blockedY && ty != pos.Y {
			if l.CanMove(pos.X, pos.Y, 0, ty-pos.Y, radius) {
				pos.Y = ty
			} else {
				blockedY = true
			}
		}
	}
	return pos
}

// CheckWin reports whether (x, y) lies in the exit cell while the exit
// region is discovered.
func (l *layout) CheckWin(x, y float64) bool {
	return cellAtPixel(x, y) == l.exit && l.regions[l.exitRegion].Discovered
}

// circleHitsSegment reports whether the circle touches segment (x1,y1)-(x2,y2),
// measuring the distance to the closest point of the segment.
func circleHitsSegment(cx, cy, radius, x1, y1, x2, y2 float64) bool {
	segX, segY := x2-x1, y2-y1
	lenSq := segX*segX + segY*segY

	t := 0.0
	if lenSq != 0 {
		t = ((cx-x1)*segX + (cy-y1)*segY) / lenSq
		t = max(0, min(1, t))
	}

	dx := cx - (x1 + t*segX)
	dy := cy - (y1 + t*segY)
	return dx*dx+dy*dy <= radius*radius
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
