package maze

// Path returns the shortest walk through open walls from one cell to
// another, both included, or nil when to cannot be reached.
func (l *layout) Path(from, to CellPosition) []CellPosition {
	if !l.grid.InBound(from) || !l.grid.InBound(to) {
		return nil
	}

	parent := map[CellPosition]CellPosition{from: from}
	queue := []CellPosition{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			break
		}

		for _, d := range directions {
			next, ok := l.grid.passable(current, d)
			if _, seen := parent[next]; ok && !seen {
				parent[next] = current
				queue = append(queue, next)
			}
		}
	}

	if _, ok := parent[to]; !ok {
		return nil
	}
	path := []CellPosition{to}
	for path[len(path)-1] != from {
		path = append(path, parent[path[len(path)-1]])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// CellCenter returns the pixel center of pos.
func CellCenter(pos CellPosition) Point {
	return Point{
		X: float64(pos.Col)*CellSize + CellSize/2,
		Y: float64(pos.Row)*CellSize + CellSize/2,
	}
}
