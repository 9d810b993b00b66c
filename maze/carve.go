package maze

// carve claims the inner bounds of region for it and fills them with a
// perfect maze using an iterative recursive backtracker. The walk never
// leaves the region, even where another region touches it.
func carve(g *Grid, region *Region, rng *Random) {
	bounds := region.Inner
	for row := bounds.Y; row <= bounds.Bottom(); row++ {
		for col := bounds.X; col <= bounds.Right(); col++ {
			cell, ok := g.At(CellPosition{Row: row, Col: col})
			if !ok {
				continue
			}
			cell.RegionID = region.ID
			cell.Color = region.Color
			cell.visited = false
		}
	}

	start := CellPosition{Row: bounds.Y, Col: bounds.X}
	if !g.InBound(start) {
		return
	}

	inRegion := func(pos CellPosition) bool {
		return bounds.Contains(pos) && g.InBound(pos)
	}

	stack := []CellPosition{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		g.cells[current.Row][current.Col].visited = true

		dirs := directions
		rng.Shuffle(len(dirs), func(i, j int) {
			dirs[i], dirs[j] = dirs[j], dirs[i]
		})

		found := false
		for _, d := range dirs {
			next := CellPosition{Row: current.Row + d.dRow, Col: current.Col + d.dCol}
			if !inRegion(next) || g.cells[next.Row][next.Col].visited {
				continue
			}
			g.openWall(Move{From: current, To: next, Direction: d.name})
			stack = append(stack, next)
			found = true
			break
		}

		if !found {
			stack = stack[:len(stack)-1]
		}
	}
}
