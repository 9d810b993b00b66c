package maze

const (
	fixtureCols     = 40
	fixtureRows     = 70
	fixtureSeed     = 12345
	fixtureCorridor = 5 // row joining both regions
)

// FixtureMaze is a fixed two-region layout: a small start region on the left
// and a very tall region on the right, joined near the top by one corridor,
// with the exit close to the bottom of the tall region. It exercises camera
// framing and discovery on extreme region shapes.
type FixtureMaze struct {
	*layout
}

// NewFixture builds the fixture maze. Its mazes are carved from a fixed
// seed, so every fixture is identical.
func NewFixture() *FixtureMaze {
	rng := NewRandom(fixtureSeed)
	grid := NewGrid(fixtureRows, fixtureCols)

	regions := []*Region{
		{
			ID:     0,
			Bounds: Rect{X: 0, Y: 0, Width: 15, Height: 15},
			Inner:  Rect{X: 2, Y: 2, Width: 10, Height: 10},
			Color:  palette[0],
		},
		{
			ID:     1,
			Bounds: Rect{X: 20, Y: 0, Width: 18, Height: 68},
			Inner:  Rect{X: 22, Y: 2, Width: 14, Height: 63},
			Color:  palette[1],
		},
	}
	for _, r := range regions {
		carve(grid, r, rng)
	}

	left, right := regions[0].Inner, regions[1].Inner
	rt := &router{grid: grid, rng: rng}
	rt.addCorridor(regions[0], regions[1], []CellPosition{
		{Row: fixtureCorridor, Col: left.Right()},
		{Row: fixtureCorridor, Col: right.X},
	}, ShapeStraight)

	m := &FixtureMaze{
		layout: &layout{
			grid:        grid,
			regions:     regions,
			corridors:   rt.corridors,
			start:       CellPosition{Row: left.Y + 1, Col: left.X + 1},
			exit:        CellPosition{Row: right.Bottom() - 1, Col: right.X + right.Width/2},
			startRegion: 0,
			exitRegion:  1,
		},
	}
	m.finish()
	return m
}
