/*
Package maze generates hierarchical campaign mazes.

A rectangle is recursively split with a binary space partition, every leaf
region receives its own perfect maze, and the regions are stitched together
by one corridor per internal partition node, so the whole maze is connected
by construction. Generation is driven by a single seeded LCG and is fully
reproducible from (level, seed).

After generation the maze answers per-frame queries from a host loop:
discovery updates from the player position, circle-vs-wall collision, the
win condition, camera focus data and the cells visible in a viewport.
*/
package maze

import (
	"errors"
	"math"
)

const (
	baseGridSize = 30
	gridGrowth   = 1.5
)

var (
	ErrInvalidLevel = errors.New("level must be at least 1")
)

// GridSize returns the edge length, in cells, of the square grid used at
// level.
func GridSize(level int) int {
	return int(math.Floor(baseGridSize * math.Pow(gridGrowth, float64(level-1))))
}

// SplitCount returns the number of partition generations used at level.
func SplitCount(level int) int {
	return level + 1
}

// CampaignMaze is a generated maze instance for one (level, seed) pair.
type CampaignMaze struct {
	*layout
	level int
	seed  int64
	tree  *BSPTree
}

// New generates the maze for level and seed. Identical arguments always
// produce identical mazes.
func New(level int, seed int64) (*CampaignMaze, error) {
	if level < 1 {
		return nil, ErrInvalidLevel
	}

	size := GridSize(level)
	rng := NewRandom(seed)
	grid := NewGrid(size, size)

	tree := Partition(Rect{X: 0, Y: 0, Width: size, Height: size}, SplitCount(level), MinRegionSize, rng)
	colors := shuffledPalette(rng)
	regions, leaves := buildRegions(tree, tree.Leaves(tree.Root()), colors)

	for _, r := range regions {
		carve(grid, r, rng)
	}

	regionOf := make(map[int]*Region, len(leaves))
	for i, leaf := range leaves {
		regionOf[leaf] = regions[i]
	}
	rt := &router{
		grid:     grid,
		tree:     tree,
		rng:      rng,
		regionOf: regionOf,
	}
	corridors := rt.route()

	m := &CampaignMaze{
		layout: &layout{
			grid:      grid,
			regions:   regions,
			corridors: corridors,
		},
		level: level,
		seed:  seed,
		tree:  tree,
	}
	m.placeStartAndExit()
	m.finish()

	if err := m.verify(); err != nil {
		return nil, err
	}
	return m, nil
}

// placeStartAndExit puts the start in the top-left cell of region 0 and the
// exit in the bottom-right cell of the region reaching furthest towards the
// bottom-right corner.
func (m *CampaignMaze) placeStartAndExit() {
	start := m.regions[0]
	exit := m.regions[len(m.regions)-1]
	furthest := 0
	for _, r := range m.regions {
		reach := r.Bounds.X + r.Bounds.Width + r.Bounds.Y + r.Bounds.Height
		if reach > furthest && r != start {
			furthest = reach
			exit = r
		}
	}

	m.startRegion = start.ID
	m.start = CellPosition{Row: start.Inner.Y, Col: start.Inner.X}
	m.exitRegion = exit.ID
	m.exit = CellPosition{Row: exit.Inner.Bottom(), Col: exit.Inner.Right()}
}

// Level returns the level the maze was generated for.
func (m *CampaignMaze) Level() int {
	return m.level
}

// Seed returns the seed the maze was generated from.
func (m *CampaignMaze) Seed() int64 {
	return m.seed
}

// Tree returns the partition the regions came from.
func (m *CampaignMaze) Tree() *BSPTree {
	return m.tree
}
