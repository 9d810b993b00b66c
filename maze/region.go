package maze

const (
	// MinRegionSize is the smallest extent a partition child may have.
	MinRegionSize = 8
	// RegionPadding is kept free between a region edge and its maze.
	RegionPadding = 2
	// CorridorWidth is the clearance reserved for corridors.
	CorridorWidth = 1
	// MinInnerSize floors both inner dimensions.
	MinInnerSize = 5
)

// palette holds the region colours. Each maze shuffles its own copy.
var palette = [...]string{
	"#4a90e2", // blue
	"#e24a90", // pink
	"#90e24a", // green
	"#e2904a", // orange
	"#904ae2", // purple
	"#4ae290", // teal
	"#e2e24a", // yellow
	"#4ae2e2", // cyan
	"#e24a4a", // red
	"#4a4ae2", // indigo
	"#e24ae2", // magenta
	"#90904a", // olive
}

// CorridorColor is reported for corridor cells.
const CorridorColor = "#4a90e2"

// Connection records a corridor leading out of a region.
type Connection struct {
	Target   int          // Region on the other end
	Corridor int          // Corridor index
	Point    CellPosition // Midpoint of the corridor
}

// Region is a partition leaf holding an independently carved perfect maze.
type Region struct {
	ID          int
	Bounds      Rect // raw leaf rectangle
	Inner       Rect // carving bounds
	Color       string
	Discovered  bool
	Connections []Connection
}

// innerBounds shrinks a leaf rectangle to leave room for corridors.
func innerBounds(r Rect) Rect {
	inner := Rect{
		X:      r.X + RegionPadding,
		Y:      r.Y + RegionPadding,
		Width:  r.Width - RegionPadding*2 - CorridorWidth,
		Height: r.Height - RegionPadding*2 - CorridorWidth,
	}
	inner.Width = max(inner.Width, MinInnerSize)
	inner.Height = max(inner.Height, MinInnerSize)
	return inner
}

// shuffledPalette returns the palette in a seed dependent order.
func shuffledPalette(rng *Random) []string {
	colors := make([]string, len(palette))
	copy(colors, palette[:])
	rng.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})
	return colors
}

// buildRegions turns partition leaves into regions. Colours follow leaf
// order; the leaf closest to the origin is swapped into id 0 so it can serve
// as the start region.
func buildRegions(t *BSPTree, leaves []int, colors []string) ([]*Region, []int) {
	regions := make([]*Region, len(leaves))
	for i, leaf := range leaves {
		bounds := t.Bounds(leaf)
		regions[i] = &Region{
			Bounds: bounds,
			Inner:  innerBounds(bounds),
			Color:  colors[i%len(colors)],
		}
	}

	start := 0
	for i, r := range regions {
		if r.Bounds.X+r.Bounds.Y < regions[start].Bounds.X+regions[start].Bounds.Y {
			start = i
		}
	}

	order := make([]int, len(leaves))
	copy(order, leaves)
	regions[0], regions[start] = regions[start], regions[0]
	order[0], order[start] = order[start], order[0]
	for i, r := range regions {
		r.ID = i
	}

	return regions, order
}
