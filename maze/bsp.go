package maze

// splitAspectRatio forces the split direction once a rectangle is this much
// wider than tall (or taller than wide).
const splitAspectRatio = 1.25

const noChild = -1

type bspNode struct {
	Rect
	left  int
	right int
}

// BSPTree is an array backed binary space partition. Nodes are addressed by
// index and the root is always node 0.
type BSPTree struct {
	nodes []bspNode
}

// Partition splits root numSplits times. Each generation splits every node
// produced so far, leaving a node as a leaf when it is too small to hold two
// children of at least minSize cells along the split axis.
func Partition(root Rect, numSplits, minSize int, rng *Random) *BSPTree {
	t := &BSPTree{
		nodes: []bspNode{{Rect: root, left: noChild, right: noChild}},
	}

	frontier := []int{0}
	for i := 0; i < numSplits; i++ {
		next := make([]int, 0, len(frontier)*2)
		for _, n := range frontier {
			if t.split(n, minSize, rng) {
				next = append(next, t.nodes[n].left, t.nodes[n].right)
			} else {
				next = append(next, n)
			}
		}
		frontier = next
	}

	return t
}

// split divides node n in two. It returns false when n is already split or
// too small.
func (t *BSPTree) split(n, minSize int, rng *Random) bool {
	if !t.IsLeaf(n) {
		return false
	}
	r := t.nodes[n].Rect

	var stacked bool
	switch {
	case float64(r.Width)/float64(r.Height) >= splitAspectRatio:
		stacked = false
	case float64(r.Height)/float64(r.Width) >= splitAspectRatio:
		stacked = true
	default:
		stacked = rng.Float64() > 0.5
	}

	extent := r.Width
	if stacked {
		extent = r.Height
	}
	limit := extent - minSize
	if limit <= minSize {
		return false
	}
	offset := rng.Intn(limit-minSize) + minSize

	var first, second Rect
	if stacked {
		first = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: offset}
		second = Rect{X: r.X, Y: r.Y + offset, Width: r.Width, Height: r.Height - offset}
	} else {
		first = Rect{X: r.X, Y: r.Y, Width: offset, Height: r.Height}
		second = Rect{X: r.X + offset, Y: r.Y, Width: r.Width - offset, Height: r.Height}
	}

	t.nodes = append(t.nodes,
		bspNode{Rect: first, left: noChild, right: noChild},
		bspNode{Rect: second, left: noChild, right: noChild},
	)
	t.nodes[n].left = len(t.nodes) - 2
	t.nodes[n].right = len(t.nodes) - 1
	return true
}

// Root returns the root index.
func (t *BSPTree) Root() int {
	return 0
}

// Len returns the number of nodes.
func (t *BSPTree) Len() int {
	return len(t.nodes)
}

// IsLeaf reports whether node n has no children.
func (t *BSPTree) IsLeaf(n int) bool {
	return t.nodes[n].left == noChild
}

// Children returns the two children of an internal node.
func (t *BSPTree) Children(n int) (int, int) {
	return t.nodes[n].left, t.nodes[n].right
}

// Bounds returns the rectangle of node n.
func (t *BSPTree) Bounds(n int) Rect {
	return t.nodes[n].Rect
}

// Leaves lists the leaves under n, left subtree first.
func (t *BSPTree) Leaves(n int) []int {
	var leaves []int
	stack := []int{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.IsLeaf(top) {
			leaves = append(leaves, top)
			continue
		}
		left, right := t.Children(top)
		stack = append(stack, right, left)
	}
	return leaves
}

// PostOrder lists the internal nodes with every node after both of its
// subtrees.
func (t *BSPTree) PostOrder() []int {
	var order []int
	var walk func(n int)
	walk = func(n int) {
		if t.IsLeaf(n) {
			return
		}
		left, right := t.Children(n)
		walk(left)
		walk(right)
		order = append(order, n)
	}
	walk(t.Root())
	return order
}
