package model

type Node struct {
	ID int `json:"id"`

	// ParentID is nil for the root.
	ParentID *int `json:"parentId"`

	// X, Y locate the node's top-left corner on the canvas.
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (n Node) IsRoot() bool { return n.ParentID == nil }

// Parent returns the parent id, or -1 for the root.
func (n Node) Parent() int {
	if n.ParentID == nil {
		return -1
	}
	return *n.ParentID
}

// WithPosition returns a copy of n at (x, y).
func (n Node) WithPosition(x, y float64) Node {
	n.X = x
	n.Y = y
	return n
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

type Edge struct {
	ParentID int `json:"parentId"`
	ChildID  int `json:"childId"`
}

// Snapshot is a consistent read of a canvas, used by JSON surfaces.
type Snapshot struct {
	Version uint64 `json:"version"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

func IntPtr(v int) *int { return &v }
