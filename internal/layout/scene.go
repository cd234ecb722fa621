package layout

import (
	"blockchart/internal/geometry"
	"blockchart/internal/interact"
	"blockchart/internal/model"
)

// NodeSize is the fixed footprint of a node. Connectors attach at the centre of it.
const NodeSize = 2 * interact.AnchorOffset

// Graph is what a render pass reads. *graph.Store satisfies it.
type Graph interface {
	Nodes() []model.Node
	Children(id int) []model.Node
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p model.Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

type Box struct {
	Node model.Node
	Rect Rect
}

type Connector struct {
	Edge  model.Edge
	Curve geometry.Bezier
}

// Scene is everything a renderer needs for one frame.
type Scene struct {
	Boxes      []Box
	Connectors []Connector
}

// Anchor is the point connectors attach to on n.
func Anchor(n model.Node) model.Point {
	return model.Point{X: n.X + interact.AnchorOffset, Y: n.Y + interact.AnchorOffset}
}

// Build derives connectors (parents in creation order, each parent's children in creation
// order) and one box per node. It has no state of its own; equal graphs give equal scenes.
func Build(g Graph) Scene {
	nodes := g.Nodes()
	sc := Scene{
		Boxes:      make([]Box, 0, len(nodes)),
		Connectors: make([]Connector, 0, len(nodes)),
	}
	for _, p := range nodes {
		for _, c := range g.Children(p.ID) {
			sc.Connectors = append(sc.Connectors, Connector{
				Edge:  model.Edge{ParentID: p.ID, ChildID: c.ID},
				Curve: geometry.Between(Anchor(p), Anchor(c)),
			})
		}
	}
	for _, n := range nodes {
		sc.Boxes = append(sc.Boxes, Box{
			Node: n,
			Rect: Rect{X: n.X, Y: n.Y, W: NodeSize, H: NodeSize},
		})
	}
	return sc
}

func (s Scene) Edges() []model.Edge {
	out := make([]model.Edge, 0, len(s.Connectors))
	for _, c := range s.Connectors {
		out = append(out, c.Edge)
	}
	return out
}

// Bounds is the smallest rectangle holding every box, anchored at the origin.
func (s Scene) Bounds() (w, h float64) {
	for _, b := range s.Boxes {
		if r := b.Rect.X + b.Rect.W; r > w {
			w = r
		}
		if bt := b.Rect.Y + b.Rect.H; bt > h {
			h = bt
		}
	}
	return w, h
}

// HitTest returns the topmost box containing p. Later nodes are drawn over earlier ones.
func (s Scene) HitTest(p model.Point) (Box, bool) {
	for i := len(s.Boxes) - 1; i >= 0; i-- {
		if s.Boxes[i].Rect.Contains(p) {
			return s.Boxes[i], true
		}
	}
	return Box{}, false
}
