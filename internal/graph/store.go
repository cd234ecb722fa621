package graph

import (
	"blockchart/internal/model"
)

// RootX, RootY position the root node of a fresh canvas.
const (
	RootX = 200
	RootY = 200
)

// Store holds the canvas nodes in creation order.
//
// Node ids are assigned as the node count at creation time and nodes are never removed, so a
// node's id is also its position in the slice. The parent -> children index is maintained on
// every append, which keeps edge derivation linear.
//
// Store is not safe for concurrent use; an owner (see internal/editor) serialises access.
type Store struct {
	nodes    []model.Node
	children map[int][]int
	placer   Placer
	version  uint64
}

func New(placer Placer) *Store {
	if placer == nil {
		placer = NewRandomPlacer(DefaultSpawnWidth, DefaultSpawnHeight, 0)
	}
	return &Store{
		nodes:    []model.Node{{ID: 0, ParentID: nil, X: RootX, Y: RootY}},
		children: map[int][]int{},
		placer:   placer,
	}
}

// AddChild appends a node under parentID at a position chosen by the placer.
// parentID is not validated; callers pass the id of a node they are looking at.
func (s *Store) AddChild(parentID int) model.Node {
	pt := s.placer.Place(parentID)
	n := model.Node{
		ID:       len(s.nodes),
		ParentID: model.IntPtr(parentID),
		X:        pt.X,
		Y:        pt.Y,
	}
	next := make([]model.Node, len(s.nodes), len(s.nodes)+1)
	copy(next, s.nodes)
	s.nodes = append(next, n)
	s.children[parentID] = append(s.children[parentID], n.ID)
	s.version++
	return n
}

// MoveNode replaces the node matching id with a copy at (x, y). The collection is rebuilt
// rather than edited in place so previously returned snapshots never change underneath a reader.
// It reports whether a node matched.
func (s *Store) MoveNode(id int, x, y float64) bool {
	if _, ok := s.Node(id); !ok {
		return false
	}
	next := make([]model.Node, len(s.nodes))
	for i, n := range s.nodes {
		if n.ID == id {
			next[i] = n.WithPosition(x, y)
			continue
		}
		next[i] = n
	}
	s.nodes = next
	s.version++
	return true
}

func (s *Store) Node(id int) (model.Node, bool) {
	if id < 0 || id >= len(s.nodes) {
		return model.Node{}, false
	}
	n := s.nodes[id]
	if n.ID != id {
		return model.Node{}, false
	}
	return n, true
}

// Nodes returns a copy of the collection in creation order.
func (s *Store) Nodes() []model.Node {
	out := make([]model.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func (s *Store) Len() int { return len(s.nodes) }

// Version increases on every mutation.
func (s *Store) Version() uint64 { return s.version }

// Children returns the direct children of id in creation order.
func (s *Store) Children(id int) []model.Node {
	ids := s.children[id]
	if len(ids) == 0 {
		return nil
	}
	out := make([]model.Node, 0, len(ids))
	for _, cid := range ids {
		if n, ok := s.Node(cid); ok {
			out = append(out, n)
		}
	}
	return out
}

// Edges lists one parent -> child pair per non-root node: parents in creation order, then
// each parent's children in creation order.
func (s *Store) Edges() []model.Edge {
	out := make([]model.Edge, 0, len(s.nodes))
	for _, p := range s.nodes {
		for _, cid := range s.children[p.ID] {
			out = append(out, model.Edge{ParentID: p.ID, ChildID: cid})
		}
	}
	return out
}

func (s *Store) Snapshot() model.Snapshot {
	return model.Snapshot{
		Version: s.version,
		Nodes:   s.Nodes(),
		Edges:   s.Edges(),
	}
}
