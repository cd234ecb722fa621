package editor

import (
	"io"
	"log/slog"
	"sync"

	"blockchart/internal/graph"
	"blockchart/internal/interact"
	"blockchart/internal/layout"
	"blockchart/internal/model"
)

type Options struct {
	// Placer positions new children. Nil means uniform random over the default spawn area.
	Placer graph.Placer
	Logger *slog.Logger
}

// Editor owns one canvas: its store, the interaction handler driving it, and the subscribers
// that re-render after each change. Front-ends in the same process share an Editor; every
// call runs under one lock so gestures apply in arrival order.
type Editor struct {
	mu      sync.Mutex
	store   *graph.Store
	handler *interact.Handler

	hub *hub
	log *slog.Logger
}

func New(opts Options) *Editor {
	lg := opts.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	st := graph.New(opts.Placer)
	Nodes.Set(float64(st.Len()))
	return &Editor{
		store:   st,
		handler: interact.NewHandler(st),
		hub:     newHub(),
		log:     lg,
	}
}

// Subscribe returns a channel that receives a signal after every state change.
func (e *Editor) Subscribe() (<-chan struct{}, func()) {
	return e.hub.subscribe()
}

func (e *Editor) Subscribers() int { return e.hub.count() }

// AddChild is the add-child control of node parentID. An unknown parent is ignored so the
// canvas never holds a node whose parent does not exist.
func (e *Editor) AddChild(parentID int) (model.Node, bool) {
	e.mu.Lock()
	if _, ok := e.store.Node(parentID); !ok {
		e.mu.Unlock()
		e.log.Debug("add ignored", "parentId", parentID)
		return model.Node{}, false
	}
	n := e.handler.ClickAdd(parentID)
	count := e.store.Len()
	e.mu.Unlock()

	NodesAdded.Inc()
	Nodes.Set(float64(count))
	e.log.Debug("node added", "id", n.ID, "parentId", parentID, "x", n.X, "y", n.Y)
	e.hub.broadcast()
	return n, true
}

// MoveNode sets a node's top-left corner directly, bypassing the gesture translation.
func (e *Editor) MoveNode(id int, x, y float64) bool {
	e.mu.Lock()
	ok := e.store.MoveNode(id, x, y)
	e.mu.Unlock()

	if !ok {
		e.log.Debug("move ignored", "id", id)
		return false
	}
	NodeMoves.WithLabelValues("direct").Inc()
	e.hub.broadcast()
	return true
}

func (e *Editor) DragStart(id int) string {
	e.mu.Lock()
	payload := e.handler.DragStart(id)
	e.mu.Unlock()
	e.log.Debug("drag start", "id", id)
	return payload
}

func (e *Editor) DragMove(pointer model.Point) interact.Move {
	e.mu.Lock()
	mv := e.handler.DragMove(pointer)
	e.mu.Unlock()
	e.noteMove(mv)
	return mv
}

func (e *Editor) Drop(payload string, pointer model.Point) interact.Move {
	e.mu.Lock()
	mv := e.handler.Drop(payload, pointer)
	e.mu.Unlock()
	if !mv.Applied {
		DropsIgnored.Inc()
		e.log.Debug("drop ignored", "payload", payload, "x", pointer.X, "y", pointer.Y)
		return mv
	}
	e.noteMove(mv)
	return mv
}

func (e *Editor) Cancel() {
	e.mu.Lock()
	e.handler.Cancel()
	e.mu.Unlock()
}

func (e *Editor) Dragging() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handler.Dragging()
}

func (e *Editor) Node(id int) (model.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Node(id)
}

func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

func (e *Editor) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Version()
}

// Scene runs the layout pass over a consistent view of the canvas.
func (e *Editor) Scene() layout.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return layout.Build(e.store)
}

func (e *Editor) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

func (e *Editor) noteMove(mv interact.Move) {
	if !mv.Applied {
		return
	}
	NodeMoves.WithLabelValues(string(mv.Source)).Inc()
	e.log.Debug("node moved", "id", mv.ID, "source", string(mv.Source), "x", mv.To.X, "y", mv.To.Y)
	e.hub.broadcast()
}
