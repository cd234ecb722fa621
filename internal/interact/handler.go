package interact

import (
	"strconv"
	"strings"

	"blockchart/internal/graph"
	"blockchart/internal/model"
)

// AnchorOffset translates a pointer position to a node's top-left corner so the pointer sits on
// the node's visual centre (nodes have a fixed 40-unit footprint).
const AnchorOffset = 20

// Source labels where a position update came from.
type Source string

const (
	SourceDrag Source = "drag"
	SourceDrop Source = "drop"
)

// Move describes one applied (or ignored) position update.
type Move struct {
	ID      int
	To      model.Point
	Source  Source
	Applied bool
}

// Handler turns pointer gestures into store mutations. The dragged node is tracked here,
// set on DragStart and cleared on Drop/Cancel/ClickAdd.
type Handler struct {
	store *graph.Store

	dragging bool
	dragID   int
}

func NewHandler(store *graph.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Store() *graph.Store { return h.store }

// DragStart begins dragging id and returns the transfer payload that identifies it.
func (h *Handler) DragStart(id int) string {
	h.dragging = true
	h.dragID = id
	return EncodePayload(id)
}

// DragMove moves the dragged node under the pointer. It is called for every move event,
// whether or not the pointer is over the drop surface.
func (h *Handler) DragMove(pointer model.Point) Move {
	if !h.dragging {
		return Move{ID: -1, Source: SourceDrag}
	}
	return h.move(h.dragID, pointer, SourceDrag)
}

// DragOver reports whether the canvas accepts a drop. It always does.
func (h *Handler) DragOver() bool { return true }

// Drop applies the final position. A non-empty payload names the node; otherwise the tracked
// drag is used. A payload that does not parse matches no node and the drop is a no-op.
func (h *Handler) Drop(payload string, pointer model.Point) Move {
	id := -1
	switch {
	case strings.TrimSpace(payload) != "":
		if v, ok := DecodePayload(payload); ok {
			id = v
		}
	case h.dragging:
		id = h.dragID
	}
	h.clear()
	return h.move(id, pointer, SourceDrop)
}

// Cancel abandons the current drag; the node keeps its last dragged position.
func (h *Handler) Cancel() { h.clear() }

func (h *Handler) Dragging() (int, bool) {
	if !h.dragging {
		return -1, false
	}
	return h.dragID, true
}

// ClickAdd appends a child under id. The control sits inside the draggable node, so any drag
// begun by the same gesture is dropped.
func (h *Handler) ClickAdd(id int) model.Node {
	h.clear()
	return h.store.AddChild(id)
}

func (h *Handler) move(id int, pointer model.Point, src Source) Move {
	to := TopLeft(pointer)
	return Move{
		ID:      id,
		To:      to,
		Source:  src,
		Applied: h.store.MoveNode(id, to.X, to.Y),
	}
}

func (h *Handler) clear() {
	h.dragging = false
	h.dragID = -1
}

// TopLeft converts a pointer position to the dragged node's top-left corner.
func TopLeft(pointer model.Point) model.Point {
	return pointer.Add(-AnchorOffset, -AnchorOffset)
}

func EncodePayload(id int) string { return strconv.Itoa(id) }

func DecodePayload(payload string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return -1, false
	}
	return v, true
}
