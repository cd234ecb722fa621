package interact

import (
	"reflect"
	"testing"

	"blockchart/internal/graph"
	"blockchart/internal/model"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	s := graph.New(graph.NewFixedPlacer(model.Point{X: 500, Y: 100}, model.Point{X: 50, Y: 300}))
	s.AddChild(0) // 1
	return NewHandler(s)
}

func TestDrag_MovesNodeUnderPointerOnEveryEvent(t *testing.T) {
	h := newTestHandler(t)

	if payload := h.DragStart(1); payload != "1" {
		t.Fatalf("expected payload %q, got %q", "1", payload)
	}
	if id, ok := h.Dragging(); !ok || id != 1 {
		t.Fatalf("expected node 1 to be dragging, got %d %v", id, ok)
	}

	for _, p := range []model.Point{{X: 120, Y: 80}, {X: 140, Y: 95}, {X: 300, Y: 310}} {
		mv := h.DragMove(p)
		if !mv.Applied || mv.Source != SourceDrag {
			t.Fatalf("expected applied drag move, got %+v", mv)
		}
		n, _ := h.Store().Node(1)
		if n.X != p.X-20 || n.Y != p.Y-20 {
			t.Fatalf("expected node at pointer-20 (%v,%v), got (%v,%v)", p.X-20, p.Y-20, n.X, n.Y)
		}
	}
}

func TestDrop_UsesPayloadAndClearsDrag(t *testing.T) {
	h := newTestHandler(t)
	payload := h.DragStart(1)

	mv := h.Drop(payload, model.Point{X: 420, Y: 220})
	if !mv.Applied || mv.ID != 1 || mv.Source != SourceDrop {
		t.Fatalf("unexpected drop result: %+v", mv)
	}
	n, _ := h.Store().Node(1)
	if n.X != 400 || n.Y != 200 {
		t.Fatalf("expected (400,200), got (%v,%v)", n.X, n.Y)
	}
	if _, ok := h.Dragging(); ok {
		t.Fatalf("expected drag cleared after drop")
	}
}

func TestDrop_FallsBackToTrackedDrag(t *testing.T) {
	h := newTestHandler(t)
	h.DragStart(0)
	mv := h.Drop("", model.Point{X: 20, Y: 20})
	if !mv.Applied || mv.ID != 0 {
		t.Fatalf("expected tracked node 0 to drop, got %+v", mv)
	}
	n, _ := h.Store().Node(0)
	if n.X != 0 || n.Y != 0 {
		t.Fatalf("expected root at origin, got %+v", n)
	}
}

func TestDrop_UnparseableOrUnknownPayloadIsNoOp(t *testing.T) {
	for _, payload := range []string{"abc", "1.5", "99"} {
		h := newTestHandler(t)
		h.DragStart(1)
		before := h.Store().Nodes()

		mv := h.Drop(payload, model.Point{X: 10, Y: 10})
		if mv.Applied {
			t.Fatalf("payload %q: expected no-op, got %+v", payload, mv)
		}
		if !reflect.DeepEqual(h.Store().Nodes(), before) {
			t.Fatalf("payload %q: collection changed", payload)
		}
		if _, ok := h.Dragging(); ok {
			t.Fatalf("payload %q: expected drag cleared", payload)
		}
	}
}

func TestDragMove_WithoutDragIsNoOp(t *testing.T) {
	h := newTestHandler(t)
	before := h.Store().Nodes()
	if mv := h.DragMove(model.Point{X: 1, Y: 1}); mv.Applied {
		t.Fatalf("expected no-op, got %+v", mv)
	}
	if mv := h.Drop("", model.Point{X: 1, Y: 1}); mv.Applied {
		t.Fatalf("expected drop without drag or payload to be a no-op, got %+v", mv)
	}
	if !reflect.DeepEqual(h.Store().Nodes(), before) {
		t.Fatalf("collection changed")
	}
}

func TestCancel_KeepsLastDraggedPosition(t *testing.T) {
	h := newTestHandler(t)
	h.DragStart(1)
	h.DragMove(model.Point{X: 70, Y: 70})
	h.Cancel()
	if _, ok := h.Dragging(); ok {
		t.Fatalf("expected drag cleared")
	}
	n, _ := h.Store().Node(1)
	if n.X != 50 || n.Y != 50 {
		t.Fatalf("expected node kept at (50,50), got (%v,%v)", n.X, n.Y)
	}
}

func TestClickAdd_AppendsChildAndNeverStartsDrag(t *testing.T) {
	h := newTestHandler(t)
	h.DragStart(1)

	n := h.ClickAdd(1)
	if n.ID != 2 || n.Parent() != 1 {
		t.Fatalf("unexpected child %+v", n)
	}
	if _, ok := h.Dragging(); ok {
		t.Fatalf("add-child click must not leave a drag active")
	}
	if mv := h.DragMove(model.Point{X: 5, Y: 5}); mv.Applied {
		t.Fatalf("expected move after click to be ignored, got %+v", mv)
	}
}

func TestDragOver_AlwaysAccepts(t *testing.T) {
	h := newTestHandler(t)
	if !h.DragOver() {
		t.Fatalf("expected drag-over to accept")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	if id, ok := DecodePayload(EncodePayload(17)); !ok || id != 17 {
		t.Fatalf("expected 17, got %d %v", id, ok)
	}
	if id, ok := DecodePayload(" 3 "); !ok || id != 3 {
		t.Fatalf("expected whitespace-tolerant decode, got %d %v", id, ok)
	}
	if _, ok := DecodePayload("node-3"); ok {
		t.Fatalf("expected decode failure")
	}
}
