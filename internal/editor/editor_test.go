package editor

import (
	"sync"
	"testing"
	"time"

	"blockchart/internal/graph"
	"blockchart/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestEditor() *Editor {
	return New(Options{Placer: graph.NewFixedPlacer(model.Point{X: 300, Y: 150})})
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected change signal")
	}
}

func expectNoSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("unexpected change signal")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestEditor_MutationsNotifySubscribers(t *testing.T) {
	e := newTestEditor()
	ch, cancel := e.Subscribe()
	defer cancel()

	n, ok := e.AddChild(0)
	waitSignal(t, ch)
	if !ok {
		t.Fatalf("expected add to succeed")
	}
	if n.ID != 1 || e.Len() != 2 {
		t.Fatalf("unexpected add result %+v len=%d", n, e.Len())
	}

	e.DragStart(1)
	expectNoSignal(t, ch)

	e.DragMove(model.Point{X: 100, Y: 100})
	waitSignal(t, ch)

	e.Drop("1", model.Point{X: 120, Y: 140})
	waitSignal(t, ch)

	got, _ := e.Node(1)
	if got.X != 100 || got.Y != 120 {
		t.Fatalf("expected (100,120), got (%v,%v)", got.X, got.Y)
	}
}

func TestEditor_IgnoredOperationsDoNotNotify(t *testing.T) {
	e := newTestEditor()
	ch, cancel := e.Subscribe()
	defer cancel()

	if e.MoveNode(5, 1, 1) {
		t.Fatalf("expected unknown id to be ignored")
	}
	if _, ok := e.AddChild(9); ok || e.Len() != 1 {
		t.Fatalf("expected unknown parent to be ignored, len=%d", e.Len())
	}
	before := testutil.ToFloat64(DropsIgnored)
	if mv := e.Drop("nope", model.Point{}); mv.Applied {
		t.Fatalf("expected drop to be ignored")
	}
	if testutil.ToFloat64(DropsIgnored) != before+1 {
		t.Fatalf("expected ignored drop to be counted")
	}
	e.DragMove(model.Point{X: 1, Y: 1})
	expectNoSignal(t, ch)
	if e.Version() != 0 {
		t.Fatalf("expected version 0, got %d", e.Version())
	}
}

func TestEditor_SceneAndSnapshotAgree(t *testing.T) {
	e := newTestEditor()
	e.AddChild(0)
	e.AddChild(0)
	e.AddChild(1)

	snap := e.Snapshot()
	sc := e.Scene()
	if len(snap.Nodes) != 4 || len(sc.Boxes) != 4 {
		t.Fatalf("expected 4 nodes, got snapshot=%d scene=%d", len(snap.Nodes), len(sc.Boxes))
	}
	edges := sc.Edges()
	if len(edges) != len(snap.Edges) {
		t.Fatalf("edge count mismatch: %v vs %v", edges, snap.Edges)
	}
	for i := range edges {
		if edges[i] != snap.Edges[i] {
			t.Fatalf("edge %d mismatch: %v vs %v", i, edges[i], snap.Edges[i])
		}
	}
	if snap.Version != 3 {
		t.Fatalf("expected version 3, got %d", snap.Version)
	}
}

func TestEditor_ConcurrentGesturesKeepInvariants(t *testing.T) {
	e := New(Options{Placer: graph.NewRandomPlacer(1000, 500, 5)})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				e.AddChild(i % e.Len())
				e.MoveNode(w, float64(i), float64(i))
				e.Scene()
			}
		}(w)
	}
	wg.Wait()

	snap := e.Snapshot()
	if len(snap.Nodes) != 401 {
		t.Fatalf("expected 401 nodes, got %d", len(snap.Nodes))
	}
	if len(snap.Edges) != 400 {
		t.Fatalf("expected 400 edges, got %d", len(snap.Edges))
	}
	for i, n := range snap.Nodes {
		if n.ID != i {
			t.Fatalf("id %d at position %d", n.ID, i)
		}
	}
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	e := newTestEditor()
	_, cancel := e.Subscribe()
	if e.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	cancel()
	cancel()
	if e.Subscribers() != 0 {
		t.Fatalf("expected 0 subscribers")
	}
	e.AddChild(0)
}
