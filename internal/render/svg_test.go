package render

import (
	"bytes"
	"strings"
	"testing"

	"blockchart/internal/graph"
	"blockchart/internal/layout"
	"blockchart/internal/model"
)

func TestSVG_OnePathPerConnector(t *testing.T) {
	s := graph.New(graph.NewFixedPlacer(model.Point{X: 400, Y: 300}, model.Point{X: 600, Y: 100}))
	s.AddChild(0)
	s.AddChild(1)

	var b bytes.Buffer
	SVG(&b, layout.Build(s), DefaultEdgeStyle())
	out := b.String()

	if n := strings.Count(out, "<path"); n != 2 {
		t.Fatalf("expected 2 paths, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, `d="M220,220 C320,220 320,320 420,320"`) {
		t.Fatalf("missing root->1 connector:\n%s", out)
	}
	if !strings.Contains(out, `id="edge-1-2"`) {
		t.Fatalf("missing edge id:\n%s", out)
	}
	if !strings.Contains(out, "stroke:black;stroke-width:2;stroke-dasharray:4") {
		t.Fatalf("missing stroke style:\n%s", out)
	}
}

func TestInlineSVG_DropsProlog(t *testing.T) {
	out := InlineSVG(layout.Build(graph.New(nil)), DefaultEdgeStyle())
	if !strings.HasPrefix(out, "<svg") {
		t.Fatalf("expected inline svg to start with <svg, got %q", out[:min(len(out), 40)])
	}
	if strings.Contains(out, "<path") {
		t.Fatalf("single root must render no connectors:\n%s", out)
	}
}

func TestSize_GrowsPastMinimum(t *testing.T) {
	s := graph.New(graph.NewFixedPlacer(model.Point{X: 1500.5, Y: 10}))
	st := DefaultEdgeStyle()
	if w, h := Size(layout.Build(s), st); w != 1200 || h != 700 {
		t.Fatalf("expected minimum 1200x700, got %dx%d", w, h)
	}
	s.AddChild(0)
	if w, h := Size(layout.Build(s), st); w != 1541 || h != 700 {
		t.Fatalf("expected 1541x700, got %dx%d", w, h)
	}
}
