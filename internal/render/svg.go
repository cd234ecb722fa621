package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"blockchart/internal/layout"

	svg "github.com/ajstarks/svgo"
)

// EdgeStyle controls how connectors are stroked.
type EdgeStyle struct {
	Stroke      string
	StrokeWidth float64
	DashArray   float64

	// MinWidth/MinHeight keep the drawing surface from collapsing on small graphs.
	MinWidth  int
	MinHeight int
}

func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{
		Stroke:      "black",
		StrokeWidth: 2,
		DashArray:   4,
		MinWidth:    1200,
		MinHeight:   700,
	}
}

func (st EdgeStyle) css() string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g;stroke-dasharray:%g", st.Stroke, st.StrokeWidth, st.DashArray)
}

// Size is the drawing surface for sc: its bounds, but never smaller than the style minimum.
func Size(sc layout.Scene, st EdgeStyle) (width, height int) {
	bw, bh := sc.Bounds()
	return max(st.MinWidth, int(math.Ceil(bw))), max(st.MinHeight, int(math.Ceil(bh)))
}

// SVG writes a standalone SVG document with one path per connector.
func SVG(w io.Writer, sc layout.Scene, st EdgeStyle) {
	width, height := Size(sc, st)

	canvas := svg.New(w)
	canvas.Start(width, height, `class="edges"`)
	style := st.css()
	for _, c := range sc.Connectors {
		canvas.Path(c.Curve.Path(), style, fmt.Sprintf(`id="edge-%d-%d"`, c.Edge.ParentID, c.Edge.ChildID))
	}
	canvas.End()
}

// InlineSVG is SVG without the XML prolog, for embedding in an HTML document.
func InlineSVG(sc layout.Scene, st EdgeStyle) string {
	var b bytes.Buffer
	SVG(&b, sc, st)
	out := b.String()
	if i := strings.Index(out, "<svg"); i > 0 {
		out = out[i:]
	}
	return out
}
