package geometry

import (
	"strconv"
	"strings"

	"blockchart/internal/model"
)

// Bezier is a cubic Bézier segment from Start to End.
type Bezier struct {
	Start model.Point
	C1    model.Point
	C2    model.Point
	End   model.Point
}

// Curve connects (x1,y1) to (x2,y2) with control points pulled horizontally by half the
// horizontal distance, each kept at its endpoint's y. x1 == x2 degenerates to a vertical line.
func Curve(x1, y1, x2, y2 float64) Bezier {
	dx := (x2 - x1) / 2
	return Bezier{
		Start: model.Point{X: x1, Y: y1},
		C1:    model.Point{X: x1 + dx, Y: y1},
		C2:    model.Point{X: x2 - dx, Y: y2},
		End:   model.Point{X: x2, Y: y2},
	}
}

// Between is Curve over two points.
func Between(a, b model.Point) Bezier {
	return Curve(a.X, a.Y, b.X, b.Y)
}

// Path renders the segment as SVG path data: "M x1,y1 C c1 c2 end".
func (b Bezier) Path() string {
	var sb strings.Builder
	sb.Grow(64)
	sb.WriteByte('M')
	writePoint(&sb, b.Start)
	sb.WriteString(" C")
	writePoint(&sb, b.C1)
	sb.WriteByte(' ')
	writePoint(&sb, b.C2)
	sb.WriteByte(' ')
	writePoint(&sb, b.End)
	return sb.String()
}

// At evaluates the curve at t in [0,1].
func (b Bezier) At(t float64) model.Point {
	if t <= 0 {
		return b.Start
	}
	if t >= 1 {
		return b.End
	}
	u := 1 - t
	w0 := u * u * u
	w1 := 3 * u * u * t
	w2 := 3 * u * t * t
	w3 := t * t * t
	return model.Point{
		X: w0*b.Start.X + w1*b.C1.X + w2*b.C2.X + w3*b.End.X,
		Y: w0*b.Start.Y + w1*b.C1.Y + w2*b.C2.Y + w3*b.End.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve (both endpoints included).
func (b Bezier) Sample(n int) []model.Point {
	if n < 1 {
		n = 1
	}
	out := make([]model.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, b.At(float64(i)/float64(n)))
	}
	return out
}

func writePoint(sb *strings.Builder, p model.Point) {
	sb.WriteString(formatCoord(p.X))
	sb.WriteByte(',')
	sb.WriteString(formatCoord(p.Y))
}

func formatCoord(v float64) string {
	if v == 0 {
		// Avoid "-0".
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
