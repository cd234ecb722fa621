package tui

import (
	"math"
	"strconv"
	"strings"

	"blockchart/internal/layout"
	"blockchart/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellNode
	cellNodeAdd
	cellActive
	cellActiveAdd
)

func (k cellKind) style() (lipgloss.Style, bool) {
	switch k {
	case cellEdge:
		return edgeStyle, true
	case cellNode:
		return nodeStyle, true
	case cellNodeAdd:
		return nodeAddStyle, true
	case cellActive:
		return activeStyle, true
	case cellActiveAdd:
		return activeAddStyle, true
	default:
		return lipgloss.Style{}, false
	}
}

type hitKind int

const (
	hitNone hitKind = iota
	hitBody
	hitAdd
)

// viewport maps canvas pixels onto terminal cells. Cell (0,0) covers canvas pixel (0,0).
type viewport struct {
	pxPerCol float64
	pxPerRow float64
}

type cellRect struct {
	col, row, w, h int
}

func (r cellRect) contains(col, row int) bool {
	return col >= r.col && col < r.col+r.w && row >= r.row && row < r.row+r.h
}

func (v viewport) cellOf(p model.Point) (col, row int) {
	return int(math.Floor(p.X / v.pxPerCol)), int(math.Floor(p.Y / v.pxPerRow))
}

// pointAt is the canvas pixel under the top-left corner of a screen cell.
func (v viewport) pointAt(col, row int) model.Point {
	return model.Point{
		X: float64(col) * v.pxPerCol,
		Y: float64(row) * v.pxPerRow,
	}
}

// boxCells is the on-screen footprint of a node. Boxes are at least wide enough for the
// add control and two rows tall (label, control). The control row always sits below the
// cell holding the drag anchor, so pressing where a drop let go grabs the node again.
func (v viewport) boxCells(b layout.Box) cellRect {
	col, row := v.cellOf(model.Point{X: b.Rect.X, Y: b.Rect.Y})
	w := int(math.Ceil(b.Rect.W / v.pxPerCol))
	h := int(math.Ceil(b.Rect.H / v.pxPerRow))
	if minW := len(glyphAdd()); w < minW {
		w = minW
	}
	if h < 2 {
		h = 2
	}
	if _, anchorRow := v.cellOf(layout.Anchor(b.Node)); h < anchorRow-row+2 {
		h = anchorRow - row + 2
	}
	return cellRect{col: col, row: row, w: w, h: h}
}

// hit reports which node (and which part of it) is under a screen cell. The most recently
// created node wins, matching draw order.
func (v viewport) hit(sc layout.Scene, col, row int) (int, hitKind) {
	for i := len(sc.Boxes) - 1; i >= 0; i-- {
		r := v.boxCells(sc.Boxes[i])
		if !r.contains(col, row) {
			continue
		}
		if row == r.row+r.h-1 && col < r.col+len(glyphAdd()) {
			return sc.Boxes[i].Node.ID, hitAdd
		}
		return sc.Boxes[i].Node.ID, hitBody
	}
	return -1, hitNone
}

type grid struct {
	w, h  int
	runes [][]rune
	kinds [][]cellKind
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, runes: make([][]rune, h), kinds: make([][]cellKind, h)}
	for r := 0; r < h; r++ {
		g.runes[r] = []rune(strings.Repeat(" ", w))
		g.kinds[r] = make([]cellKind, w)
	}
	return g
}

func (g *grid) set(col, row int, ch rune, k cellKind) {
	if col < 0 || row < 0 || col >= g.w || row >= g.h {
		return
	}
	g.runes[row][col] = ch
	g.kinds[row][col] = k
}

// raster draws connectors first, then boxes in creation order so later nodes cover earlier ones.
// active is the node being dragged, or -1.
func (v viewport) raster(sc layout.Scene, w, h, active int) *grid {
	g := newGrid(w, h)
	edge := glyphEdge()
	for _, c := range sc.Connectors {
		dxc := math.Abs(c.Curve.End.X-c.Curve.Start.X) / v.pxPerCol
		dyc := math.Abs(c.Curve.End.Y-c.Curve.Start.Y) / v.pxPerRow
		n := int(2*(dxc+dyc)) + 2
		if n > 4000 {
			n = 4000
		}
		for _, p := range c.Curve.Sample(n) {
			col, row := v.cellOf(p)
			g.set(col, row, edge, cellEdge)
		}
	}
	add := []rune(glyphAdd())
	for _, b := range sc.Boxes {
		r := v.boxCells(b)
		body, ctl := cellNode, cellNodeAdd
		if b.Node.ID == active {
			body, ctl = cellActive, cellActiveAdd
		}
		for rr := 0; rr < r.h; rr++ {
			for cc := 0; cc < r.w; cc++ {
				g.set(r.col+cc, r.row+rr, ' ', body)
			}
		}
		label := []rune(strconv.Itoa(b.Node.ID))
		for i := 0; i < len(label) && i < r.w; i++ {
			g.set(r.col+i, r.row, label[i], body)
		}
		for i, ch := range add {
			g.set(r.col+i, r.row+r.h-1, ch, ctl)
		}
	}
	return g
}

// String renders the grid, styling runs of equal cell kinds together.
func (g *grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.h; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		start := 0
		for c := 1; c <= g.w; c++ {
			if c < g.w && g.kinds[r][c] == g.kinds[r][start] {
				continue
			}
			run := string(g.runes[r][start:c])
			if st, ok := g.kinds[r][start].style(); ok {
				run = st.Render(run)
			}
			sb.WriteString(run)
			start = c
		}
	}
	return sb.String()
}

// plain is the grid without styling.
func (g *grid) plain() []string {
	out := make([]string, g.h)
	for r := range g.runes {
		out[r] = string(g.runes[r])
	}
	return out
}
