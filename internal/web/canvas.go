package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"blockchart/internal/layout"
	"blockchart/internal/render"

	"github.com/cespare/xxhash/v2"
	"github.com/starfederation/datastar-go/datastar"
)

type nodeVM struct {
	ID   int
	X, Y float64
	Size float64
}

type canvasVM struct {
	Width, Height int
	Edges         template.HTML
	Nodes         []nodeVM
}

type pageVM struct {
	Canvas    canvasVM
	StreamURL string
}

func (s *Server) canvasVM() canvasVM {
	sc := s.ed.Scene()
	w, h := render.Size(sc, s.cfg.EdgeStyle)
	vm := canvasVM{
		Width:  w,
		Height: h,
		// svgo output is built from numbers and the fixed style only.
		Edges: template.HTML(render.InlineSVG(sc, s.cfg.EdgeStyle)),
		Nodes: make([]nodeVM, 0, len(sc.Boxes)),
	}
	for _, b := range sc.Boxes {
		vm.Nodes = append(vm.Nodes, nodeVM{ID: b.Node.ID, X: b.Rect.X, Y: b.Rect.Y, Size: layout.NodeSize})
	}
	return vm
}

func (s *Server) renderCanvas() (string, error) {
	return s.renderTemplate("canvas", s.canvasVM())
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "index.html", pageVM{Canvas: s.canvasVM(), StreamURL: "/canvas/events"})
}

// handleCanvasEvents streams a fresh #canvas after every editor change. Renders that hash the
// same as the last one sent are skipped.
func (s *Server) handleCanvasEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.ed.Subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	keepAlive := time.NewTicker(keepAliveEvery)
	defer keepAlive.Stop()

	var last uint64
	push := func() {
		html, err := s.renderCanvas()
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		fp := xxhash.Sum64String(html)
		if fp == last {
			return
		}
		last = fp
		_ = sse.PatchElements(html, datastar.WithSelector("#canvas"), datastar.WithMode(datastar.ElementPatchModeOuter))
		_ = sse.MarshalAndPatchSignals(map[string]any{"version": s.ed.Version()})
	}
	push()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case _, ok := <-ch:
			if !ok {
				return
			}
			push()
		}
	}
}

// handleCanvasSVG serves the edge layer alone. The ETag is the xxhash of the body.
func (s *Server) handleCanvasSVG(w http.ResponseWriter, r *http.Request) {
	var b bytes.Buffer
	render.SVG(&b, s.ed.Scene(), s.cfg.EdgeStyle)
	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(b.Bytes()))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := strings.TrimSpace(r.Header.Get("If-None-Match")); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Bytes())
}
