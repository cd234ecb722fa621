package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blockchart/internal/editor"
	"blockchart/internal/render"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

const keepAliveEvery = 25 * time.Second

type ServerConfig struct {
	Addr   string
	Logger *slog.Logger
	// EdgeStyle strokes connectors. Zero value means render.DefaultEdgeStyle().
	EdgeStyle render.EdgeStyle
}

type Server struct {
	cfg  ServerConfig
	ed   *editor.Editor
	tmpl *template.Template
	log  *slog.Logger
}

func NewServer(ed *editor.Editor, cfg ServerConfig) (*Server, error) {
	if ed == nil {
		return nil, errors.New("web: editor is nil")
	}
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.EdgeStyle == (render.EdgeStyle{}) {
		cfg.EdgeStyle = render.DefaultEdgeStyle()
	}
	lg := cfg.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, ed: ed, tmpl: tmpl, log: lg}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/app.js", s.handleAppJS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /canvas/events", s.handleCanvasEvents)
	mux.HandleFunc("GET /canvas.svg", s.handleCanvasSVG)
	mux.HandleFunc("GET /docs/{$}", s.handleDocs)
	mux.HandleFunc("GET /docs/{topic}", s.handleDocs)
	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.HandleFunc("POST /nodes/{id}/children", s.handleAddChild)
	mux.HandleFunc("POST /drag/start", s.handleDragStart)
	mux.HandleFunc("POST /drag/move", s.handleDragMove)
	mux.HandleFunc("POST /drag/cancel", s.handleDragCancel)
	mux.HandleFunc("POST /drop", s.handleDrop)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.js", "application/javascript; charset=utf-8")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.css", "text/css; charset=utf-8")
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := assetsFS.ReadFile(name)
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}
