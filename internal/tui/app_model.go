package tui

import (
	"io"
	"log/slog"
	"time"

	"blockchart/internal/editor"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the terminal canvas.
type Options struct {
	// Glyphs is "unicode" or "ascii".
	Glyphs string
	// PxPerCol and PxPerRow scale canvas pixels to cells. Zero means 10 and 20.
	PxPerCol float64
	PxPerRow float64
	Logger   *slog.Logger
}

const (
	flashFor    = 2 * time.Second
	defaultCols = 80
	defaultRows = 24
)

type appModel struct {
	ed   *editor.Editor
	keys keyMap
	help help.Model
	vp   viewport

	width  int
	height int

	showHelp bool
	// dragging is true between a press on a node body and the matching release.
	dragging bool

	flash    string
	flashSeq int

	changes <-chan struct{}
	log     *slog.Logger
}

func newAppModel(ed *editor.Editor, opts Options) appModel {
	pxc, pxr := opts.PxPerCol, opts.PxPerRow
	if pxc <= 0 {
		pxc = 10
	}
	if pxr <= 0 {
		pxr = 20
	}
	lg := opts.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return appModel{
		ed:   ed,
		keys: defaultKeyMap(),
		help: help.New(),
		vp:   viewport{pxPerCol: pxc, pxPerRow: pxr},
		log:  lg,
	}
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange turns one editor change signal into a canvasChangedMsg.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return canvasChangedMsg{}
	}
}

func (m appModel) size() (w, h int) {
	w, h = m.width, m.height
	if w <= 0 {
		w = defaultCols
	}
	if h <= 0 {
		h = defaultRows
	}
	return w, h
}

// canvasRows is the canvas height; the last row is the status line.
func (m appModel) canvasRows() int {
	_, h := m.size()
	if h < 2 {
		return 1
	}
	return h - 1
}

func (m *appModel) setFlash(s string) tea.Cmd {
	m.flashSeq++
	m.flash = s
	seq := m.flashSeq
	return tea.Tick(flashFor, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
