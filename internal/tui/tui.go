package tui

import (
	"blockchart/internal/editor"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the canvas in the terminal and blocks until the user quits.
func Run(ed *editor.Editor, opts Options) error {
	applyGlyphPreference(opts.Glyphs)
	applyColorProfilePreference()
	m := newAppModel(ed, opts)
	ch, cancel := ed.Subscribe()
	defer cancel()
	m.changes = ch
	m.log.Debug("tui start", "pxPerCol", m.vp.pxPerCol, "pxPerRow", m.vp.pxPerRow)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
