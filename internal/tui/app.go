package tui

import (
	"fmt"
	"strings"

	"blockchart/internal/layout"

	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	w, _ := m.size()
	rows := m.canvasRows()
	sc := m.ed.Scene()

	var body string
	if m.showHelp {
		hw := w - 4
		if hw > 80 {
			hw = 80
		}
		body = normalizePane(helpFrameStyle.Render(renderMarkdown(helpText(), hw)), w, rows)
	} else {
		active := -1
		if id, ok := m.ed.Dragging(); ok {
			active = id
		}
		body = m.vp.raster(sc, w, rows, active).String()
	}
	return body + "\n" + m.statusLine(sc, w)
}

func (m appModel) statusLine(sc layout.Scene, w int) string {
	sep := " " + glyphSeparator() + " "
	parts := []string{
		fmt.Sprintf("%d nodes", len(sc.Boxes)),
		fmt.Sprintf("%d edges", len(sc.Connectors)),
	}
	if id, ok := m.ed.Dragging(); ok {
		parts = append(parts, fmt.Sprintf("dragging %d", id))
	}
	left := " " + strings.Join(parts, sep)
	if m.flash != "" {
		left += sep + flashStyle.Render(m.flash)
	}
	right := statusMutedStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())) + " "

	gap := w - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		return statusStyle.Render(normalizePane(left, w, 1))
	}
	return statusStyle.Render(left + strings.Repeat(" ", gap) + right)
}
