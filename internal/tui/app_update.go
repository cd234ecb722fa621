package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case canvasChangedMsg:
		// View reads the editor directly; just keep listening.
		return m, waitForChange(m.changes)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		m.ed.Cancel()
		return m, m.setFlash("drag cancelled")
	}
	return m, nil
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	col, row := msg.X, msg.Y
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || row >= m.canvasRows() {
			return m, nil
		}
		id, kind := m.vp.hit(m.ed.Scene(), col, row)
		switch kind {
		case hitAdd:
			m.dragging = false
			n, _ := m.ed.AddChild(id)
			m.log.Debug("tui add", "parentId", id, "id", n.ID)
			return m, m.setFlash(fmt.Sprintf("added %d %s %d", id, glyphArrow(), n.ID))
		case hitBody:
			m.ed.DragStart(id)
			m.dragging = true
			m.log.Debug("tui drag start", "id", id, "col", col, "row", row)
		}
		return m, nil

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		m.ed.DragMove(m.vp.pointAt(col, row))
		return m, nil

	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		mv := m.ed.Drop("", m.vp.pointAt(col, row))
		m.log.Debug("tui drop", "id", mv.ID, "applied", mv.Applied, "col", col, "row", row)
		return m, nil
	}
	return m, nil
}
