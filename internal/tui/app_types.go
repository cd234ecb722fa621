package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// canvasChangedMsg is delivered when the shared editor changed outside this model.
type canvasChangedMsg struct{}

type flashDoneMsg struct{ seq int }

type keyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Cancel, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Cancel, k.Help, k.Quit},
	}
}
