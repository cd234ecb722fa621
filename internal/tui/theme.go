package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The canvas must stay readable on light and dark terminals, so every colour is adaptive.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorEdge     lipgloss.TerminalColor = ac("240", "245")
	colorNodeBg   lipgloss.TerminalColor = ac("252", "238")
	colorNodeFg   lipgloss.TerminalColor = ac("235", "252")
	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg lipgloss.TerminalColor = ac("255", "235")
	colorStatusBg lipgloss.TerminalColor = ac("254", "234")
)

var (
	edgeStyle        = lipgloss.NewStyle().Foreground(colorEdge)
	nodeStyle        = lipgloss.NewStyle().Background(colorNodeBg).Foreground(colorNodeFg)
	nodeAddStyle     = lipgloss.NewStyle().Background(colorNodeBg).Foreground(colorAccent).Bold(true)
	activeStyle      = lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg)
	activeAddStyle   = lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg).Bold(true)
	statusStyle      = lipgloss.NewStyle().Background(colorStatusBg).Foreground(colorNodeFg)
	statusMutedStyle = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
	helpFrameStyle   = lipgloss.NewStyle().Padding(1, 2)
	flashStyle       = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// applyColorProfilePreference sets Lip Gloss's colour profile for the interactive canvas.
// Only NO_COLOR disables colour; CLICOLOR is for non-interactive output.
func applyColorProfilePreference() {
	lipgloss.SetColorProfile(colorProfileFor(termenv.ColorProfile(), os.Getenv("NO_COLOR"), os.Getenv("TERM"), os.Getenv("COLORTERM")))
}

// colorProfileFor upgrades the detected profile when TERM/COLORTERM advertise more than the
// detector reports (common inside PTYs).
func colorProfileFor(detected termenv.Profile, noColor, term, colorterm string) termenv.Profile {
	if strings.TrimSpace(noColor) != "" {
		return termenv.Ascii
	}
	term = strings.ToLower(strings.TrimSpace(term))
	colorterm = strings.ToLower(strings.TrimSpace(colorterm))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if detected != termenv.Ascii {
			return termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if detected == termenv.Ascii || detected == termenv.ANSI {
			return termenv.ANSI256
		}
	}
	return detected
}
