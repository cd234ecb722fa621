package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminal apps can't change the user's font. The canvas picks between Unicode and ASCII
// glyphs for connectors and chrome so it stays legible on limited fonts.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference applies the configured set, then lets BLOCKCHART_TUI_GLYPHS override it.
func applyGlyphPreference(configured string) {
	if gs, ok := parseGlyphSet(configured); ok {
		setGlyphs(gs)
	}
	if v := strings.TrimSpace(os.Getenv("BLOCKCHART_TUI_GLYPHS")); v != "" {
		if gs, ok := parseGlyphSet(v); ok {
			setGlyphs(gs)
		}
	}
}

func parseGlyphSet(v string) (glyphSet, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		return glyphSetUnicode, true
	case "ascii":
		return glyphSetASCII, true
	default:
		// Unknown value: ignore.
		return glyphSetUnicode, false
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphEdge() rune {
	if glyphs() == glyphSetASCII {
		return '.'
	}
	return '·'
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphSeparator() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "│"
}

// glyphAdd is the add-child control. It is the same in both sets so hit areas don't move.
func glyphAdd() string { return "[+]" }
