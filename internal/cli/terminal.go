// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or DefaultTerminalWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// colorsEnabled respects NO_COLOR (https://no-color.org/) and TTY detection.
func colorsEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return isTerminal(w)
}

// colorProfile returns the termenv profile for output to w.
func colorProfile(w io.Writer) termenv.Profile {
	if !colorsEnabled(w) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// replyRenderer renders assistant replies for a terminal. Output that is
// not a terminal gets the plain text.
type replyRenderer struct {
	glamour *glamour.TermRenderer
}

func newReplyRenderer(w io.Writer) *replyRenderer {
	if !colorsEnabled(w) {
		return &replyRenderer{}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth(w)-4),
	)
	if err != nil {
		return &replyRenderer{}
	}
	return &replyRenderer{glamour: r}
}

// Render returns text ready to print, ending in a newline.
func (r *replyRenderer) Render(text string) string {
	if r.glamour != nil {
		if out, err := r.glamour.Render(text); err == nil {
			return out
		}
	}
	return text + "\n"
}
