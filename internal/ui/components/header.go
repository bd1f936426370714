// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the banner across the top of the page.
type Header struct {
	Title    string
	Tagline  string
	Footnote string
	Compact  bool

	width int
	theme *styles.Theme
}

// NewHeader creates the campus banner.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    assistant.Title,
		Tagline:  assistant.Tagline,
		Footnote: assistant.HeaderFootnote,
		theme:    theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// Height returns the rendered height in lines.
func (h *Header) Height() int {
	return lipgloss.Height(h.View())
}

// View renders the banner. Compact mode, and terminals narrower than
// 60 columns, show the title alone.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)

	if h.Compact || (h.width > 0 && h.width < 60) {
		style := h.theme.HeaderTitle.Padding(0, 1)
		if h.width > 0 {
			style = style.Width(h.width).Align(lipgloss.Center)
		}
		return style.Render(h.Title)
	}

	style := h.theme.Header
	inner := 0
	if h.width > 0 {
		// Border (2) plus horizontal padding (4).
		inner = max(h.width-6, 10)
		style = style.Width(h.width - 2)
	}

	tagline := h.theme.HeaderTagline
	if inner > 0 {
		tagline = tagline.Width(inner).Align(lipgloss.Center)
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		tagline.Render(h.Tagline),
		h.theme.HeaderFootnote.Render(h.Footnote),
	)
	return style.Render(content)
}
