// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the campus assistant TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light
and dark terminals.

# Color System (colors.go)

	Primary      - Campus blue: titles, focus ring, user bubbles
	PrimaryDeep  - Banner background
	Emerald      - Success toasts
	Amber        - Quick action toasts
	Rose         - Errors

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "auto", "dark" or "light"
	theme.SetSize(msg.Width, msg.Height)
	switch theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		// chat only
	}

# Animations (animations.go)

LineSpinner drives the "Assistant is typing..." indicator through
SpinnerConfig.Bubbles.
*/
package styles
