// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the styled pieces of the campus assistant page.

# Components

Header (header.go) - Banner with title, tagline and footnote.
QuickActions (quickactions.go) - Two-column grid of preset queries.
RenderStats, RenderFooter (panels.go) - Campus at a Glance card and page footer.
MessageBubble (message.go) - Chat bubbles with avatar and clock caption.
ToastManager (toast.go) - Auto-dismissing notifications.

All components take a *styles.Theme:

	theme := styles.NewTheme(styles.ModeAuto)
	grid := components.NewQuickActions(assistant.QuickActions(), theme)
	grid.SetWidth(60)
	grid.OnSelect = func(query string) tea.Cmd { ... }
	view := grid.View()
*/
package components
