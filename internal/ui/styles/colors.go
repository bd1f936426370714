// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Primary - Campus blue, titles, focus rings, user bubbles
var Primary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

// PrimaryDeep - Darker blue for banner backgrounds
var PrimaryDeep = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#1E3A8A"}

// Indigo - Second stop of the banner gradient
var Indigo = lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#818CF8"}

// Emerald - Success toasts
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - Quick action toasts, warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - Errors and the emergency line
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Panel background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Footer and input background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// OverlayDim - Unfocused panel borders
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Timestamps, hints, descriptions
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - solid campus blue
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#1D4ED8"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#EFF6FF"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}

// Assistant message bubble - plain card
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#262637"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E2E8F0"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#45475A"}

// SelectionBg highlights the quick action under the cursor.
var SelectionBg = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A5F"}

// FocusRing marks the focused panel.
var FocusRing = Primary

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet pairs each toast level with an ASCII marker so that the
// level reads without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Info    string
}

// StatusIndicators are the markers drawn in toasts.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Info:    "[i]",
}

// RenderSuccess renders a one-line success message.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders a one-line error message.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderInfo renders a one-line informational message.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Primary).Bold(true).
		Render(StatusIndicators.Info + " " + message)
}
