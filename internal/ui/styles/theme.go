// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderTagline  lipgloss.Style
	HeaderFootnote lipgloss.Style

	// ==========================================================================
	// PANEL STYLES
	// ==========================================================================

	Panel         lipgloss.Style
	PanelFocused  lipgloss.Style
	PanelTitle    lipgloss.Style
	PanelSubtitle lipgloss.Style

	// ==========================================================================
	// QUICK ACTION STYLES
	// ==========================================================================

	ActionItem         lipgloss.Style
	ActionItemSelected lipgloss.Style
	ActionIcon         lipgloss.Style
	ActionTitle        lipgloss.Style
	ActionDesc         lipgloss.Style
	ActionKey          lipgloss.Style

	// ==========================================================================
	// STATS STYLES
	// ==========================================================================

	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	UserAvatar      lipgloss.Style
	AssistantAvatar lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer        lipgloss.Style
	InputContainerFocused lipgloss.Style
	InputPrompt           lipgloss.Style
	InputPlaceholder      lipgloss.Style
	CharCount             lipgloss.Style
	CharCountWarning      lipgloss.Style

	// ==========================================================================
	// SPINNER AND TYPING STYLES
	// ==========================================================================

	Spinner    lipgloss.Style
	TypingText lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	Toast        lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastError   lipgloss.Style
	ToastTitle   lipgloss.Style
	ToastBody    lipgloss.Style

	// ==========================================================================
	// FOOTER STYLES
	// ==========================================================================

	Footer     lipgloss.Style
	FooterNote lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
}

// NewTheme creates a theme for mode (auto, dark or light). Auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header banner
	t.Header = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(PrimaryDeep).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse)

	t.HeaderTagline = lipgloss.NewStyle().
		Foreground(TextInverse)

	t.HeaderFootnote = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#BFDBFE"}).
		Italic(true)

	// Panels
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.PanelFocused = t.Panel.
		BorderForeground(FocusRing)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	t.PanelSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Quick actions
	t.ActionItem = lipgloss.NewStyle().
		Padding(0, 1)

	t.ActionItemSelected = t.ActionItem.
		Background(SelectionBg).
		Bold(true)

	t.ActionIcon = lipgloss.NewStyle().
		Foreground(Primary)

	t.ActionTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.ActionDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ActionKey = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Stats
	t.StatLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.UserAvatar = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Primary).
		Bold(true).
		Padding(0, 1)

	t.AssistantAvatar = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Padding(0, 1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputContainerFocused = t.InputContainer.
		BorderForeground(FocusRing)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber)

	// Typing indicator
	t.Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	t.TypingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Toasts
	t.Toast = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(44)

	t.ToastSuccess = t.Toast.BorderForeground(Emerald)
	t.ToastInfo = t.Toast.BorderForeground(Primary)
	t.ToastError = t.Toast.BorderForeground(Rose)

	t.ToastTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ToastBody = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Footer
	t.Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Align(lipgloss.Center)

	t.FooterNote = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	t.HelpKey = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	return LayoutFor(t.Width)
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns: stacked, chat only
	LayoutMedium                   // 80-120 columns: sidebar + chat
	LayoutWide                     // > 120 columns: wide sidebar + chat
)

// LayoutFor returns the layout mode for a terminal width.
func LayoutFor(width int) LayoutMode {
	if width < 80 {
		return LayoutNarrow
	}
	if width <= 120 {
		return LayoutMedium
	}
	return LayoutWide
}

// String returns the layout mode name.
func (m LayoutMode) String() string {
	switch m {
	case LayoutNarrow:
		return "narrow"
	case LayoutMedium:
		return "medium"
	case LayoutWide:
		return "wide"
	default:
		return "unknown"
	}
}
