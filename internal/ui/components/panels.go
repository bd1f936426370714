// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// =============================================================================
// STATS PANEL
// =============================================================================

// RenderStats renders the "Campus at a Glance" card. The figures are static.
func RenderStats(stats []model.Stat, width int, theme *styles.Theme) string {
	if width <= 0 {
		width = 40
	}
	inner := max(width-4, 16)

	labelWidth := 0
	for _, s := range stats {
		labelWidth = max(labelWidth, util.StringWidth(s.Label))
	}
	labelWidth = min(labelWidth, inner/2+inner/4)

	lines := []string{theme.PanelTitle.Render(assistant.StatsTitle), ""}
	for _, s := range stats {
		label := util.PadRight(util.TruncateWidth(s.Label, labelWidth), labelWidth)
		valueWidth := max(inner-labelWidth-1, 4)
		value := lipgloss.PlaceHorizontal(valueWidth, lipgloss.Right,
			theme.StatValue.Render(util.TruncateWidth(s.Value, valueWidth)))
		lines = append(lines, theme.StatLabel.Render(label)+" "+value)
	}
	return theme.Panel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// FOOTER
// =============================================================================

// RenderFooter renders the two footer lines and an optional key help line.
func RenderFooter(width int, help []KeyHelp, theme *styles.Theme) string {
	lines := []string{
		assistant.FooterLine,
		theme.FooterNote.Render(assistant.EmergencyLine),
	}
	if len(help) > 0 {
		lines = append(lines, RenderKeyHelp(help, theme))
	}
	style := theme.Footer
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// KeyHelp is one "key description" pair in the help line.
type KeyHelp struct {
	Key  string
	Desc string
}

// RenderKeyHelp renders help pairs separated by bullets.
func RenderKeyHelp(help []KeyHelp, theme *styles.Theme) string {
	parts := make([]string, 0, len(help))
	for _, h := range help {
		parts = append(parts, theme.HelpKey.Render(h.Key)+" "+theme.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, theme.HelpDesc.Render(" • "))
}
