// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-assistant/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Primary)

	// PromptStyle colors the REPL prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Primary).
			Bold(true)

	// AssistantStyle labels assistant replies
	AssistantStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// DimStyle is used for hints and the typing line
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings and cautions
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)
