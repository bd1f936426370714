// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// View renders the transcript above the input line.
func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderInput())
}

func (m *Model) renderInput() string {
	container := m.theme.InputContainer
	if m.focused {
		container = m.theme.InputContainerFocused
	}

	n := utf8.RuneCountInString(m.input.Value())
	counter := m.theme.CharCount
	if n >= m.inputLimit*9/10 {
		counter = m.theme.CharCountWarning
	}
	count := counter.Render(fmt.Sprintf("%d/%d", n, m.inputLimit))

	// Border adds nothing horizontally; padding is 1 on each side.
	inner := max(m.width-2, 10)
	gap := max(inner-lipgloss.Width(m.input.View())-lipgloss.Width(count), 1)
	line := m.input.View() + fmt.Sprintf("%*s", gap, "") + count

	return container.Width(m.width).Render(line)
}
