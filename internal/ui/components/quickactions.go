// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// Panel copy for the quick actions card.
const (
	QuickActionsTitle    = "Quick Actions"
	QuickActionsSubtitle = "Get instant answers to common campus questions"
)

// QuickActionSelectedMsg is emitted when the user picks an action.
type QuickActionSelectedMsg struct {
	Action model.QuickAction
}

// =============================================================================
// QUICK ACTIONS GRID
// =============================================================================

// QuickActions is the grid of preset queries. It shows four columns when
// wide, two normally and one when narrow, and is driven by arrows, hjkl,
// enter and the digit keys.
type QuickActions struct {
	actions []model.QuickAction
	cursor  int
	focused bool
	width   int
	theme   *styles.Theme

	// OnSelect, when set, runs with the chosen query and its command is
	// batched with the selection message.
	OnSelect func(query string) tea.Cmd
}

// NewQuickActions creates the grid.
func NewQuickActions(actions []model.QuickAction, theme *styles.Theme) *QuickActions {
	return &QuickActions{actions: actions, theme: theme}
}

// SetWidth sets the panel width.
func (q *QuickActions) SetWidth(width int) { q.width = width }

// Focus gives the grid keyboard focus.
func (q *QuickActions) Focus() { q.focused = true }

// Blur removes keyboard focus.
func (q *QuickActions) Blur() { q.focused = false }

// Focused reports whether the grid has focus.
func (q *QuickActions) Focused() bool { return q.focused }

// Cursor returns the highlighted index.
func (q *QuickActions) Cursor() int { return q.cursor }

// Selected returns the highlighted action.
func (q *QuickActions) Selected() (model.QuickAction, bool) {
	if q.cursor < 0 || q.cursor >= len(q.actions) {
		return model.QuickAction{}, false
	}
	return q.actions[q.cursor], true
}

// Columns returns how many columns the grid uses at its width.
func (q *QuickActions) Columns() int {
	switch {
	case q.width > 0 && q.width < 60:
		return 1
	case q.width >= 120:
		return 4
	default:
		return 2
	}
}

// Update handles key input while focused.
func (q *QuickActions) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !q.focused || len(q.actions) == 0 {
		return nil
	}

	cols := q.Columns()
	switch key.String() {
	case "up", "k":
		if q.cursor-cols >= 0 {
			q.cursor -= cols
		}
	case "down", "j":
		if q.cursor+cols < len(q.actions) {
			q.cursor += cols
		}
	case "left", "h":
		if q.cursor > 0 {
			q.cursor--
		}
	case "right", "l":
		if q.cursor < len(q.actions)-1 {
			q.cursor++
		}
	case "home", "g":
		q.cursor = 0
	case "end", "G":
		q.cursor = len(q.actions) - 1
	case "enter", " ":
		return q.selectAt(q.cursor)
	default:
		if s := key.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			idx := int(s[0] - '1')
			if idx < len(q.actions) {
				q.cursor = idx
				return q.selectAt(idx)
			}
		}
	}
	return nil
}

// SelectByID selects an action without key input.
func (q *QuickActions) SelectByID(id string) tea.Cmd {
	for i, a := range q.actions {
		if a.ID == id {
			q.cursor = i
			return q.selectAt(i)
		}
	}
	return nil
}

func (q *QuickActions) selectAt(idx int) tea.Cmd {
	action := q.actions[idx]
	selected := func() tea.Msg { return QuickActionSelectedMsg{Action: action} }
	if q.OnSelect == nil {
		return selected
	}
	return tea.Batch(selected, q.OnSelect(action.Query))
}

// View renders the card.
func (q *QuickActions) View() string {
	panel := q.theme.Panel
	if q.focused {
		panel = q.theme.PanelFocused
	}

	width := q.width
	if width <= 0 {
		width = 80
	}
	// Border (2) plus padding (2).
	inner := max(width-4, 20)
	cols := q.Columns()
	cellWidth := inner / cols

	var rows []string
	for start := 0; start < len(q.actions); start += cols {
		var cells []string
		for i := start; i < start+cols && i < len(q.actions); i++ {
			cells = append(cells, q.renderCell(i, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		q.theme.PanelTitle.Render(QuickActionsTitle),
		q.theme.PanelSubtitle.Render(util.TruncateWidth(QuickActionsSubtitle, inner)),
		"",
		strings.Join(rows, "\n"),
	)
	return panel.Width(width - 2).Render(content)
}

func (q *QuickActions) renderCell(idx, width int) string {
	action := q.actions[idx]
	style := q.theme.ActionItem
	if q.focused && idx == q.cursor {
		style = q.theme.ActionItemSelected
	}

	// ActionItem padding takes two cells.
	textWidth := max(width-2, 8)
	prefix := fmt.Sprintf("%d %s ", idx+1, action.Icon.Glyph())
	titleWidth := max(textWidth-util.StringWidth(prefix), 4)

	line1 := q.theme.ActionKey.Render(fmt.Sprintf("%d ", idx+1)) +
		q.theme.ActionIcon.Render(action.Icon.Glyph()+" ") +
		q.theme.ActionTitle.Render(util.TruncateWidth(action.Title, titleWidth))
	line2 := q.theme.ActionDesc.Render(strings.Repeat(" ", 4) +
		util.TruncateWidth(action.Description, max(textWidth-4, 4)))

	return style.Width(width).Render(line1 + "\n" + line2)
}
