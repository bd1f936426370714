// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// Avatar labels drawn beside each bubble.
const (
	UserAvatar      = "you"
	AssistantAvatar = "bot"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one chat message: avatar, bubble and clock caption.
// User bubbles sit on the right, assistant bubbles on the left, and neither
// takes more than three quarters of the width.
type MessageBubble struct {
	Message model.Message
	Width   int
	theme   *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{Message: msg, Width: 80, theme: theme}
}

// SetWidth sets the available width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	width := max(b.Width, 30)
	maxBubble := width * 3 / 4

	content := b.Message.Content
	if strings.TrimSpace(content) == "" {
		content = "..."
	}

	// Border (2) + padding (2) surround the text.
	textWidth := max(maxBubble-4, 10)
	wrapped := wordWrap(content, textWidth)
	clock := b.theme.Timestamp.Render(b.Message.Clock())
	innerWidth := min(max(maxLineWidth(wrapped), lipgloss.Width(clock)), textWidth)

	var bubbleStyle, avatarStyle lipgloss.Style
	var avatar string
	if b.Message.IsUser() {
		bubbleStyle, avatarStyle, avatar = b.theme.UserBubble, b.theme.UserAvatar, UserAvatar
	} else {
		bubbleStyle, avatarStyle, avatar = b.theme.AssistantBubble, b.theme.AssistantAvatar, AssistantAvatar
	}

	bubble := bubbleStyle.Width(innerWidth + 2).Render(wrapped + "\n" + clock)
	avatarView := avatarStyle.Render(avatar)

	if b.Message.IsUser() {
		row := lipgloss.JoinHorizontal(lipgloss.Top, bubble, " ", avatarView)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, row)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, avatarView, " ", bubble)
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// RenderMessages renders a conversation, one blank line between bubbles.
func RenderMessages(msgs []model.Message, width int, theme *styles.Theme) string {
	if len(msgs) == 0 {
		return ""
	}
	views := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		b := NewMessageBubble(msg, theme)
		b.SetWidth(width)
		views = append(views, b.View())
	}
	return strings.Join(views, "\n\n")
}

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// RenderTyping renders the assistant avatar with the spinner frame and the
// typing line.
func RenderTyping(spinnerFrame, text string, theme *styles.Theme) string {
	avatar := theme.AssistantAvatar.Render(AssistantAvatar)
	line := theme.Spinner.Render(spinnerFrame) + " " + theme.TypingText.Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", theme.AssistantBubble.Render(line))
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within width display cells. Words longer than
// the width are hard-split.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		var current string
		for _, word := range words {
			for util.StringWidth(word) > width {
				if current != "" {
					result.WriteString(current + "\n")
					current = ""
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				result.WriteString(head + "\n")
				word = word[len(head):]
			}
			switch {
			case current == "":
				current = word
			case util.StringWidth(current)+1+util.StringWidth(word) <= width:
				current += " " + word
			default:
				result.WriteString(current + "\n")
				current = word
			}
		}
		result.WriteString(current)
	}
	return result.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	w := 0
	for _, line := range strings.Split(text, "\n") {
		w = max(w, util.StringWidth(line))
	}
	return w
}
