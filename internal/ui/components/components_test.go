// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeader_View(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(100)

	view := h.View()
	for _, want := range []string{assistant.Title, "Available 24/7"} {
		if !strings.Contains(view, want) {
			t.Errorf("header view missing %q", want)
		}
	}
	if w := lipgloss.Width(view); w > 100 {
		t.Errorf("header width = %d, want <= 100", w)
	}
}

func TestHeader_CompactShowsTitleOnly(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(100)
	h.Compact = true

	view := h.View()
	if !strings.Contains(view, assistant.Title) {
		t.Error("compact header missing title")
	}
	if strings.Contains(view, "Available 24/7") {
		t.Error("compact header should not show the footnote")
	}
	if h.Height() != 1 {
		t.Errorf("compact height = %d, want 1", h.Height())
	}
}

// =============================================================================
// QUICK ACTIONS TESTS
// =============================================================================

func TestQuickActions_View(t *testing.T) {
	q := NewQuickActions(assistant.QuickActions(), testTheme())
	q.SetWidth(90)

	view := q.View()
	for _, want := range []string{QuickActionsTitle, "Dining Hours", "Office Hours"} {
		if !strings.Contains(view, want) {
			t.Errorf("quick actions view missing %q", want)
		}
	}
	if q.Columns() != 2 {
		t.Errorf("Columns() = %d, want 2", q.Columns())
	}

	q.SetWidth(130)
	if q.Columns() != 4 {
		t.Errorf("wide Columns() = %d, want 4", q.Columns())
	}

	q.SetWidth(40)
	if q.Columns() != 1 {
		t.Errorf("narrow Columns() = %d, want 1", q.Columns())
	}
}

func TestQuickActions_IgnoresKeysWhenBlurred(t *testing.T) {
	q := NewQuickActions(assistant.QuickActions(), testTheme())
	if cmd := q.Update(runeKey('3')); cmd != nil {
		t.Error("blurred grid should ignore keys")
	}
	if q.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", q.Cursor())
	}
}

func TestQuickActions_Navigation(t *testing.T) {
	q := NewQuickActions(assistant.QuickActions(), testTheme())
	q.SetWidth(90)
	q.Focus()

	steps := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, 1},
		{tea.KeyMsg{Type: tea.KeyDown}, 3},
		{runeKey('h'), 2},
		{runeKey('k'), 0},
		{runeKey('k'), 0},
		{tea.KeyMsg{Type: tea.KeyEnd}, 7},
		{runeKey('j'), 7},
		{tea.KeyMsg{Type: tea.KeyHome}, 0},
	}
	for i, step := range steps {
		q.Update(step.key)
		if q.Cursor() != step.want {
			t.Fatalf("step %d (%s): cursor = %d, want %d", i, step.key, q.Cursor(), step.want)
		}
	}
}

func TestQuickActions_EnterEmitsSelection(t *testing.T) {
	q := NewQuickActions(assistant.QuickActions(), testTheme())
	q.Focus()
	q.Update(tea.KeyMsg{Type: tea.KeyRight})

	cmd := q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	msg, ok := cmd().(QuickActionSelectedMsg)
	if !ok {
		t.Fatalf("got %T, want QuickActionSelectedMsg", cmd())
	}
	if msg.Action.ID != "library" {
		t.Errorf("selected %q, want library", msg.Action.ID)
	}
}

func TestQuickActions_DigitCallsOnSelect(t *testing.T) {
	q := NewQuickActions(assistant.QuickActions(), testTheme())
	q.Focus()

	var got string
	q.OnSelect = func(query string) tea.Cmd {
		got = query
		return nil
	}

	if cmd := q.Update(runeKey('3')); cmd == nil {
		t.Fatal("digit should return a command")
	}
	parking, _ := assistant.QuickActionByID("parking")
	if got != parking.Query {
		t.Errorf("OnSelect query = %q, want %q", got, parking.Query)
	}
	if q.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", q.Cursor())
	}

	if cmd := q.Update(runeKey('9')); cmd != nil {
		t.Error("digit past the catalog should do nothing")
	}
}

func TestQuickActions_SelectByID(t *testing.T) {
	q := NewQuickActions(assistant.QuickActions(), testTheme())
	if cmd := q.SelectByID("events"); cmd == nil {
		t.Fatal("SelectByID(events) returned nil")
	}
	if a, _ := q.Selected(); a.ID != "events" {
		t.Errorf("Selected() = %q, want events", a.ID)
	}
	if cmd := q.SelectByID("nope"); cmd != nil {
		t.Error("unknown ID should return nil")
	}
}

// =============================================================================
// PANEL TESTS
// =============================================================================

func TestRenderStats(t *testing.T) {
	view := RenderStats(assistant.Stats(), 40, testTheme())
	for _, want := range []string{assistant.StatsTitle, "Total Students", "25,847", "450 acres"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats view missing %q", want)
		}
	}
}

func TestRenderFooter(t *testing.T) {
	view := RenderFooter(120, []KeyHelp{{Key: "tab", Desc: "switch panel"}}, testTheme())
	for _, want := range []string{"(555) 123-4567", "Available 24/7", "switch panel"} {
		if !strings.Contains(view, want) {
			t.Errorf("footer missing %q", want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageBubble_UserAlignedRight(t *testing.T) {
	theme := testTheme()
	msg := model.NewUserMessage("hello")

	b := NewMessageBubble(msg, theme)
	b.SetWidth(80)
	view := b.View()

	if !strings.Contains(view, "hello") || !strings.Contains(view, msg.Clock()) {
		t.Fatalf("bubble missing content or clock:\n%s", view)
	}
	first := strings.Split(view, "\n")[0]
	if !strings.HasPrefix(first, " ") {
		t.Error("user bubble should be padded on the left")
	}
	if !strings.Contains(view, UserAvatar) {
		t.Error("user bubble missing avatar")
	}
}

func TestMessageBubble_ShortMessageKeepsClockOnOneLine(t *testing.T) {
	theme := testTheme()
	for _, msg := range []model.Message{
		model.NewUserMessage("hi"),
		model.NewAssistantMessage("ok"),
		model.NewUserMessage(""),
	} {
		b := NewMessageBubble(msg, theme)
		b.SetWidth(80)
		if view := b.View(); !strings.Contains(view, msg.Clock()) {
			t.Errorf("bubble for %q split the clock %q:\n%s", msg.Content, msg.Clock(), view)
		}
	}
}

func TestMessageBubble_AssistantAlignedLeft(t *testing.T) {
	b := NewMessageBubble(model.NewAssistantMessage(assistant.Greeting), testTheme())
	b.SetWidth(80)
	view := b.View()

	first := strings.Split(view, "\n")[0]
	if !strings.HasPrefix(strings.TrimSpace(first), AssistantAvatar) {
		t.Errorf("assistant avatar should lead the first line, got %q", first)
	}
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 80 {
			t.Errorf("line width %d exceeds 80", w)
		}
	}
}

func TestRenderMessages(t *testing.T) {
	theme := testTheme()
	if got := RenderMessages(nil, 80, theme); got != "" {
		t.Errorf("RenderMessages(nil) = %q, want empty", got)
	}
	view := RenderMessages([]model.Message{
		model.NewAssistantMessage("first"),
		model.NewUserMessage("second"),
	}, 80, theme)
	if strings.Index(view, "first") > strings.Index(view, "second") {
		t.Error("messages rendered out of order")
	}
}

func TestRenderTyping(t *testing.T) {
	view := RenderTyping("|", assistant.TypingLine, testTheme())
	if !strings.Contains(view, assistant.TypingLine) {
		t.Errorf("typing view missing %q", assistant.TypingLine)
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello world", 20, "hello world"},
		{"breaks", "hello world", 5, "hello\nworld"},
		{"keeps newlines", "a\nb", 10, "a\nb"},
		{"splits long word", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"zero width", "hello", 0, "hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wordWrap(tc.text, tc.width); got != tc.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
			}
		})
	}
}

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastManager_ExpiresAfterDuration(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.SetClock(func() time.Time { return now })

	id := m.Add(ToastKindSuccess, "Message sent", "Your query has been processed by the campus assistant.")
	if id == 0 || !m.HasToasts() {
		t.Fatal("toast not added")
	}

	now = now.Add(styles.ToastDuration - time.Millisecond)
	if m.Tick() != 1 {
		t.Error("toast expired too early")
	}
	now = now.Add(time.Millisecond)
	if m.Tick() != 0 {
		t.Error("toast should expire after ToastDuration")
	}
}

func TestToastManager_NewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()
	for _, title := range []string{"a", "b", "c", "d"} {
		m.Add(ToastKindInfo, title, "")
	}
	toasts := m.Toasts()
	if len(toasts) != 3 {
		t.Fatalf("len = %d, want 3", len(toasts))
	}
	if toasts[0].Title != "d" || toasts[2].Title != "b" {
		t.Errorf("order = %q, %q, %q", toasts[0].Title, toasts[1].Title, toasts[2].Title)
	}

	m.Remove(toasts[0].ID)
	if len(m.Toasts()) != 2 {
		t.Error("Remove did not drop the toast")
	}
	m.Clear()
	if m.HasToasts() {
		t.Error("Clear left toasts behind")
	}
}

func TestRenderToastStack(t *testing.T) {
	theme := testTheme()
	if RenderToastStack(nil, 80, theme) != "" {
		t.Error("empty stack should render nothing")
	}
	view := RenderToastStack([]Toast{{Kind: ToastKindInfo, Title: "Quick Action Selected", Description: "dining"}}, 80, theme)
	if !strings.Contains(view, "Quick Action Selected") || !strings.Contains(view, styles.StatusIndicators.Info) {
		t.Errorf("toast view missing title or marker:\n%s", view)
	}
}

func TestToastTickCmd(t *testing.T) {
	if ToastTickCmd() == nil {
		t.Fatal("ToastTickCmd returned nil")
	}
}
