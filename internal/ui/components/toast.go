// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/campus-assistant/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects the toast border color and marker.
type ToastKind int

const (
	ToastKindInfo ToastKind = iota
	ToastKindSuccess
	ToastKindError
)

// Toast is a transient notification with a title and a description.
type Toast struct {
	ID          int
	Kind        ToastKind
	Title       string
	Description string
	CreatedAt   time.Time
	Duration    time.Duration
}

// ExpiredAt reports whether the toast should be gone at now.
func (t Toast) ExpiredAt(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the visible toasts, newest first.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	now       func() time.Time
	mutex     sync.Mutex
}

// NewToastManager creates a toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		nextID:    1,
		maxToasts: 3,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Tests use it to expire toasts.
func (m *ToastManager) SetClock(now func() time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.now = now
}

// Add shows a toast for styles.ToastDuration and returns its ID.
func (m *ToastManager) Add(kind ToastKind, title, description string) int {
	return m.AddToast(Toast{Kind: kind, Title: title, Description: description})
}

// AddToast shows a toast. Zero Duration and CreatedAt are filled in.
func (m *ToastManager) AddToast(toast Toast) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if toast.ID == 0 {
		toast.ID = m.nextID
		m.nextID++
	}
	if toast.Duration <= 0 {
		toast.Duration = styles.ToastDuration
	}
	if toast.CreatedAt.IsZero() {
		toast.CreatedAt = m.now()
	}

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// Remove dismisses a toast by ID.
func (m *ToastManager) Remove(id int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops expired toasts and returns how many remain.
func (m *ToastManager) Tick() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.ExpiredAt(now) {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return len(m.toasts)
}

// Toasts returns a copy of the visible toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]Toast, len(m.toasts))
	copy(result, m.toasts)
	return result
}

// HasToasts reports whether any toast is visible.
func (m *ToastManager) HasToasts() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct{}

// ToastTickInterval is how often expiry is checked.
const ToastTickInterval = 100 * time.Millisecond

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(ToastTickInterval, func(time.Time) tea.Msg {
		return ToastTickMsg{}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderToast renders a single toast card.
func RenderToast(toast Toast, theme *styles.Theme) string {
	var style lipgloss.Style
	var marker string
	switch toast.Kind {
	case ToastKindSuccess:
		style, marker = theme.ToastSuccess, styles.StatusIndicators.Success
	case ToastKindError:
		style, marker = theme.ToastError, styles.StatusIndicators.Error
	default:
		style, marker = theme.ToastInfo, styles.StatusIndicators.Info
	}

	body := theme.ToastTitle.Render(marker + " " + toast.Title)
	if toast.Description != "" {
		body += "\n" + theme.ToastBody.Render(toast.Description)
	}
	return style.Render(body)
}

// RenderToastStack renders the toasts right-aligned within width, newest on
// top. Returns "" when there is nothing to show.
func RenderToastStack(toasts []Toast, width int, theme *styles.Theme) string {
	if len(toasts) == 0 {
		return ""
	}
	cards := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		cards = append(cards, RenderToast(toast, theme))
	}
	stack := strings.Join(cards, "\n")
	if width <= 0 {
		return stack
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
