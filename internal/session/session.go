// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/campus-assistant/internal/model"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventType names a session notification.
type EventType string

const (
	EventMessage     EventType = "message"
	EventTyping      EventType = "typing"
	EventIdle        EventType = "idle"
	EventQuickAction EventType = "quick_action"
	EventClosed      EventType = "closed"
)

// Event is delivered to session subscribers.
type Event struct {
	Type    EventType      `json:"type"`
	Message *model.Message `json:"message,omitempty"`
	Query   string         `json:"query,omitempty"`
	At      time.Time      `json:"at"`
}

// subscriberBuffer bounds each subscriber queue. Slow subscribers drop
// events rather than block the session.
const subscriberBuffer = 32

// =============================================================================
// SESSION
// =============================================================================

// Session is one widget conversation.
type Session struct {
	id   string
	conv *model.Conversation

	mu            sync.Mutex
	awaiting      bool
	cancel        context.CancelFunc
	selectedQuery string
	createdAt     time.Time
	lastActivity  time.Time
	closed        bool

	subscribers map[int]chan Event
	nextSub     int
}

func newSession(id, greeting string, maxMessages int) *Session {
	conv := model.NewConversation(greeting)
	conv.SetMaxMessages(maxMessages)
	now := time.Now()
	return &Session{
		id:           id,
		conv:         conv,
		createdAt:    now,
		lastActivity: now,
		subscribers:  make(map[int]chan Event),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Conversation returns the session history.
func (s *Session) Conversation() *model.Conversation {
	return s.conv
}

// Awaiting reports whether a reply is pending.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// SelectedQuery returns the last quick action query stored for the session.
func (s *Session) SelectedQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedQuery
}

// LastActivity returns when the session was last used.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID            string          `json:"id"`
	Messages      []model.Message `json:"messages"`
	Awaiting      bool            `json:"awaiting"`
	SelectedQuery string          `json:"selected_query,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	LastActivity  time.Time       `json:"last_activity"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:            s.id,
		Messages:      s.conv.Messages(),
		Awaiting:      s.awaiting,
		SelectedQuery: s.selectedQuery,
		CreatedAt:     s.createdAt,
		LastActivity:  s.lastActivity,
	}
}

// Subscribe returns a channel of session events and a function that stops
// the subscription. The channel is closed when the session closes or the
// subscription ends.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// publishLocked sends ev to every subscriber without blocking.
// Callers must hold s.mu.
func (s *Session) publishLocked(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// closeLocked cancels any pending reply and ends all subscriptions.
// Callers must hold s.mu.
func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.awaiting = false
	s.publishLocked(Event{Type: EventClosed})
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
