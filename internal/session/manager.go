// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/util"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrReplyPending    = errors.New("a reply is already pending")
	ErrMessageTooLong  = errors.New("message too long")
	ErrTooManySessions = errors.New("too many active sessions")
	ErrUnknownAction   = errors.New("unknown quick action")
	ErrManagerClosed   = errors.New("session manager closed")
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Config holds configuration for the session manager.
type Config struct {
	// TTL expires sessions idle for longer than this (default: 30 minutes).
	TTL time.Duration

	// MaxSessions caps concurrent sessions (0 = unlimited).
	MaxSessions int

	// MaxMessages caps each conversation's history (0 = unlimited).
	MaxMessages int

	// InputLimit is the maximum message length in runes.
	InputLimit int

	// SweepInterval is how often Run looks for idle sessions
	// (default: TTL/4, at least one second).
	SweepInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		TTL:         30 * time.Minute,
		MaxSessions: 1000,
		InputLimit:  500,
	}
}

// ReplyHook observes every finished reply task. err is nil for a delivered
// reply.
type ReplyHook func(reply assistant.Reply, elapsed time.Duration, err error)

// Manager tracks widget sessions.
type Manager struct {
	responder *assistant.Responder
	log       zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      Config
	hook     ReplyHook
	closed   bool

	// Every pending reply derives from ctx; Close cancels them all.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a session manager.
func NewManager(responder *assistant.Responder, cfg Config, log zerolog.Logger) *Manager {
	if responder == nil {
		responder = assistant.NewResponder(nil, nil, assistant.DefaultReplyDelay)
	}
	defaults := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.InputLimit <= 0 {
		cfg.InputLimit = defaults.InputLimit
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = max(cfg.TTL/4, time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		responder: responder,
		log:       log.With().Str("component", "sessions").Logger(),
		sessions:  make(map[string]*Session),
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetReplyHook installs fn to observe finished reply tasks.
func (m *Manager) SetReplyHook(fn ReplyHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = fn
}

// SetTTL changes the idle expiry for future sweeps.
func (m *Manager) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.TTL = ttl
}

// SetInputLimit changes the maximum message length for future submissions.
func (m *Manager) SetInputLimit(n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.InputLimit = n
}

// Responder returns the responder used for replies.
func (m *Manager) Responder() *assistant.Responder {
	return m.responder
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// Create starts a new session seeded with the greeting.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	s := newSession(generateSessionID(), assistant.Greeting, m.cfg.MaxMessages)
	m.sessions[s.id] = s
	m.log.Debug().Str("session_id", s.id).Msg("session created")
	return s, nil
}

// Get returns a session and marks it active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch()
	return s, nil
}

// Delete closes a session, cancelling its pending reply.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	s.closeLocked()
	s.mu.Unlock()
	m.log.Debug().Str("session_id", id).Msg("session deleted")
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs lists live session IDs, oldest first.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	sessions := lo.Values(m.sessions)
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].createdAt.Before(sessions[j].createdAt)
	})
	return lo.Map(sessions, func(s *Session, _ int) string { return s.id })
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit appends a user message to the session and starts the reply task.
//
// It returns assistant.ErrEmptyMessage for blank input, ErrReplyPending
// while a reply is outstanding and ErrMessageTooLong past the input limit.
// None of these change the conversation.
func (m *Manager) Submit(id, text string) (model.Message, error) {
	s, err := m.Get(id)
	if err != nil {
		return model.Message{}, err
	}
	if util.IsBlank(text) {
		return model.Message{}, assistant.ErrEmptyMessage
	}
	if limit := m.InputLimit(); utf8.RuneCountInString(text) > limit {
		return model.Message{}, fmt.Errorf("%w: at most %d characters", ErrMessageTooLong, limit)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Message{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if s.awaiting {
		s.mu.Unlock()
		return model.Message{}, ErrReplyPending
	}

	userMsg := s.conv.AddUserMessage(text)
	ctx, cancel := context.WithCancel(m.ctx)
	s.awaiting = true
	s.cancel = cancel
	m.wg.Add(1)
	s.publishLocked(Event{Type: EventMessage, Message: &userMsg})
	s.publishLocked(Event{Type: EventTyping})
	s.mu.Unlock()

	go m.runReply(ctx, cancel, s, text)

	return userMsg, nil
}

// runReply waits for the responder and appends the reply unless the task
// was cancelled.
func (m *Manager) runReply(ctx context.Context, cancel context.CancelFunc, s *Session, text string) {
	defer m.wg.Done()
	defer cancel()

	start := time.Now()
	reply, err := m.responder.Respond(ctx, assistant.Request{
		SessionID: s.id,
		Text:      text,
		Source:    dispatch.SourceHTTP,
	})

	s.mu.Lock()
	// A cancelled task must not touch the session: it may already be closed
	// or running a newer task.
	if ctx.Err() == nil {
		s.awaiting = false
		s.cancel = nil
		if err == nil {
			msg := s.conv.AddAssistantMessage(reply.Text)
			s.publishLocked(Event{Type: EventMessage, Message: &msg})
		}
		s.publishLocked(Event{Type: EventIdle})
	}
	s.mu.Unlock()

	switch {
	case err == nil:
		m.log.Debug().Str("session_id", s.id).Str("topic", reply.Topic).Msg("reply delivered")
	case errors.Is(err, context.Canceled):
		m.log.Debug().Str("session_id", s.id).Msg("reply cancelled")
	default:
		// Dispatch failures end the pending state without a reply.
		m.log.Warn().Err(err).Str("session_id", s.id).Msg("reply failed")
	}

	m.mu.RLock()
	hook := m.hook
	m.mu.RUnlock()
	if hook != nil {
		hook(reply, time.Since(start), err)
	}
}

// Cancel aborts the session's pending reply, if any. It reports whether a
// reply was pending.
func (m *Manager) Cancel(id string) (bool, error) {
	s, err := m.Get(id)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awaiting {
		return false, nil
	}
	s.cancel()
	s.cancel = nil
	s.awaiting = false
	s.publishLocked(Event{Type: EventIdle})
	return true, nil
}

// SelectQuickAction stores the action's query as the session's selected
// query and notifies subscribers. It does not submit anything.
func (m *Manager) SelectQuickAction(id, actionID string) (model.QuickAction, error) {
	action, ok := assistant.QuickActionByID(actionID)
	if !ok {
		return model.QuickAction{}, fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}
	s, err := m.Get(id)
	if err != nil {
		return model.QuickAction{}, err
	}

	s.mu.Lock()
	s.selectedQuery = action.Query
	s.publishLocked(Event{Type: EventQuickAction, Query: action.Query})
	s.mu.Unlock()
	return action, nil
}

// InputLimit returns the maximum message length in runes.
func (m *Manager) InputLimit() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.InputLimit
}

// =============================================================================
// EXPIRY
// =============================================================================

// Sweep removes sessions idle since before now-TTL and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	ttl := m.cfg.TTL
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastActivity()) > ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.mu.Lock()
		s.closeLocked()
		s.mu.Unlock()
	}
	if len(expired) > 0 {
		m.log.Info().Int("count", len(expired)).Msg("expired idle sessions")
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx ends.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Close cancels every pending reply, closes all sessions and waits for the
// reply tasks to finish.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sessions := lo.Values(m.sessions)
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	m.cancel()
	for _, s := range sessions {
		s.mu.Lock()
		s.closeLocked()
		s.mu.Unlock()
	}
	m.wg.Wait()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique, time-ordered session ID.
func generateSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "sess_" + uuid.NewString()
	}
	return "sess_" + id.String()
}
