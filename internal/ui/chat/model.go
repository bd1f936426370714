// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/ui/components"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// DefaultInputLimit is the maximum message length in characters.
const DefaultInputLimit = 500

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat panel.
type State int

const (
	StateReady    State = iota // Ready for input
	StateAwaiting              // A reply is pending
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateAwaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// Options configures a chat panel.
type Options struct {
	// Context bounds the panel's lifetime. Defaults to context.Background.
	Context context.Context

	// SessionID tags inquiries from this panel. Generated when empty.
	SessionID string

	InputLimit  int
	MaxMessages int
	Logger      zerolog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat panel.
//
// Methods use a pointer receiver; the parent keeps a *Model and forwards
// messages to Update.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	conversation *model.Conversation
	responder    *assistant.Responder
	sessionID    string
	inputLimit   int

	// Lifetime context; cancelled by Close.
	ctx  context.Context
	stop context.CancelFunc

	// In-flight reply task. seq numbers submissions; pending is the one
	// whose reply is still wanted, zero when none.
	cancelMgr *cancelManager
	seq       uint64
	pending   uint64
	closed    bool

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap
	focused  bool

	log zerolog.Logger
}

// New creates a chat panel seeded with the greeting. A nil responder uses
// the default engine with no dispatcher and the default delay.
func New(responder *assistant.Responder, theme *styles.Theme, opts Options) *Model {
	if responder == nil {
		responder = assistant.NewResponder(nil, nil, assistant.DefaultReplyDelay)
	}
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	if opts.SessionID == "" {
		opts.SessionID = "tui_" + uuid.NewString()
	}
	if opts.InputLimit <= 0 {
		opts.InputLimit = DefaultInputLimit
	}

	conv := model.NewConversation(assistant.Greeting)
	conv.SetMaxMessages(opts.MaxMessages)

	input := textinput.New()
	input.Placeholder = assistant.Placeholder
	input.CharLimit = opts.InputLimit
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder

	sp := spinner.New(
		spinner.WithSpinner(styles.LineSpinner.Bubbles()),
		spinner.WithStyle(theme.Spinner),
	)

	ctx, stop := context.WithCancel(parent)
	m := &Model{
		state:        StateReady,
		theme:        theme,
		conversation: conv,
		responder:    responder,
		sessionID:    opts.SessionID,
		inputLimit:   opts.InputLimit,
		ctx:          ctx,
		stop:         stop,
		cancelMgr:    newCancelManager(),
		viewport:     viewport.New(80, 18),
		input:        input,
		spinner:      sp,
		keyMap:       DefaultKeyMap(),
		log:          opts.Logger.With().Str("component", "chat").Logger(),
	}
	m.Focus()
	m.SetSize(80, 20)
	return m
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the panel state.
func (m *Model) State() State { return m.state }

// Awaiting reports whether a reply is pending.
func (m *Model) Awaiting() bool { return m.state == StateAwaiting }

// Closed reports whether Close was called.
func (m *Model) Closed() bool { return m.closed }

// Messages returns a snapshot of the conversation.
func (m *Model) Messages() []model.Message { return m.conversation.Messages() }

// Conversation returns the underlying conversation.
func (m *Model) Conversation() *model.Conversation { return m.conversation }

// SessionID returns the ID attached to this panel's inquiries.
func (m *Model) SessionID() string { return m.sessionID }

// KeyMap returns the panel bindings.
func (m *Model) KeyMap() KeyMap { return m.keyMap }

// Input returns the current input text.
func (m *Model) Input() string { return m.input.Value() }

// SetInput replaces the input text and moves the cursor to the end.
func (m *Model) SetInput(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
}

// Focus gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Focused reports whether the panel has focus.
func (m *Model) Focused() bool { return m.focused }

// SetSize sets the panel dimensions. Two lines go to the input area.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 20), max(height, 4)
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height

	m.viewport.Width = m.width
	m.viewport.Height = m.height - 2

	// Prompt, padding and the "nnn/500" counter.
	m.input.Width = max(m.width-len(m.input.Prompt)-12, 10)
	m.refresh(true)
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit sends the input text. It is a no-op when the input is blank, a
// reply is pending or the panel is closed.
//
// The returned command emits SentMsg and later ReplyMsg or ReplyFailedMsg.
func (m *Model) Submit() tea.Cmd {
	text := m.input.Value()
	if m.closed || m.state == StateAwaiting || util.IsBlank(text) {
		return nil
	}

	msg := m.conversation.AddUserMessage(text)
	m.input.Reset()
	m.state = StateAwaiting
	m.seq++
	seq := m.seq
	m.pending = seq

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelMgr.set(cancel)
	m.refresh(true)

	responder := m.responder
	req := assistant.Request{SessionID: m.sessionID, Text: text, Source: dispatch.SourceTUI}
	reply := func() tea.Msg {
		start := time.Now()
		r, err := responder.Respond(ctx, req)
		if err != nil {
			return ReplyFailedMsg{Seq: seq, Err: err}
		}
		return ReplyMsg{Seq: seq, Reply: r, Elapsed: time.Since(start)}
	}
	sent := func() tea.Msg {
		return SentMsg{Text: text, Message: msg}
	}
	return tea.Batch(sent, reply, m.spinner.Tick)
}

// CancelReply abandons the pending reply. It reports whether one was
// pending.
func (m *Model) CancelReply() bool {
	if m.state != StateAwaiting {
		return false
	}
	m.finish()
	m.refresh(true)
	return true
}

// Close cancels the lifetime context. No message is appended afterwards.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.finish()
	m.stop()
}

func (m *Model) finish() {
	m.cancelMgr.cancel()
	m.state = StateReady
	m.pending = 0
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a message and returns a follow-up command.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil

	case ReplyMsg:
		if m.closed || msg.Seq != m.pending {
			return nil
		}
		m.finish()
		m.conversation.AddAssistantMessage(msg.Reply.Text)
		m.log.Debug().
			Str("topic", msg.Reply.Topic).
			Dur("elapsed", msg.Elapsed).
			Msg("reply delivered")
		m.refresh(true)
		return nil

	case ReplyFailedMsg:
		if msg.Seq != m.pending {
			return nil
		}
		m.finish()
		if !errors.Is(msg.Err, context.Canceled) {
			m.log.Warn().Err(msg.Err).Msg("reply failed")
		}
		m.refresh(true)
		return nil

	case spinner.TickMsg:
		if m.state != StateAwaiting {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.CancelReply()
		return nil
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return nil
	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
		return nil
	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return nil
	}

	if !m.focused || m.state == StateAwaiting {
		return nil
	}
	if key.Matches(msg, m.keyMap.Submit) {
		return m.Submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// refresh re-renders the transcript. Appends pass bottom so the newest
// message stays in view.
func (m *Model) refresh(bottom bool) {
	content := components.RenderMessages(m.conversation.Messages(), m.width, m.theme)
	if m.state == StateAwaiting {
		content += "\n\n" + components.RenderTyping(m.spinner.View(), assistant.TypingLine, m.theme)
	}
	m.viewport.SetContent(content)
	if bottom {
		m.viewport.GotoBottom()
	}
}
