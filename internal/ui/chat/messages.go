// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/model"
)

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// SentMsg is emitted once per accepted submission so the parent can run its
// send hook.
type SentMsg struct {
	Text    string
	Message model.Message
}

// ReplyMsg carries the canned reply for submission Seq.
type ReplyMsg struct {
	Seq     uint64
	Reply   assistant.Reply
	Elapsed time.Duration
}

// ReplyFailedMsg reports that submission Seq produced no reply.
type ReplyFailedMsg struct {
	Seq uint64
	Err error
}

// Error implements error.
func (m ReplyFailedMsg) Error() string {
	if m.Err == nil {
		return "reply failed"
	}
	return m.Err.Error()
}

// Unwrap returns the underlying error.
func (m ReplyFailedMsg) Unwrap() error {
	return m.Err
}
