// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Campus Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ClockLayout is the caption format shown under each bubble.
const ClockLayout = "03:04 PM"

// Message represents a single message in a conversation.
// Messages are values; once appended to a Conversation they are never changed.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a new message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return newMessageAt(role, content, time.Now())
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

func newMessageAt(role Role, content string, at time.Time) Message {
	return Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: at,
	}
}

// generateID returns a time-ordered identifier. UUIDv7 embeds the creation
// time in milliseconds, so IDs sort in creation order.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source fails.
		return "msg_" + uuid.NewString()
	}
	return "msg_" + id.String()
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// IsUser returns true if this is a user message.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if this is an assistant message.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// Clock renders the message time as hh:mm with an AM/PM suffix.
func (m Message) Clock() string {
	return m.Timestamp.Format(ClockLayout)
}

// CreatedAt extracts the creation time encoded in the message ID.
// It returns false when the ID was not produced by NewMessage.
func (m Message) CreatedAt() (time.Time, bool) {
	if len(m.ID) <= len("msg_") {
		return time.Time{}, false
	}
	id, err := uuid.Parse(m.ID[len("msg_"):])
	if err != nil || id.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec), true
}
