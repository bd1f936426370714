// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered, append-only message history. The first message
// is always the assistant greeting it was created with.
//
// A Conversation is safe for concurrent use.
type Conversation struct {
	mu        sync.RWMutex
	messages  []Message
	createdAt time.Time
	updatedAt time.Time

	// maxMessages caps the in-memory history. When exceeded, the oldest
	// exchanges after the greeting are dropped. Zero means unlimited.
	maxMessages int
}

// NewConversation creates a conversation seeded with one assistant greeting.
func NewConversation(greeting string) *Conversation {
	now := time.Now()
	return &Conversation{
		messages:  []Message{newMessageAt(RoleAssistant, greeting, now)},
		createdAt: now,
		updatedAt: now,
	}
}

// SetMaxMessages sets the history cap. Values below 3 (greeting plus one
// exchange) other than zero are raised to 3.
func (c *Conversation) SetMaxMessages(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n > 0 && n < 3 {
		n = 3
	}
	c.maxMessages = n
	c.pruneLocked()
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message at the end of the history.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	c.updatedAt = time.Now()
	c.pruneLocked()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) Message {
	msg := NewUserMessage(content)
	c.Append(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) Message {
	msg := NewAssistantMessage(content)
	c.Append(msg)
	return msg
}

// pruneLocked drops the oldest exchanges after the greeting until the
// history fits the cap. A user message goes together with the assistant
// answer that follows it.
func (c *Conversation) pruneLocked() {
	if c.maxMessages == 0 || len(c.messages) <= c.maxMessages {
		return
	}
	drop := len(c.messages) - c.maxMessages
	for 1+drop < len(c.messages) && c.messages[1+drop].Role == RoleAssistant {
		drop++
	}
	kept := make([]Message, 0, len(c.messages)-drop)
	kept = append(kept, c.messages[0])
	kept = append(kept, c.messages[1+drop:]...)
	c.messages = kept
}

// Messages returns a copy of the history in display order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Since returns the messages appended after the message with the given ID.
// An unknown ID returns the whole history.
func (c *Conversation) Since(id string) []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, msg := range c.messages {
		if msg.ID == id {
			out := make([]Message, len(c.messages)-i-1)
			copy(out, c.messages[i+1:])
			return out
		}
	}
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Last returns the most recent message.
func (c *Conversation) Last() Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.messages[len(c.messages)-1]
}

// Greeting returns the seed message.
func (c *Conversation) Greeting() Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.messages[0]
}

// CreatedAt returns when the conversation started.
func (c *Conversation) CreatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.createdAt
}

// UpdatedAt returns when the last message was appended.
func (c *Conversation) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}
