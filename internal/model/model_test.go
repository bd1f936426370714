// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_Fields(t *testing.T) {
	before := time.Now()
	msg := NewUserMessage("Where is the library?")

	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "Where is the library?", msg.Content)
	assert.False(t, msg.Timestamp.Before(before))
	assert.True(t, msg.IsUser())
	assert.False(t, msg.IsAssistant())
}

func TestNewMessage_IDsAreUniqueAndOrdered(t *testing.T) {
	var ids []string
	for i := 0; i < 50; i++ {
		ids = append(ids, NewAssistantMessage("x").ID)
	}
	seen := make(map[string]bool)
	for i, id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if i > 0 {
			assert.Less(t, ids[i-1], id, "ids should sort in creation order")
		}
	}
}

func TestMessage_CreatedAtFromID(t *testing.T) {
	msg := NewUserMessage("hi")
	at, ok := msg.CreatedAt()
	require.True(t, ok)
	assert.WithinDuration(t, msg.Timestamp, at, 5*time.Millisecond)

	_, ok = Message{ID: "legacy"}.CreatedAt()
	assert.False(t, ok)
}

func TestMessage_Clock(t *testing.T) {
	msg := Message{Timestamp: time.Date(2025, 9, 1, 14, 5, 0, 0, time.Local)}
	assert.Equal(t, "02:05 PM", msg.Clock())

	msg.Timestamp = time.Date(2025, 9, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "09:30 AM", msg.Clock())
}

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Campus Assistant"},
		{Role("bot"), "bot"},
	}
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.role.DisplayName())
		})
	}
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("system").Valid())
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_SeededWithGreeting(t *testing.T) {
	conv := NewConversation("Hello!")
	require.Equal(t, 1, conv.Len())
	greeting := conv.Greeting()
	assert.Equal(t, RoleAssistant, greeting.Role)
	assert.Equal(t, "Hello!", greeting.Content)
	assert.Equal(t, greeting, conv.Last())
}

func TestConversation_AppendPreservesOrder(t *testing.T) {
	conv := NewConversation("Hello!")
	u := conv.AddUserMessage("first")
	a := conv.AddAssistantMessage("second")

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, u.ID, msgs[1].ID)
	assert.Equal(t, a.ID, msgs[2].ID)
}

func TestConversation_MessagesReturnsCopy(t *testing.T) {
	conv := NewConversation("Hello!")
	msgs := conv.Messages()
	msgs[0].Content = "mutated"
	assert.Equal(t, "Hello!", conv.Greeting().Content)
}

func TestConversation_Since(t *testing.T) {
	conv := NewConversation("Hello!")
	first := conv.AddUserMessage("one")
	conv.AddAssistantMessage("two")

	after := conv.Since(first.ID)
	require.Len(t, after, 1)
	assert.Equal(t, "two", after[0].Content)

	assert.Len(t, conv.Since("unknown"), 3)
	assert.Empty(t, conv.Since(conv.Last().ID))
}

func TestConversation_MaxMessagesKeepsGreeting(t *testing.T) {
	conv := NewConversation("Hello!")
	conv.SetMaxMessages(5)
	for i := 0; i < 4; i++ {
		conv.AddUserMessage("q")
		conv.AddAssistantMessage("a")
	}

	msgs := conv.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "Hello!", msgs[0].Content)
	assert.Equal(t, "q", msgs[1].Content)
	assert.Equal(t, "a", msgs[4].Content)
}

func TestConversation_MaxMessagesDropsWholeExchanges(t *testing.T) {
	conv := NewConversation("Hello!")
	conv.SetMaxMessages(4)
	conv.AddUserMessage("q1")
	conv.AddAssistantMessage("a1")
	conv.AddUserMessage("q2")
	conv.AddAssistantMessage("a2")

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"Hello!", "q2", "a2"}, []string{msgs[0].Content, msgs[1].Content, msgs[2].Content})

	// A pending question never leaves an orphaned answer behind.
	conv.SetMaxMessages(5)
	conv.AddUserMessage("q3")
	conv.AddAssistantMessage("a3")
	conv.AddUserMessage("q4")
	msgs = conv.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "q3", msgs[1].Content)
	assert.Equal(t, "q4", msgs[3].Content)
}

func TestConversation_MaxMessagesFloor(t *testing.T) {
	conv := NewConversation("Hello!")
	conv.SetMaxMessages(1)
	conv.AddUserMessage("q")
	conv.AddAssistantMessage("a")
	assert.Equal(t, 3, conv.Len())
}

func TestConversation_ConcurrentAppend(t *testing.T) {
	conv := NewConversation("Hello!")
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv.AddUserMessage("q")
			_ = conv.Messages()
		}()
	}
	wg.Wait()
	assert.Equal(t, 101, conv.Len())
}

// =============================================================================
// CATALOG TYPE TESTS
// =============================================================================

func TestIcon_Names(t *testing.T) {
	assert.Equal(t, "utensils", IconUtensils.String())
	assert.Equal(t, "clock", IconClock.String())
	assert.Equal(t, "unknown", Icon(99).String())
	assert.Equal(t, "?", Icon(-1).Glyph())
}

func TestQuickAction_JSONUsesIconName(t *testing.T) {
	data, err := json.Marshal(QuickAction{ID: "dining", Icon: IconUtensils})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"icon":"utensils"`)
}

func TestQuickAction_JSONRoundTrip(t *testing.T) {
	for icon := IconUtensils; icon <= IconClock; icon++ {
		in := QuickAction{ID: "x", Title: "X", Icon: icon, Query: "q"}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out QuickAction
		require.NoError(t, json.Unmarshal(data, &out), icon.String())
		assert.Equal(t, in, out)
	}

	var out QuickAction
	assert.Error(t, json.Unmarshal([]byte(`{"icon":"rocket"}`), &out))
}
