// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// RULE TABLE TESTS
// =============================================================================

func TestEngine_TopicKeywords(t *testing.T) {
	engine := DefaultEngine()

	tests := []struct {
		input string
		topic string
		want  string
	}{
		{"Where is the DINING hall?", TopicDining, DiningResponse},
		{"any Food near me", TopicDining, DiningResponse},
		{"cafeteria menu", TopicDining, DiningResponse},
		{"What are the library hours?", TopicLibrary, LibraryResponse},
		{"quiet place to Study", TopicLibrary, LibraryResponse},
		{"how do I register", TopicRegistration, RegistrationResponse},
		{"Course list", TopicRegistration, RegistrationResponse},
		{"my classroom", TopicRegistration, RegistrationResponse},
		{"PARKING permit", TopicParking, ParkingResponse},
		{"public transportation options", TopicParking, ParkingResponse},
		{"Financial Aid deadline", TopicFinancial, FinancialResponse},
		{"tuition cost", TopicFinancial, FinancialResponse},
		{"payment plan", TopicFinancial, FinancialResponse},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			reply := engine.Reply(tc.input)
			assert.Equal(t, tc.topic, reply.Topic)
			assert.Equal(t, tc.want, reply.Text)
			assert.False(t, reply.Fallback)
		})
	}
}

func TestEngine_FirstMatchWins(t *testing.T) {
	engine := DefaultEngine()

	// dining is evaluated before library
	assert.Equal(t, TopicDining, engine.Reply("food in the library").Topic)
	// library before registration
	assert.Equal(t, TopicLibrary, engine.Reply("study for my class").Topic)
	// registration before financial
	assert.Equal(t, TopicRegistration, engine.Reply("course payment").Topic)
}

func TestEngine_Fallback(t *testing.T) {
	engine := DefaultEngine()

	for _, input := range []string{"asdkjasd", "", "   ", "financial", "aid", "Where is the gym?"} {
		reply := engine.Reply(input)
		assert.True(t, reply.Fallback, input)
		assert.Equal(t, TopicFallback, reply.Topic)
		assert.Equal(t, FallbackResponse, reply.Text)
	}
}

func TestEngine_LibraryScenarioPrefix(t *testing.T) {
	reply := DefaultEngine().Reply("What are the library hours?")
	assert.True(t, strings.HasPrefix(reply.Text, "The main library is open 24/7"))
}

func TestEngine_CustomRules(t *testing.T) {
	rules := []Rule{
		{Topic: "gym", Match: ContainsAny("gym", "fitness"), Response: "The gym opens at 6."},
	}
	engine := NewEngine(rules, "no idea")

	// mutating the caller's slice must not affect the engine
	rules[0].Response = "changed"

	assert.Equal(t, "The gym opens at 6.", engine.Reply("GYM hours").Text)
	assert.Equal(t, "no idea", engine.Reply("library").Text)
	assert.Equal(t, []string{"gym"}, engine.Topics())
}

func TestNormalize_FoldsCase(t *testing.T) {
	assert.Equal(t, "library", Normalize("LIBRARY"))
	assert.Equal(t, Normalize("STRASSE"), Normalize("straße"))
	assert.True(t, ContainsAny("Dining")("the dining hall"))
}

func TestEngine_TopicsOrder(t *testing.T) {
	assert.Equal(t,
		[]string{TopicDining, TopicLibrary, TopicRegistration, TopicParking, TopicFinancial},
		DefaultEngine().Topics())
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestQuickActions_Catalog(t *testing.T) {
	actions := QuickActions()
	require.Len(t, actions, 8)
	assert.Equal(t,
		[]string{"dining", "library", "parking", "registration", "financial", "campus", "events", "hours"},
		QuickActionIDs())

	dining, ok := QuickActionByID("dining")
	require.True(t, ok)
	assert.Equal(t, "Dining Hours", dining.Title)
	assert.Equal(t, "What are the dining hall hours today?", dining.Query)

	_, ok = QuickActionByID("gym")
	assert.False(t, ok)

	// returned slice is a copy
	actions[0].Query = "changed"
	again, _ := QuickActionAt(1)
	assert.Equal(t, "What are the dining hall hours today?", again.Query)

	_, ok = QuickActionAt(0)
	assert.False(t, ok)
	_, ok = QuickActionAt(9)
	assert.False(t, ok)
}

func TestQuickActions_QueriesReachTheirTopic(t *testing.T) {
	engine := DefaultEngine()
	want := map[string]string{
		"dining":       TopicDining,
		"library":      TopicLibrary,
		"parking":      TopicParking,
		"registration": TopicRegistration,
		"financial":    TopicFinancial,
	}
	for id, topic := range want {
		action, ok := QuickActionByID(id)
		require.True(t, ok)
		assert.Equal(t, topic, engine.Reply(action.Query).Topic, id)
	}
}

func TestStats(t *testing.T) {
	stats := Stats()
	require.Len(t, stats, 4)
	assert.Equal(t, "Total Students", stats[0].Label)
	assert.Equal(t, "25,847", stats[0].Value)
	assert.Equal(t, "450 acres", stats[3].Value)
}
