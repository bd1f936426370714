// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// RULES
// =============================================================================

// Matcher reports whether a normalized input selects a rule.
type Matcher func(normalized string) bool

// Rule pairs a matcher with the response it produces.
type Rule struct {
	Topic    string
	Match    Matcher
	Response string
}

// ContainsAny matches when the input contains any of the keywords.
// Keywords are normalized the same way as input.
func ContainsAny(keywords ...string) Matcher {
	folded := make([]string, len(keywords))
	for i, kw := range keywords {
		folded[i] = Normalize(kw)
	}
	return func(input string) bool {
		for _, kw := range folded {
			if strings.Contains(input, kw) {
				return true
			}
		}
		return false
	}
}

// Normalize composes the input to NFC and applies full Unicode case folding.
func Normalize(s string) string {
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Fold().String(norm.NFC.String(s))
}

// =============================================================================
// ENGINE
// =============================================================================

// Reply is the outcome of a rule lookup.
type Reply struct {
	Topic    string `json:"topic"`
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// Engine evaluates an ordered rule table, first match wins.
type Engine struct {
	rules    []Rule
	fallback string
}

// NewEngine creates an engine over rules with the given fallback response.
// The rule slice is copied.
func NewEngine(rules []Rule, fallback string) *Engine {
	r := make([]Rule, len(rules))
	copy(r, rules)
	return &Engine{rules: r, fallback: fallback}
}

// DefaultEngine returns the engine with the campus topic table.
func DefaultEngine() *Engine {
	return NewEngine(DefaultRules(), FallbackResponse)
}

// Reply selects the canned response for text.
func (e *Engine) Reply(text string) Reply {
	input := Normalize(text)
	for _, rule := range e.rules {
		if rule.Match(input) {
			return Reply{Topic: rule.Topic, Text: rule.Response}
		}
	}
	return Reply{Topic: TopicFallback, Text: e.fallback, Fallback: true}
}

// Topics lists rule topics in evaluation order.
func (e *Engine) Topics() []string {
	topics := make([]string, len(e.rules))
	for i, rule := range e.rules {
		topics[i] = rule.Topic
	}
	return topics
}

// Topic names.
const (
	TopicDining       = "dining"
	TopicLibrary      = "library"
	TopicRegistration = "registration"
	TopicParking      = "parking"
	TopicFinancial    = "financial"
	TopicFallback     = "fallback"
)

// DefaultRules returns the campus topic table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Topic: TopicDining, Match: ContainsAny("dining", "food", "cafeteria"), Response: DiningResponse},
		{Topic: TopicLibrary, Match: ContainsAny("library", "study"), Response: LibraryResponse},
		{Topic: TopicRegistration, Match: ContainsAny("register", "course", "class"), Response: RegistrationResponse},
		{Topic: TopicParking, Match: ContainsAny("parking", "transportation"), Response: ParkingResponse},
		{Topic: TopicFinancial, Match: ContainsAny("financial aid", "tuition", "payment"), Response: FinancialResponse},
	}
}
