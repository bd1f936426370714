// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements the campus assistant's canned-reply engine.
//
// Replies come from an ordered rule table: each Rule pairs a Matcher with a
// fixed response and the first matching rule wins. Input is normalized
// (Unicode NFC plus case folding) before matching, so "LIBRARY" and
// "library" select the same rule.
//
// The Responder turns a submission into a pending reply task: it hands the
// raw text to a dispatch.Dispatcher, waits the configured typing delay and
// then returns the canned reply. The caller's context cancels the task.
//
// The package also holds the static widget content: greeting, quick action
// catalog, campus stats and banner copy.
package assistant
