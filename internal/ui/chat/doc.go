// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat panel: a transcript viewport over a
// single-line input, a typing indicator, and at most one pending reply.
//
// Submit appends the user's text, clears the input and starts the reply
// task under a context derived from the panel's lifetime. The panel stays
// in StateAwaiting until the task resolves; further submissions are ignored
// until then. Esc abandons the pending reply and Close abandons everything.
package chat
