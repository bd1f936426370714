// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the terminal UI,
// the line-mode chat and the widget HTTP API.
//
// # Key Types
//
//   - Conversation: append-only message history seeded with a greeting
//   - Message: single immutable message with role, content and timestamp
//   - QuickAction: a preset campus query shown in the quick actions grid
//   - Stat: a literal label/value pair shown in the campus stats panel
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
//	conv := model.NewConversation("Hello!")
//	conv.Append(model.NewUserMessage("Where can I eat?"))
//	for _, msg := range conv.Messages() {
//	    fmt.Printf("%s %s: %s\n", msg.Clock(), msg.Role.DisplayName(), msg.Content)
//	}
package model
