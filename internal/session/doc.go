// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the chat sessions served by the widget API.
//
// Each Session owns one conversation and at most one pending reply. A
// submission appends the user message immediately and starts a reply task
// whose context derives from both the session and the Manager, so deleting
// a session, expiring it, or closing the Manager cancels the reply before
// anything is appended.
//
// # Key Types
//
//   - Manager: session registry with idle expiry
//   - Session: conversation, awaiting flag and event subscribers
//   - Event: message, typing, idle and quick action notifications
//
// # Usage
//
//	mgr := session.NewManager(responder, session.DefaultConfig(), log)
//	go mgr.Run(ctx)
//	defer mgr.Close()
//
//	s, _ := mgr.Create()
//	events, unsubscribe := s.Subscribe()
//	defer unsubscribe()
//	_, err := mgr.Submit(s.ID(), "Where can I park?")
package session
