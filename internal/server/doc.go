// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the campus assistant to web widgets.
//
// Endpoints:
//   - GET    /healthz                                       - Health check
//   - GET    /metrics                                       - Prometheus metrics
//   - GET    /api/v1/quick-actions                          - Quick action catalog
//   - GET    /api/v1/stats                                  - Campus stats
//   - GET    /api/v1/header                                 - Banner copy
//   - POST   /api/v1/sessions                               - Start a session
//   - GET    /api/v1/sessions/{id}                          - Session snapshot
//   - DELETE /api/v1/sessions/{id}                          - End a session
//   - POST   /api/v1/sessions/{id}/messages                 - Submit a message
//   - DELETE /api/v1/sessions/{id}/reply                    - Cancel the pending reply
//   - POST   /api/v1/sessions/{id}/quick-actions/{actionID} - Select a quick action
//   - GET    /api/v1/sessions/{id}/events                   - WebSocket event stream
//
// Submitting a message returns 202 with the user message. The assistant
// reply arrives later on the event stream or in the next snapshot. A second
// submission while a reply is pending gets 409.
//
// Errors use the envelope {"error": {"message", "type", "code"}}.
package server
