// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to disk.
//
// # Supported Formats
//
//   - Markdown: human-readable, one section per message
//   - JSON: the messages with their IDs, roles and timestamps
//
// # Usage
//
//	exp, err := export.ForFormat("md", nil)
//	path, err := export.ToFile(conversation, exp, &export.Options{OutputDir: "."})
package export
