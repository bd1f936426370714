// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the campus assistant.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, StringWidth, PadRight: terminal cell width aware helpers
//   - Excerpt: fixed-length preview used by notifications
//   - IsBlank: empty or whitespace-only check
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
