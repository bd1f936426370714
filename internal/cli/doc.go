// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the campus command.

	campus                 full-screen page (same as `campus tui`)
	campus chat            line-mode REPL with history
	campus ask QUESTION    one-shot answer (--no-delay, --json)
	campus serve           widget HTTP API
	campus actions         quick action catalog
	campus inquiries       recent entries from the inquiry log (--topics)
	campus config          show | path | init
	campus version

Global flags: --config PATH, --log-level LEVEL.
*/
package cli
