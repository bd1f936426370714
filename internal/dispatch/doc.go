// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch delivers submitted campus questions to a back end.
//
// A Dispatcher receives every accepted submission before the canned reply
// is produced. Implementations log the inquiry (LogDispatcher), record it in
// a local SQLite inquiry log (SQLiteDispatcher), or fan out to several
// dispatchers (Multi). A dispatch error aborts the pending reply.
package dispatch
