// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("inquiry log closed")

const inquirySchema = `
CREATE TABLE IF NOT EXISTS inquiries (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL,
	topic      TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inquiries_created ON inquiries(created_at);
CREATE INDEX IF NOT EXISTS idx_inquiries_topic ON inquiries(topic);
`

// =============================================================================
// SQLITE INQUIRY LOG
// =============================================================================

// SQLiteDispatcher records inquiries in a local SQLite database.
type SQLiteDispatcher struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the inquiry log at path. Use ":memory:" for
// a throwaway database.
func OpenSQLite(path string) (*SQLiteDispatcher, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create inquiry log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inquiry log: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(inquirySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteDispatcher{db: db, path: path}, nil
}

// Path returns the database location.
func (d *SQLiteDispatcher) Path() string {
	return d.path
}

// Dispatch implements Dispatcher.
func (d *SQLiteDispatcher) Dispatch(ctx context.Context, inq Inquiry) error {
	if d.db == nil {
		return ErrClosed
	}
	at := inq.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO inquiries (id, session_id, text, topic, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		inq.ID, inq.SessionID, inq.Text, inq.Topic, string(inq.Source), at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record inquiry: %w", err)
	}
	return nil
}

// Recent returns up to limit inquiries, newest first.
func (d *SQLiteDispatcher) Recent(ctx context.Context, limit int) ([]Inquiry, error) {
	if d.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, session_id, text, topic, source, created_at FROM inquiries ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	var out []Inquiry
	for rows.Next() {
		var (
			inq    Inquiry
			source string
			millis int64
		)
		if err := rows.Scan(&inq.ID, &inq.SessionID, &inq.Text, &inq.Topic, &source, &millis); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inq.Source = Source(source)
		inq.At = time.UnixMilli(millis)
		out = append(out, inq)
	}
	return out, rows.Err()
}

// TopicCount is one row of CountByTopic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// CountByTopic aggregates inquiries per reply topic, most frequent first.
func (d *SQLiteDispatcher) CountByTopic(ctx context.Context) ([]TopicCount, error) {
	if d.db == nil {
		return nil, ErrClosed
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT topic, COUNT(*) AS n FROM inquiries GROUP BY topic ORDER BY n DESC, topic ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}
	defer rows.Close()

	var out []TopicCount
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan topic count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Close closes the database.
func (d *SQLiteDispatcher) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}
