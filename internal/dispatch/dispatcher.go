// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Source identifies the surface an inquiry came from.
type Source string

const (
	SourceTUI  Source = "tui"
	SourceCLI  Source = "cli"
	SourceHTTP Source = "http"
)

// Inquiry is one submitted question.
type Inquiry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Topic     string    `json:"topic"`
	Source    Source    `json:"source"`
	At        time.Time `json:"at"`
}

// Dispatcher receives submitted inquiries.
type Dispatcher interface {
	Dispatch(ctx context.Context, inq Inquiry) error
}

// =============================================================================
// ADAPTERS
// =============================================================================

// Func adapts a function to the Dispatcher interface.
type Func func(ctx context.Context, inq Inquiry) error

// Dispatch calls f.
func (f Func) Dispatch(ctx context.Context, inq Inquiry) error {
	return f(ctx, inq)
}

// Nop accepts every inquiry and does nothing.
var Nop Dispatcher = Func(func(context.Context, Inquiry) error { return nil })

// Multi dispatches to every dispatcher in order. All are attempted; the
// errors are joined.
type Multi []Dispatcher

// Dispatch implements Dispatcher.
func (m Multi) Dispatch(ctx context.Context, inq Inquiry) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Dispatch(ctx, inq); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// LOG DISPATCHER
// =============================================================================

// LogDispatcher writes one structured log event per inquiry.
type LogDispatcher struct {
	log zerolog.Logger
}

// NewLogDispatcher creates a dispatcher that logs to log.
func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log.With().Str("component", "dispatch").Logger()}
}

// Dispatch implements Dispatcher.
func (d *LogDispatcher) Dispatch(ctx context.Context, inq Inquiry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.log.Info().
		Str("inquiry_id", inq.ID).
		Str("session_id", inq.SessionID).
		Str("source", string(inq.Source)).
		Str("topic", inq.Topic).
		Int("length", len(inq.Text)).
		Msg("message sent")
	return nil
}
