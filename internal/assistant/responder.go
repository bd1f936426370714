// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/campus-assistant/internal/dispatch"
)

// DefaultReplyDelay is how long the assistant "types" before answering.
const DefaultReplyDelay = 1500 * time.Millisecond

var (
	// ErrEmptyMessage is returned for empty or whitespace-only input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrDispatch wraps dispatcher failures.
	ErrDispatch = errors.New("dispatch failed")
)

// Request is one submission handed to the Responder.
type Request struct {
	SessionID string
	Text      string
	Source    dispatch.Source
}

// =============================================================================
// RESPONDER
// =============================================================================

// Responder runs the pending reply task for a submission: dispatch the raw
// text, wait the typing delay, then produce the canned reply.
//
// A Responder is safe for concurrent use. The delay can be changed while
// tasks are running; it applies to tasks started afterwards.
type Responder struct {
	engine     *Engine
	dispatcher dispatch.Dispatcher
	delay      atomic.Int64
}

// NewResponder creates a responder. A nil engine uses DefaultEngine and a nil
// dispatcher uses dispatch.Nop.
func NewResponder(engine *Engine, dispatcher dispatch.Dispatcher, delay time.Duration) *Responder {
	if engine == nil {
		engine = DefaultEngine()
	}
	if dispatcher == nil {
		dispatcher = dispatch.Nop
	}
	r := &Responder{engine: engine, dispatcher: dispatcher}
	r.SetDelay(delay)
	return r
}

// Engine returns the rule engine.
func (r *Responder) Engine() *Engine {
	return r.engine
}

// Delay returns the current typing delay.
func (r *Responder) Delay() time.Duration {
	return time.Duration(r.delay.Load())
}

// SetDelay changes the typing delay. Negative values are treated as zero.
func (r *Responder) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.delay.Store(int64(d))
}

// Respond dispatches req and returns the canned reply after the delay.
//
// A dispatcher error is returned wrapped in ErrDispatch and no reply is
// produced. If ctx ends first, ctx.Err() is returned.
func (r *Responder) Respond(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	reply := r.engine.Reply(req.Text)
	inq := dispatch.Inquiry{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Text:      req.Text,
		Topic:     reply.Topic,
		Source:    req.Source,
		At:        time.Now(),
	}
	if err := r.dispatcher.Dispatch(ctx, inq); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Reply{}, ctxErr
		}
		return Reply{}, fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	if delay := r.Delay(); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return Reply{}, err
	}

	return reply, nil
}
