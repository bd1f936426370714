// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/dispatch/mocks"
)

func TestResponder_DispatchesThenReplies(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDispatcher(ctrl)
	d.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inq dispatch.Inquiry) error {
			assert.Equal(t, "Where can I find food?", inq.Text)
			assert.Equal(t, assistant.TopicDining, inq.Topic)
			assert.Equal(t, "s-1", inq.SessionID)
			assert.Equal(t, dispatch.SourceTUI, inq.Source)
			assert.NotEmpty(t, inq.ID)
			return nil
		},
	)

	r := assistant.NewResponder(nil, d, 20*time.Millisecond)
	start := time.Now()
	reply, err := r.Respond(context.Background(), assistant.Request{
		SessionID: "s-1",
		Text:      "Where can I find food?",
		Source:    dispatch.SourceTUI,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, assistant.DiningResponse, reply.Text)
}

func TestResponder_DispatchFailureProducesNoReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDispatcher(ctrl)
	boom := errors.New("backend down")
	d.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(boom)

	r := assistant.NewResponder(nil, d, time.Hour)
	reply, err := r.Respond(context.Background(), assistant.Request{Text: "library"})
	assert.ErrorIs(t, err, assistant.ErrDispatch)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, reply.Text)
}

func TestResponder_CancelStopsPendingReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDispatcher(ctrl)
	d.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil)

	r := assistant.NewResponder(nil, d, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := r.Respond(ctx, assistant.Request{Text: "parking"})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Respond did not return after cancel")
	}
}

func TestResponder_EmptyInputSkipsDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDispatcher(ctrl)
	d.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)

	r := assistant.NewResponder(nil, d, 0)
	_, err := r.Respond(context.Background(), assistant.Request{Text: " \t\n"})
	assert.ErrorIs(t, err, assistant.ErrEmptyMessage)
}

func TestResponder_ZeroDelayAndSetDelay(t *testing.T) {
	r := assistant.NewResponder(nil, nil, -time.Second)
	assert.Equal(t, time.Duration(0), r.Delay())

	reply, err := r.Respond(context.Background(), assistant.Request{Text: "asdkjasd"})
	require.NoError(t, err)
	assert.Equal(t, assistant.FallbackResponse, reply.Text)
	assert.True(t, reply.Fallback)

	r.SetDelay(assistant.DefaultReplyDelay)
	assert.Equal(t, 1500*time.Millisecond, r.Delay())
}
