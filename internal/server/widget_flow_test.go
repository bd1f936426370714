// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/session"
)

// widgetFlowSuite drives the HTTP API the way the browser widget does,
// with inquiries recorded to a real SQLite log.
type widgetFlowSuite struct {
	suite.Suite

	log  *dispatch.SQLiteDispatcher
	mgr  *session.Manager
	srv  *Server
	http *httptest.Server
}

func TestWidgetFlowSuite(t *testing.T) {
	suite.Run(t, &widgetFlowSuite{})
}

func (s *widgetFlowSuite) SetupTest() {
	db, err := dispatch.OpenSQLite(filepath.Join(s.T().TempDir(), "inquiries.db"))
	s.Require().NoError(err)
	s.log = db

	responder := assistant.NewResponder(nil, dispatch.Multi{dispatch.NewLogDispatcher(zerolog.Nop()), db}, 0)
	s.mgr = session.NewManager(responder, session.DefaultConfig(), zerolog.Nop())
	s.srv = New(s.mgr, Options{QuickActionMode: config.QuickActionSubmit}, zerolog.Nop())
	s.http = httptest.NewServer(s.srv.Handler())
}

func (s *widgetFlowSuite) TearDownTest() {
	s.http.Close()
	s.mgr.Close()
	s.Require().NoError(s.log.Close())
}

func (s *widgetFlowSuite) call(method, path string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.http.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *widgetFlowSuite) waitIdle(id string) session.Snapshot {
	var snap session.Snapshot
	s.Require().Eventually(func() bool {
		s.call(http.MethodGet, "/api/v1/sessions/"+id, nil, &snap)
		return !snap.Awaiting
	}, 2*time.Second, 10*time.Millisecond)
	return snap
}

func (s *widgetFlowSuite) TestConversationIsRecorded() {
	var snap session.Snapshot
	s.Run("Step 1: open a session", func() {
		s.Require().Equal(http.StatusCreated, s.call(http.MethodPost, "/api/v1/sessions", nil, &snap))
		s.Require().Len(snap.Messages, 1)
	})

	s.Run("Step 2: ask about tuition", func() {
		status := s.call(http.MethodPost, "/api/v1/sessions/"+snap.ID+"/messages",
			MessageRequest{Content: "When is tuition payment due?"}, nil)
		s.Require().Equal(http.StatusAccepted, status)

		done := s.waitIdle(snap.ID)
		s.Require().Len(done.Messages, 3)
		s.Equal(assistant.FinancialResponse, done.Messages[2].Content)
	})

	s.Run("Step 3: submit a quick action", func() {
		var resp QuickActionResponse
		status := s.call(http.MethodPost, "/api/v1/sessions/"+snap.ID+"/quick-actions/parking", nil, &resp)
		s.Require().Equal(http.StatusOK, status)
		s.True(resp.Submitted)

		done := s.waitIdle(snap.ID)
		s.Require().Len(done.Messages, 5)
		s.Equal(assistant.ParkingResponse, done.Messages[4].Content)
		s.Equal(resp.Query, done.SelectedQuery)
	})

	s.Run("Step 4: the inquiry log holds both questions", func() {
		ctx := context.Background()
		recent, err := s.log.Recent(ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(recent, 2)
		for _, inq := range recent {
			s.Equal(snap.ID, inq.SessionID)
			s.Equal(dispatch.SourceHTTP, inq.Source)
		}

		counts, err := s.log.CountByTopic(ctx)
		s.Require().NoError(err)
		s.ElementsMatch([]dispatch.TopicCount{
			{Topic: assistant.TopicFinancial, Count: 1},
			{Topic: assistant.TopicParking, Count: 1},
		}, counts)
	})

	s.Run("Step 5: close the session", func() {
		s.Equal(http.StatusNoContent, s.call(http.MethodDelete, "/api/v1/sessions/"+snap.ID, nil, nil))
		s.Equal(http.StatusNotFound, s.call(http.MethodGet, "/api/v1/sessions/"+snap.ID, nil, nil))
	})
}

func (s *widgetFlowSuite) TestBlankMessageIsNotRecorded() {
	var snap session.Snapshot
	s.Require().Equal(http.StatusCreated, s.call(http.MethodPost, "/api/v1/sessions", nil, &snap))

	status := s.call(http.MethodPost, "/api/v1/sessions/"+snap.ID+"/messages", MessageRequest{Content: "   "}, nil)
	s.Equal(http.StatusBadRequest, status)

	recent, err := s.log.Recent(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(recent)
}
