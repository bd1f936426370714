// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/session"
)

var validate = validator.New()

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// MessageRequest is the body of POST /sessions/{id}/messages. The length
// limit comes from the session manager, so it follows chat.input_limit.
type MessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageResponse acknowledges an accepted submission.
type MessageResponse struct {
	Message model.Message `json:"message"`
}

// QuickActionResponse is returned when a quick action is selected.
type QuickActionResponse struct {
	Action    model.QuickAction `json:"action"`
	Query     string            `json:"query"`
	Submitted bool              `json:"submitted"`
	Message   *model.Message    `json:"message,omitempty"`
}

// HeaderResponse carries the banner copy.
type HeaderResponse struct {
	Title    string `json:"title"`
	Tagline  string `json:"tagline"`
	Footnote string `json:"footnote"`
	Footer   string `json:"footer"`
	Notice   string `json:"notice"`
}

// HealthResponse reports server health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}

// ============================================================================
// STATIC CONTENT
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  s.opts.Version,
		Sessions: s.sessions.Len(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleQuickActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"quick_actions": assistant.QuickActions()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"title": assistant.StatsTitle,
		"stats": assistant.Stats(),
	})
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HeaderResponse{
		Title:    assistant.Title,
		Tagline:  assistant.Tagline,
		Footnote: assistant.HeaderFootnote,
		Footer:   assistant.FooterLine,
		Notice:   assistant.EmergencyLine,
	})
}

// ============================================================================
// SESSIONS
// ============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid JSON body")
		return
	}

	// required must reject whitespace-only input, max counts the raw text.
	if err := validate.Struct(MessageRequest{Content: strings.TrimSpace(req.Content)}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", validationMessage(err))
		return
	}
	limit := s.sessions.InputLimit()
	if err := validate.Var(req.Content, fmt.Sprintf("max=%d", limit)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error",
			fmt.Sprintf("content must be at most %d characters", limit))
		return
	}

	msg, err := s.sessions.Submit(chi.URLParam(r, "id"), req.Content)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: msg})
}

func (s *Server) handleCancelReply(w http.ResponseWriter, r *http.Request) {
	cancelled, err := s.sessions.Cancel(chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (s *Server) handleQuickAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action, err := s.sessions.SelectQuickAction(id, chi.URLParam(r, "actionID"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	resp := QuickActionResponse{Action: action, Query: action.Query}
	if s.quickActionMode() == config.QuickActionSubmit {
		msg, err := s.sessions.Submit(id, action.Query)
		switch {
		case err == nil:
			resp.Submitted = true
			resp.Message = &msg
		case errors.Is(err, session.ErrReplyPending):
			// The query stays selected; the client can submit it later.
		default:
			s.writeSessionError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeSessionError maps session and assistant errors to HTTP statuses.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found_error", err.Error())
	case errors.Is(err, session.ErrUnknownAction):
		writeError(w, http.StatusNotFound, "not_found_error", err.Error())
	case errors.Is(err, session.ErrReplyPending):
		writeError(w, http.StatusConflict, "conflict_error", err.Error())
	case errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, session.ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
	case errors.Is(err, session.ErrTooManySessions), errors.Is(err, session.ErrManagerClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable_error", err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}

// validationMessage renders validator errors as one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
