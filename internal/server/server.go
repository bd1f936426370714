// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/session"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8787

	// MaxRequestBodySize bounds request bodies. It fits the largest allowed
	// chat.input_limit (10000 runes) in 4-byte UTF-8.
	MaxRequestBodySize = 64 * 1024

	// DefaultShutdownTimeout is used when Options.ShutdownTimeout is zero.
	DefaultShutdownTimeout = 10 * time.Second
)

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	RateLimit       float64
	RateBurst       int
	ShutdownTimeout time.Duration

	// QuickActionMode is config.QuickActionStore, QuickActionPrefill or
	// QuickActionSubmit. Only submit changes server behaviour: the stored
	// query is also submitted as a message.
	QuickActionMode string

	Version string
}

// OptionsFromConfig builds server options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, version string) Options {
	return Options{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
		QuickActionMode: cfg.Chat.QuickActionMode,
		Version:         version,
	}
}

// Server exposes chat sessions over HTTP and WebSocket.
type Server struct {
	sessions *session.Manager
	log      zerolog.Logger
	metrics  *Metrics
	limiter  *RateLimiter
	router   chi.Router
	started  time.Time

	mu     sync.RWMutex
	opts   Options
	server *http.Server
}

// New creates a server over mgr and installs its metrics as the manager's
// reply hook.
func New(mgr *session.Manager, opts Options, log zerolog.Logger) *Server {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.QuickActionMode == "" {
		opts.QuickActionMode = config.QuickActionPrefill
	}

	s := &Server{
		sessions: mgr,
		log:      log.With().Str("component", "server").Logger(),
		limiter:  NewRateLimiter(opts.RateLimit, opts.RateBurst),
		started:  time.Now(),
		opts:     opts,
	}
	s.metrics = NewMetrics(func() float64 { return float64(mgr.Len()) })
	mgr.SetReplyHook(s.metrics.ObserveReply)
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

func (s *Server) quickActionMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.QuickActionMode
}

// ApplyConfig updates the settings that can change without a restart: rate
// limits, reply delay, session TTL, input limit and quick action mode.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.limiter.SetLimit(cfg.Server.RateLimit, cfg.Server.RateBurst)
	s.sessions.Responder().SetDelay(cfg.Chat.ReplyDelay.Std())
	s.sessions.SetTTL(cfg.Server.SessionTTL.Std())
	s.sessions.SetInputLimit(cfg.Chat.InputLimit)

	s.mu.Lock()
	s.opts.QuickActionMode = cfg.Chat.QuickActionMode
	s.opts.RateLimit = cfg.Server.RateLimit
	s.opts.RateBurst = cfg.Server.RateBurst
	s.mu.Unlock()

	s.log.Info().
		Float64("rate_limit", cfg.Server.RateLimit).
		Int("rate_burst", cfg.Server.RateBurst).
		Dur("reply_delay", cfg.Chat.ReplyDelay.Std()).
		Str("quick_action_mode", cfg.Chat.QuickActionMode).
		Msg("applied config")
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(Instrument(s.metrics))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(s.log))
	r.Use(chimw.Recoverer)
	r.Use(SecurityHeaders)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.metrics))
		r.Use(MaxBodySize(MaxRequestBodySize))

		r.Get("/quick-actions", s.handleQuickActions)
		r.Get("/stats", s.handleStats)
		r.Get("/header", s.handleHeader)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/messages", s.handlePostMessage)
			r.Delete("/reply", s.handleCancelReply)
			r.Post("/quick-actions/{actionID}", s.handleQuickAction)
			r.Get("/events", s.handleEvents)
		})
	})

	return r
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Run serves until ctx is cancelled, then shuts down gracefully. Background
// workers (session sweeper and limiter cleanup) run for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	timeout := s.opts.ShutdownTimeout
	s.mu.Unlock()

	workers, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go s.sessions.Run(workers)
	go s.limiter.Run(workers)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Str("version", s.opts.Version).Msg("server started")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the error envelope returned by every endpoint.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Message: message,
		Type:    errType,
		Code:    status,
	}})
}
