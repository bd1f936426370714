// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeranaias/campus-assistant/internal/assistant"
)

const metricsNamespace = "campus_assistant"

// Metrics holds the server's Prometheus collectors. Each Server owns its own
// registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Replies       *prometheus.CounterVec
	ReplyFailures prometheus.Counter
	ReplyDuration prometheus.Histogram
	RateLimitHits prometheus.Counter
}

// NewMetrics registers all collectors. activeSessions is sampled at scrape
// time.
func NewMetrics(activeSessions func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "route"}),
		Replies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replies_total",
			Help:      "Assistant replies delivered, by topic",
		}, []string{"topic"}),
		ReplyFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reply_failures_total",
			Help:      "Reply tasks that ended in a dispatch failure",
		}),
		ReplyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "reply_duration_seconds",
			Help:      "Time from submission to delivered reply",
			Buckets:   []float64{.1, .5, 1, 1.5, 2, 3, 5},
		}),
		RateLimitHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}

	if activeSessions != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Open chat sessions",
		}, activeSessions)
	}
	return m
}

// ObserveReply is installed as the session manager's reply hook.
func (m *Metrics) ObserveReply(reply assistant.Reply, elapsed time.Duration, err error) {
	switch {
	case err == nil:
		m.Replies.WithLabelValues(reply.Topic).Inc()
		m.ReplyDuration.Observe(elapsed.Seconds())
	case errors.Is(err, assistant.ErrDispatch):
		m.ReplyFailures.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
