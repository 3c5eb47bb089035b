// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus collectors for the menu item API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/ocms-navmenu/internal/cache"
)

const namespace = "ocms_navmenu"

// Write operations.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// Write outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeClientErr = "client_error"
	OutcomeServerErr = "server_error"
)

// Collector owns a registry and the collectors registered in it.
type Collector struct {
	registry *prometheus.Registry

	writes       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "menu_items",
				Name:      "writes_total",
				Help:      "Menu item create and update operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "route"},
		),
	}
	c.registry.MustRegister(c.writes, c.httpRequests, c.httpDuration)
	return c
}

// RecordWrite counts one create or update with the HTTP status it ended in.
func (c *Collector) RecordWrite(operation string, status int) {
	if c == nil {
		return
	}
	c.writes.WithLabelValues(operation, outcome(status)).Inc()
}

func outcome(status int) string {
	switch {
	case status >= 500:
		return OutcomeServerErr
	case status >= 400:
		return OutcomeClientErr
	default:
		return OutcomeSuccess
	}
}

// WatchCache exposes the hit rate and item count of a cache.
func (c *Collector) WatchCache(name string, stats cache.StatsProvider) {
	labels := prometheus.Labels{"cache": name}
	c.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "hit_rate_percent",
			Help:        "Cache hit rate in percent.",
			ConstLabels: labels,
		}, func() float64 { return stats.Stats().HitRate }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "items",
			Help:        "Number of cached entries.",
			ConstLabels: labels,
		}, func() float64 { return float64(stats.Stats().Items) }),
	)
}

// Middleware records request counts and durations per route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
