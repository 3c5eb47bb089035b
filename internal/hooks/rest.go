// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package hooks

import (
	"context"
	"log/slog"

	"github.com/olegiv/ocms-navmenu/internal/rest"
)

// ItemEvent is the data passed to lifecycle hooks.
type ItemEvent struct {
	Item     any
	Request  *rest.Request
	Creating bool
}

// PrepareEvent is the data passed to response filters. Handlers return
// the event, optionally with a replaced Response.
type PrepareEvent struct {
	Response *rest.Response
	Item     any
	Request  *rest.Request
}

// Sink delivers lifecycle notifications to registry handlers. Handler
// failures are logged and otherwise ignored.
type Sink struct {
	registry *Registry
	logger   *slog.Logger
}

// NewSink creates a rest.EventSink backed by registry.
func NewSink(registry *Registry, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{registry: registry, logger: logger}
}

// Notify calls the handlers of event.
func (s *Sink) Notify(ctx context.Context, event string, item any, req *rest.Request, creating bool) {
	if !s.registry.HasHandlers(event) {
		return
	}
	if _, err := s.registry.Call(ctx, event, ItemEvent{Item: item, Request: req, Creating: creating}); err != nil {
		s.logger.Warn("lifecycle hook failed", "event", event, "error", err)
	}
}

// Filter runs response filters registered in a registry.
type Filter struct {
	registry *Registry
	logger   *slog.Logger
}

// NewFilter creates a rest.ResponseFilter backed by registry.
func NewFilter(registry *Registry, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{registry: registry, logger: logger}
}

// Filter passes resp through the handlers of name. A failing handler or
// a handler returning something other than a PrepareEvent with a response
// leaves resp unchanged.
func (f *Filter) Filter(ctx context.Context, name string, resp *rest.Response, item any, req *rest.Request) *rest.Response {
	if !f.registry.HasHandlers(name) {
		return resp
	}
	out, err := f.registry.Call(ctx, name, PrepareEvent{Response: resp, Item: item, Request: req})
	if err != nil {
		f.logger.Warn("response filter failed", "filter", name, "error", err)
		return resp
	}
	ev, ok := out.(PrepareEvent)
	if !ok || ev.Response == nil {
		f.logger.Warn("response filter returned unexpected data", "filter", name)
		return resp
	}
	return ev.Response
}

var (
	_ rest.EventSink      = (*Sink)(nil)
	_ rest.ResponseFilter = (*Filter)(nil)
)
