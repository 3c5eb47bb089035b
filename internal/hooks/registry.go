// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hooks lets subsystems observe menu item writes and amend API
// responses without the controller knowing about them.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Func handles a hook call. It receives the current data and returns the
// data passed on to the next handler.
type Func func(ctx context.Context, data any) (any, error)

// Handler wraps a Func with metadata.
type Handler struct {
	Name     string // Name of the handler for debugging
	Owner    string // Subsystem that registered the handler
	Priority int    // Lower priority runs first
	Fn       Func
}

// Registry manages hook registration and execution.
type Registry struct {
	mu     sync.RWMutex
	hooks  map[string][]Handler
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		hooks:  make(map[string][]Handler),
		logger: logger,
	}
}

// Register adds a handler for hook. Handlers with equal priority run in
// registration order.
func (r *Registry) Register(hook string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := append(slices.Clone(r.hooks[hook]), h)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority < handlers[j].Priority
	})
	r.hooks[hook] = handlers

	r.logger.Debug("hook registered",
		"hook", hook,
		"handler", h.Name,
		"owner", h.Owner,
		"priority", h.Priority,
	)
}

// RegisterFunc registers fn with priority 0.
func (r *Registry) RegisterFunc(hook, name, owner string, fn Func) {
	r.Register(hook, Handler{Name: name, Owner: owner, Fn: fn})
}

// Call passes data through every handler of hook in priority order. The
// first error stops the chain and is returned.
func (r *Registry) Call(ctx context.Context, hook string, data any) (any, error) {
	r.mu.RLock()
	handlers := r.hooks[hook]
	r.mu.RUnlock()

	if len(handlers) == 0 {
		return data, nil
	}

	current := data
	for _, h := range handlers {
		result, err := h.Fn(ctx, current)
		if err != nil {
			r.logger.Error("hook handler error",
				"hook", hook,
				"handler", h.Name,
				"owner", h.Owner,
				"error", err,
			)
			return nil, fmt.Errorf("hook %s handler %s: %w", hook, h.Name, err)
		}
		current = result
	}
	return current, nil
}

// HasHandlers reports whether hook has any handler.
func (r *Registry) HasHandlers(hook string) bool {
	return r.HandlerCount(hook) > 0
}

// HandlerCount returns the number of handlers registered for hook.
func (r *Registry) HandlerCount(hook string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[hook])
}

// Unregister removes every handler registered by owner.
func (r *Registry) Unregister(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hook, handlers := range r.hooks {
		r.hooks[hook] = slices.DeleteFunc(slices.Clone(handlers), func(h Handler) bool {
			return h.Owner == owner
		})
	}
	r.logger.Debug("hooks unregistered", "owner", owner)
}
