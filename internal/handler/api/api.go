// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API of the navigation menu service.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-navmenu/internal/rest"
	"github.com/olegiv/ocms-navmenu/internal/version"
)

// Pinger checks that a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the API namespace.
type Handler struct {
	namespace string
	menuItems *MenuItemsController
	db        Pinger
	build     version.Info
	logger    *slog.Logger
}

// NewHandler creates the API handler for namespace.
func NewHandler(namespace string, menuItems *MenuItemsController, db Pinger, build version.Info, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		namespace: namespace,
		menuItems: menuItems,
		db:        db,
		build:     build,
		logger:    logger,
	}
}

// Routes returns the router of the namespace. The caller mounts it under
// /{namespace}.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Status)
	rest.Mount(r, h.menuItems, h.logger)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		rest.WriteError(w, rest.NotFound(rest.CodeNoRoute, "No route was found matching the URL and request method."))
	})
	return r
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status    string            `json:"status"`
	Namespace string            `json:"namespace"`
	Version   string            `json:"version"`
	Commit    string            `json:"commit,omitempty"`
	Checks    map[string]string `json:"checks"`
	Routes    []string          `json:"routes"`
}

// Status returns the API status. The database is pinged with a short
// timeout; a failed ping reports the API as degraded with status 503.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:    "ok",
		Namespace: h.namespace,
		Version:   h.build.VersionOrDev(),
		Commit:    h.build.GitCommit,
		Checks:    map[string]string{},
		Routes:    []string{"/" + h.menuItems.Base(), "/" + h.menuItems.Base() + "/{id}"},
	}
	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	rest.WriteJSON(w, status, rest.Envelope{Data: resp})
}
