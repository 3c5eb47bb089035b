// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Controller is a resource served under /{base}.
type Controller interface {
	Base() string
	ItemSchema() *Schema
	CollectionParams() *Schema
	GetItems(ctx context.Context, req *Request) (*Response, error)
	GetItem(ctx context.Context, req *Request) (*Response, error)
	CreateItem(ctx context.Context, req *Request) (*Response, error)
	UpdateItem(ctx context.Context, req *Request) (*Response, error)
}

type operation func(ctx context.Context, req *Request) (*Response, error)

// Mount registers the routes of c on r:
//
//	GET     /{base}       list
//	POST    /{base}       create
//	OPTIONS /{base}       schema
//	GET     /{base}/{id}  read
//	POST    /{base}/{id}  update (PUT and PATCH too)
//	OPTIONS /{base}/{id}  schema
func Mount(r chi.Router, c Controller, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &routeHandler{controller: c, logger: logger}

	r.Route("/"+c.Base(), func(r chi.Router) {
		r.Get("/", h.serve(h.list))
		r.Post("/", h.serve(c.CreateItem))
		r.Options("/", h.schema)

		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", h.serve(c.GetItem))
			r.Post("/", h.serve(c.UpdateItem))
			r.Put("/", h.serve(c.UpdateItem))
			r.Patch("/", h.serve(c.UpdateItem))
			r.Options("/", h.schema)
		})
	})
}

type routeHandler struct {
	controller Controller
	logger     *slog.Logger
}

func (h *routeHandler) list(ctx context.Context, req *Request) (*Response, error) {
	if err := SanitizeParams(h.controller.CollectionParams(), req); err != nil {
		return nil, err
	}
	return h.controller.GetItems(ctx, req)
}

func (h *routeHandler) serve(op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseHTTP(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		if _, ok := ParseContext(req.String("context")); !ok {
			WriteError(w, Validation("context", "context is not one of view, embed, edit."))
			return
		}

		resp, err := op(r.Context(), req)
		if err != nil {
			restErr := AsError(err)
			if restErr.Status >= http.StatusInternalServerError {
				h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
			} else {
				h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", restErr.Code)
			}
			WriteError(w, restErr)
			return
		}
		WriteResponse(w, resp)
	}
}

func (h *routeHandler) schema(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, Envelope{Data: h.controller.ItemSchema()})
}
