// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"encoding/json"
	"maps"
	"net/http"
	"strconv"
)

// Link is a hypermedia link attached to a response.
type Link struct {
	Href       string `json:"href"`
	Embeddable bool   `json:"embeddable,omitempty"`
	Taxonomy   string `json:"taxonomy,omitempty"`
	PostType   string `json:"post_type,omitempty"`
}

// Meta contains pagination information for collections.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages"`
}

// Response is the result of a controller operation.
type Response struct {
	Data    any
	Status  int
	Headers http.Header
	Meta    *Meta

	links map[string][]Link
}

// NewResponse creates a 200 response carrying data.
func NewResponse(data any) *Response {
	return &Response{Data: data, Status: http.StatusOK, Headers: make(http.Header)}
}

// SetStatus sets the HTTP status.
func (r *Response) SetStatus(status int) {
	r.Status = status
}

// SetHeader sets a response header.
func (r *Response) SetHeader(key, value string) {
	r.Headers.Set(key, value)
}

// AddLink appends a link under rel.
func (r *Response) AddLink(rel string, link Link) {
	if r.links == nil {
		r.links = make(map[string][]Link)
	}
	r.links[rel] = append(r.links[rel], link)
}

// AddLinks appends every link of links.
func (r *Response) AddLinks(links map[string][]Link) {
	for rel, list := range links {
		for _, l := range list {
			r.AddLink(rel, l)
		}
	}
}

// Links returns the links attached so far.
func (r *Response) Links() map[string][]Link {
	return r.links
}

// Body returns the response data with links embedded under _links.
func (r *Response) Body() any {
	obj, ok := r.Data.(map[string]any)
	if !ok || len(r.links) == 0 {
		return r.Data
	}
	out := maps.Clone(obj)
	out["_links"] = r.links
	return out
}

// Envelope is the JSON document written for successful responses.
type Envelope struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// ErrorEnvelope is the JSON document written for failures.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteResponse writes resp inside the data envelope.
func WriteResponse(w http.ResponseWriter, resp *Response) {
	for key, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	WriteJSON(w, status, Envelope{Data: resp.Body(), Meta: resp.Meta})
}

// WriteError writes err as an error envelope.
func WriteError(w http.ResponseWriter, err error) {
	restErr := AsError(err)
	WriteJSON(w, restErr.Status, ErrorEnvelope{Error: ErrorDetail{
		Code:    restErr.Code,
		Message: restErr.Message,
		Details: restErr.Data,
	}})
}

// SetPagination records collection totals in the meta block and the
// X-WP-Total and X-WP-TotalPages headers.
func (r *Response) SetPagination(total int64, page, perPage int) {
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	r.Meta = &Meta{Total: total, Page: page, PerPage: perPage, Pages: pages}
	r.SetHeader("X-WP-Total", strconv.FormatInt(total, 10))
	r.SetHeader("X-WP-TotalPages", strconv.Itoa(pages))
}
