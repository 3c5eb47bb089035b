// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// maxBodySize limits JSON request bodies.
const maxBodySize = 1 << 20

// Request carries the merged parameters of an API call. URL parameters
// override body parameters, which override query parameters.
type Request struct {
	Method string
	Path   string
	Header http.Header

	params map[string]any
}

// NewRequest creates a request with the given parameters.
func NewRequest(method, path string, params map[string]any) *Request {
	p := make(map[string]any, len(params))
	maps.Copy(p, params)
	return &Request{Method: method, Path: path, Header: make(http.Header), params: p}
}

// ParseHTTP builds a Request from an HTTP request routed by chi.
func ParseHTTP(r *http.Request) (*Request, error) {
	req := NewRequest(r.Method, r.URL.Path, nil)
	req.Header = r.Header.Clone()

	for key, values := range r.URL.Query() {
		name := strings.TrimSuffix(key, "[]")
		if len(values) == 1 && !strings.HasSuffix(key, "[]") {
			req.params[name] = values[0]
			continue
		}
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		req.params[name] = list
	}

	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodOptions {
		body, err := decodeJSONBody(r)
		if err != nil {
			return nil, err
		}
		maps.Copy(req.params, body)
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			req.params[key] = rctx.URLParams.Values[i]
		}
	}
	return req, nil
}

func decodeJSONBody(r *http.Request) (map[string]any, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return nil, nil
		}
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, BadRequest("rest_invalid_body", "Could not read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, BadRequest("rest_invalid_json", "Invalid JSON body passed")
	}
	return body, nil
}

// Get returns the named parameter. Null values count as absent.
func (r *Request) Get(name string) (any, bool) {
	v, ok := r.params[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether the parameter is present and not null.
func (r *Request) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Set stores a parameter.
func (r *Request) Set(name string, value any) {
	r.params[name] = value
}

// Params returns a copy of all parameters.
func (r *Request) Params() map[string]any {
	return maps.Clone(r.params)
}

// String returns a string parameter or "".
func (r *Request) String(name string) string {
	v, _ := r.Get(name)
	s, _ := v.(string)
	return s
}

// Int returns an integer parameter.
func (r *Request) Int(name string) (int64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return IntValue(v)
}

// List returns a list parameter as strings.
func (r *Request) List(name string) []string {
	v, ok := r.Get(name)
	if !ok {
		return nil
	}
	return StringList(v)
}

// Context returns the field context of the request. Unknown values fall
// back to view; Mount rejects them before a controller runs.
func (r *Request) Context() Context {
	ctx, ok := ParseContext(r.String("context"))
	if !ok {
		return ContextView
	}
	return ctx
}

// SetContext overrides the field context.
func (r *Request) SetContext(ctx Context) {
	r.params["context"] = string(ctx)
}
