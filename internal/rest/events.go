// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import "context"

// EventSink receives lifecycle notifications. Implementations must not
// block the request for long; their failures are not reported back.
type EventSink interface {
	Notify(ctx context.Context, event string, item any, req *Request, creating bool)
}

// ResponseFilter may amend a prepared response before it is returned.
type ResponseFilter interface {
	Filter(ctx context.Context, name string, resp *Response, item any, req *Request) *Response
}

// NopSink discards notifications.
type NopSink struct{}

// Notify does nothing.
func (NopSink) Notify(context.Context, string, any, *Request, bool) {}

// IdentityFilter returns responses unchanged.
type IdentityFilter struct{}

// Filter returns resp.
func (IdentityFilter) Filter(_ context.Context, _ string, resp *Response, _ any, _ *Request) *Response {
	return resp
}
