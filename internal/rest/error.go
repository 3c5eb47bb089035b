// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"errors"
	"net/http"
)

// Error is a failure returned to API callers with a machine-readable code
// and an HTTP status.
type Error struct {
	Code    string
	Message string
	Status  int
	Data    map[string]any
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// NewError creates an Error.
func NewError(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// WithData attaches a detail value and returns e.
func (e *Error) WithData(key string, value any) *Error {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// Conflict reports a request that clashes with existing state.
// Status is 400 to match the upstream API.
func Conflict(code, message string) *Error {
	return NewError(code, message, http.StatusBadRequest)
}

// NotFound reports a missing resource.
func NotFound(code, message string) *Error {
	return NewError(code, message, http.StatusNotFound)
}

// Internal reports a server-side failure.
func Internal(code, message string) *Error {
	return NewError(code, message, http.StatusInternalServerError)
}

// BadRequest reports a request the server rejected.
func BadRequest(code, message string) *Error {
	return NewError(code, message, http.StatusBadRequest)
}

// Validation reports a malformed request field.
func Validation(field, message string) *Error {
	return BadRequest(CodeInvalidParam, "Invalid parameter(s): "+field).
		WithData("params", map[string]string{field: message})
}

// Common error codes.
const (
	CodeInvalidParam  = "rest_invalid_param"
	CodeInternalError = "rest_internal_error"
	CodeInvalidID     = "rest_post_invalid_id"
	CodePostExists    = "rest_post_exists"
	CodeNoRoute       = "rest_no_route"
)

// AsError returns err as an *Error. Errors of other types become a 500
// that does not expose the underlying message.
func AsError(err error) *Error {
	var restErr *Error
	if errors.As(err, &restErr) {
		return restErr
	}
	return Internal(CodeInternalError, "Internal server error")
}
