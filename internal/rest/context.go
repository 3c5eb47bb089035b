// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rest provides the resource controller machinery shared by the
// JSON API: field contexts, schemas, requests, responses with links,
// typed errors and a generic posts controller.
package rest

// Context is a named visibility profile for resource fields.
type Context string

// Field contexts.
const (
	ContextView  Context = "view"
	ContextEdit  Context = "edit"
	ContextEmbed Context = "embed"
)

// AllContexts lists every context.
var AllContexts = []Context{ContextView, ContextEdit, ContextEmbed}

// ParseContext returns the context named s. The empty string is view.
func ParseContext(s string) (Context, bool) {
	switch Context(s) {
	case "":
		return ContextView, true
	case ContextView, ContextEdit, ContextEmbed:
		return Context(s), true
	}
	return "", false
}
