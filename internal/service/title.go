// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

// Title formats applied to protected and private posts.
const (
	ProtectedTitleFormat = "Protected: %s"
	PrivateTitleFormat   = "Private: %s"
)

// RenderOptions adjusts title rendering.
type RenderOptions struct {
	// HideProtectedPrefix renders password protected titles without the
	// "Protected:" prefix.
	HideProtectedPrefix bool
}

// TitleRenderer renders post titles as display HTML.
type TitleRenderer struct {
	policy *bluemonday.Policy
}

// NewTitleRenderer creates a renderer that keeps user-generated-content
// markup and strips everything else.
func NewTitleRenderer() *TitleRenderer {
	return &TitleRenderer{policy: bluemonday.UGCPolicy()}
}

// Sanitize returns title as safe HTML.
func (r *TitleRenderer) Sanitize(title string) string {
	return strings.TrimSpace(r.policy.Sanitize(title))
}

// Render returns the display title of post, prefixed for password
// protected and private posts.
func (r *TitleRenderer) Render(post store.Post, opts RenderOptions) string {
	title := post.Title
	switch {
	case post.Password != "":
		if !opts.HideProtectedPrefix {
			title = fmt.Sprintf(ProtectedTitleFormat, title)
		}
	case post.Status == model.StatusPrivate:
		title = fmt.Sprintf(PrivateTitleFormat, title)
	}
	return r.Sanitize(title)
}
