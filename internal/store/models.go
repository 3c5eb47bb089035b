// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"
)

// Post is a generic content record. Pages, posts and menu items all
// share this shape.
type Post struct {
	ID        int64
	PostType  string
	Title     string
	Name      string
	Content   string
	Excerpt   string
	Status    string
	Password  string
	Parent    int64
	MenuOrder int
	Author    int64
	GUID      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Term is a taxonomy term row.
type Term struct {
	ID          int64
	Taxonomy    string
	Name        string
	Slug        string
	Description string
	Parent      int64
}

// Event is an audit log row.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
