// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Default menu slugs
const (
	MenuMain   = "main"
	MenuFooter = "footer"
)

// Seed creates the default menus and a home page. It does nothing unless
// doSeed is set, and skips menus that already exist.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}
	queries := New(db)

	defaults := []CreateTermParams{
		{Taxonomy: "nav_menu", Name: "Main Menu", Slug: MenuMain},
		{Taxonomy: "nav_menu", Name: "Footer Menu", Slug: MenuFooter},
	}
	for _, arg := range defaults {
		_, err := queries.GetTermBySlug(ctx, arg.Taxonomy, arg.Slug)
		if err == nil {
			slog.Info("menu already exists, skipping seed", "slug", arg.Slug)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("checking for menu %q: %w", arg.Slug, err)
		}
		term, err := queries.CreateTerm(ctx, arg)
		if err != nil {
			return err
		}
		slog.Info("created default menu", "id", term.ID, "slug", term.Slug)
	}

	pages, _, err := queries.QueryPosts(ctx, QueryArgs{PostType: "page", Slugs: []string{"home"}, Limit: 1})
	if err != nil {
		return fmt.Errorf("checking for home page: %w", err)
	}
	if len(pages) > 0 {
		return nil
	}
	id, err := queries.CreatePost(ctx, CreatePostParams{
		PostType: "page",
		Title:    "Home",
		Name:     "home",
		Status:   "publish",
	})
	if err != nil {
		return fmt.Errorf("creating home page: %w", err)
	}
	slog.Info("created home page", "id", id)

	return nil
}
