// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/ocms-navmenu/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary test database with migrations applied.
// The database is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "ocms-navmenu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestStore returns a Store over a fresh test database.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewStore(TestDB(t))
}

// CreateMenu creates a nav_menu term.
func CreateMenu(t *testing.T, q *store.Queries, slug string) store.Term {
	t.Helper()
	term, err := q.CreateTerm(context.Background(), store.CreateTermParams{
		Taxonomy: "nav_menu",
		Name:     slug,
		Slug:     slug,
	})
	if err != nil {
		t.Fatalf("CreateTerm(%s): %v", slug, err)
	}
	return term
}

// CreatePost inserts a published post of postType.
func CreatePost(t *testing.T, q *store.Queries, postType, title, slug string) store.Post {
	t.Helper()
	ctx := context.Background()
	id, err := q.CreatePost(ctx, store.CreatePostParams{
		PostType: postType,
		Title:    title,
		Name:     slug,
		Status:   "publish",
	})
	if err != nil {
		t.Fatalf("CreatePost(%s): %v", title, err)
	}
	post, err := q.GetPostByID(ctx, id)
	if err != nil {
		t.Fatalf("GetPostByID(%d): %v", id, err)
	}
	return post
}
