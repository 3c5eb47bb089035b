// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: record not found")

const postColumns = `id, post_type, post_title, post_name, post_content, post_excerpt,
	post_status, post_password, post_parent, menu_order, post_author, guid, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.PostType, &p.Title, &p.Name, &p.Content, &p.Excerpt,
		&p.Status, &p.Password, &p.Parent, &p.MenuOrder, &p.Author, &p.GUID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetPostByID returns the post with the given id or ErrNotFound.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("getting post %d: %w", id, err)
	}
	return p, nil
}

// CreatePostParams holds the columns of a new post.
type CreatePostParams struct {
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
}

// CreatePost inserts a post and returns its id.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (post_type, post_title, post_name, post_content, post_excerpt,
			post_status, post_password, post_parent, menu_order, post_author, guid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.PostType, arg.Title, arg.Name, arg.Content, arg.Excerpt,
		arg.Status, arg.Password, arg.Parent, arg.MenuOrder, arg.Author,
		uuid.NewString(), now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePostParams holds the mutable columns of an existing post.
type UpdatePostParams struct {
	ID        int64
	Title     string
	Name      string
	Content   string
	Excerpt   string
	Status    string
	Parent    int64
	MenuOrder int
}

// UpdatePost rewrites the mutable columns of a post.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE posts SET post_title = ?, post_name = ?, post_content = ?, post_excerpt = ?,
			post_status = ?, post_parent = ?, menu_order = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Name, arg.Content, arg.Excerpt,
		arg.Status, arg.Parent, arg.MenuOrder, time.Now().UTC(), arg.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPostName overwrites the slug of a post.
func (q *Queries) SetPostName(ctx context.Context, id int64, name string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE posts SET post_name = ? WHERE id = ?`, name, id)
	return err
}

// MaxMenuOrder returns the highest menu_order among the items of a menu.
func (q *Queries) MaxMenuOrder(ctx context.Context, menuID int64) (int, error) {
	var maxOrder sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT MAX(p.menu_order) FROM posts p
		JOIN term_relationships tr ON tr.object_id = p.id
		WHERE tr.term_id = ? AND p.post_type = 'nav_menu_item'`, menuID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("getting max menu order: %w", err)
	}
	return int(maxOrder.Int64), nil
}
