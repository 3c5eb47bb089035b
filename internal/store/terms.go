// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const termColumns = `id, taxonomy, name, slug, description, parent`

func scanTerm(row rowScanner) (Term, error) {
	var t Term
	err := row.Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug, &t.Description, &t.Parent)
	return t, err
}

// CreateTermParams holds the columns of a new term.
type CreateTermParams struct {
	Taxonomy    string
	Name        string
	Slug        string
	Description string
	Parent      int64
}

// CreateTerm inserts a term and returns it.
func (q *Queries) CreateTerm(ctx context.Context, arg CreateTermParams) (Term, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO terms (taxonomy, name, slug, description, parent) VALUES (?, ?, ?, ?, ?)`,
		arg.Taxonomy, arg.Name, arg.Slug, arg.Description, arg.Parent,
	)
	if err != nil {
		return Term{}, fmt.Errorf("creating term %q: %w", arg.Slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Term{}, err
	}
	return Term{
		ID:          id,
		Taxonomy:    arg.Taxonomy,
		Name:        arg.Name,
		Slug:        arg.Slug,
		Description: arg.Description,
		Parent:      arg.Parent,
	}, nil
}

// GetTerm returns a term of the given taxonomy or ErrNotFound.
func (q *Queries) GetTerm(ctx context.Context, id int64, taxonomy string) (Term, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+termColumns+` FROM terms WHERE id = ? AND taxonomy = ?`, id, taxonomy)
	t, err := scanTerm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Term{}, ErrNotFound
	}
	if err != nil {
		return Term{}, fmt.Errorf("getting term %d: %w", id, err)
	}
	return t, nil
}

// GetTermBySlug returns a term by taxonomy and slug or ErrNotFound.
func (q *Queries) GetTermBySlug(ctx context.Context, taxonomy, slug string) (Term, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+termColumns+` FROM terms WHERE taxonomy = ? AND slug = ?`, taxonomy, slug)
	t, err := scanTerm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Term{}, ErrNotFound
	}
	if err != nil {
		return Term{}, fmt.Errorf("getting term %q: %w", slug, err)
	}
	return t, nil
}

// ErrUnknownTermField is returned by GetTermField for unsupported fields.
var ErrUnknownTermField = errors.New("store: unknown term field")

// Field returns a raw field of the term by name.
func (t Term) Field(name string) (string, error) {
	switch name {
	case "name":
		return t.Name, nil
	case "slug":
		return t.Slug, nil
	case "description":
		return t.Description, nil
	case "taxonomy":
		return t.Taxonomy, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTermField, name)
}

// GetTermField returns a single raw field of a term.
func (q *Queries) GetTermField(ctx context.Context, field string, id int64, taxonomy string) (string, error) {
	t, err := q.GetTerm(ctx, id, taxonomy)
	if err != nil {
		return "", err
	}
	return t.Field(field)
}

// AddObjectTerm relates a post to a term. Existing relations are kept.
func (q *Queries) AddObjectTerm(ctx context.Context, objectID, termID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO term_relationships (object_id, term_id) VALUES (?, ?)`,
		objectID, termID,
	)
	if err != nil {
		return fmt.Errorf("relating post %d to term %d: %w", objectID, termID, err)
	}
	return nil
}

// ListObjectTermIDs returns the ids of the terms of a taxonomy related to a post.
func (q *Queries) ListObjectTermIDs(ctx context.Context, objectID int64, taxonomy string) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.id FROM terms t
		JOIN term_relationships tr ON tr.term_id = t.id
		WHERE tr.object_id = ? AND t.taxonomy = ?
		ORDER BY t.id`, objectID, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("listing terms for post %d: %w", objectID, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
