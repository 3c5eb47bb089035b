// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// GetPostMeta returns all meta values of a post keyed by meta key.
func (q *Queries) GetPostMeta(ctx context.Context, postID int64) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT meta_key, meta_value FROM postmeta WHERE post_id = ?`, postID)
	if err != nil {
		return nil, fmt.Errorf("listing meta for post %d: %w", postID, err)
	}
	defer func() { _ = rows.Close() }()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

// SetPostMeta inserts or replaces a single meta value.
func (q *Queries) SetPostMeta(ctx context.Context, postID int64, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO postmeta (post_id, meta_key, meta_value) VALUES (?, ?, ?)
		ON CONFLICT (post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		postID, key, value,
	)
	if err != nil {
		return fmt.Errorf("setting meta %q on post %d: %w", key, postID, err)
	}
	return nil
}

// DeletePostMeta removes a meta value.
func (q *Queries) DeletePostMeta(ctx context.Context, postID int64, key string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM postmeta WHERE post_id = ? AND meta_key = ?`, postID, key)
	return err
}

// UpdateMetaValues writes the given meta mapping onto a post. A nil value
// deletes the key. Keys starting with an underscore are protected and
// rejected. The values are written inside one transaction.
func (s *Store) UpdateMetaValues(ctx context.Context, postID int64, meta map[string]any) error {
	for key := range meta {
		if key == "" || key[0] == '_' {
			return &MetaError{Key: key, Message: "meta key is protected or empty"}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning meta transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.WithTx(tx)
	for key, value := range meta {
		if value == nil {
			if err := qtx.DeletePostMeta(ctx, postID, key); err != nil {
				return &MetaError{Key: key, Message: "could not delete meta value", Err: err}
			}
			continue
		}
		encoded, err := encodeMetaValue(value)
		if err != nil {
			return &MetaError{Key: key, Message: "meta value cannot be stored", Err: err}
		}
		if err := qtx.SetPostMeta(ctx, postID, key, encoded); err != nil {
			return &MetaError{Key: key, Message: "could not update meta value", Err: err}
		}
	}

	return tx.Commit()
}

func encodeMetaValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// MetaError reports a failed meta update.
type MetaError struct {
	Key     string
	Message string
	Err     error
}

func (e *MetaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meta %q: %s: %v", e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("meta %q: %s", e.Key, e.Message)
}

func (e *MetaError) Unwrap() error {
	return e.Err
}
