// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/ocms-navmenu/internal/rest"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

// MetaStore reads and writes post metadata.
type MetaStore interface {
	GetPostMeta(ctx context.Context, postID int64) (map[string]string, error)
	UpdateMetaValues(ctx context.Context, postID int64, meta map[string]any) error
}

// PostMetaFields exposes the public metadata of a post as the meta field.
// Keys starting with an underscore are private and never shown.
type PostMetaFields struct {
	store MetaStore
}

// NewPostMetaFields creates the meta field handler.
func NewPostMetaFields(s MetaStore) *PostMetaFields {
	return &PostMetaFields{store: s}
}

// GetValue returns the public metadata of postID.
func (m *PostMetaFields) GetValue(ctx context.Context, postID int64) (map[string]any, error) {
	meta, err := m.store.GetPostMeta(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("reading meta of post %d: %w", postID, err)
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// UpdateValue writes value, which must be an object, onto postID.
func (m *PostMetaFields) UpdateValue(ctx context.Context, postID int64, value any) error {
	meta, ok := value.(map[string]any)
	if !ok {
		return rest.Validation("meta", "meta is not of type object.")
	}
	if len(meta) == 0 {
		return nil
	}

	err := m.store.UpdateMetaValues(ctx, postID, meta)
	if err == nil {
		return nil
	}
	var me *store.MetaError
	if !errors.As(err, &me) {
		return rest.Internal("rest_meta_database_error", "Could not update the meta values in the database.")
	}
	if me.Err == nil {
		return rest.BadRequest("rest_cannot_update",
			fmt.Sprintf("The %s custom field cannot be updated.", me.Key)).WithData("key", me.Key)
	}
	return rest.Internal("rest_meta_database_error",
		fmt.Sprintf("Could not update the %s meta value in the database.", me.Key)).WithData("key", me.Key)
}
