// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/ocms-navmenu/internal/cache"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

// CachedTermStore reads terms through a cache. Lookups that fail are not
// cached.
type CachedTermStore struct {
	terms TermGetter
	cache *cache.Typed[store.Term]
}

// NewCachedTermStore wraps terms with c. A zero ttl uses the cache default.
func NewCachedTermStore(terms TermGetter, c cache.Cache, ttl time.Duration) *CachedTermStore {
	return &CachedTermStore{
		terms: terms,
		cache: cache.NewTyped[store.Term](c, ttl),
	}
}

func termKey(id int64, taxonomy string) string {
	return fmt.Sprintf("term:%s:%d", taxonomy, id)
}

// GetTerm returns the term with the given id in taxonomy.
func (s *CachedTermStore) GetTerm(ctx context.Context, id int64, taxonomy string) (store.Term, error) {
	return s.cache.GetOrLoad(ctx, termKey(id, taxonomy), func(ctx context.Context) (store.Term, error) {
		return s.terms.GetTerm(ctx, id, taxonomy)
	})
}

// GetTermField returns one raw field of a term.
func (s *CachedTermStore) GetTermField(ctx context.Context, field string, id int64, taxonomy string) (string, error) {
	t, err := s.GetTerm(ctx, id, taxonomy)
	if err != nil {
		return "", err
	}
	return t.Field(field)
}

// Invalidate drops the cached copy of a term.
func (s *CachedTermStore) Invalidate(ctx context.Context, id int64, taxonomy string) error {
	return s.cache.Delete(ctx, termKey(id, taxonomy))
}
