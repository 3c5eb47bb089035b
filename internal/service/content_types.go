// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"sync"

	"github.com/olegiv/ocms-navmenu/internal/model"
)

// ContentTypes is the registry of post types and taxonomies.
type ContentTypes struct {
	mu         sync.RWMutex
	postTypes  map[string]model.PostType
	taxonomies map[string]model.Taxonomy
}

// NewContentTypes creates a registry holding the built-in types.
func NewContentTypes() *ContentTypes {
	c := &ContentTypes{
		postTypes:  make(map[string]model.PostType),
		taxonomies: make(map[string]model.Taxonomy),
	}

	c.RegisterPostType(model.PostType{
		Name:        model.PostTypePost,
		Labels:      model.Labels{Name: "Posts", SingularName: "Post", Archives: "Post Archives"},
		Public:      true,
		HasArchive:  true,
		RewriteSlug: "blog",
	})
	c.RegisterPostType(model.PostType{
		Name:   model.PostTypePage,
		Labels: model.Labels{Name: "Pages", SingularName: "Page", Archives: "Page Archives"},
		Public: true,
	})
	c.RegisterPostType(model.PostType{
		Name:   model.PostTypeNavMenuItem,
		Labels: model.Labels{Name: "Navigation Menu Items", SingularName: "Navigation Menu Item", Archives: "Post Archives"},
	})

	c.RegisterTaxonomy(model.Taxonomy{
		Name:        model.TaxonomyCategory,
		Labels:      model.Labels{Name: "Categories", SingularName: "Category"},
		Public:      true,
		RewriteSlug: "category",
	})
	c.RegisterTaxonomy(model.Taxonomy{
		Name:        model.TaxonomyPostTag,
		Labels:      model.Labels{Name: "Tags", SingularName: "Tag"},
		Public:      true,
		RewriteSlug: "tag",
	})
	c.RegisterTaxonomy(model.Taxonomy{
		Name:   model.TaxonomyNavMenu,
		Labels: model.Labels{Name: "Navigation Menus", SingularName: "Navigation Menu"},
	})
	return c
}

// RegisterPostType adds or replaces a post type.
func (c *ContentTypes) RegisterPostType(pt model.PostType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.postTypes[pt.Name] = pt
}

// RegisterTaxonomy adds or replaces a taxonomy.
func (c *ContentTypes) RegisterTaxonomy(tx model.Taxonomy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taxonomies[tx.Name] = tx
}

// PostType returns the post type called name.
func (c *ContentTypes) PostType(name string) (model.PostType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pt, ok := c.postTypes[name]
	return pt, ok
}

// Taxonomy returns the taxonomy called name.
func (c *ContentTypes) Taxonomy(name string) (model.Taxonomy, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tx, ok := c.taxonomies[name]
	return tx, ok
}
