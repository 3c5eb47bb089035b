// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

// Type labels of items that do not take their label from a registry.
const (
	LabelCustomLink      = "Custom Link"
	LabelPostTypeArchive = "Post Type Archive"
)

// PostMetaReader reads posts and their metadata.
type PostMetaReader interface {
	GetPostByID(ctx context.Context, id int64) (store.Post, error)
	GetPostMeta(ctx context.Context, postID int64) (map[string]string, error)
}

// TermGetter reads single terms.
type TermGetter interface {
	GetTerm(ctx context.Context, id int64, taxonomy string) (store.Term, error)
}

// SetupResolver turns stored posts into menu items with every derived
// presentation field filled in.
type SetupResolver struct {
	posts   PostMetaReader
	terms   TermGetter
	types   *ContentTypes
	titles  *TitleRenderer
	siteURL string
}

// NewSetupResolver creates a resolver building links below siteURL.
func NewSetupResolver(posts PostMetaReader, terms TermGetter, types *ContentTypes, titles *TitleRenderer, siteURL string) *SetupResolver {
	return &SetupResolver{
		posts:   posts,
		terms:   terms,
		types:   types,
		titles:  titles,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// Setup resolves post. Menu item posts are read from their metadata;
// any other post is presented as a transient item linking to itself
// with DBID 0. Missing referenced objects mark the item invalid rather
// than failing.
func (r *SetupResolver) Setup(ctx context.Context, post store.Post) (model.MenuItem, error) {
	if post.PostType != model.PostTypeNavMenuItem {
		return r.setupTransient(post), nil
	}

	meta, err := r.posts.GetPostMeta(ctx, post.ID)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("reading menu item %d meta: %w", post.ID, err)
	}

	item := model.MenuItem{
		ID:             post.ID,
		DBID:           post.ID,
		Title:          post.Title,
		Status:         post.Status,
		Password:       post.Password,
		ParentID:       post.Parent,
		MenuItemParent: metaInt(meta, store.MetaMenuItemParent),
		MenuOrder:      post.MenuOrder,
		Type:           meta[store.MetaMenuItemType],
		Object:         meta[store.MetaMenuItemObject],
		ObjectID:       metaInt(meta, store.MetaMenuItemObjectID),
		URL:            meta[store.MetaMenuItemURL],
		AttrTitle:      post.Excerpt,
		Description:    post.Content,
		Target:         meta[store.MetaMenuItemTarget],
		Classes:        splitList(meta[store.MetaMenuItemClasses]),
		XFN:            splitList(meta[store.MetaMenuItemXFN]),
	}

	switch item.Type {
	case model.ItemTypePostType:
		err = r.setupPostType(ctx, &item)
	case model.ItemTypePostTypeArchive:
		r.setupArchive(&item)
	case model.ItemTypeTaxonomy:
		err = r.setupTaxonomy(ctx, &item)
	default:
		item.TypeLabel = LabelCustomLink
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

func (r *SetupResolver) setupPostType(ctx context.Context, item *model.MenuItem) error {
	pt, ok := r.types.PostType(item.Object)
	if !ok {
		item.TypeLabel = item.Object
		item.Invalid = true
		return nil
	}
	item.TypeLabel = pt.Labels.SingularName

	original, err := r.posts.GetPostByID(ctx, item.ObjectID)
	if errors.Is(err, store.ErrNotFound) {
		item.Invalid = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving menu item %d object: %w", item.ID, err)
	}
	if original.PostType != pt.Name || original.Status == model.StatusTrash {
		item.Invalid = true
		return nil
	}

	item.URL = r.Permalink(original, pt)
	if item.Title == "" {
		item.Title = r.titles.Sanitize(original.Title)
	}
	return nil
}

func (r *SetupResolver) setupArchive(item *model.MenuItem) {
	item.TypeLabel = LabelPostTypeArchive
	pt, ok := r.types.PostType(item.Object)
	if !ok {
		item.Invalid = true
		return
	}
	if item.Title == "" {
		item.Title = pt.Labels.Archives
	}
	item.URL = r.ArchiveLink(pt)
}

func (r *SetupResolver) setupTaxonomy(ctx context.Context, item *model.MenuItem) error {
	tx, ok := r.types.Taxonomy(item.Object)
	if !ok {
		item.TypeLabel = item.Object
		item.Invalid = true
		return nil
	}
	item.TypeLabel = tx.Labels.SingularName

	term, err := r.terms.GetTerm(ctx, item.ObjectID, tx.Name)
	if errors.Is(err, store.ErrNotFound) {
		item.Invalid = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving menu item %d term: %w", item.ID, err)
	}

	item.URL = r.TermLink(term, tx)
	if item.Title == "" {
		item.Title = term.Name
	}
	return nil
}

func (r *SetupResolver) setupTransient(post store.Post) model.MenuItem {
	item := model.MenuItem{
		ID:          post.ID,
		Title:       r.titles.Sanitize(post.Title),
		Status:      post.Status,
		Password:    post.Password,
		ParentID:    post.Parent,
		MenuOrder:   post.MenuOrder,
		Type:        model.ItemTypePostType,
		Object:      post.PostType,
		ObjectID:    post.ID,
		AttrTitle:   post.Excerpt,
		Description: post.Excerpt,
		Classes:     []string{},
		XFN:         []string{},
	}
	if pt, ok := r.types.PostType(post.PostType); ok {
		item.TypeLabel = pt.Labels.SingularName
		item.URL = r.Permalink(post, pt)
	} else {
		item.TypeLabel = post.PostType
	}
	return item
}

// Permalink returns the public URL of post.
func (r *SetupResolver) Permalink(post store.Post, pt model.PostType) string {
	if post.Name == "" {
		return fmt.Sprintf("%s/?p=%d", r.siteURL, post.ID)
	}
	if pt.RewriteSlug == "" {
		return r.siteURL + "/" + post.Name + "/"
	}
	return r.siteURL + "/" + pt.RewriteSlug + "/" + post.Name + "/"
}

// ArchiveLink returns the archive URL of pt, or "" when it has none.
func (r *SetupResolver) ArchiveLink(pt model.PostType) string {
	if !pt.HasArchive {
		return ""
	}
	slug := pt.RewriteSlug
	if slug == "" {
		slug = pt.Name
	}
	return r.siteURL + "/" + slug + "/"
}

// TermLink returns the public URL of term.
func (r *SetupResolver) TermLink(term store.Term, tx model.Taxonomy) string {
	base := tx.RewriteSlug
	if base == "" {
		base = tx.Name
	}
	return r.siteURL + "/" + base + "/" + term.Slug + "/"
}

func metaInt(meta map[string]string, key string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(meta[key]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func splitList(s string) []string {
	fields := strings.Fields(s)
	if fields == nil {
		return []string{}
	}
	return fields
}
