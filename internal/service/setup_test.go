// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/store"
	"github.com/olegiv/ocms-navmenu/internal/testutil"
)

const testSiteURL = "https://example.com/"

func newTestResolver(t *testing.T) (*SetupResolver, *store.Store) {
	t.Helper()
	st := testutil.TestStore(t)
	return NewSetupResolver(st, st, NewContentTypes(), NewTitleRenderer(), testSiteURL), st
}

func saveItem(t *testing.T, st *store.Store, menuID int64, f store.MenuItemFields) store.Post {
	t.Helper()
	ctx := context.Background()
	id, err := st.SaveMenuItem(ctx, menuID, 0, f)
	require.NoError(t, err)
	post, err := st.GetPostByID(ctx, id)
	require.NoError(t, err)
	return post
}

func TestSetup_CustomItem(t *testing.T) {
	r, st := newTestResolver(t)
	menu := testutil.CreateMenu(t, st.Queries, "main")

	f := store.DefaultMenuItemFields()
	f.Title = "Home"
	f.URL = "https://example.com"
	f.Target = "_blank"
	f.Classes = []string{"nav", "home"}
	f.AttrTitle = "Go home"
	post := saveItem(t, st, menu.ID, f)

	item, err := r.Setup(context.Background(), post)
	require.NoError(t, err)

	assert.Equal(t, post.ID, item.DBID)
	assert.Equal(t, model.ItemTypeCustom, item.Type)
	assert.Equal(t, LabelCustomLink, item.TypeLabel)
	assert.Equal(t, "", item.Object)
	assert.Equal(t, int64(0), item.ObjectID)
	assert.Equal(t, "https://example.com", item.URL)
	assert.Equal(t, "_blank", item.Target)
	assert.Equal(t, []string{"nav", "home"}, item.Classes)
	assert.Equal(t, []string{}, item.XFN)
	assert.Equal(t, "Go home", item.AttrTitle)
	assert.Equal(t, 1, item.MenuOrder)
	assert.False(t, item.Invalid)
}

func TestSetup_PostTypeItem(t *testing.T) {
	r, st := newTestResolver(t)
	page := testutil.CreatePost(t, st.Queries, model.PostTypePage, "About <b>us</b>", "about")

	f := store.DefaultMenuItemFields()
	f.Type = model.ItemTypePostType
	f.Object = model.PostTypePage
	f.ObjectID = page.ID
	post := saveItem(t, st, 0, f)

	item, err := r.Setup(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, "Page", item.TypeLabel)
	assert.Equal(t, "https://example.com/about/", item.URL)
	assert.Equal(t, "About <b>us</b>", item.Title, "empty title falls back to the object title")
	assert.False(t, item.Invalid)
}

func TestSetup_InvalidReferences(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		typ    string
		object string
		id     int64
		label  string
	}{
		{"missing post", model.ItemTypePostType, model.PostTypePage, 999, "Page"},
		{"unknown post type", model.ItemTypePostType, "product", 1, "product"},
		{"missing term", model.ItemTypeTaxonomy, model.TaxonomyCategory, 999, "Category"},
		{"unknown taxonomy", model.ItemTypeTaxonomy, "genre", 1, "genre"},
		{"unknown archive", model.ItemTypePostTypeArchive, "product", 0, LabelPostTypeArchive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := store.DefaultMenuItemFields()
			f.Type, f.Object, f.ObjectID = tt.typ, tt.object, tt.id
			item, err := r.Setup(ctx, saveItem(t, st, 0, f))
			require.NoError(t, err)
			assert.True(t, item.Invalid)
			assert.Equal(t, tt.label, item.TypeLabel)
		})
	}
}

func TestSetup_TaxonomyAndArchive(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	term, err := st.CreateTerm(ctx, store.CreateTermParams{Taxonomy: model.TaxonomyCategory, Name: "News", Slug: "news"})
	require.NoError(t, err)

	f := store.DefaultMenuItemFields()
	f.Type, f.Object, f.ObjectID = model.ItemTypeTaxonomy, model.TaxonomyCategory, term.ID
	item, err := r.Setup(ctx, saveItem(t, st, 0, f))
	require.NoError(t, err)
	assert.Equal(t, "News", item.Title)
	assert.Equal(t, "Category", item.TypeLabel)
	assert.Equal(t, "https://example.com/category/news/", item.URL)

	f = store.DefaultMenuItemFields()
	f.Type, f.Object = model.ItemTypePostTypeArchive, model.PostTypePost
	item, err = r.Setup(ctx, saveItem(t, st, 0, f))
	require.NoError(t, err)
	assert.Equal(t, "Post Archives", item.Title)
	assert.Equal(t, "https://example.com/blog/", item.URL)
	assert.False(t, item.Invalid)
}

func TestSetup_TransientPost(t *testing.T) {
	r, st := newTestResolver(t)
	page := testutil.CreatePost(t, st.Queries, model.PostTypePage, "Contact", "contact")

	item, err := r.Setup(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.DBID)
	assert.Equal(t, page.ID, item.ObjectID)
	assert.Equal(t, model.PostTypePage, item.Object)
	assert.Equal(t, model.ItemTypePostType, item.Type)
	assert.Equal(t, "https://example.com/contact/", item.URL)
}

func TestLinks(t *testing.T) {
	r := NewSetupResolver(nil, nil, NewContentTypes(), NewTitleRenderer(), "https://example.com")
	page, _ := NewContentTypes().PostType(model.PostTypePage)

	assert.Equal(t, "https://example.com/?p=4", r.Permalink(store.Post{ID: 4}, page))
	assert.Equal(t, "", r.ArchiveLink(page))
	assert.Equal(t, "https://example.com/g/x/", r.TermLink(store.Term{Slug: "x"}, model.Taxonomy{Name: "g"}))
}
