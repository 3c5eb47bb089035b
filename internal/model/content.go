// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Post types known to the content store.
const (
	PostTypePost        = "post"
	PostTypePage        = "page"
	PostTypeNavMenuItem = "nav_menu_item"
)

// Taxonomies known to the content store. Menus are terms of TaxonomyNavMenu.
const (
	TaxonomyCategory = "category"
	TaxonomyPostTag  = "post_tag"
	TaxonomyNavMenu  = "nav_menu"
)

// Post statuses
const (
	StatusPublish   = "publish"
	StatusFuture    = "future"
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPrivate   = "private"
	StatusTrash     = "trash"
	StatusAutoDraft = "auto-draft"
	StatusInherit   = "inherit"
)

// PostStatus describes a lifecycle status of a content record.
type PostStatus struct {
	Name     string
	Label    string
	Internal bool
}

// PostStatuses lists every status in registration order.
var PostStatuses = []PostStatus{
	{Name: StatusPublish, Label: "Published"},
	{Name: StatusFuture, Label: "Scheduled"},
	{Name: StatusDraft, Label: "Draft"},
	{Name: StatusPending, Label: "Pending"},
	{Name: StatusPrivate, Label: "Private"},
	{Name: StatusTrash, Label: "Trash", Internal: true},
	{Name: StatusAutoDraft, Label: "auto-draft", Internal: true},
	{Name: StatusInherit, Label: "inherit", Internal: true},
}

// PublicStatusNames returns the names of all non-internal statuses.
func PublicStatusNames() []string {
	names := make([]string, 0, len(PostStatuses))
	for _, s := range PostStatuses {
		if !s.Internal {
			names = append(names, s.Name)
		}
	}
	return names
}

// Labels holds the human readable names of a content type.
type Labels struct {
	Name         string
	SingularName string
	Archives     string
}

// PostType describes a registered content type.
type PostType struct {
	Name        string
	Labels      Labels
	Public      bool
	HasArchive  bool
	RewriteSlug string
}

// Taxonomy describes a registered taxonomy.
type Taxonomy struct {
	Name        string
	Labels      Labels
	Public      bool
	RewriteSlug string
}
