// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-navmenu/internal/store"
)

// Collection limits.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PostSource reads posts for a PostsController.
type PostSource interface {
	GetPostByID(ctx context.Context, id int64) (store.Post, error)
	QueryPosts(ctx context.Context, args store.QueryArgs) ([]store.Post, int64, error)
}

// PostHooks are the points a post-backed controller overrides.
type PostHooks interface {
	ItemSchema() *Schema
	CollectionParams() *Schema
	PrepareItemsQuery(args store.QueryArgs, req *Request) store.QueryArgs
	PrepareItemForResponse(ctx context.Context, post store.Post, req *Request) (*Response, error)
}

// PostsController implements the listing, lookup, link and field
// plumbing shared by controllers of one post type.
type PostsController struct {
	PostType  string
	Namespace string
	Base      string
	SiteURL   string
	Source    PostSource
	Fields    *FieldRegistry
}

// RoutePath returns /{namespace}/{base}.
func (c *PostsController) RoutePath() string {
	return "/" + strings.Trim(c.Namespace, "/") + "/" + c.Base
}

// ItemURL returns the absolute URL of the item with the given id.
func (c *PostsController) ItemURL(id int64) string {
	return fmt.Sprintf("%s%s/%d", strings.TrimRight(c.SiteURL, "/"), c.RoutePath(), id)
}

// CollectionURL returns the absolute URL of the collection.
func (c *PostsController) CollectionURL() string {
	return strings.TrimRight(c.SiteURL, "/") + c.RoutePath()
}

// APIURL returns the absolute URL of path inside the namespace.
func (c *PostsController) APIURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.SiteURL, "/"), strings.Trim(c.Namespace, "/"), strings.TrimLeft(path, "/"))
}

// GetPost loads a post of the controller's type. Missing posts, posts of
// other types and non-positive ids are all reported as NotFound.
func (c *PostsController) GetPost(ctx context.Context, id int64) (store.Post, error) {
	notFound := NotFound(CodeInvalidID, "Invalid post ID.")
	if id <= 0 {
		return store.Post{}, notFound
	}
	post, err := c.Source.GetPostByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Post{}, notFound
	}
	if err != nil {
		return store.Post{}, fmt.Errorf("loading post %d: %w", id, err)
	}
	if post.PostType != c.PostType {
		return store.Post{}, notFound
	}
	return post, nil
}

// RequestID returns the id URL parameter of req.
func RequestID(req *Request) (int64, error) {
	id, ok := req.Int("id")
	if !ok {
		return 0, NotFound(CodeInvalidID, "Invalid post ID.")
	}
	return id, nil
}

// BaseCollectionParams returns the query parameters shared by post
// collections.
func BaseCollectionParams() *Schema {
	return NewSchema("collection",
		&Property{Name: "context", Type: TypeString, Description: "Scope under which the request is made; determines fields present in response.",
			Default: string(ContextView), Enum: []string{string(ContextView), string(ContextEmbed), string(ContextEdit)}},
		&Property{Name: "page", Type: TypeInteger, Description: "Current page of the collection.", Default: 1},
		&Property{Name: "per_page", Type: TypeInteger, Description: "Maximum number of items to be returned in result set.", Default: DefaultPerPage},
		&Property{Name: "search", Type: TypeString, Description: "Limit results to those matching a string."},
		&Property{Name: "offset", Type: TypeInteger, Description: "Offset the result set by a specific number of items."},
		&Property{Name: "order", Type: TypeString, Description: "Order sort attribute ascending or descending.",
			Default: "desc", Enum: []string{"asc", "desc"}},
		&Property{Name: "orderby", Type: TypeString, Description: "Sort collection by object attribute.",
			Default: "date", Enum: []string{"author", "date", "id", "include", "modified", "parent", "relevance", "slug", "include_slugs", "title"}},
		&Property{Name: "include", Type: TypeArray, Description: "Limit result set to specific IDs.", Items: &Property{Type: TypeInteger}},
		&Property{Name: "exclude", Type: TypeArray, Description: "Ensure result set excludes specific IDs.", Items: &Property{Type: TypeInteger}},
		&Property{Name: "slug", Type: TypeArray, Description: "Limit result set to posts with one or more specific slugs.", Items: &Property{Type: TypeString}},
		&Property{Name: "status", Type: TypeArray, Description: "Limit result set to posts assigned one or more statuses.", Items: &Property{Type: TypeString}},
		&Property{Name: "parent", Type: TypeArray, Description: "Limit result set to items with particular parent IDs.", Items: &Property{Type: TypeInteger}},
		&Property{Name: "parent_exclude", Type: TypeArray, Description: "Limit result set to all items except those of a particular parent ID.", Items: &Property{Type: TypeInteger}},
	)
}

// SanitizeParams validates the parameters of req present in params and
// fills in defaults for the absent ones.
func SanitizeParams(params *Schema, req *Request) error {
	for _, p := range params.Properties() {
		v, ok := req.Get(p.Name)
		if !ok {
			if p.Default != nil {
				req.Set(p.Name, p.Default)
			}
			continue
		}
		if err := params.Validate(p.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// BuildQueryArgs translates collection parameters into storage query
// arguments. The orderby value is passed through untranslated.
func (c *PostsController) BuildQueryArgs(req *Request) (store.QueryArgs, error) {
	perPage, _ := req.Int("per_page")
	if perPage <= 0 || perPage > MaxPerPage {
		return store.QueryArgs{}, Validation("per_page", fmt.Sprintf("per_page must be between 1 (inclusive) and %d (inclusive)", MaxPerPage))
	}
	page, _ := req.Int("page")
	if page < 1 {
		return store.QueryArgs{}, Validation("page", "page must be greater than or equal to 1")
	}

	args := store.QueryArgs{
		PostType:      c.PostType,
		Search:        req.String("search"),
		Include:       req.intList("include"),
		Exclude:       req.intList("exclude"),
		Slugs:         req.List("slug"),
		Parents:       req.intList("parent"),
		ParentExclude: req.intList("parent_exclude"),
		Statuses:      req.List("status"),
		OrderBy:       req.String("orderby"),
		Order:         req.String("order"),
		Limit:         int(perPage),
		Offset:        int((page - 1) * perPage),
	}
	if offset, ok := req.Int("offset"); ok {
		args.Offset = int(offset)
	}
	if len(args.Statuses) == 0 {
		args.Statuses = []string{"publish"}
	}
	return args, nil
}

func (r *Request) intList(name string) []int64 {
	v, ok := r.Get(name)
	if !ok {
		return nil
	}
	return IntList(v)
}

// PrepareItemsQuery returns args unchanged.
func (c *PostsController) PrepareItemsQuery(args store.QueryArgs, _ *Request) store.QueryArgs {
	return args
}

// ListItems runs the collection pipeline with the controller's hooks.
func (c *PostsController) ListItems(ctx context.Context, req *Request, hooks PostHooks) (*Response, error) {
	args, err := c.BuildQueryArgs(req)
	if err != nil {
		return nil, err
	}
	args = hooks.PrepareItemsQuery(args, req)

	posts, total, err := c.Source.QueryPosts(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.PostType, err)
	}

	items := make([]any, 0, len(posts))
	for _, p := range posts {
		resp, err := hooks.PrepareItemForResponse(ctx, p, req)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Body())
	}

	page, _ := req.Int("page")
	resp := NewResponse(items)
	resp.SetPagination(total, int(page), args.Limit)
	if total > 0 && int(page) > resp.Meta.Pages {
		return nil, BadRequest("rest_post_invalid_page_number", "The page number requested is larger than the number of pages available.")
	}
	return resp, nil
}

// ShowItem resolves the id of req and prepares the post for response.
func (c *PostsController) ShowItem(ctx context.Context, req *Request, hooks PostHooks) (*Response, error) {
	id, err := RequestID(req)
	if err != nil {
		return nil, err
	}
	post, err := c.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return hooks.PrepareItemForResponse(ctx, post, req)
}

// PrepareLinks returns the self, collection and about links of post.
func (c *PostsController) PrepareLinks(post store.Post) map[string][]Link {
	return map[string][]Link{
		"self":       {{Href: c.ItemURL(post.ID)}},
		"collection": {{Href: c.CollectionURL()}},
		"about":      {{Href: c.APIURL("types/" + c.PostType)}},
	}
}

// AvailableActions returns the action relations offered in the edit
// context.
func (c *PostsController) AvailableActions(_ store.Post, req *Request) []string {
	if req.Context() != ContextEdit {
		return nil
	}
	return []string{"https://api.w.org/action-publish"}
}

// AddActionLinks adds one link per available action, pointing at the
// self link of resp.
func (c *PostsController) AddActionLinks(resp *Response, post store.Post, req *Request) {
	self := resp.Links()["self"]
	if len(self) == 0 || self[0].Href == "" {
		return
	}
	for _, rel := range c.AvailableActions(post, req) {
		resp.AddLink(rel, Link{Href: self[0].Href})
	}
}

// SetLocation marks resp as created at the URL of id.
func (c *PostsController) SetLocation(resp *Response, id int64) {
	resp.SetStatus(http.StatusCreated)
	resp.SetHeader("Location", c.ItemURL(id))
}
