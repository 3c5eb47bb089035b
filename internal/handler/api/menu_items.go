// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/olegiv/ocms-navmenu/internal/metrics"
	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/rest"
	"github.com/olegiv/ocms-navmenu/internal/service"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

// Lifecycle hook names of the menu item resource.
const (
	HookInsert      = "rest_insert_nav_menu_item"
	HookAfterInsert = "rest_after_insert_nav_menu_item"
	HookPrepare     = "rest_prepare_nav_menu_item"
)

// MenuItemsBase is the route base of the resource.
const MenuItemsBase = "menu-items"

// Link relations of menu item responses.
const (
	RelMenuItemObject = "https://api.w.org/menu-item-object"
	RelMenus          = "https://api.w.org/menus"
)

// NoTitleFormat is the original title of a post that has none.
const NoTitleFormat = "#%d (no title)"

// MenuItemStore is the storage engine behind the controller.
type MenuItemStore interface {
	GetPostByID(ctx context.Context, id int64) (store.Post, error)
	QueryPosts(ctx context.Context, args store.QueryArgs) ([]store.Post, int64, error)
	SaveMenuItem(ctx context.Context, menuID, itemID int64, f store.MenuItemFields) (int64, error)
	ListMenuIDsForItem(ctx context.Context, itemID int64) ([]int64, error)
}

// MenuItemResolver materializes stored posts into menu items.
type MenuItemResolver interface {
	Setup(ctx context.Context, post store.Post) (model.MenuItem, error)
}

// TermFieldReader reads raw term fields.
type TermFieldReader interface {
	GetTermField(ctx context.Context, field string, id int64, taxonomy string) (string, error)
}

// PostTypeRegistry looks up registered post types.
type PostTypeRegistry interface {
	PostType(name string) (model.PostType, bool)
}

// TitleRenderer renders post titles for display.
type TitleRenderer interface {
	Render(post store.Post, opts service.RenderOptions) string
}

// MenuItemsConfig holds the collaborators of a MenuItemsController.
// Meta, Fields, Events, Filter, Metrics and Logger are optional.
type MenuItemsConfig struct {
	Namespace string
	SiteURL   string
	Charset   string

	Store    MenuItemStore
	Resolver MenuItemResolver
	Meta     *PostMetaFields
	Terms    TermFieldReader
	Types    PostTypeRegistry
	Titles   TitleRenderer

	Fields  *rest.FieldRegistry
	Events  rest.EventSink
	Filter  rest.ResponseFilter
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// MenuItemsController serves the menu item resource.
type MenuItemsController struct {
	posts    *rest.PostsController
	store    MenuItemStore
	resolver MenuItemResolver
	meta     *PostMetaFields
	terms    TermFieldReader
	types    PostTypeRegistry
	titles   TitleRenderer
	fields   *rest.FieldRegistry
	events   rest.EventSink
	filter   rest.ResponseFilter
	metrics  *metrics.Collector
	logger   *slog.Logger
	charset  encoding.Encoding

	schema *rest.Schema
	params *rest.Schema
}

// NewMenuItemsController creates the controller. It fails when a required
// collaborator is missing or the charset is unknown.
func NewMenuItemsController(cfg MenuItemsConfig) (*MenuItemsController, error) {
	if cfg.Store == nil || cfg.Resolver == nil || cfg.Terms == nil || cfg.Types == nil || cfg.Titles == nil {
		return nil, errors.New("menu items controller: missing collaborator")
	}
	charset, err := charsetEncoding(cfg.Charset)
	if err != nil {
		return nil, err
	}

	c := &MenuItemsController{
		store:    cfg.Store,
		resolver: cfg.Resolver,
		meta:     cfg.Meta,
		terms:    cfg.Terms,
		types:    cfg.Types,
		titles:   cfg.Titles,
		fields:   cfg.Fields,
		events:   cfg.Events,
		filter:   cfg.Filter,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		charset:  charset,
	}
	if c.fields == nil {
		c.fields = rest.NewFieldRegistry()
	}
	if c.events == nil {
		c.events = rest.NopSink{}
	}
	if c.filter == nil {
		c.filter = rest.IdentityFilter{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.posts = &rest.PostsController{
		PostType:  model.PostTypeNavMenuItem,
		Namespace: cfg.Namespace,
		Base:      MenuItemsBase,
		SiteURL:   cfg.SiteURL,
		Source:    cfg.Store,
		Fields:    c.fields,
	}

	c.schema = MenuItemSchema(model.PublicStatusNames())
	if c.meta == nil {
		c.schema.Remove("meta")
	}
	c.fields.ExtendSchema(model.PostTypeNavMenuItem, c.schema)
	c.params = MenuItemCollectionParams()
	return c, nil
}

// charsetEncoding returns the encoding of name, or nil for UTF-8.
func charsetEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown site charset %q: %w", name, err)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// Base returns the route base.
func (c *MenuItemsController) Base() string { return MenuItemsBase }

// ItemSchema returns the resource schema.
func (c *MenuItemsController) ItemSchema() *rest.Schema { return c.schema }

// CollectionParams returns the listing parameters.
func (c *MenuItemsController) CollectionParams() *rest.Schema { return c.params }

// ItemURL returns the canonical URL of the item id.
func (c *MenuItemsController) ItemURL(id int64) string { return c.posts.ItemURL(id) }

// GetItems lists menu items.
func (c *MenuItemsController) GetItems(ctx context.Context, req *rest.Request) (*rest.Response, error) {
	return c.posts.ListItems(ctx, req, c)
}

// GetItem returns one menu item.
func (c *MenuItemsController) GetItem(ctx context.Context, req *rest.Request) (*rest.Response, error) {
	return c.posts.ShowItem(ctx, req, c)
}

// PrepareItemsQuery narrows the generic query by the menu filters and
// translates orderby into the storage sort key.
func (c *MenuItemsController) PrepareItemsQuery(args store.QueryArgs, req *rest.Request) store.QueryArgs {
	args = c.posts.PrepareItemsQuery(args, req)

	if req.Has("orderby") {
		if key, ok := orderByStorage[req.String("orderby")]; ok {
			args.OrderBy = key
		}
	}
	if order, ok := req.Int("menu_order"); ok {
		n := int(order)
		args.MenuOrder = &n
	}
	if v, ok := req.Get("menus"); ok {
		args.TermIDs = rest.IntList(v)
	}
	return args
}

// CreateItem creates a menu item and files it under menu_id.
func (c *MenuItemsController) CreateItem(ctx context.Context, req *rest.Request) (resp *rest.Response, err error) {
	defer func() { c.metrics.RecordWrite(metrics.OperationCreate, statusOf(resp, err)) }()

	exists, err := hasID(req)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, rest.Conflict(rest.CodePostExists, "Cannot create existing post.")
	}
	return c.write(ctx, req, 0)
}

// UpdateItem updates the menu item named by the id parameter.
func (c *MenuItemsController) UpdateItem(ctx context.Context, req *rest.Request) (resp *rest.Response, err error) {
	defer func() { c.metrics.RecordWrite(metrics.OperationUpdate, statusOf(resp, err)) }()

	id, err := rest.RequestID(req)
	if err != nil {
		return nil, err
	}
	if _, err := c.posts.GetPost(ctx, id); err != nil {
		return nil, err
	}
	return c.write(ctx, req, id)
}

// write runs the shared create and update pipeline. itemID is 0 for a
// create.
func (c *MenuItemsController) write(ctx context.Context, req *rest.Request, itemID int64) (*rest.Response, error) {
	creating := itemID == 0

	fields, err := c.PrepareItemForDatabase(req)
	if err != nil {
		return nil, err
	}

	var menuID int64
	if v, ok := req.Get("menu_id"); ok {
		if err := c.schema.Validate("menu_id", v); err != nil {
			return nil, err
		}
		menuID, _ = rest.IntValue(v)
	}

	id, err := c.store.SaveMenuItem(ctx, menuID, itemID, fields)
	if err != nil {
		return nil, classifyWriteError(err, creating)
	}

	post, err := c.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	c.events.Notify(ctx, HookInsert, post, req, creating)

	if c.meta != nil && c.schema.Has("meta") {
		if v, ok := req.Get("meta"); ok {
			if err := c.meta.UpdateValue(ctx, post.ID, v); err != nil {
				return nil, err
			}
		}
	}

	post, err = c.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.fields.UpdateForObject(ctx, model.PostTypeNavMenuItem, post, req); err != nil {
		return nil, err
	}

	req.SetContext(rest.ContextEdit)
	c.events.Notify(ctx, HookAfterInsert, post, req, creating)

	resp, err := c.PrepareItemForResponse(ctx, post, req)
	if err != nil {
		return nil, err
	}
	if creating {
		c.posts.SetLocation(resp, id)
		c.logger.Debug("menu item created", "id", id, "menu_id", menuID)
	}
	return resp, nil
}

// hasID reports whether a create request carries an identifier. Absent,
// null, false, zero, "" and "0" mean no identifier. Objects and arrays
// are rejected.
func hasID(req *rest.Request) (bool, error) {
	v, ok := req.Get("id")
	if !ok || v == nil {
		return false, nil
	}
	switch id := v.(type) {
	case bool:
		return id, nil
	case string:
		return id != "" && id != "0", nil
	case map[string]any, []any:
		return false, rest.Validation("id", "id is not of type integer.")
	}
	if n, isInt := rest.IntValue(v); isInt {
		return n != 0, nil
	}
	return true, nil
}

// classifyWriteError turns a storage failure into a REST error. Failures
// of the insert or update statement itself are server errors; every other
// rejection is a client error.
func classifyWriteError(err error, creating bool) error {
	failCode := store.CodeDBUpdateError
	if creating {
		failCode = store.CodeDBInsertError
	}

	var we *store.WriteError
	if !errors.As(err, &we) {
		return rest.Internal(failCode, "Could not write the menu item.")
	}
	if we.Code == failCode {
		return rest.Internal(we.Code, we.Message)
	}
	return rest.BadRequest(we.Code, we.Message)
}

func statusOf(resp *rest.Response, err error) int {
	if err != nil {
		return rest.AsError(err).Status
	}
	if resp == nil {
		return 0
	}
	return resp.Status
}

// PrepareItemForDatabase maps the request onto the storage record. It
// starts from the default record and copies each mapped field the schema
// defines and the request carries.
func (c *MenuItemsController) PrepareItemForDatabase(req *rest.Request) (store.MenuItemFields, error) {
	f := store.DefaultMenuItemFields()

	for _, m := range wireToStorage {
		if !c.schema.Has(m.wire) {
			continue
		}
		v, ok := req.Get(m.wire)
		if !ok && m.wire == "menu_item_parent" {
			v, ok = req.Get("parent")
		}
		if !ok {
			continue
		}
		if err := c.schema.Validate(m.wire, v); err != nil {
			return store.MenuItemFields{}, err
		}
		if m.wire == "title" {
			v = rawTitle(v)
		}
		if err := f.Set(m.storage, v); err != nil {
			return store.MenuItemFields{}, rest.Validation(m.wire, fmt.Sprintf("%s is not of the expected type.", m.wire))
		}
	}
	return f, nil
}

// PrepareItemForResponse materializes post and projects it onto the
// fields of the request.
func (c *MenuItemsController) PrepareItemForResponse(ctx context.Context, post store.Post, req *rest.Request) (*rest.Response, error) {
	item, err := c.resolver.Setup(ctx, post)
	if err != nil {
		return nil, err
	}

	fields := c.schema.FieldsForResponse(req)
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	data := make(map[string]any, len(fields))
	if want["id"] {
		data["id"] = item.ID
	}
	if want["title"] {
		data["title"] = map[string]any{
			"raw":      post.Title,
			"rendered": c.titles.Render(titledPost(post, item), service.RenderOptions{HideProtectedPrefix: true}),
		}
	}
	if want["original_title"] {
		data["original_title"] = c.OriginalTitle(ctx, item)
	}
	if want["status"] {
		data["status"] = item.Status
	}
	if want["url"] {
		data["url"] = item.URL
	}
	if want["link"] {
		data["link"] = item.URL
	}
	if want["attr_title"] {
		data["attr_title"] = item.AttrTitle
	}
	if want["description"] {
		data["description"] = item.Description
	}
	if want["type"] {
		data["type"] = item.Type
	}
	if want["type_label"] {
		data["type_label"] = item.TypeLabel
	}
	if want["object"] {
		data["object"] = item.Object
	}
	if want["object_id"] {
		data["object_id"] = absint(item.ObjectID)
	}
	if want["parent"] {
		data["parent"] = absint(item.ParentID)
	}
	if want["menu_item_parent"] {
		data["menu_item_parent"] = absint(item.MenuItemParent)
	}
	if want["menu_order"] {
		data["menu_order"] = absint(int64(item.MenuOrder))
	}
	if want["target"] {
		data["target"] = item.Target
	}
	if want["classes"] {
		data["classes"] = stringList(item.Classes)
	}
	if want["xfn"] {
		data["xfn"] = stringList(item.XFN)
	}
	if want["db_id"] {
		data["db_id"] = item.DBID
	}
	if want["_invalid"] {
		data["_invalid"] = item.Invalid
	}
	if want["meta"] && c.meta != nil {
		meta, err := c.meta.GetValue(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		data["meta"] = meta
	}

	data, err = c.fields.AddToObject(ctx, model.PostTypeNavMenuItem, data, post, req, fields)
	if err != nil {
		return nil, err
	}
	data = c.schema.FilterByContext(data, req.Context())

	resp := rest.NewResponse(data)
	links, err := c.PrepareLinks(ctx, post, item)
	if err != nil {
		return nil, err
	}
	resp.AddLinks(links)
	c.posts.AddActionLinks(resp, post, req)

	return c.filter.Filter(ctx, HookPrepare, resp, post, req), nil
}

// titledPost returns post carrying the resolved item title, which falls
// back to the linked object's title when the item has none.
func titledPost(post store.Post, item model.MenuItem) store.Post {
	post.Title = item.Title
	return post
}

// PrepareLinks returns the links of a menu item response.
func (c *MenuItemsController) PrepareLinks(ctx context.Context, post store.Post, item model.MenuItem) (map[string][]rest.Link, error) {
	links := c.posts.PrepareLinks(post)

	if !item.IsCustom() && item.Type != model.ItemTypePostTypeArchive && item.ObjectID > 0 {
		links[RelMenuItemObject] = append(links[RelMenuItemObject], rest.Link{
			Href:       c.posts.APIURL(fmt.Sprintf("%s/%d", restBase(item.Object), item.ObjectID)),
			Embeddable: true,
		})
	}

	menuIDs, err := c.store.ListMenuIDsForItem(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("listing menus of item %d: %w", post.ID, err)
	}
	for _, id := range menuIDs {
		links[RelMenus] = append(links[RelMenus], rest.Link{
			Href:       c.posts.APIURL(fmt.Sprintf("menus/%d", id)),
			Embeddable: true,
			Taxonomy:   model.TaxonomyNavMenu,
		})
	}
	return links, nil
}

// restBase returns the collection route of a post type or taxonomy.
func restBase(object string) string {
	switch object {
	case model.PostTypePost:
		return "posts"
	case model.PostTypePage:
		return "pages"
	case model.TaxonomyCategory:
		return "categories"
	case model.TaxonomyPostTag:
		return "tags"
	}
	return object
}

// OriginalTitle returns the title of the object item links to. It never
// fails: missing objects yield "".
func (c *MenuItemsController) OriginalTitle(ctx context.Context, item model.MenuItem) string {
	if item.ObjectID == 0 {
		return ""
	}

	var title string
	switch item.Type {
	case model.ItemTypePostType:
		original, err := c.store.GetPostByID(ctx, item.ObjectID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				c.logger.Warn("resolving original title", "item", item.ID, "object_id", item.ObjectID, "error", err)
			}
			return ""
		}
		title = c.titles.Render(original, service.RenderOptions{})
		if title == "" {
			title = fmt.Sprintf(NoTitleFormat, original.ID)
		}
	case model.ItemTypeTaxonomy:
		name, err := c.terms.GetTermField(ctx, "name", item.ObjectID, item.Object)
		if err != nil {
			return ""
		}
		title = name
	case model.ItemTypePostTypeArchive:
		pt, ok := c.types.PostType(item.Object)
		if !ok {
			return ""
		}
		title = pt.Labels.Archives
	}

	return c.decodeEntities(title)
}

// decodeEntities decodes HTML entities and fits the result to the site
// charset, replacing runes it cannot represent.
func (c *MenuItemsController) decodeEntities(s string) string {
	s = html.UnescapeString(s)
	if c.charset == nil || s == "" {
		return s
	}
	encoded, err := encoding.ReplaceUnsupported(c.charset.NewEncoder()).String(s)
	if err != nil {
		return s
	}
	decoded, err := c.charset.NewDecoder().String(encoded)
	if err != nil {
		return s
	}
	return decoded
}

func absint(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func stringList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
