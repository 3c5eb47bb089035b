// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "ocms-navmenu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
	return db, cleanup
}

func createMenu(t *testing.T, q *Queries, slug string) Term {
	t.Helper()
	term, err := q.CreateTerm(context.Background(), CreateTermParams{Taxonomy: "nav_menu", Name: slug, Slug: slug})
	if err != nil {
		t.Fatalf("CreateTerm: %v", err)
	}
	return term
}

func writeError(t *testing.T, err error) *WriteError {
	t.Helper()
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("error = %v, want *WriteError", err)
	}
	return we
}

func TestSaveMenuItem_Create(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewStore(db)
	menu := createMenu(t, s.Queries, "main")

	f := DefaultMenuItemFields()
	f.Title = "About Us"
	f.URL = "https://example.com/about"
	f.Classes = []string{"nav", "a b%20c", "!!"}
	f.XFN = []string{"friend"}
	f.Target = "_blank"
	f.Object = "page"
	f.ObjectID = 9

	id, err := s.SaveMenuItem(ctx, menu.ID, 0, f)
	if err != nil {
		t.Fatalf("SaveMenuItem: %v", err)
	}

	post, err := s.GetPostByID(ctx, id)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if post.PostType != "nav_menu_item" {
		t.Errorf("PostType = %q, want nav_menu_item", post.PostType)
	}
	if post.Name != "about-us" {
		t.Errorf("Name = %q, want about-us", post.Name)
	}
	if post.MenuOrder != 1 {
		t.Errorf("MenuOrder = %d, want 1", post.MenuOrder)
	}
	if post.Status != "publish" {
		t.Errorf("Status = %q, want publish", post.Status)
	}

	meta, err := s.GetPostMeta(ctx, id)
	if err != nil {
		t.Fatalf("GetPostMeta: %v", err)
	}
	want := map[string]string{
		MetaMenuItemType:     "custom",
		MetaMenuItemObject:   "",
		MetaMenuItemObjectID: "0",
		MetaMenuItemParent:   "0",
		MetaMenuItemTarget:   "_blank",
		MetaMenuItemClasses:  "nav abc",
		MetaMenuItemXFN:      "friend",
		MetaMenuItemURL:      "https://example.com/about",
	}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("meta[%s] = %q, want %q", k, meta[k], v)
		}
	}

	menus, err := s.ListMenuIDsForItem(ctx, id)
	if err != nil {
		t.Fatalf("ListMenuIDsForItem: %v", err)
	}
	if len(menus) != 1 || menus[0] != menu.ID {
		t.Errorf("menus = %v, want [%d]", menus, menu.ID)
	}

	second, err := s.SaveMenuItem(ctx, menu.ID, 0, DefaultMenuItemFields())
	if err != nil {
		t.Fatalf("SaveMenuItem second: %v", err)
	}
	post, _ = s.GetPostByID(ctx, second)
	if post.MenuOrder != 2 {
		t.Errorf("second MenuOrder = %d, want 2", post.MenuOrder)
	}
	if post.Name != strconv.FormatInt(second, 10) {
		t.Errorf("untitled Name = %q, want the id", post.Name)
	}
}

func TestSaveMenuItem_Update(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewStore(db)

	f := DefaultMenuItemFields()
	f.Title = "Old"
	id, err := s.SaveMenuItem(ctx, 0, 0, f)
	if err != nil {
		t.Fatalf("SaveMenuItem: %v", err)
	}

	f.Title = "New"
	f.Type = "post_type"
	f.Object = "page"
	f.ObjectID = 4
	f.Position = 3
	got, err := s.SaveMenuItem(ctx, 0, id, f)
	if err != nil {
		t.Fatalf("SaveMenuItem update: %v", err)
	}
	if got != id {
		t.Errorf("id = %d, want %d", got, id)
	}

	post, _ := s.GetPostByID(ctx, id)
	if post.Title != "New" || post.MenuOrder != 3 {
		t.Errorf("post = %+v, want title New and order 3", post)
	}
	meta, _ := s.GetPostMeta(ctx, id)
	if meta[MetaMenuItemObjectID] != "4" || meta[MetaMenuItemObject] != "page" {
		t.Errorf("object meta = %q/%q, want page/4", meta[MetaMenuItemObject], meta[MetaMenuItemObjectID])
	}
}

func TestSaveMenuItem_Rejections(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewStore(db)

	page, err := s.CreatePost(ctx, CreatePostParams{PostType: "page", Title: "Home", Name: "home", Status: "publish"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	item, err := s.SaveMenuItem(ctx, 0, 0, DefaultMenuItemFields())
	if err != nil {
		t.Fatalf("SaveMenuItem: %v", err)
	}

	withParent := func(parent int64) MenuItemFields {
		f := DefaultMenuItemFields()
		f.ParentID = parent
		return f
	}

	tests := []struct {
		name     string
		menuID   int64
		itemID   int64
		fields   MenuItemFields
		wantCode string
	}{
		{"unknown menu", 404, 0, DefaultMenuItemFields(), CodeInvalidMenuID},
		{"update non item", 0, page, DefaultMenuItemFields(), CodeUpdateItemFailed},
		{"update missing", 0, 9999, DefaultMenuItemFields(), CodeUpdateItemFailed},
		{"own parent", 0, item, withParent(item), CodeInvalidParent},
		{"parent not an item", 0, 0, withParent(page), CodeInvalidParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveMenuItem(ctx, tt.menuID, tt.itemID, tt.fields)
			if we := writeError(t, err); we.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", we.Code, tt.wantCode)
			}
		})
	}

	_, total, err := s.QueryPosts(ctx, QueryArgs{PostType: "nav_menu_item"})
	if err != nil {
		t.Fatalf("QueryPosts: %v", err)
	}
	if total != 1 {
		t.Errorf("menu items = %d, want 1 after rejected writes", total)
	}
}

func TestSaveMenuItem_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO posts").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	f := DefaultMenuItemFields()
	f.Title = "Home"
	_, err = NewStore(db).SaveMenuItem(context.Background(), 0, 0, f)
	we := writeError(t, err)
	if we.Code != CodeDBInsertError {
		t.Errorf("Code = %q, want %q", we.Code, CodeDBInsertError)
	}
	if we.Err == nil || we.Err.Error() == "" {
		t.Error("expected the driver error to be wrapped")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSaveMenuItem_BeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	_, err = NewStore(db).SaveMenuItem(context.Background(), 0, 5, DefaultMenuItemFields())
	if we := writeError(t, err); we.Code != CodeDBUpdateError {
		t.Errorf("Code = %q, want %q", we.Code, CodeDBUpdateError)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMenuItemFields_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   any
		wantErr bool
	}{
		{FieldDBID, float64(3), false},
		{FieldDBID, 3.5, true},
		{FieldObjectID, "12", false},
		{FieldParentID, "x", true},
		{FieldPosition, 2, false},
		{FieldTitle, "Home", false},
		{FieldTitle, 7, true},
		{FieldClasses, []any{"a", "b"}, false},
		{FieldClasses, []any{"a", 1}, true},
		{FieldXFN, "friend met", false},
		{"menu-item-unknown", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f := DefaultMenuItemFields()
			err := f.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(%s, %v) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}

	f := DefaultMenuItemFields()
	_ = f.Set(FieldXFN, "friend, met")
	if got := f.Values()[FieldXFN]; got != "friend met" {
		t.Errorf("Values()[xfn] = %q, want %q", got, "friend met")
	}
}

func TestUpdateMetaValues(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewStore(db)
	id, err := s.CreatePost(ctx, CreatePostParams{PostType: "nav_menu_item", Status: "publish"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	err = s.UpdateMetaValues(ctx, id, map[string]any{"color": "red", "count": float64(2), "flags": []any{"a"}})
	if err != nil {
		t.Fatalf("UpdateMetaValues: %v", err)
	}
	meta, _ := s.GetPostMeta(ctx, id)
	if meta["color"] != "red" || meta["count"] != "2" || meta["flags"] != `["a"]` {
		t.Errorf("meta = %v", meta)
	}

	if err := s.UpdateMetaValues(ctx, id, map[string]any{"color": nil}); err != nil {
		t.Fatalf("UpdateMetaValues delete: %v", err)
	}
	meta, _ = s.GetPostMeta(ctx, id)
	if _, ok := meta["color"]; ok {
		t.Error("color should be deleted")
	}

	err = s.UpdateMetaValues(ctx, id, map[string]any{"_secret": "x"})
	var me *MetaError
	if !errors.As(err, &me) {
		t.Fatalf("error = %v, want *MetaError", err)
	}
	if me.Key != "_secret" || me.Err != nil {
		t.Errorf("MetaError = %+v, want protected key without cause", me)
	}
}

func TestQueryPosts(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewStore(db)
	main := createMenu(t, s.Queries, "main")
	footer := createMenu(t, s.Queries, "footer")

	titles := []string{"Charlie", "Alpha", "Bravo"}
	ids := make([]int64, len(titles))
	for i, title := range titles {
		f := DefaultMenuItemFields()
		f.Title = title
		id, err := s.SaveMenuItem(ctx, main.ID, 0, f)
		if err != nil {
			t.Fatalf("SaveMenuItem: %v", err)
		}
		ids[i] = id
	}
	if _, err := s.SaveMenuItem(ctx, footer.ID, 0, DefaultMenuItemFields()); err != nil {
		t.Fatalf("SaveMenuItem footer: %v", err)
	}

	two := 2
	tests := []struct {
		name      string
		args      QueryArgs
		wantTotal int64
		wantFirst string
	}{
		{"by menu order", QueryArgs{PostType: "nav_menu_item", TermIDs: []int64{main.ID}, OrderBy: OrderByMenuOrder, Order: "asc"}, 3, "Charlie"},
		{"by slug", QueryArgs{PostType: "nav_menu_item", TermIDs: []int64{main.ID}, OrderBy: OrderByPostName, Order: "asc"}, 3, "Alpha"},
		{"by title desc", QueryArgs{PostType: "nav_menu_item", TermIDs: []int64{main.ID}, OrderBy: OrderByTitle}, 3, "Charlie"},
		{"include order", QueryArgs{Include: []int64{ids[2], ids[0]}, OrderBy: OrderByPostIn}, 2, "Bravo"},
		{"menu order filter", QueryArgs{PostType: "nav_menu_item", MenuOrder: &two}, 1, "Alpha"},
		{"search", QueryArgs{Search: "rav"}, 1, "Bravo"},
		{"all menus", QueryArgs{PostType: "nav_menu_item"}, 4, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := s.QueryPosts(ctx, tt.args)
			if err != nil {
				t.Fatalf("QueryPosts: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if tt.wantFirst != "" && (len(posts) == 0 || posts[0].Title != tt.wantFirst) {
				t.Errorf("first = %+v, want %q", posts, tt.wantFirst)
			}
		})
	}

	posts, total, err := s.QueryPosts(ctx, QueryArgs{PostType: "nav_menu_item", Limit: 2, Offset: 2, OrderBy: OrderByID, Order: "asc"})
	if err != nil {
		t.Fatalf("QueryPosts page: %v", err)
	}
	if total != 4 || len(posts) != 2 {
		t.Fatalf("page = %d posts of %d, want 2 of 4", len(posts), total)
	}
	if posts[0].ID != ids[2] {
		t.Errorf("first on page = %d, want %d", posts[0].ID, ids[2])
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db, false); err != nil {
		t.Fatalf("Seed disabled: %v", err)
	}
	q := New(db)
	if _, err := q.GetTermBySlug(ctx, "nav_menu", MenuMain); !errors.Is(err, ErrNotFound) {
		t.Fatalf("disabled seed created menus: %v", err)
	}

	for range 2 {
		if err := Seed(ctx, db, true); err != nil {
			t.Fatalf("Seed: %v", err)
		}
	}
	for _, slug := range []string{MenuMain, MenuFooter} {
		if _, err := q.GetTermBySlug(ctx, "nav_menu", slug); err != nil {
			t.Errorf("menu %q: %v", slug, err)
		}
	}
	_, total, err := q.QueryPosts(ctx, QueryArgs{PostType: "page", Slugs: []string{"home"}})
	if err != nil {
		t.Fatalf("QueryPosts: %v", err)
	}
	if total != 1 {
		t.Errorf("home pages = %d, want 1", total)
	}
}

func TestEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	for _, msg := range []string{"first", "second"} {
		if _, err := q.CreateEvent(ctx, CreateEventParams{Level: "info", Category: "menu", Message: msg}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	events, err := q.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Message != "second" || events[0].Metadata != "{}" {
		t.Errorf("newest event = %+v", events[0])
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path       string
		wantPrefix string
	}{
		{"./data/menu.db", "file:./data/menu.db?_pragma="},
		{":memory:", "file::memory:?_pragma="},
		{"file:menu.db?mode=ro", "file:menu.db?mode=ro&_pragma="},
	}
	for _, tt := range tests {
		if got := DSN(tt.path); len(got) < len(tt.wantPrefix) || got[:len(tt.wantPrefix)] != tt.wantPrefix {
			t.Errorf("DSN(%q) = %q, want prefix %q", tt.path, got, tt.wantPrefix)
		}
	}
}

func TestNewDB_ForeignKeysOnEveryConnection(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		c, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn: %v", err)
		}
		defer func() { _ = c.Close() }()
		conns[i] = c
	}
	for i, c := range conns {
		var on int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
			t.Fatalf("PRAGMA foreign_keys: %v", err)
		}
		if on != 1 {
			t.Errorf("connection %d: foreign_keys = %d, want 1", i, on)
		}
	}
}
