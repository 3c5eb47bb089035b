// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-navmenu/internal/util"
)

// Storage field names of a menu item write.
const (
	FieldDBID        = "menu-item-db-id"
	FieldObjectID    = "menu-item-object-id"
	FieldObject      = "menu-item-object"
	FieldParentID    = "menu-item-parent-id"
	FieldPosition    = "menu-item-position"
	FieldType        = "menu-item-type"
	FieldTitle       = "menu-item-title"
	FieldURL         = "menu-item-url"
	FieldDescription = "menu-item-description"
	FieldAttrTitle   = "menu-item-attr-title"
	FieldTarget      = "menu-item-target"
	FieldClasses     = "menu-item-classes"
	FieldXFN         = "menu-item-xfn"
	FieldStatus      = "menu-item-status"
)

// Meta keys holding the menu item specific values of a post.
const (
	MetaMenuItemType     = "_menu_item_type"
	MetaMenuItemParent   = "_menu_item_menu_item_parent"
	MetaMenuItemObjectID = "_menu_item_object_id"
	MetaMenuItemObject   = "_menu_item_object"
	MetaMenuItemTarget   = "_menu_item_target"
	MetaMenuItemClasses  = "_menu_item_classes"
	MetaMenuItemXFN      = "_menu_item_xfn"
	MetaMenuItemURL      = "_menu_item_url"
)

// Failure codes returned by SaveMenuItem.
const (
	CodeDBInsertError    = "db_insert_error"
	CodeDBUpdateError    = "db_update_error"
	CodeInvalidMenuID    = "invalid_menu_id"
	CodeUpdateItemFailed = "update_nav_menu_item_failed"
	CodeInvalidParent    = "invalid_menu_item_parent"
)

const postTypeNavMenuItem = "nav_menu_item"

// MenuItemFields is the storage shape of a menu item write.
type MenuItemFields struct {
	DBID        int64
	ObjectID    int64
	Object      string
	ParentID    int64
	Position    int
	Type        string
	Title       string
	URL         string
	Description string
	AttrTitle   string
	Target      string
	Classes     []string
	XFN         []string
	Status      string
}

var defaultMenuItemFields = MenuItemFields{
	Type:   "custom",
	Status: "publish",
}

// DefaultMenuItemFields returns the record every write starts from.
func DefaultMenuItemFields() MenuItemFields {
	return defaultMenuItemFields
}

// FieldTypeError reports a value that does not fit a storage field.
type FieldTypeError struct {
	Field string
	Want  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s is not of type %s", e.Field, e.Want)
}

// Set assigns value to the storage field named key.
func (f *MenuItemFields) Set(key string, value any) error {
	switch key {
	case FieldDBID, FieldObjectID, FieldParentID:
		n, ok := toInt64(value)
		if !ok {
			return &FieldTypeError{Field: key, Want: "integer"}
		}
		switch key {
		case FieldDBID:
			f.DBID = n
		case FieldObjectID:
			f.ObjectID = n
		default:
			f.ParentID = n
		}
	case FieldPosition:
		n, ok := toInt64(value)
		if !ok {
			return &FieldTypeError{Field: key, Want: "integer"}
		}
		f.Position = int(n)
	case FieldObject, FieldType, FieldTitle, FieldURL, FieldDescription, FieldAttrTitle, FieldTarget, FieldStatus:
		s, ok := value.(string)
		if !ok {
			return &FieldTypeError{Field: key, Want: "string"}
		}
		f.setString(key, s)
	case FieldClasses, FieldXFN:
		list, ok := ToStringList(value)
		if !ok {
			return &FieldTypeError{Field: key, Want: "array"}
		}
		if key == FieldClasses {
			f.Classes = list
		} else {
			f.XFN = list
		}
	default:
		return fmt.Errorf("unknown menu item field %q", key)
	}
	return nil
}

func (f *MenuItemFields) setString(key, s string) {
	switch key {
	case FieldObject:
		f.Object = s
	case FieldType:
		f.Type = s
	case FieldTitle:
		f.Title = s
	case FieldURL:
		f.URL = s
	case FieldDescription:
		f.Description = s
	case FieldAttrTitle:
		f.AttrTitle = s
	case FieldTarget:
		f.Target = s
	case FieldStatus:
		f.Status = s
	}
}

// Values returns the record keyed by storage field name.
func (f MenuItemFields) Values() map[string]any {
	return map[string]any{
		FieldDBID:        f.DBID,
		FieldObjectID:    f.ObjectID,
		FieldObject:      f.Object,
		FieldParentID:    f.ParentID,
		FieldPosition:    f.Position,
		FieldType:        f.Type,
		FieldTitle:       f.Title,
		FieldURL:         f.URL,
		FieldDescription: f.Description,
		FieldAttrTitle:   f.AttrTitle,
		FieldTarget:      f.Target,
		FieldClasses:     strings.Join(f.Classes, " "),
		FieldXFN:         strings.Join(f.XFN, " "),
		FieldStatus:      f.Status,
	}
}

// WriteError is returned when SaveMenuItem rejects or fails a write.
type WriteError struct {
	Code    string
	Message string
	Err     error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// SaveMenuItem creates (itemID == 0) or updates a menu item and files it
// under the menu menuID when menuID is non-zero. All statements run in one
// transaction. It returns the id of the written item.
func (s *Store) SaveMenuItem(ctx context.Context, menuID, itemID int64, f MenuItemFields) (int64, error) {
	creating := itemID == 0
	failCode := CodeDBUpdateError
	if creating {
		failCode = CodeDBInsertError
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &WriteError{Code: failCode, Message: "Could not start the write.", Err: err}
	}
	defer func() { _ = tx.Rollback() }()
	qtx := s.WithTx(tx)

	if menuID > 0 {
		if _, err := qtx.GetTerm(ctx, menuID, "nav_menu"); err != nil {
			if errors.Is(err, ErrNotFound) {
				return 0, &WriteError{Code: CodeInvalidMenuID, Message: "Invalid menu ID."}
			}
			return 0, &WriteError{Code: failCode, Message: "Could not load the menu.", Err: err}
		}
	}

	if !creating {
		existing, err := qtx.GetPostByID(ctx, itemID)
		if err != nil || existing.PostType != postTypeNavMenuItem {
			return 0, &WriteError{Code: CodeUpdateItemFailed, Message: "The given object ID is not that of a menu item.", Err: err}
		}
	}

	if f.ParentID != 0 {
		if f.ParentID == itemID {
			return 0, &WriteError{Code: CodeInvalidParent, Message: "A menu item cannot be its own parent."}
		}
		parent, err := qtx.GetPostByID(ctx, f.ParentID)
		if err != nil || parent.PostType != postTypeNavMenuItem {
			return 0, &WriteError{Code: CodeInvalidParent, Message: "Invalid menu item parent.", Err: err}
		}
	}

	if f.Type == "custom" {
		f.Object = ""
		f.ObjectID = 0
	}

	if creating && f.Position == 0 && menuID > 0 {
		maxOrder, err := qtx.MaxMenuOrder(ctx, menuID)
		if err != nil {
			return 0, &WriteError{Code: failCode, Message: "Could not compute the item position.", Err: err}
		}
		f.Position = maxOrder + 1
	}

	name := util.Slugify(f.Title)
	if creating {
		itemID, err = qtx.CreatePost(ctx, CreatePostParams{
			PostType:  postTypeNavMenuItem,
			Title:     f.Title,
			Name:      name,
			Content:   f.Description,
			Excerpt:   f.AttrTitle,
			Status:    f.Status,
			Parent:    f.ParentID,
			MenuOrder: f.Position,
		})
		if err != nil {
			return 0, &WriteError{Code: CodeDBInsertError, Message: "Could not insert the menu item into the database.", Err: err}
		}
	} else {
		err = qtx.UpdatePost(ctx, UpdatePostParams{
			ID:        itemID,
			Title:     f.Title,
			Name:      name,
			Content:   f.Description,
			Excerpt:   f.AttrTitle,
			Status:    f.Status,
			Parent:    f.ParentID,
			MenuOrder: f.Position,
		})
		if err != nil {
			return 0, &WriteError{Code: CodeDBUpdateError, Message: "Could not update the menu item in the database.", Err: err}
		}
	}

	if name == "" {
		if err := qtx.SetPostName(ctx, itemID, strconv.FormatInt(itemID, 10)); err != nil {
			return 0, &WriteError{Code: failCode, Message: "Could not name the menu item.", Err: err}
		}
	}

	if menuID > 0 {
		if err := qtx.AddObjectTerm(ctx, itemID, menuID); err != nil {
			return 0, &WriteError{Code: failCode, Message: "Could not add the item to the menu.", Err: err}
		}
	}

	meta := [][2]string{
		{MetaMenuItemType, f.Type},
		{MetaMenuItemParent, strconv.FormatInt(f.ParentID, 10)},
		{MetaMenuItemObjectID, strconv.FormatInt(f.ObjectID, 10)},
		{MetaMenuItemObject, f.Object},
		{MetaMenuItemTarget, f.Target},
		{MetaMenuItemClasses, strings.Join(util.SanitizeClassList(f.Classes), " ")},
		{MetaMenuItemXFN, strings.Join(util.SanitizeClassList(f.XFN), " ")},
		{MetaMenuItemURL, f.URL},
	}
	for _, kv := range meta {
		if err := qtx.SetPostMeta(ctx, itemID, kv[0], kv[1]); err != nil {
			return 0, &WriteError{Code: failCode, Message: "Could not store the menu item details.", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &WriteError{Code: failCode, Message: "Could not commit the menu item.", Err: err}
	}
	return itemID, nil
}

// ListMenuIDsForItem returns the menus an item is filed under.
func (q *Queries) ListMenuIDsForItem(ctx context.Context, itemID int64) ([]int64, error) {
	return q.ListObjectTermIDs(ctx, itemID, "nav_menu")
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// ToStringList converts a list value into a slice of strings. A string is
// split on commas and whitespace, scalars become a one element list.
func ToStringList(v any) ([]string, bool) {
	switch val := v.(type) {
	case nil:
		return []string{}, true
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		return strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		}), true
	default:
		return nil, false
	}
}
