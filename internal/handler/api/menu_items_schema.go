// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"strings"

	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/rest"
	"github.com/olegiv/ocms-navmenu/internal/store"
)

var (
	viewEdit = []rest.Context{rest.ContextView, rest.ContextEdit}
	editOnly = []rest.Context{rest.ContextEdit}
)

// MenuItemSchema builds the schema of the menu item resource. statuses
// are the values accepted by the status field.
func MenuItemSchema(statuses []string) *rest.Schema {
	return rest.NewSchema(model.PostTypeNavMenuItem,
		&rest.Property{
			Name:        "title",
			Description: "The title for the object.",
			Type:        rest.TypeObject,
			Context:     rest.AllContexts,
			Validator:   validateTitle,
			Properties: []*rest.Property{
				{Name: "raw", Description: "Title for the object, as it exists in the database.", Type: rest.TypeString, Context: editOnly},
				{Name: "rendered", Description: "HTML title for the object, transformed for display.", Type: rest.TypeString, Context: rest.AllContexts, ReadOnly: true},
			},
		},
		&rest.Property{Name: "original_title", Description: "Title of the object the menu item links to.",
			Type: rest.TypeString, Context: []rest.Context{rest.ContextView, rest.ContextEmbed}, ReadOnly: true},
		&rest.Property{Name: "id", Description: "Unique identifier for the object.",
			Type: rest.TypeInteger, Context: rest.AllContexts, ReadOnly: true},
		&rest.Property{Name: "menu_id", Description: "Unique identifier of the menu the item is written to.",
			Type: rest.TypeInteger, Context: editOnly, Default: 0},
		&rest.Property{Name: "type", Description: "The family of objects originally represented, such as \"post_type\" or \"taxonomy\".",
			Type: rest.TypeString, Context: rest.AllContexts, Default: model.ItemTypeCustom, Enum: model.ItemTypes},
		&rest.Property{Name: "status", Description: "A named status for the object.",
			Type: rest.TypeString, Context: viewEdit, Default: model.StatusPublish, Enum: statuses},
		&rest.Property{Name: "link", Description: "URL to the object.",
			Type: rest.TypeString, Format: "uri", Context: rest.AllContexts, ReadOnly: true},
		&rest.Property{Name: "parent", Description: "The ID for the parent of the object.",
			Type: rest.TypeInteger, Context: viewEdit},
		&rest.Property{Name: "attr_title", Description: "The title attribute of the link element for this menu item.",
			Type: rest.TypeString, Context: viewEdit},
		&rest.Property{Name: "classes", Description: "The array of class attribute values for the link element of this menu item.",
			Type: rest.TypeArray, Context: viewEdit, Items: &rest.Property{Type: rest.TypeString}},
		&rest.Property{Name: "db_id", Description: "The DB ID of this item as a nav_menu_item object, if it exists (0 if it doesn't exist).",
			Type: rest.TypeInteger, Context: viewEdit},
		&rest.Property{Name: "description", Description: "The description of this menu item.",
			Type: rest.TypeString, Context: viewEdit},
		&rest.Property{Name: "menu_item_parent", Description: "The DB ID of the nav_menu_item that is this item's menu parent, if any. 0 otherwise.",
			Type: rest.TypeInteger, Context: viewEdit},
		&rest.Property{Name: "menu_order", Description: "The position of this item among its siblings.",
			Type: rest.TypeInteger, Context: viewEdit},
		&rest.Property{Name: "object", Description: "The type of object originally represented, such as \"category\", \"post\", or \"page\".",
			Type: rest.TypeString, Context: viewEdit},
		&rest.Property{Name: "object_id", Description: "The DB ID of the original object this menu item represents, e.g. ID for posts and term_id for categories.",
			Type: rest.TypeInteger, Context: viewEdit},
		&rest.Property{Name: "target", Description: "The target attribute of the link element for this menu item.",
			Type: rest.TypeString, Context: viewEdit, Validator: validateTarget},
		&rest.Property{Name: "type_label", Description: "The singular label used to describe this type of menu item.",
			Type: rest.TypeString, Context: viewEdit, ReadOnly: true},
		&rest.Property{Name: "url", Description: "The URL to which this menu item points.",
			Type: rest.TypeString, Format: "uri", Context: viewEdit},
		&rest.Property{Name: "xfn", Description: "The XFN relationship expressed in the link of this menu item.",
			Type: rest.TypeArray, Context: viewEdit, Items: &rest.Property{Type: rest.TypeString}},
		&rest.Property{Name: "_invalid", Description: "Whether the menu item represents an object that no longer exists.",
			Type: rest.TypeBoolean, Context: viewEdit, ReadOnly: true},
		&rest.Property{Name: "meta", Description: "Meta fields.",
			Type: rest.TypeObject, Context: editOnly},
	)
}

// validateTitle accepts a plain string or an object carrying the raw title.
func validateTitle(v any) error {
	switch t := v.(type) {
	case string:
		return nil
	case map[string]any:
		raw, ok := t["raw"]
		if !ok || raw == nil {
			return nil
		}
		if _, ok := raw.(string); ok {
			return nil
		}
		return errors.New("title.raw is not of type string.")
	}
	return errors.New("title is not of type string,object.")
}

func rawTitle(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		s, _ := t["raw"].(string)
		return s
	}
	return ""
}

func validateTarget(v any) error {
	s, ok := v.(string)
	if !ok {
		return errors.New("target is not of type string.")
	}
	if !model.IsValidTarget(s) {
		return errors.New("target is not one of " + strings.Join(model.ValidTargets, ", ") + ".")
	}
	return nil
}

// MenuItemCollectionParams returns the collection parameters of the menu
// item listing.
func MenuItemCollectionParams() *rest.Schema {
	params := rest.BaseCollectionParams()
	params.Add(&rest.Property{Name: "menu_order", Description: "Limit result set to posts with a specific menu_order value.",
		Type: rest.TypeInteger})
	params.Add(&rest.Property{Name: "order", Description: "Order sort attribute ascending or descending.",
		Type: rest.TypeString, Default: "asc", Enum: []string{"asc", "desc"}})
	params.Add(&rest.Property{Name: "orderby", Description: "Sort collection by object attribute.",
		Type: rest.TypeString, Default: "menu_order", Enum: []string{
			"author", "date", "id", "include", "modified", "parent",
			"relevance", "slug", "include_slugs", "title", "menu_order",
		}})
	params.Add(&rest.Property{Name: "menus", Description: "Limit result set to items assigned to specific menus.",
		Type: rest.TypeArray, Items: &rest.Property{Type: rest.TypeInteger}})
	return params
}

// orderByStorage maps wire orderby values to the storage sort keys.
var orderByStorage = map[string]string{
	"id":            store.OrderByID,
	"include":       store.OrderByPostIn,
	"slug":          store.OrderByPostName,
	"include_slugs": store.OrderByPostNameIn,
	"menu_order":    store.OrderByMenuOrder,
}

// wireToStorage lists the writable wire fields and the storage fields
// they are copied to.
var wireToStorage = []struct {
	wire    string
	storage string
}{
	{"db_id", store.FieldDBID},
	{"object_id", store.FieldObjectID},
	{"object", store.FieldObject},
	{"menu_item_parent", store.FieldParentID},
	{"menu_order", store.FieldPosition},
	{"type", store.FieldType},
	{"title", store.FieldTitle},
	{"url", store.FieldURL},
	{"description", store.FieldDescription},
	{"attr_title", store.FieldAttrTitle},
	{"target", store.FieldTarget},
	{"classes", store.FieldClasses},
	{"xfn", store.FieldXFN},
	{"status", store.FieldStatus},
}
