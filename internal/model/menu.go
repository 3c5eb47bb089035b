// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the storage, service
// and API layers.
package model

// Menu item types. The type decides what Object and ObjectID reference.
const (
	ItemTypeCustom          = "custom"
	ItemTypePostType        = "post_type"
	ItemTypeTaxonomy        = "taxonomy"
	ItemTypePostTypeArchive = "post_type_archive"
)

// ItemTypes lists every menu item type accepted by the API.
var ItemTypes = []string{ItemTypeCustom, ItemTypePostType, ItemTypeTaxonomy, ItemTypePostTypeArchive}

// Menu target values
const (
	TargetSelf   = "_self"
	TargetBlank  = "_blank"
	TargetParent = "_parent"
	TargetTop    = "_top"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank, TargetParent, TargetTop}

// MenuItem is a stored menu item resolved into its presentation fields.
// It is rebuilt from the storage record on every request.
type MenuItem struct {
	ID             int64
	DBID           int64
	Title          string
	Status         string
	Password       string
	ParentID       int64 // post_parent of the backing record
	MenuItemParent int64
	MenuOrder      int
	Type           string
	TypeLabel      string
	Object         string
	ObjectID       int64
	URL            string
	AttrTitle      string
	Description    string
	Target         string
	Classes        []string
	XFN            []string
	Invalid        bool
}

// IsCustom reports whether the item is a free-form link.
func (m MenuItem) IsCustom() bool {
	return m.Type == ItemTypeCustom
}

// IsValidTarget checks if a target value is valid.
// An empty target means the browser default.
func IsValidTarget(target string) bool {
	if target == "" {
		return true
	}
	for _, t := range ValidTargets {
		if t == target {
			return true
		}
	}
	return false
}

// IsValidItemType checks if t is a known menu item type.
func IsValidItemType(t string) bool {
	for _, it := range ItemTypes {
		if it == t {
			return true
		}
	}
	return false
}
