// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"testing"
)

func TestIsValidTarget(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"", true},
		{TargetSelf, true},
		{TargetBlank, true},
		{TargetParent, true},
		{TargetTop, true},
		{"_new", false},
		{"blank", false},
	}
	for _, tt := range tests {
		if got := IsValidTarget(tt.target); got != tt.want {
			t.Errorf("IsValidTarget(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestIsValidItemType(t *testing.T) {
	for _, it := range ItemTypes {
		if !IsValidItemType(it) {
			t.Errorf("IsValidItemType(%q) = false", it)
		}
	}
	if IsValidItemType("page") {
		t.Error("IsValidItemType(page) = true")
	}
}

func TestMenuItem_IsCustom(t *testing.T) {
	if !(MenuItem{Type: ItemTypeCustom}).IsCustom() {
		t.Error("custom item not reported as custom")
	}
	if (MenuItem{Type: ItemTypeTaxonomy}).IsCustom() {
		t.Error("taxonomy item reported as custom")
	}
}

func TestPublicStatusNames(t *testing.T) {
	want := []string{StatusPublish, StatusFuture, StatusDraft, StatusPending, StatusPrivate}
	if got := PublicStatusNames(); !slices.Equal(got, want) {
		t.Errorf("PublicStatusNames() = %v, want %v", got, want)
	}
}
