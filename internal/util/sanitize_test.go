// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple title", input: "Home", expected: "home"},
		{name: "two words", input: "About Us", expected: "about-us"},
		{name: "punctuation", input: "Contact, Support!", expected: "contact-support"},
		{name: "accents", input: "Café Menü", expected: "cafe-menu"},
		{name: "surrounding whitespace", input: "  Blog  ", expected: "blog"},
		{name: "repeated separators", input: "a -- b", expected: "a-b"},
		{name: "only symbols", input: "#!?", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeHTMLClass(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"menu-item", "menu-item"},
		{"menu_item2", "menu_item2"},
		{"bad class", "badclass"},
		{"a%20b", "ab"},
		{"<script>", "script"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeHTMLClass(tt.input); got != tt.want {
			t.Errorf("SanitizeHTMLClass(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeClassList(t *testing.T) {
	got := SanitizeClassList([]string{"primary", "", "%%", "is active"})
	want := []string{"primary", "isactive"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeClassList() = %v, want %v", got, want)
	}

	if got := SanitizeClassList(nil); got == nil || len(got) != 0 {
		t.Errorf("SanitizeClassList(nil) = %#v, want empty non-nil slice", got)
	}
}
