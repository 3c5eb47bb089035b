// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides text sanitizing helpers shared by the storage and
// API layers.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugRegex       = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	percentOctets   = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	classRegex      = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// Slugify converts a title to a URL-friendly post name: accents are
// removed, letters lowercased and runs of other characters collapsed into
// single hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.Join(strings.Fields(result), "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// SanitizeHTMLClass strips everything but letters, digits, underscores and
// hyphens from a class name. Percent-encoded octets are dropped whole.
func SanitizeHTMLClass(class string) string {
	class = percentOctets.ReplaceAllString(class, "")
	return classRegex.ReplaceAllString(class, "")
}

// SanitizeClassList sanitizes every class and drops the ones left empty.
func SanitizeClassList(classes []string) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = SanitizeHTMLClass(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
