// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// IntValue converts JSON numbers, Go integers and numeric strings to int64.
func IntValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// BoolValue converts booleans and their common string forms.
func BoolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "true", "1":
			return true, true
		case "false", "0", "":
			return false, true
		}
	}
	return false, false
}

// ListValue converts arrays and comma or space separated strings to a
// slice of values.
func ListValue(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case string:
		parts := strings.FieldsFunc(l, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
		out := make([]any, len(parts))
		for i, s := range parts {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// IntList converts a list value to integers, skipping entries that are
// not integers.
func IntList(v any) []int64 {
	items, _ := ListValue(v)
	var out []int64
	for _, item := range items {
		if i, ok := IntValue(item); ok {
			out = append(out, i)
		}
	}
	return out
}

// StringList converts a list value to strings, skipping non-strings.
func StringList(v any) []string {
	items, _ := ListValue(v)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
