// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// Field is an extension field registered for an object type.
type Field struct {
	Schema *Property
	Get    func(ctx context.Context, item any, req *Request) (any, error)
	Update func(ctx context.Context, value any, item any, req *Request) error
}

// FieldRegistry holds extension fields per object type.
type FieldRegistry struct {
	mu     sync.RWMutex
	fields map[string]map[string]Field
}

// NewFieldRegistry creates an empty registry.
func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{fields: make(map[string]map[string]Field)}
}

// Register adds or replaces the field name of objectType.
func (r *FieldRegistry) Register(objectType, name string, f Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields[objectType] == nil {
		r.fields[objectType] = make(map[string]Field)
	}
	if f.Schema != nil {
		f.Schema.Name = name
	}
	r.fields[objectType][name] = f
}

type namedField struct {
	name string
	Field
}

func (r *FieldRegistry) list(objectType string) []namedField {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]namedField, 0, len(r.fields[objectType]))
	for name, f := range r.fields[objectType] {
		out = append(out, namedField{name: name, Field: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ExtendSchema adds the schema of every extension field of objectType.
func (r *FieldRegistry) ExtendSchema(objectType string, s *Schema) {
	for _, f := range r.list(objectType) {
		if f.Schema != nil {
			s.Add(f.Schema)
		}
	}
}

// AddToObject sets the value of each requested extension field on data.
func (r *FieldRegistry) AddToObject(ctx context.Context, objectType string, data map[string]any, item any, req *Request, fields []string) (map[string]any, error) {
	for _, f := range r.list(objectType) {
		if f.Get == nil || !slices.Contains(fields, f.name) {
			continue
		}
		v, err := f.Get(ctx, item, req)
		if err != nil {
			return nil, err
		}
		data[f.name] = v
	}
	return data, nil
}

// UpdateForObject runs the update callback of each extension field the
// request carries. The first failure stops the run.
func (r *FieldRegistry) UpdateForObject(ctx context.Context, objectType string, item any, req *Request) error {
	for _, f := range r.list(objectType) {
		if f.Update == nil {
			continue
		}
		v, ok := req.Get(f.name)
		if !ok {
			continue
		}
		if err := f.Update(ctx, v, item, req); err != nil {
			return err
		}
	}
	return nil
}
