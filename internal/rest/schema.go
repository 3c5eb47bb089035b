// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rest

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// JSON types used by Property.Type.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// JSONSchemaDraft is the $schema value of published schemas.
const JSONSchemaDraft = "http://json-schema.org/draft-04/schema#"

// Property describes one resource field or request parameter.
type Property struct {
	Name        string
	Description string
	// Type is empty for fields that accept any JSON value.
	Type       string
	Format     string
	Context    []Context
	ReadOnly   bool
	Default    any
	Enum       []string
	Items      *Property
	Properties []*Property

	// Validator replaces type validation when set.
	Validator func(value any) error
}

// InContext reports whether the property is visible in ctx. A property
// without contexts is visible everywhere.
func (p *Property) InContext(ctx Context) bool {
	return len(p.Context) == 0 || slices.Contains(p.Context, ctx)
}

// Schema is an ordered set of properties.
type Schema struct {
	Title string

	mu         sync.RWMutex
	properties []*Property
	index      map[string]int
}

// NewSchema creates a schema. A later property with the same name as an
// earlier one replaces it in place.
func NewSchema(title string, props ...*Property) *Schema {
	s := &Schema{Title: title, index: make(map[string]int)}
	for _, p := range props {
		s.Add(p)
	}
	return s
}

// Add appends p or replaces the property with the same name.
func (s *Schema) Add(p *Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[p.Name]; ok {
		s.properties[i] = p
		return
	}
	s.index[p.Name] = len(s.properties)
	s.properties = append(s.properties, p)
}

// Remove deletes the property named name, if any.
func (s *Schema) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[name]
	if !ok {
		return
	}
	s.properties = slices.Delete(s.properties, i, i+1)
	delete(s.index, name)
	for j := i; j < len(s.properties); j++ {
		s.index[s.properties[j].Name] = j
	}
}

// Property returns the property named name.
func (s *Schema) Property(name string) (*Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.properties[i], true
}

// Has reports whether the schema defines name.
func (s *Schema) Has(name string) bool {
	_, ok := s.Property(name)
	return ok
}

// Properties returns the properties in declaration order.
func (s *Schema) Properties() []*Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.properties)
}

// FieldsForContext returns the names of the properties visible in ctx.
func (s *Schema) FieldsForContext(ctx Context) []string {
	var fields []string
	for _, p := range s.Properties() {
		if p.InContext(ctx) {
			fields = append(fields, p.Name)
		}
	}
	return fields
}

// FieldsForResponse returns the fields a response to req should carry:
// the fields visible in the request context, narrowed by the _fields
// parameter when present. A dotted entry selects its top-level field.
func (s *Schema) FieldsForResponse(req *Request) []string {
	fields := s.FieldsForContext(req.Context())
	requested := req.List("_fields")
	if len(requested) == 0 {
		return fields
	}

	wanted := make(map[string]bool, len(requested))
	for _, f := range requested {
		top, _, _ := strings.Cut(strings.TrimSpace(f), ".")
		if top != "" {
			wanted[top] = true
		}
	}
	return slices.DeleteFunc(fields, func(f string) bool { return !wanted[f] })
}

// FilterByContext returns the entries of data whose property is visible in
// ctx. Nested objects are filtered by their own properties. Keys the
// schema does not define are dropped. An empty ctx means view.
func (s *Schema) FilterByContext(data map[string]any, ctx Context) map[string]any {
	if ctx == "" {
		ctx = ContextView
	}
	return filterProperties(s.Properties(), data, ctx)
}

func filterProperties(props []*Property, data map[string]any, ctx Context) map[string]any {
	out := make(map[string]any, len(data))
	for _, p := range props {
		value, ok := data[p.Name]
		if !ok || !p.InContext(ctx) {
			continue
		}
		if nested, isMap := value.(map[string]any); isMap && len(p.Properties) > 0 {
			value = filterProperties(p.Properties, nested, ctx)
		}
		out[p.Name] = value
	}
	return out
}

// Validate checks value against the property called name. Unknown names
// are not validated.
func (s *Schema) Validate(name string, value any) error {
	p, ok := s.Property(name)
	if !ok {
		return nil
	}
	return p.validate(name, value)
}

func (p *Property) validate(path string, value any) error {
	if p.Validator != nil {
		if err := p.Validator(value); err != nil {
			return Validation(path, err.Error())
		}
		return nil
	}

	switch p.Type {
	case TypeInteger:
		if _, ok := IntValue(value); !ok {
			return typeError(path, p.Type)
		}
	case TypeBoolean:
		if _, ok := BoolValue(value); !ok {
			return typeError(path, p.Type)
		}
	case TypeString:
		if _, ok := value.(string); !ok {
			return typeError(path, p.Type)
		}
	case TypeArray:
		items, ok := ListValue(value)
		if !ok {
			return typeError(path, p.Type)
		}
		if p.Items != nil {
			for i, item := range items {
				if err := p.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
					return err
				}
			}
		}
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return typeError(path, p.Type)
		}
		for _, child := range p.Properties {
			if v, present := obj[child.Name]; present && v != nil {
				if err := child.validate(path+"."+child.Name, v); err != nil {
					return err
				}
			}
		}
	}

	if len(p.Enum) > 0 {
		s := fmt.Sprint(value)
		if !slices.Contains(p.Enum, s) {
			return Validation(path, fmt.Sprintf("%s is not one of %s.", path, strings.Join(p.Enum, ", ")))
		}
	}
	return nil
}

func typeError(path, typ string) *Error {
	return Validation(path, fmt.Sprintf("%s is not of type %s.", path, typ))
}

// MarshalJSON renders the schema as a JSON Schema document.
func (s *Schema) MarshalJSON() ([]byte, error) {
	props := make(map[string]any)
	for _, p := range s.Properties() {
		props[p.Name] = p.document()
	}
	return json.Marshal(map[string]any{
		"$schema":    JSONSchemaDraft,
		"title":      s.Title,
		"type":       TypeObject,
		"properties": props,
	})
}

func (p *Property) document() map[string]any {
	doc := map[string]any{}
	if p.Description != "" {
		doc["description"] = p.Description
	}
	if p.Type != "" {
		doc["type"] = p.Type
	}
	if p.Format != "" {
		doc["format"] = p.Format
	}
	if len(p.Context) > 0 {
		doc["context"] = p.Context
	}
	if p.ReadOnly {
		doc["readonly"] = true
	}
	if p.Default != nil {
		doc["default"] = p.Default
	}
	if len(p.Enum) > 0 {
		doc["enum"] = p.Enum
	}
	if p.Items != nil {
		doc["items"] = p.Items.document()
	}
	if len(p.Properties) > 0 {
		nested := make(map[string]any, len(p.Properties))
		for _, child := range p.Properties {
			nested[child.Name] = child.document()
		}
		doc["properties"] = nested
	}
	return doc
}
