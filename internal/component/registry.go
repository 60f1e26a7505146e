// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package component declares the closed set of block variants a landing page
// is composed of, their payload records and the JSON Schemas that guard them.
package component

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// Definition describes one variant: its palette metadata, schema and defaults.
type Definition struct {
	Type        Type           `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
	Defaults    Payload        `json:"defaults"`

	decode   func([]byte) (Payload, error)
	compiled *jsonschema.Schema
}

func define[T Payload](t Type, label, description string, schema map[string]any, defaults T) Definition {
	return Definition{
		Type:        t,
		Label:       label,
		Description: description,
		Schema:      schema,
		Defaults:    defaults,
		decode: func(raw []byte) (Payload, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Registry maps variant tags to their definitions. It has no mutating
// methods; a new variant is a new entry in builtin.
type Registry struct {
	defs  map[Type]*Definition
	order []Type
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of the shipped variants.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(builtin()...)
		if err != nil {
			panic(fmt.Sprintf("component: building default registry: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// NewRegistry compiles the schemas of defs and checks that every default
// payload validates against its own schema.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[Type]*Definition, len(defs))}

	for i := range defs {
		def := defs[i]
		if _, dup := r.defs[def.Type]; dup {
			return nil, fmt.Errorf("duplicate component type %q", def.Type)
		}

		compiled, err := compileSchema(def.Type, def.Schema)
		if err != nil {
			return nil, err
		}
		def.compiled = compiled
		r.defs[def.Type] = &def
		r.order = append(r.order, def.Type)

		if def.Defaults != nil {
			data, err := r.Encode(def.Defaults)
			if err != nil {
				return nil, fmt.Errorf("encoding %s defaults: %w", def.Type, err)
			}
			if err := r.Validate(def.Type, data); err != nil {
				return nil, fmt.Errorf("%s defaults: %w", def.Type, err)
			}
		}
	}

	return r, nil
}

func compileSchema(t Type, schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", t, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s schema: %w", t, err)
	}

	url := "landkit://component/" + string(t)
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", t, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", t, err)
	}
	return compiled, nil
}

// Types returns the registered variants in palette order.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns all definitions in palette order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, *r.defs[t])
	}
	return out
}

// Has reports whether t is registered.
func (r *Registry) Has(t Type) bool {
	_, ok := r.defs[t]
	return ok
}

// Describe returns the definition of t.
func (r *Registry) Describe(t Type) (*Definition, error) {
	def, ok := r.defs[t]
	if !ok {
		return nil, unknownVariant(t)
	}
	d := *def
	return &d, nil
}

// Validate checks data structurally against the schema of t.
func (r *Registry) Validate(t Type, data map[string]any) error {
	def, ok := r.defs[t]
	if !ok {
		return unknownVariant(t)
	}
	if data == nil {
		return &SchemaViolation{Type: t, Reason: "data is required"}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return &SchemaViolation{Type: t, Reason: err.Error()}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &SchemaViolation{Type: t, Reason: err.Error()}
	}

	if err := def.compiled.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return violation(t, ve)
		}
		return &SchemaViolation{Type: t, Reason: err.Error()}
	}
	return nil
}

// Decode validates data and decodes it into the typed record of t.
func (r *Registry) Decode(t Type, data map[string]any) (Payload, error) {
	if err := r.Validate(t, data); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, &SchemaViolation{Type: t, Reason: err.Error()}
	}
	return r.DecodeJSON(t, raw)
}

// DecodeJSON decodes an already validated JSON payload of t.
func (r *Registry) DecodeJSON(t Type, raw []byte) (Payload, error) {
	def, ok := r.defs[t]
	if !ok {
		return nil, unknownVariant(t)
	}
	p, err := def.decode(raw)
	if err != nil {
		return nil, &SchemaViolation{Type: t, Reason: err.Error()}
	}
	return p, nil
}

// Encode turns a payload into its generic map form.
func (r *Registry) Encode(p Payload) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", p.ComponentType(), err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", p.ComponentType(), err)
	}
	return out, nil
}

// violation reduces a validation error tree to its first leaf.
func violation(t Type, ve *jsonschema.ValidationError) *SchemaViolation {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	path := append([]string(nil), leaf.InstanceLocation...)
	reason := "does not match schema"

	switch k := leaf.ErrorKind.(type) {
	case *kind.Required:
		if len(k.Missing) > 0 {
			path = append(path, k.Missing[0])
		}
		reason = "is required"
	case *kind.AdditionalProperties:
		if len(k.Properties) > 0 {
			path = append(path, k.Properties[0])
		}
		reason = "is not allowed"
	case *kind.Type:
		reason = fmt.Sprintf("must be %s, got %s", strings.Join(k.Want, " or "), k.Got)
	case *kind.Enum:
		want := make([]string, len(k.Want))
		for i, w := range k.Want {
			want[i] = fmt.Sprint(w)
		}
		reason = "must be one of " + strings.Join(want, ", ")
	default:
		if kp := leaf.ErrorKind.KeywordPath(); len(kp) > 0 {
			reason = "violates " + strings.Join(kp, "/")
		}
	}

	return &SchemaViolation{Type: t, Field: strings.Join(path, "."), Reason: reason}
}
