// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/util"
)

// ValidateDocument checks a whole document that has no stored predecessor.
// Every block must carry a registered type and a payload that passes its
// schema.
func (e *Engine) ValidateDocument(doc model.Page, caps model.Capabilities) error {
	return e.validate(nil, doc, caps)
}

// ValidateReplacement checks a client-supplied document before it replaces
// stored. Blocks keep the type they were stored with. A block the registry
// cannot decode is accepted only when stored already holds it with the same
// type and the same payload.
func (e *Engine) ValidateReplacement(stored, next model.Page, caps model.Capabilities) error {
	return e.validate(&stored, next, caps)
}

func (e *Engine) validate(stored *model.Page, doc model.Page, caps model.Capabilities) error {
	if utf8.RuneCountInString(doc.Title) > MaxTitleLength {
		return &model.ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	if utf8.RuneCountInString(doc.Description) > MaxDescriptionLength {
		return &model.ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
	}
	if doc.Slug != "" && !util.IsValidSlug(doc.Slug) {
		return &model.ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and single hyphens"}
	}
	if !doc.Status.Valid() {
		return &model.ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a known state", doc.Status)}
	}
	if err := validateTheme(doc.Theme); err != nil {
		return err
	}

	seen := make(map[string]bool, len(doc.Blocks))
	for i, b := range doc.Blocks {
		if b.ID == "" {
			return &model.ValidationError{Field: fmt.Sprintf("blocks.%d.id", i), Reason: "is required"}
		}
		if seen[b.ID] {
			return &model.ValidationError{Field: fmt.Sprintf("blocks.%d.id", i), Reason: fmt.Sprintf("duplicates %q", b.ID)}
		}
		seen[b.ID] = true

		var prev model.Block
		var existed bool
		if stored != nil {
			prev, existed = stored.Block(b.ID)
		}
		if existed && prev.Type != b.Type {
			return &model.ValidationError{Field: fmt.Sprintf("blocks.%d.type", i), Reason: "cannot change"}
		}

		if !b.IsKnown() {
			if existed && sameRaw(prev, b) {
				continue
			}
			return fmt.Errorf("block %s: %w", b.ID, e.undecodable(b))
		}
		if b.Data.ComponentType() != b.Type {
			return &model.ValidationError{Field: fmt.Sprintf("blocks.%d.type", i), Reason: "does not match its data"}
		}
		data, err := e.registry.Encode(b.Data)
		if err != nil {
			return err
		}
		if err := e.registry.Validate(b.Type, data); err != nil {
			return fmt.Errorf("block %s: %w", b.ID, err)
		}
	}

	return checkQuotas(&doc, caps)
}

// undecodable explains why b did not decode into a registered payload.
func (e *Engine) undecodable(b model.Block) error {
	if !e.registry.Has(b.Type) {
		_, err := e.registry.Describe(b.Type)
		return err
	}

	var raw json.RawMessage
	if r, ok := b.Data.(component.Raw); ok {
		raw = r.Data
	}
	if len(raw) == 0 {
		return e.registry.Validate(b.Type, nil)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return &component.SchemaViolation{Type: b.Type, Reason: "data must be a JSON object"}
	}
	if err := e.registry.Validate(b.Type, m); err != nil {
		return err
	}
	return &component.SchemaViolation{Type: b.Type, Reason: "data could not be decoded"}
}

// sameRaw reports whether next carries prev's undecoded payload unchanged.
// Payloads are compared as JSON values so formatting does not matter.
func sameRaw(prev, next model.Block) bool {
	if prev.IsKnown() || prev.Type != next.Type {
		return false
	}
	p, ok := prev.Data.(component.Raw)
	if !ok {
		return false
	}
	n, ok := next.Data.(component.Raw)
	if !ok {
		return false
	}

	var pv, nv any
	if err := json.Unmarshal(orNull(p.Data), &pv); err != nil {
		return false
	}
	if err := json.Unmarshal(orNull(n.Data), &nv); err != nil {
		return false
	}
	return reflect.DeepEqual(pv, nv)
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
