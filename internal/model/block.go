// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"

	"github.com/olegiv/landkit/internal/component"
)

// Block is one typed content unit of a page.
type Block struct {
	ID   string            `json:"id"`
	Type component.Type    `json:"type"`
	Data component.Payload `json:"data"`
}

// IsKnown reports whether the block decoded into a registered payload.
func (b Block) IsKnown() bool {
	_, raw := b.Data.(component.Raw)
	return b.Data != nil && !raw
}

type blockJSON struct {
	ID   string          `json:"id"`
	Type component.Type  `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the payload through the default registry. Payloads
// that are unknown or fail their schema are preserved as component.Raw.
func (b *Block) UnmarshalJSON(data []byte) error {
	var bj blockJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return fmt.Errorf("decoding block: %w", err)
	}

	b.ID = bj.ID
	b.Type = bj.Type
	b.Data = decodePayload(component.Default(), bj.Type, bj.Data)
	return nil
}

func decodePayload(r *component.Registry, t component.Type, raw json.RawMessage) component.Payload {
	fallback := component.Raw{Tag: t, Data: append(json.RawMessage(nil), raw...)}
	if !r.Has(t) {
		return fallback
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fallback
	}
	if err := r.Validate(t, m); err != nil {
		return fallback
	}
	p, err := r.DecodeJSON(t, raw)
	if err != nil {
		return fallback
	}
	return p
}
