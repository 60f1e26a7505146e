// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"fmt"
	"maps"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
)

// Direction is a single reorder step.
type Direction string

// Move directions
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// AddBlock appends a block of type t. A nil initial map yields the variant
// defaults; otherwise initial is merged over the defaults before validation.
func (e *Engine) AddBlock(doc model.Page, caps model.Capabilities, t component.Type, initial map[string]any) (model.Page, model.Block, error) {
	def, err := e.registry.Describe(t)
	if err != nil {
		return doc, model.Block{}, err
	}

	var payload component.Payload = def.Defaults
	if initial != nil {
		base, err := e.registry.Encode(def.Defaults)
		if err != nil {
			return doc, model.Block{}, err
		}
		payload, err = e.registry.Decode(t, merge(base, initial))
		if err != nil {
			return doc, model.Block{}, err
		}
	}

	if err := checkGalleryGrowth(&doc, caps, t); err != nil {
		return doc, model.Block{}, err
	}

	id, err := e.freshID(&doc)
	if err != nil {
		return doc, model.Block{}, err
	}

	block := model.Block{ID: id, Type: t, Data: payload}
	out := doc.Clone()
	out.Blocks = append(out.Blocks, block)
	return out, block, nil
}

// UpdateBlock merges partial key by key over the payload of the block and
// replaces it in place. A nil value in partial removes the key, which makes
// an optional field fall back to empty and a required field fail validation.
// The block keeps its id, type and position.
func (e *Engine) UpdateBlock(doc model.Page, _ model.Capabilities, blockID string, partial map[string]any) (model.Page, error) {
	idx := doc.IndexOf(blockID)
	if idx < 0 {
		return doc, &model.NotFoundError{Kind: "block", ID: blockID}
	}
	current := doc.Blocks[idx]
	if !current.IsKnown() || !e.registry.Has(current.Type) {
		return doc, fmt.Errorf("%w: block %s has type %q", component.ErrUnknownVariant, blockID, current.Type)
	}

	base, err := e.registry.Encode(current.Data)
	if err != nil {
		return doc, err
	}
	payload, err := e.registry.Decode(current.Type, merge(base, partial))
	if err != nil {
		return doc, err
	}

	out := doc.Clone()
	out.Blocks[idx] = model.Block{ID: current.ID, Type: current.Type, Data: payload}
	return out, nil
}

// DeleteBlock removes a block and closes the gap.
func (e *Engine) DeleteBlock(doc model.Page, blockID string) (model.Page, error) {
	idx := doc.IndexOf(blockID)
	if idx < 0 {
		return doc, &model.NotFoundError{Kind: "block", ID: blockID}
	}

	out := doc.Clone()
	out.Blocks = append(out.Blocks[:idx], out.Blocks[idx+1:]...)
	return out, nil
}

// MoveBlock swaps a block with its neighbour in the given direction. Moving
// the first block up or the last block down is a no-op.
func (e *Engine) MoveBlock(doc model.Page, blockID string, dir Direction) (model.Page, error) {
	var step int
	switch dir {
	case Up:
		step = -1
	case Down:
		step = 1
	default:
		return doc, &model.ValidationError{Field: "direction", Reason: fmt.Sprintf("must be %q or %q", Up, Down)}
	}

	idx := doc.IndexOf(blockID)
	if idx < 0 {
		return doc, &model.NotFoundError{Kind: "block", ID: blockID}
	}

	out := doc.Clone()
	target := idx + step
	if target < 0 || target >= len(out.Blocks) {
		return out, nil
	}
	out.Blocks[idx], out.Blocks[target] = out.Blocks[target], out.Blocks[idx]
	return out, nil
}

// merge returns base overlaid with patch. Nil patch values delete the key.
func merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	maps.Copy(out, base)
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
