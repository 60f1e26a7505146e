// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"sync"

	"github.com/olegiv/landkit/internal/model"
)

// DefaultHistoryDepth is the number of undo steps kept when none is given.
const DefaultHistoryDepth = 50

// History keeps bounded undo and redo stacks of page snapshots for an
// editing session. Snapshots are cloned on the way in and out.
type History struct {
	mu    sync.Mutex
	depth int
	undo  []model.Page
	redo  []model.Page
}

// NewHistory creates a history holding at most depth undo steps.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// Push records prev as the state before a successful edit and clears the
// redo stack.
func (h *History) Push(prev model.Page) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = append(h.undo, prev.Clone())
	if len(h.undo) > h.depth {
		h.undo = h.undo[len(h.undo)-h.depth:]
	}
	h.redo = nil
}

// Undo returns the state before the last edit. current is kept for Redo.
func (h *History) Undo(current model.Page) (model.Page, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return current, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return prev.Clone(), true
}

// Redo reapplies the last undone edit.
func (h *History) Redo(current model.Page) (model.Page, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return next.Clone(), true
}

// CanUndo reports whether Undo has a state to return.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo has a state to return.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Apply runs op on current and records current in the history when op
// succeeds.
func (h *History) Apply(current model.Page, op func(model.Page) (model.Page, error)) (model.Page, error) {
	next, err := op(current)
	if err != nil {
		return current, err
	}
	h.Push(current)
	return next, nil
}
