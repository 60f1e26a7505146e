// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package builder is the composition engine of landkit. It edits page
// documents block by block: add, update, delete, reorder and page-level
// settings, enforcing the caller's plan quotas on every call.
//
// The engine holds no document state. Each operation takes the current page
// value and returns a new one; the input is never modified, so a rejected
// operation leaves the caller's document exactly as it was.
package builder

import (
	"fmt"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/ids"
	"github.com/olegiv/landkit/internal/model"
)

// IDGenerator returns a fresh block id.
type IDGenerator func() string

// Engine applies edit operations to page documents.
type Engine struct {
	registry *component.Registry
	newID    IDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default component registry.
func WithRegistry(r *component.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithIDGenerator replaces the block id source. Tests use it to make
// operations deterministic.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.newID = g }
}

// New creates an engine over the built-in registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: component.Default(),
		newID:    ids.NewBlock,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine validates against.
func (e *Engine) Registry() *component.Registry {
	return e.registry
}

// maxIDAttempts bounds retries when the generator hands out an id that is
// already on the page.
const maxIDAttempts = 8

func (e *Engine) freshID(doc *model.Page) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := e.newID()
		if id != "" && doc.IndexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("builder: could not generate a unique block id after %d attempts", maxIDAttempts)
}
