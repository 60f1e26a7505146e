// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service glues the builder engine, the publishing state machine,
// persistence and the public page cache into the operations exposed over
// HTTP.
package service

import (
	"context"

	"github.com/olegiv/landkit/internal/model"
)

// PageRepository is the persistence the page service needs.
type PageRepository interface {
	Load(ctx context.Context, id string) (model.Page, error)
	LoadPublishedBySlug(ctx context.Context, slug string) (model.Page, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Page, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Save(ctx context.Context, ownerID string, p model.Page) (model.Page, error)
	Delete(ctx context.Context, ownerID, id string) error
	SlugAvailable(ctx context.Context, ownerID, slug, exceptID string) (bool, error)
}

// PublishedCache caches live pages by slug.
type PublishedCache interface {
	GetOrLoad(ctx context.Context, slug string, load func(context.Context) (model.Page, error)) (model.Page, error)
	Invalidate(ctx context.Context, slugs ...string) error
}
