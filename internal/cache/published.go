// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"

	"github.com/olegiv/landkit/internal/model"
)

// PublishedPages caches live page documents by slug for the public route.
// Entries must be invalidated whenever a page holding the slug is saved,
// published, unpublished or deleted.
type PublishedPages struct {
	pages *TypedCache[model.Page]
}

// NewPublishedPages wraps c.
func NewPublishedPages(c Cacher, ttl time.Duration) *PublishedPages {
	return &PublishedPages{pages: NewTypedCache[model.Page](c, ttl)}
}

func slugKey(slug string) string {
	return "published:" + slug
}

// Get returns the cached page for slug.
func (p *PublishedPages) Get(ctx context.Context, slug string) (model.Page, bool) {
	return p.pages.Get(ctx, slugKey(slug))
}

// GetOrLoad returns the cached page or loads and caches it.
func (p *PublishedPages) GetOrLoad(ctx context.Context, slug string, load func(context.Context) (model.Page, error)) (model.Page, error) {
	return p.pages.GetOrLoad(ctx, slugKey(slug), load)
}

// Invalidate drops the entries of the given slugs. Empty slugs are skipped.
func (p *PublishedPages) Invalidate(ctx context.Context, slugs ...string) error {
	var firstErr error
	for _, s := range slugs {
		if s == "" {
			continue
		}
		if err := p.pages.Delete(ctx, slugKey(s)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
