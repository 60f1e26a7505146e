// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/landkit/internal/builder"
	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/ids"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/publishing"
	"github.com/olegiv/landkit/internal/util"
)

// DefaultPageTitle names pages created without a title.
const DefaultPageTitle = "Untitled page"

// PageService runs page operations on behalf of an authenticated actor.
// Every mutation loads the stored page, applies one engine operation and
// saves the result; a failure anywhere leaves the stored page untouched.
type PageService struct {
	pages     PageRepository
	engine    *builder.Engine
	quotas    model.PlanQuotas
	published PublishedCache
	logger    *slog.Logger
	now       func() time.Time
	locks     *keyedMutex
}

// PageServiceOptions holds the optional collaborators of a PageService.
type PageServiceOptions struct {
	Engine    *builder.Engine
	Quotas    model.PlanQuotas
	Published PublishedCache // nil disables caching
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewPageService creates a PageService over pages.
func NewPageService(pages PageRepository, opts PageServiceOptions) *PageService {
	if opts.Engine == nil {
		opts.Engine = builder.New()
	}
	if opts.Quotas == nil {
		opts.Quotas = model.DefaultPlanQuotas()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PageService{
		pages:     pages,
		engine:    opts.Engine,
		quotas:    opts.Quotas,
		published: opts.Published,
		logger:    opts.Logger,
		now:       opts.Now,
		locks:     newKeyedMutex(),
	}
}

// Engine returns the builder engine, for component metadata.
func (s *PageService) Engine() *builder.Engine {
	return s.engine
}

// Capabilities resolves what actor may do.
func (s *PageService) Capabilities(actor model.Actor) model.Capabilities {
	return s.quotas.CapabilitiesFor(actor)
}

// CreatePageParams holds the initial metadata of a new page.
type CreatePageParams struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Create starts a new draft for actor. The slug is derived from the title
// when not given.
func (s *PageService) Create(ctx context.Context, actor model.Actor, arg CreatePageParams) (model.Page, error) {
	caps := s.Capabilities(actor)

	unlock := s.locks.Lock("owner:" + actor.ID)
	defer unlock()

	n, err := s.pages.CountByOwner(ctx, actor.ID)
	if err != nil {
		return model.Page{}, err
	}
	if n >= caps.Quotas.MaxPages {
		s.logger.Warn("page quota reached",
			"owner", actor.ID, "tier", actor.Tier, "limit", caps.Quotas.MaxPages, "category", model.EventCategoryPage)
		return model.Page{}, &model.QuotaExceededError{Resource: builder.ResourcePages, Limit: caps.Quotas.MaxPages}
	}

	title := strings.TrimSpace(arg.Title)
	if title == "" {
		title = DefaultPageTitle
	}

	id := ids.NewPage()
	slug := arg.Slug
	if slug == "" {
		slug = derivedSlug(title, id)
	} else if !util.IsValidSlug(slug) {
		return model.Page{}, &model.ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and single hyphens"}
	}

	doc := model.NewPage(id, actor.ID, title, slug)
	doc.Description = arg.Description
	if err := s.engine.ValidateDocument(doc, caps); err != nil {
		return model.Page{}, err
	}

	saved, err := s.pages.Save(ctx, actor.ID, doc)
	if err != nil {
		return model.Page{}, err
	}
	s.logger.Info("page created", "page", saved.ID, "owner", actor.ID, "slug", saved.Slug)
	return saved, nil
}

// derivedSlug slugifies title. Titles without any usable characters get
// "page" and the tail of the page id.
func derivedSlug(title, id string) string {
	if slug := util.Slugify(title); slug != "" {
		return slug
	}
	suffix := strings.ToLower(id)
	if i := strings.LastIndexByte(suffix, '_'); i >= 0 {
		suffix = suffix[i+1:]
	}
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "page-" + suffix
}

// Get returns a page actor owns.
func (s *PageService) Get(ctx context.Context, actor model.Actor, id string) (model.Page, error) {
	return s.load(ctx, actor, id)
}

// List returns the pages of actor.
func (s *PageService) List(ctx context.Context, actor model.Actor) ([]model.Page, error) {
	return s.pages.ListByOwner(ctx, actor.ID)
}

// Save replaces the editable content of a page with doc: title, slug,
// description, theme, settings and blocks. Identity, ownership, status and
// timestamps always come from the stored page. An empty theme keeps the
// stored one. Blocks keep their stored type.
func (s *PageService) Save(ctx context.Context, actor model.Actor, id string, doc model.Page) (model.Page, error) {
	return s.mutate(ctx, actor, id, "save", func(stored model.Page, caps model.Capabilities) (model.Page, error) {
		next := stored.Clone()
		next.Title = doc.Title
		next.Slug = doc.Slug
		next.Description = doc.Description
		if doc.Theme != (model.Theme{}) {
			next.Theme = doc.Theme
		}
		next.Settings = doc.Settings
		next.Blocks = append([]model.Block(nil), doc.Blocks...)
		if next.Blocks == nil {
			next.Blocks = []model.Block{}
		}

		err := s.engine.ValidateReplacement(stored, next, caps)
		if errors.Is(err, model.ErrQuotaExceeded) {
			// Everything but the quota passed; judge the quota by growth.
			err = builder.CheckQuotaGrowth(&stored, &next, caps)
		}
		if err != nil {
			return stored, err
		}
		if next.IsPublished() {
			if err := publishing.CheckPublishable(next); err != nil {
				return stored, err
			}
		}
		return next, nil
	})
}

// AddBlock appends a block of type t to the page.
func (s *PageService) AddBlock(ctx context.Context, actor model.Actor, id string, t component.Type, initial map[string]any) (model.Page, model.Block, error) {
	var added model.Block
	page, err := s.mutate(ctx, actor, id, "add_block", func(doc model.Page, caps model.Capabilities) (model.Page, error) {
		out, b, err := s.engine.AddBlock(doc, caps, t, initial)
		added = b
		return out, err
	})
	if err != nil {
		return model.Page{}, model.Block{}, err
	}
	return page, added, nil
}

// UpdateBlock merges partial into a block's data.
func (s *PageService) UpdateBlock(ctx context.Context, actor model.Actor, id, blockID string, partial map[string]any) (model.Page, error) {
	return s.mutate(ctx, actor, id, "update_block", func(doc model.Page, caps model.Capabilities) (model.Page, error) {
		return s.engine.UpdateBlock(doc, caps, blockID, partial)
	})
}

// DeleteBlock removes a block.
func (s *PageService) DeleteBlock(ctx context.Context, actor model.Actor, id, blockID string) (model.Page, error) {
	return s.mutate(ctx, actor, id, "delete_block", func(doc model.Page, _ model.Capabilities) (model.Page, error) {
		return s.engine.DeleteBlock(doc, blockID)
	})
}

// MoveBlock swaps a block with its neighbour.
func (s *PageService) MoveBlock(ctx context.Context, actor model.Actor, id, blockID string, dir builder.Direction) (model.Page, error) {
	return s.mutate(ctx, actor, id, "move_block", func(doc model.Page, _ model.Capabilities) (model.Page, error) {
		return s.engine.MoveBlock(doc, blockID, dir)
	})
}

// UpdateSettings applies a page settings patch. A live page must stay
// publishable.
func (s *PageService) UpdateSettings(ctx context.Context, actor model.Actor, id string, patch builder.PageSettingsPatch) (model.Page, error) {
	return s.mutate(ctx, actor, id, "update_settings", func(doc model.Page, caps model.Capabilities) (model.Page, error) {
		next, err := s.engine.UpdatePageSettings(doc, caps, patch)
		if err != nil {
			return doc, err
		}
		if next.IsPublished() {
			if err := publishing.CheckPublishable(next); err != nil {
				return doc, err
			}
		}
		return next, nil
	})
}

// Publish makes the page live under its slug.
func (s *PageService) Publish(ctx context.Context, actor model.Actor, id string) (model.Page, error) {
	page, err := s.mutate(ctx, actor, id, "publish", func(doc model.Page, _ model.Capabilities) (model.Page, error) {
		return publishing.Publish(doc, s.now())
	})
	if err != nil {
		return model.Page{}, err
	}
	s.logger.Info("page published", "page", page.ID, "slug", page.Slug, "owner", actor.ID)
	return page, nil
}

// Unpublish takes a live page offline.
func (s *PageService) Unpublish(ctx context.Context, actor model.Actor, id string) (model.Page, error) {
	page, err := s.mutate(ctx, actor, id, "unpublish", func(doc model.Page, _ model.Capabilities) (model.Page, error) {
		return publishing.Unpublish(doc)
	})
	if err != nil {
		return model.Page{}, err
	}
	s.logger.Info("page unpublished", "page", page.ID, "slug", page.Slug, "owner", actor.ID)
	return page, nil
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, actor model.Actor, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	stored, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, actor.ID, id); err != nil {
		return err
	}
	s.invalidate(ctx, stored.Slug)
	s.logger.Info("page deleted", "page", id, "owner", actor.ID)
	return nil
}

// SlugAvailable reports whether page id could go live under slug without a
// conflict. A page may always keep its own slug.
func (s *PageService) SlugAvailable(ctx context.Context, actor model.Actor, id, slug string) (bool, error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return false, err
	}
	if !util.IsValidSlug(slug) {
		return false, &model.ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and single hyphens"}
	}
	return s.pages.SlugAvailable(ctx, actor.ID, slug, id)
}

// Published returns the live page answering to slug.
func (s *PageService) Published(ctx context.Context, slug string) (model.Page, error) {
	if !util.IsValidSlug(slug) {
		return model.Page{}, &model.NotFoundError{Kind: "page", ID: slug}
	}
	if s.published == nil {
		return s.pages.LoadPublishedBySlug(ctx, slug)
	}
	return s.published.GetOrLoad(ctx, slug, func(ctx context.Context) (model.Page, error) {
		return s.pages.LoadPublishedBySlug(ctx, slug)
	})
}

// mutate serializes op against other writes to the same page, runs it on
// the stored document and persists the result.
func (s *PageService) mutate(ctx context.Context, actor model.Actor, id, op string, fn func(model.Page, model.Capabilities) (model.Page, error)) (model.Page, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	stored, err := s.load(ctx, actor, id)
	if err != nil {
		return model.Page{}, err
	}

	next, err := fn(stored, s.Capabilities(actor))
	if err != nil {
		if errors.Is(err, model.ErrQuotaExceeded) {
			s.logger.Warn("quota exceeded",
				"page", id, "owner", actor.ID, "tier", actor.Tier, "op", op, "error", err, "category", model.EventCategoryPage)
		}
		return model.Page{}, err
	}

	saved, err := s.pages.Save(ctx, actor.ID, next)
	if err != nil {
		if errors.Is(err, model.ErrUnavailable) {
			s.logger.Error("saving page failed", "page", id, "op", op, "error", err, "category", model.EventCategoryPage)
		}
		return model.Page{}, err
	}

	s.invalidate(ctx, stored.Slug, saved.Slug)
	s.logger.Debug("page updated", "page", id, "owner", actor.ID, "op", op)
	return saved, nil
}

func (s *PageService) load(ctx context.Context, actor model.Actor, id string) (model.Page, error) {
	p, err := s.pages.Load(ctx, id)
	if err != nil {
		return model.Page{}, err
	}
	if p.OwnerID != actor.ID {
		s.logger.Warn("page access denied", "page", id, "actor", actor.ID, "category", model.EventCategoryAuth)
		return model.Page{}, fmt.Errorf("%w: page %s belongs to another user", model.ErrPermissionDenied, id)
	}
	return p, nil
}

func (s *PageService) invalidate(ctx context.Context, slugs ...string) {
	if s.published == nil {
		return
	}
	if err := s.published.Invalidate(ctx, slugs...); err != nil {
		s.logger.Warn("invalidating published page cache", "slugs", slugs, "error", err, "category", model.EventCategoryCache)
	}
}
