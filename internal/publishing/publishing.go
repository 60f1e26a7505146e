// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package publishing implements the page lifecycle:
//
//	draft --publish--> published --unpublish--> unpublished --publish--> published
//
// Transitions are pure: they return a new page and never touch the input.
package publishing

import (
	"strings"
	"time"

	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/util"
)

// transitions lists the status changes reachable through an event.
var transitions = map[model.PageStatus][]model.PageStatus{
	model.PageStatusDraft:       {model.PageStatusPublished},
	model.PageStatusPublished:   {model.PageStatusUnpublished},
	model.PageStatusUnpublished: {model.PageStatusPublished},
}

// CanTransition reports whether a page may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to model.PageStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckPublishable reports why doc cannot go live, or nil.
func CheckPublishable(doc model.Page) error {
	if strings.TrimSpace(doc.Title) == "" {
		return &model.ValidationError{Field: "title", Reason: "is required to publish"}
	}
	if doc.Slug == "" {
		return &model.ValidationError{Field: "slug", Reason: "is required to publish"}
	}
	if !util.IsValidSlug(doc.Slug) {
		return &model.ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and single hyphens"}
	}
	return nil
}

// Publish makes doc publicly resolvable by its slug. PublishedAt is stamped
// with now on the first publication only. Publishing a page that is already
// live succeeds and leaves it unchanged.
func Publish(doc model.Page, now time.Time) (model.Page, error) {
	if !doc.Status.Valid() {
		return doc, &model.ValidationError{Field: "status", Reason: "is not a known state"}
	}
	if err := CheckPublishable(doc); err != nil {
		return doc, err
	}

	out := doc.Clone()
	if out.Status == model.PageStatusPublished {
		return out, nil
	}
	out.Status = model.PageStatusPublished
	if out.PublishedAt == nil {
		t := now.UTC()
		out.PublishedAt = &t
	}
	return out, nil
}

// Unpublish takes a live page offline. The slug stays with the page.
func Unpublish(doc model.Page) (model.Page, error) {
	if doc.Status != model.PageStatusPublished {
		return doc, &model.ValidationError{Field: "status", Reason: "only a published page can be unpublished"}
	}
	out := doc.Clone()
	out.Status = model.PageStatusUnpublished
	return out, nil
}
