// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/publishing"
	"github.com/olegiv/landkit/internal/util"
)

// Field limits for page-level metadata.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// PageSettingsPatch is a shallow update of page-level fields. Nil fields
// are left untouched; Theme and Settings replace the current value whole.
type PageSettingsPatch struct {
	Title       *string             `json:"title,omitempty"`
	Slug        *string             `json:"slug,omitempty"`
	Description *string             `json:"description,omitempty"`
	Theme       *model.Theme        `json:"theme,omitempty"`
	Status      *model.PageStatus   `json:"status,omitempty"`
	Settings    *model.PageSettings `json:"settings,omitempty"`
}

// UpdatePageSettings applies patch to the page metadata. Moving a page into
// the published state must go through publishing.Publish so that the
// publication time is recorded; a patch may only keep the status or take a
// live page offline.
func (e *Engine) UpdatePageSettings(doc model.Page, caps model.Capabilities, patch PageSettingsPatch) (model.Page, error) {
	out := doc.Clone()

	if patch.Title != nil {
		if utf8.RuneCountInString(*patch.Title) > MaxTitleLength {
			return doc, &model.ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
		}
		out.Title = *patch.Title
	}

	if patch.Slug != nil {
		if !util.IsValidSlug(*patch.Slug) {
			return doc, &model.ValidationError{Field: "slug", Reason: "must contain only lowercase letters, digits and single hyphens"}
		}
		out.Slug = *patch.Slug
	}

	if patch.Description != nil {
		if utf8.RuneCountInString(*patch.Description) > MaxDescriptionLength {
			return doc, &model.ValidationError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
		}
		out.Description = *patch.Description
	}

	if patch.Theme != nil {
		if err := validateTheme(*patch.Theme); err != nil {
			return doc, err
		}
		out.Theme = *patch.Theme
	}

	if patch.Status != nil {
		if err := checkStatusPatch(doc.Status, *patch.Status); err != nil {
			return doc, err
		}
		out.Status = *patch.Status
	}

	if patch.Settings != nil {
		if err := checkSettingsGrowth(doc.Settings, *patch.Settings, caps); err != nil {
			return doc, err
		}
		out.Settings = *patch.Settings
	}

	return out, nil
}

func checkStatusPatch(from, to model.PageStatus) error {
	if !to.Valid() {
		return &model.ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a known state", to)}
	}
	if from == to {
		return nil
	}
	if to == model.PageStatusPublished {
		return &model.ValidationError{Field: "status", Reason: "use publish to make a page live"}
	}
	if !publishing.CanTransition(from, to) {
		return &model.ValidationError{Field: "status", Reason: fmt.Sprintf("cannot change from %s to %s", from, to)}
	}
	return nil
}

func validateTheme(t model.Theme) error {
	if !hexColor.MatchString(t.PrimaryColor) {
		return &model.ValidationError{Field: "theme.primaryColor", Reason: "must be a #rgb or #rrggbb colour"}
	}
	if utf8.RuneCountInString(t.FontFamily) > 100 {
		return &model.ValidationError{Field: "theme.fontFamily", Reason: "is too long"}
	}
	return nil
}
