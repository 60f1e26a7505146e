// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
)

// Quota resources reported in model.QuotaExceededError.
const (
	ResourceGalleryImages  = "gallery_images"
	ResourceRatings        = "ratings"
	ResourceRemoveBranding = "remove_branding"
	ResourcePages          = "pages"
)

// GalleryAssets counts the blocks that consume the gallery image quota.
func GalleryAssets(doc *model.Page) int {
	return doc.CountBlocks(component.TypeImage)
}

// checkGalleryGrowth rejects adding a block of type t when it would take the
// page past the gallery limit.
func checkGalleryGrowth(doc *model.Page, caps model.Capabilities, t component.Type) error {
	if t != component.TypeImage {
		return nil
	}
	limit := caps.Quotas.MaxGalleryImages
	if GalleryAssets(doc)+1 > limit {
		return &model.QuotaExceededError{Resource: ResourceGalleryImages, Limit: limit}
	}
	return nil
}

// checkSettingsGrowth rejects switching on a plan-gated setting the tier
// does not include. Settings that were already on stay allowed so a lapsed
// plan does not block unrelated edits.
func checkSettingsGrowth(current, next model.PageSettings, caps model.Capabilities) error {
	if next.RatingsEnabled && !current.RatingsEnabled && !caps.Quotas.Ratings {
		return &model.QuotaExceededError{Resource: ResourceRatings}
	}
	if next.RemoveBranding && !current.RemoveBranding && !caps.Quotas.RemoveBranding {
		return &model.QuotaExceededError{Resource: ResourceRemoveBranding}
	}
	return nil
}

// checkQuotas evaluates a whole document against caps.
func checkQuotas(doc *model.Page, caps model.Capabilities) error {
	if n, limit := GalleryAssets(doc), caps.Quotas.MaxGalleryImages; n > limit {
		return &model.QuotaExceededError{Resource: ResourceGalleryImages, Limit: limit}
	}
	if doc.Settings.RatingsEnabled && !caps.Quotas.Ratings {
		return &model.QuotaExceededError{Resource: ResourceRatings}
	}
	if doc.Settings.RemoveBranding && !caps.Quotas.RemoveBranding {
		return &model.QuotaExceededError{Resource: ResourceRemoveBranding}
	}
	return nil
}

// CheckQuotaGrowth compares a replacement document with the one it replaces
// and rejects only what next adds beyond caps. A page that was already over
// its limits after a downgrade can still be edited as long as it does not
// grow.
func CheckQuotaGrowth(current, next *model.Page, caps model.Capabilities) error {
	if n, limit := GalleryAssets(next), caps.Quotas.MaxGalleryImages; n > limit && n > GalleryAssets(current) {
		return &model.QuotaExceededError{Resource: ResourceGalleryImages, Limit: limit}
	}
	return checkSettingsGrowth(current.Settings, next.Settings, caps)
}
