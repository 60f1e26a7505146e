// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/landkit/internal/component"
)

// PageStatus is the publishing state of a page.
type PageStatus string

// Page statuses
const (
	PageStatusDraft       PageStatus = "draft"
	PageStatusPublished   PageStatus = "published"
	PageStatusUnpublished PageStatus = "unpublished"
)

// Valid reports whether s is one of the three known states.
func (s PageStatus) Valid() bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusUnpublished:
		return true
	}
	return false
}

// Theme holds the page-wide styling choices.
type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	FontFamily   string `json:"fontFamily"`
}

// DefaultTheme is applied to new pages.
func DefaultTheme() Theme {
	return Theme{PrimaryColor: "#2563eb", FontFamily: "Inter"}
}

// PageSettings holds plan-gated page options.
type PageSettings struct {
	RatingsEnabled bool `json:"ratingsEnabled"`
	RemoveBranding bool `json:"removeBranding"`
}

// Page is a landing page document: page-level metadata plus the ordered
// blocks rendered top to bottom.
type Page struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"ownerId"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Status      PageStatus   `json:"status"`
	Theme       Theme        `json:"theme"`
	Settings    PageSettings `json:"settings"`
	Blocks      []Block      `json:"blocks"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
}

// NewPage returns an empty draft owned by ownerID.
func NewPage(id, ownerID, title, slug string) Page {
	return Page{
		ID:      id,
		OwnerID: ownerID,
		Title:   title,
		Slug:    slug,
		Status:  PageStatusDraft,
		Theme:   DefaultTheme(),
		Blocks:  []Block{},
	}
}

// Clone returns a copy that shares no mutable state with p.
func (p Page) Clone() Page {
	c := p
	c.Blocks = make([]Block, len(p.Blocks))
	copy(c.Blocks, p.Blocks)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	return c
}

// IsPublished returns true if the page is publicly resolvable by slug.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page has never been published.
func (p *Page) IsDraft() bool {
	return p.Status == PageStatusDraft
}

// IsUnpublished returns true if the page was taken offline after publishing.
func (p *Page) IsUnpublished() bool {
	return p.Status == PageStatusUnpublished
}

// IndexOf returns the position of the block with the given id, or -1.
func (p *Page) IndexOf(blockID string) int {
	for i := range p.Blocks {
		if p.Blocks[i].ID == blockID {
			return i
		}
	}
	return -1
}

// Block returns the block with the given id.
func (p *Page) Block(blockID string) (Block, bool) {
	if i := p.IndexOf(blockID); i >= 0 {
		return p.Blocks[i], true
	}
	return Block{}, false
}

// CountBlocks returns how many blocks of type t the page holds.
func (p *Page) CountBlocks(t component.Type) int {
	n := 0
	for i := range p.Blocks {
		if p.Blocks[i].Type == t {
			n++
		}
	}
	return n
}
