// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/landkit/internal/component"
)

func TestNewPage(t *testing.T) {
	p := NewPage("page_1", "user_1", "Bloom Cafe", "bloom-cafe")

	if !p.IsDraft() {
		t.Errorf("Status = %q, want draft", p.Status)
	}
	if len(p.Blocks) != 0 {
		t.Errorf("len(Blocks) = %d, want 0", len(p.Blocks))
	}
	if p.PublishedAt != nil {
		t.Error("PublishedAt is set on a new page")
	}
	if p.Theme != DefaultTheme() {
		t.Errorf("Theme = %+v, want default", p.Theme)
	}
}

func TestPageClone(t *testing.T) {
	now := time.Now()
	p := NewPage("page_1", "user_1", "T", "t")
	p.PublishedAt = &now
	p.Blocks = append(p.Blocks, Block{ID: "a", Type: component.TypeSpacer, Data: component.SpacerData{Height: "small"}})

	c := p.Clone()
	c.Blocks[0].ID = "changed"
	*c.PublishedAt = now.Add(time.Hour)

	if p.Blocks[0].ID != "a" {
		t.Error("Clone shares the block slice with the original")
	}
	if !p.PublishedAt.Equal(now) {
		t.Error("Clone shares PublishedAt with the original")
	}
}

func TestPageLookups(t *testing.T) {
	p := NewPage("page_1", "user_1", "T", "t")
	p.Blocks = []Block{
		{ID: "a", Type: component.TypeImage},
		{ID: "b", Type: component.TypeText},
		{ID: "c", Type: component.TypeImage},
	}

	if got := p.IndexOf("b"); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := p.IndexOf("z"); got != -1 {
		t.Errorf("IndexOf(z) = %d, want -1", got)
	}
	if _, ok := p.Block("c"); !ok {
		t.Error("Block(c) not found")
	}
	if got := p.CountBlocks(component.TypeImage); got != 2 {
		t.Errorf("CountBlocks(image) = %d, want 2", got)
	}
}

func TestBlockJSON(t *testing.T) {
	in := `{"id":"blk_1","type":"text","data":{"content":"hi","alignment":"left"}}`

	var b Block
	if err := json.Unmarshal([]byte(in), &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	text, ok := b.Data.(component.TextData)
	if !ok {
		t.Fatalf("Data is %T, want TextData", b.Data)
	}
	if text.Content != "hi" || !b.IsKnown() {
		t.Errorf("decoded block = %+v", b)
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal = %s, want %s", out, in)
	}
}

func TestBlockJSONKeepsUnknownPayloads(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "unregistered type", in: `{"id":"blk_1","type":"carousel","data":{"slides":[1,2,3]}}`},
		{name: "invalid payload", in: `{"id":"blk_2","type":"spacer","data":{"height":"huge"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Block
			if err := json.Unmarshal([]byte(tt.in), &b); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if _, ok := b.Data.(component.Raw); !ok {
				t.Fatalf("Data is %T, want component.Raw", b.Data)
			}
			if b.IsKnown() {
				t.Error("IsKnown() = true for a raw payload")
			}

			out, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(out) != tt.in {
				t.Errorf("round trip = %s, want %s", out, tt.in)
			}
		})
	}
}

func TestEffectiveTier(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		user User
		want PlanTier
	}{
		{name: "free", user: User{Plan: PlanFree}, want: PlanFree},
		{name: "pro without expiry", user: User{Plan: PlanPro}, want: PlanPro},
		{name: "pro active", user: User{Plan: PlanPro, PlanExpiresAt: &future}, want: PlanPro},
		{name: "pro expired", user: User{Plan: PlanPro, PlanExpiresAt: &past}, want: PlanFree},
		{name: "pro expiring now", user: User{Plan: PlanPro, PlanExpiresAt: &now}, want: PlanFree},
		{name: "unknown plan", user: User{Plan: "enterprise"}, want: PlanFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.EffectiveTier(now); got != tt.want {
				t.Errorf("EffectiveTier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlanQuotasFor(t *testing.T) {
	q := DefaultPlanQuotas()

	if got := q.For(PlanFree).MaxGalleryImages; got != 3 {
		t.Errorf("free MaxGalleryImages = %d, want 3", got)
	}
	if got := q.For(PlanPro).MaxGalleryImages; got != 30 {
		t.Errorf("pro MaxGalleryImages = %d, want 30", got)
	}
	if q.For("bogus") != q.For(PlanFree) {
		t.Error("unknown tier does not fall back to free")
	}

	caps := q.CapabilitiesFor(Actor{ID: "u", Tier: PlanPro})
	if caps.Tier != PlanPro || !caps.Quotas.RemoveBranding {
		t.Errorf("CapabilitiesFor(pro) = %+v", caps)
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		err    error
		target error
	}{
		{err: &NotFoundError{Kind: "block", ID: "x"}, target: ErrNotFound},
		{err: &QuotaExceededError{Resource: "gallery_images", Limit: 3}, target: ErrQuotaExceeded},
		{err: &ValidationError{Reason: "title is required"}, target: ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}
}
