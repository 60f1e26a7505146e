// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/publishing"
)

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("blk_%d", n)
	}
}

func newEngine() *Engine {
	return New(WithIDGenerator(sequentialIDs()))
}

func freeCaps() model.Capabilities {
	return model.DefaultPlanQuotas().CapabilitiesFor(model.Actor{ID: "user_1", Tier: model.PlanFree})
}

func proCaps() model.Capabilities {
	return model.DefaultPlanQuotas().CapabilitiesFor(model.Actor{ID: "user_1", Tier: model.PlanPro})
}

func emptyDoc() model.Page {
	return model.NewPage("page_1", "user_1", "Bloom Cafe", "bloom-cafe")
}

func blockIDs(p model.Page) []string {
	out := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		out[i] = b.ID
	}
	return out
}

func TestAddBlockDefaults(t *testing.T) {
	e := newEngine()
	in := emptyDoc()

	out, b, err := e.AddBlock(in, freeCaps(), component.TypeHero, nil)
	require.NoError(t, err)

	assert.Equal(t, "blk_1", b.ID)
	assert.Equal(t, component.TypeHero, b.Type)
	hero, ok := b.Data.(component.HeroData)
	require.True(t, ok, "Data is %T", b.Data)
	assert.Equal(t, "Welcome to Our Business", hero.Title)
	assert.Equal(t, []string{"blk_1"}, blockIDs(out))
	assert.Empty(t, in.Blocks, "AddBlock modified its input")
}

func TestAddBlockMergesInitialOverDefaults(t *testing.T) {
	e := newEngine()

	_, b, err := e.AddBlock(emptyDoc(), freeCaps(), component.TypeHero, map[string]any{"title": "Fresh bread daily"})
	require.NoError(t, err)

	hero := b.Data.(component.HeroData)
	assert.Equal(t, "Fresh bread daily", hero.Title)
	assert.Equal(t, "Get Started", hero.PrimaryButtonText)
}

func TestAddBlockRejects(t *testing.T) {
	e := newEngine()
	in := emptyDoc()

	_, _, err := e.AddBlock(in, freeCaps(), "carousel", nil)
	assert.ErrorIs(t, err, component.ErrUnknownVariant)

	_, _, err = e.AddBlock(in, freeCaps(), component.TypeText, map[string]any{"alignment": "justify"})
	assert.ErrorIs(t, err, component.ErrSchemaViolation)

	var sv *component.SchemaViolation
	require.True(t, errors.As(err, &sv))
	assert.Equal(t, "alignment", sv.Field)
}

func TestAddBlockIDsStayUnique(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls <= 2 {
			return "blk_same"
		}
		return fmt.Sprintf("blk_%d", calls)
	}
	e := New(WithIDGenerator(gen))

	doc, _, err := e.AddBlock(emptyDoc(), freeCaps(), component.TypeSpacer, nil)
	require.NoError(t, err)
	doc, b, err := e.AddBlock(doc, freeCaps(), component.TypeSpacer, nil)
	require.NoError(t, err)

	assert.Equal(t, "blk_3", b.ID)
	assert.Equal(t, []string{"blk_same", "blk_3"}, blockIDs(doc))
}

func TestAddBlockGivesUpOnStuckGenerator(t *testing.T) {
	e := New(WithIDGenerator(func() string { return "blk_1" }))

	doc, _, err := e.AddBlock(emptyDoc(), freeCaps(), component.TypeSpacer, nil)
	require.NoError(t, err)
	_, _, err = e.AddBlock(doc, freeCaps(), component.TypeSpacer, nil)
	assert.Error(t, err)
}

func TestUpdateBlockMerges(t *testing.T) {
	e := newEngine()

	doc, b, err := e.AddBlock(emptyDoc(), freeCaps(), component.TypeText, map[string]any{"content": "hi", "alignment": "left"})
	require.NoError(t, err)

	updated, err := e.UpdateBlock(doc, freeCaps(), b.ID, map[string]any{"content": "bye"})
	require.NoError(t, err)

	got, ok := updated.Block(b.ID)
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, component.TypeText, got.Type)
	assert.Equal(t, component.TextData{Content: "bye", Alignment: "left"}, got.Data)

	orig, _ := doc.Block(b.ID)
	assert.Equal(t, "hi", orig.Data.(component.TextData).Content, "UpdateBlock modified its input")
}

func TestUpdateBlockKeepsPosition(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()
	var err error
	for _, typ := range []component.Type{component.TypeHero, component.TypeText, component.TypeCTA} {
		doc, _, err = e.AddBlock(doc, freeCaps(), typ, nil)
		require.NoError(t, err)
	}

	out, err := e.UpdateBlock(doc, freeCaps(), "blk_2", map[string]any{"content": "Opening hours"})
	require.NoError(t, err)
	assert.Equal(t, []string{"blk_1", "blk_2", "blk_3"}, blockIDs(out))
}

func TestUpdateBlockRejects(t *testing.T) {
	e := newEngine()
	doc, b, err := e.AddBlock(emptyDoc(), freeCaps(), component.TypeText, nil)
	require.NoError(t, err)
	doc.Blocks = append(doc.Blocks, model.Block{
		ID:   "blk_raw",
		Type: "carousel",
		Data: component.Raw{Tag: "carousel", Data: []byte(`{}`)},
	})

	tests := []struct {
		name    string
		blockID string
		partial map[string]any
		target  error
	}{
		{name: "missing block", blockID: "blk_nope", partial: map[string]any{"content": "x"}, target: model.ErrNotFound},
		{name: "bad enum", blockID: b.ID, partial: map[string]any{"alignment": "justify"}, target: component.ErrSchemaViolation},
		{name: "retag attempt", blockID: b.ID, partial: map[string]any{"type": "hero"}, target: component.ErrSchemaViolation},
		{name: "required key removed", blockID: b.ID, partial: map[string]any{"content": nil}, target: component.ErrSchemaViolation},
		{name: "raw block", blockID: "blk_raw", partial: map[string]any{"slides": 1}, target: component.ErrUnknownVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.UpdateBlock(doc, freeCaps(), tt.blockID, tt.partial)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, doc, out)
		})
	}
}

func TestUpdateBlockNilRemovesOptionalKey(t *testing.T) {
	e := newEngine()
	doc, b, err := e.AddBlock(emptyDoc(), freeCaps(), component.TypeHero, map[string]any{"secondaryButtonText": "Menu"})
	require.NoError(t, err)

	out, err := e.UpdateBlock(doc, freeCaps(), b.ID, map[string]any{"secondaryButtonText": nil})
	require.NoError(t, err)

	got, _ := out.Block(b.ID)
	assert.Empty(t, got.Data.(component.HeroData).SecondaryButtonText)
}

func TestDeleteBlock(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()
	var err error
	for i := 0; i < 3; i++ {
		doc, _, err = e.AddBlock(doc, freeCaps(), component.TypeSpacer, nil)
		require.NoError(t, err)
	}

	out, err := e.DeleteBlock(doc, "blk_2")
	require.NoError(t, err)
	assert.Equal(t, []string{"blk_1", "blk_3"}, blockIDs(out))
	assert.Equal(t, []string{"blk_1", "blk_2", "blk_3"}, blockIDs(doc), "DeleteBlock modified its input")

	_, err = e.DeleteBlock(out, "blk_2")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "block", nf.Kind)
}

func TestMoveBlock(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()
	var err error
	for i := 0; i < 3; i++ {
		doc, _, err = e.AddBlock(doc, freeCaps(), component.TypeSpacer, nil)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		blockID string
		dir     Direction
		want    []string
	}{
		{name: "middle up", blockID: "blk_2", dir: Up, want: []string{"blk_2", "blk_1", "blk_3"}},
		{name: "middle down", blockID: "blk_2", dir: Down, want: []string{"blk_1", "blk_3", "blk_2"}},
		{name: "first up is a no-op", blockID: "blk_1", dir: Up, want: []string{"blk_1", "blk_2", "blk_3"}},
		{name: "last down is a no-op", blockID: "blk_3", dir: Down, want: []string{"blk_1", "blk_2", "blk_3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.MoveBlock(doc, tt.blockID, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, blockIDs(out))
			assert.Equal(t, []string{"blk_1", "blk_2", "blk_3"}, blockIDs(doc))
		})
	}

	_, err = e.MoveBlock(doc, "blk_9", Up)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = e.MoveBlock(doc, "blk_1", "sideways")
	assert.ErrorIs(t, err, model.ErrValidationFailed)
}

func TestOperationSequencesKeepDenseUniqueBlocks(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()
	caps := proCaps()

	// Deterministic pseudo-random walk over add, delete and move.
	state := uint32(7)
	next := func(n int) int {
		state = state*1664525 + 1013904223
		return int(state>>16) % n
	}

	for step := 0; step < 300; step++ {
		var err error
		switch op := next(3); {
		case op == 0 || len(doc.Blocks) == 0:
			doc, _, err = e.AddBlock(doc, caps, component.TypeSpacer, nil)
		case op == 1:
			doc, err = e.DeleteBlock(doc, doc.Blocks[next(len(doc.Blocks))].ID)
		default:
			dir := Up
			if next(2) == 1 {
				dir = Down
			}
			doc, err = e.MoveBlock(doc, doc.Blocks[next(len(doc.Blocks))].ID, dir)
		}
		require.NoError(t, err, "step %d", step)

		seen := make(map[string]bool)
		for i, b := range doc.Blocks {
			require.NotEmpty(t, b.ID, "step %d: empty id at %d", step, i)
			require.False(t, seen[b.ID], "step %d: duplicate id %s", step, b.ID)
			seen[b.ID] = true
			require.Equal(t, i, doc.IndexOf(b.ID))
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() model.Page {
		e := newEngine()
		doc, hero, _ := e.AddBlock(emptyDoc(), freeCaps(), component.TypeHero, nil)
		doc, _, _ = e.AddBlock(doc, freeCaps(), component.TypeText, map[string]any{"content": "hi"})
		doc, _ = e.MoveBlock(doc, hero.ID, Down)
		doc, _ = e.UpdateBlock(doc, freeCaps(), hero.ID, map[string]any{"title": "Hello"})
		return doc
	}

	assert.Equal(t, run(), run())
}

func TestGalleryQuota(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()
	var err error
	for i := 0; i < 3; i++ {
		doc, _, err = e.AddBlock(doc, freeCaps(), component.TypeImage, map[string]any{"url": "/uploads/a.jpg"})
		require.NoError(t, err)
	}

	out, _, err := e.AddBlock(doc, freeCaps(), component.TypeImage, nil)
	var qe *model.QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, ResourceGalleryImages, qe.Resource)
	assert.Equal(t, 3, qe.Limit)
	assert.Equal(t, 3, GalleryAssets(&out))
	assert.Equal(t, 3, GalleryAssets(&doc))

	// Other blocks are unaffected by the image cap.
	_, _, err = e.AddBlock(doc, freeCaps(), component.TypeText, nil)
	assert.NoError(t, err)

	// The same page on a paid plan can grow.
	_, _, err = e.AddBlock(doc, proCaps(), component.TypeImage, nil)
	assert.NoError(t, err)
}

func TestQuotaFollowsCallerCapabilities(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()
	var err error
	for i := 0; i < 5; i++ {
		doc, _, err = e.AddBlock(doc, proCaps(), component.TypeImage, nil)
		require.NoError(t, err)
	}

	// The plan lapsed between calls.
	_, _, err = e.AddBlock(doc, freeCaps(), component.TypeImage, nil)
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
	assert.ErrorIs(t, e.ValidateDocument(doc, freeCaps()), model.ErrQuotaExceeded)
	assert.NoError(t, e.ValidateDocument(doc, proCaps()))
}

func TestCheckQuotaGrowth(t *testing.T) {
	e := newEngine()
	over := emptyDoc()
	var err error
	for i := 0; i < 4; i++ {
		over, _, err = e.AddBlock(over, proCaps(), component.TypeImage, nil)
		require.NoError(t, err)
	}

	// Unchanged or shrinking documents pass after a downgrade.
	assert.NoError(t, CheckQuotaGrowth(&over, &over, freeCaps()))
	fewer, err := e.DeleteBlock(over, over.Blocks[0].ID)
	require.NoError(t, err)
	assert.NoError(t, CheckQuotaGrowth(&over, &fewer, freeCaps()))

	more, _, err := e.AddBlock(over, proCaps(), component.TypeImage, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, CheckQuotaGrowth(&over, &more, freeCaps()), model.ErrQuotaExceeded)

	branded := emptyDoc()
	unbranded := branded.Clone()
	unbranded.Settings.RemoveBranding = true
	var qe *model.QuotaExceededError
	require.ErrorAs(t, CheckQuotaGrowth(&branded, &unbranded, freeCaps()), &qe)
	assert.Equal(t, ResourceRemoveBranding, qe.Resource)
	assert.NoError(t, CheckQuotaGrowth(&unbranded, &unbranded, freeCaps()))
}

func TestComposeAndPublish(t *testing.T) {
	e := newEngine()
	doc := emptyDoc()

	doc, hero, err := e.AddBlock(doc, freeCaps(), component.TypeHero, nil)
	require.NoError(t, err)
	doc, cta, err := e.AddBlock(doc, freeCaps(), component.TypeCTA, nil)
	require.NoError(t, err)

	doc, err = e.MoveBlock(doc, hero.ID, Down)
	require.NoError(t, err)
	assert.Equal(t, []string{cta.ID, hero.ID}, blockIDs(doc))

	doc, err = e.DeleteBlock(doc, cta.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{hero.ID}, blockIDs(doc))

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	doc, err = publishing.Publish(doc, now)
	require.NoError(t, err)
	assert.Equal(t, model.PageStatusPublished, doc.Status)
	require.NotNil(t, doc.PublishedAt)
	assert.True(t, doc.PublishedAt.Equal(now))
}
