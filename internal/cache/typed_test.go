// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestTypedCacheRoundTrip(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = mem.Close() }()
	c := NewTypedCache[item](mem, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", item{Name: "a", Count: 2}))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, item{Name: "a", Count: 2}, got)

	require.NoError(t, mem.Set(ctx, "bad", []byte("{"), 0))
	_, ok = c.Get(ctx, "bad")
	assert.False(t, ok, "undecodable entry reported as hit")
}

func TestTypedCacheGetOrLoad(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = mem.Close() }()
	c := NewTypedCache[item](mem, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (item, error) {
		calls++
		return item{Name: "loaded"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrLoad(ctx, "k", load)
		require.NoError(t, err)
		assert.Equal(t, "loaded", got.Name)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err := c.GetOrLoad(ctx, "other", func(context.Context) (item, error) { return item{}, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get(ctx, "other")
	assert.False(t, ok, "failed load was cached")
}

func TestPublishedPages(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = mem.Close() }()
	pp := NewPublishedPages(mem, time.Minute)
	ctx := context.Background()

	page := model.NewPage("page_1", "user_1", "Cafe", "cafe")
	page.Blocks = []model.Block{{ID: "b", Type: component.TypeSpacer, Data: component.SpacerData{Height: "small"}}}

	loads := 0
	load := func(context.Context) (model.Page, error) {
		loads++
		return page, nil
	}

	got, err := pp.GetOrLoad(ctx, "cafe", load)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", got.Title)

	cached, ok := pp.Get(ctx, "cafe")
	require.True(t, ok)
	require.Len(t, cached.Blocks, 1)
	assert.Equal(t, component.SpacerData{Height: "small"}, cached.Blocks[0].Data)

	require.NoError(t, pp.Invalidate(ctx, "cafe", ""))
	_, ok = pp.Get(ctx, "cafe")
	assert.False(t, ok)

	_, err = pp.GetOrLoad(ctx, "cafe", load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}
