// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/ids"
	"github.com/olegiv/landkit/internal/model"
)

// Demo account created by Seed.
const (
	DemoEmail = "demo@landkit.local"
	DemoName  = "Demo Owner"
	DemoSlug  = "bloom-cafe"
)

// Seed creates a demo user with one draft page. It does nothing when the
// demo user already exists. The API key of a new demo user is logged once.
func Seed(ctx context.Context, db *sql.DB) error {
	users := NewUserStore(db)

	_, err := users.GetByEmail(ctx, DemoEmail)
	if err == nil {
		slog.Info("demo user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("checking for demo user: %w", err)
	}

	user, key, err := users.Create(ctx, CreateUserParams{Email: DemoEmail, Name: DemoName, Plan: model.PlanFree})
	if err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}

	page := model.NewPage(ids.NewPage(), user.ID, "Bloom Cafe", DemoSlug)
	page.Description = "Fresh coffee and homemade cakes in the heart of town."
	for _, t := range []component.Type{component.TypeHero, component.TypeFeatures, component.TypeTestimonials, component.TypeCTA, component.TypeContact} {
		def, err := component.Default().Describe(t)
		if err != nil {
			return fmt.Errorf("seeding %s block: %w", t, err)
		}
		page.Blocks = append(page.Blocks, model.Block{ID: ids.NewBlock(), Type: t, Data: def.Defaults})
	}

	if _, err := NewPageStore(db).Save(ctx, user.ID, page); err != nil {
		return fmt.Errorf("creating demo page: %w", err)
	}

	slog.Info("created demo user",
		"id", user.ID,
		"email", user.Email,
		"api_key", key,
		"page", page.ID,
	)
	return nil
}
