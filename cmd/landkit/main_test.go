// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/landkit/internal/config"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/store"
	"github.com/olegiv/landkit/internal/testutil"
)

func TestCreateUserCommand(t *testing.T) {
	db := testutil.TestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	var out bytes.Buffer
	err := createUserCommand(ctx, &out, users, cliOptions{createUser: "Owner@Example.com", name: "Owner", plan: "pro"})
	if err != nil {
		t.Fatalf("createUserCommand() error = %v", err)
	}

	var key string
	for _, line := range strings.Split(out.String(), "\n") {
		if rest, ok := strings.CutPrefix(line, "API key: "); ok {
			key = rest
		}
	}
	if !model.LooksLikeAPIKey(key) {
		t.Fatalf("output does not carry an API key:\n%s", out.String())
	}

	u, err := users.GetByAPIKey(ctx, key)
	if err != nil {
		t.Fatalf("GetByAPIKey() error = %v", err)
	}
	if u.Email != "owner@example.com" || u.Plan != model.PlanPro {
		t.Errorf("created user = %+v", u)
	}
}

func TestCreateUserCommandRejectsUnknownPlan(t *testing.T) {
	db := testutil.TestDB(t)

	var out bytes.Buffer
	err := createUserCommand(context.Background(), &out, store.NewUserStore(db), cliOptions{createUser: "a@example.com", plan: "enterprise"})
	if err == nil {
		t.Fatal("createUserCommand() accepted an unknown plan")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func apiKeyFrom(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "API key: "); ok {
			return rest
		}
	}
	t.Fatalf("output does not carry an API key:\n%s", out)
	return ""
}

func TestSetPlanCommand(t *testing.T) {
	db := testutil.TestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "owner@example.com", model.PlanFree)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	var out bytes.Buffer
	err := setPlanCommand(ctx, &out, users, cliOptions{setPlan: "owner@example.com", plan: "pro", planExpires: "720h"}, clock)
	if err != nil {
		t.Fatalf("setPlanCommand() error = %v", err)
	}
	u, err := users.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.Plan != model.PlanPro {
		t.Errorf("plan = %q, want pro", u.Plan)
	}
	if u.PlanExpiresAt == nil || !u.PlanExpiresAt.Equal(now.Add(720*time.Hour)) {
		t.Errorf("PlanExpiresAt = %v, want %v", u.PlanExpiresAt, now.Add(720*time.Hour))
	}
	if !strings.Contains(out.String(), "until 2026-03-31T12:00:00Z") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := setPlanCommand(ctx, &out, users, cliOptions{setPlan: "owner@example.com", plan: "free"}, clock); err != nil {
		t.Fatalf("setPlanCommand() error = %v", err)
	}
	u, _ = users.GetByEmail(ctx, "owner@example.com")
	if u.Plan != model.PlanFree || u.PlanExpiresAt != nil {
		t.Errorf("user after downgrade = %+v", u)
	}
}

func TestSetPlanCommandRejects(t *testing.T) {
	db := testutil.TestDB(t)
	users := store.NewUserStore(db)
	testutil.CreateUser(t, db, "owner@example.com", model.PlanFree)

	tests := []struct {
		name string
		opts cliOptions
	}{
		{name: "unknown plan", opts: cliOptions{setPlan: "owner@example.com", plan: "gold"}},
		{name: "bad expiry", opts: cliOptions{setPlan: "owner@example.com", plan: "pro", planExpires: "tomorrow"}},
		{name: "negative expiry", opts: cliOptions{setPlan: "owner@example.com", plan: "pro", planExpires: "-1h"}},
		{name: "unknown user", opts: cliOptions{setPlan: "nobody@example.com", plan: "pro"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := setPlanCommand(context.Background(), &out, users, tt.opts, time.Now); err == nil {
				t.Error("setPlanCommand() error = nil")
			}
		})
	}
}

func TestRotateKeyCommand(t *testing.T) {
	db := testutil.TestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()
	_, oldKey := testutil.CreateUser(t, db, "owner@example.com", model.PlanFree)

	var out bytes.Buffer
	if err := rotateKeyCommand(ctx, &out, users, "owner@example.com"); err != nil {
		t.Fatalf("rotateKeyCommand() error = %v", err)
	}
	newKey := apiKeyFrom(t, out.String())

	if _, err := users.GetByAPIKey(ctx, oldKey); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("old key still resolves: %v", err)
	}
	if _, err := users.GetByAPIKey(ctx, newKey); err != nil {
		t.Errorf("new key does not resolve: %v", err)
	}
}

func TestDeleteUserCommand(t *testing.T) {
	db := testutil.TestDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "owner@example.com", model.PlanFree)

	var out bytes.Buffer
	if err := deleteUserCommand(ctx, &out, users, "owner@example.com"); err != nil {
		t.Fatalf("deleteUserCommand() error = %v", err)
	}
	if _, err := users.GetByEmail(ctx, "owner@example.com"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetByEmail() after delete error = %v", err)
	}
	if err := deleteUserCommand(ctx, &out, users, "owner@example.com"); err == nil {
		t.Error("deleting a missing user succeeded")
	}
}

func TestEventCommands(t *testing.T) {
	db := testutil.TestDB(t)
	events := store.NewEventStore(db)
	ctx := context.Background()

	var out bytes.Buffer
	if err := listEventsCommand(ctx, &out, events, 10); err != nil {
		t.Fatalf("listEventsCommand() error = %v", err)
	}
	if !strings.Contains(out.String(), "No events") {
		t.Errorf("empty log output = %q", out.String())
	}

	now := time.Now()
	if err := events.RecordEvent(ctx, model.EventLevelWarning, model.EventCategoryPage, "stale warning", nil, now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("RecordEvent() error = %v", err)
	}
	if err := events.RecordEvent(ctx, model.EventLevelError, model.EventCategorySystem, "fresh error", nil, now); err != nil {
		t.Fatalf("RecordEvent() error = %v", err)
	}

	cfg := &config.Config{EventPruneSchedule: "@daily", EventRetention: 24 * time.Hour}
	sched, err := newScheduler(cfg, events, testutil.TestLoggerSilent())
	if err != nil {
		t.Fatalf("newScheduler() error = %v", err)
	}
	out.Reset()
	if err := pruneEventsCommand(&out, sched); err != nil {
		t.Fatalf("pruneEventsCommand() error = %v", err)
	}

	out.Reset()
	if err := listEventsCommand(ctx, &out, events, 10); err != nil {
		t.Fatalf("listEventsCommand() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "fresh error") || strings.Contains(got, "stale warning") {
		t.Errorf("events after pruning:\n%s", got)
	}
	if !strings.HasPrefix(got, "TIME") {
		t.Errorf("missing table header:\n%s", got)
	}
}
