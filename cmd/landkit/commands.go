// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/olegiv/landkit/internal/config"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/scheduler"
	"github.com/olegiv/landkit/internal/store"
)

// cliOptions carries the one-shot commands selected on the command line.
type cliOptions struct {
	createUser  string
	setPlan     string
	rotateKey   string
	deleteUser  string
	name        string
	plan        string
	planExpires string
	listEvents  int
	pruneEvents bool
}

// isCommand reports whether opts select a one-shot command instead of the
// server.
func (o cliOptions) isCommand() bool {
	return o.createUser != "" || o.setPlan != "" || o.rotateKey != "" ||
		o.deleteUser != "" || o.listEvents > 0 || o.pruneEvents
}

// userAdmin is the part of store.UserStore the user commands need.
type userAdmin interface {
	Create(ctx context.Context, arg store.CreateUserParams) (model.User, string, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	UpdatePlan(ctx context.Context, id string, plan model.PlanTier, expiresAt *time.Time) (model.User, error)
	RotateAPIKey(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// eventLister is the part of store.EventStore used by -events.
type eventLister interface {
	ListEvents(ctx context.Context, limit int) ([]model.Event, error)
}

// commandEnv is what the one-shot commands run against.
type commandEnv struct {
	out    io.Writer
	users  userAdmin
	events *store.EventStore
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

func runCommand(ctx context.Context, env commandEnv, opts cliOptions) error {
	switch {
	case opts.createUser != "":
		return createUserCommand(ctx, env.out, env.users, opts)
	case opts.setPlan != "":
		return setPlanCommand(ctx, env.out, env.users, opts, env.now)
	case opts.rotateKey != "":
		return rotateKeyCommand(ctx, env.out, env.users, opts.rotateKey)
	case opts.deleteUser != "":
		return deleteUserCommand(ctx, env.out, env.users, opts.deleteUser)
	case opts.listEvents > 0:
		return listEventsCommand(ctx, env.out, env.events, opts.listEvents)
	case opts.pruneEvents:
		sched, err := newScheduler(env.cfg, env.events, env.logger)
		if err != nil {
			return err
		}
		return pruneEventsCommand(env.out, sched)
	}
	return nil
}

// createUserCommand registers a user and prints its API key. The key is not
// stored and is shown only here.
func createUserCommand(ctx context.Context, out io.Writer, users userAdmin, opts cliOptions) error {
	tier, err := parsePlan(opts.plan)
	if err != nil {
		return err
	}

	user, key, err := users.Create(ctx, store.CreateUserParams{
		Email: opts.createUser,
		Name:  opts.name,
		Plan:  tier,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Created user %s (%s, plan %s)\n", user.Email, user.ID, user.Plan)
	printKey(out, key)
	return nil
}

// setPlanCommand moves a user to another plan. -plan-expires takes an
// RFC 3339 time or a duration from now; empty means the plan never lapses.
func setPlanCommand(ctx context.Context, out io.Writer, users userAdmin, opts cliOptions, now func() time.Time) error {
	tier, err := parsePlan(opts.plan)
	if err != nil {
		return err
	}
	expires, err := parseExpiry(opts.planExpires, now())
	if err != nil {
		return err
	}

	user, err := users.GetByEmail(ctx, opts.setPlan)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	user, err = users.UpdatePlan(ctx, user.ID, tier, expires)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}

	if user.PlanExpiresAt != nil {
		_, _ = fmt.Fprintf(out, "User %s is now on plan %s until %s\n", user.Email, user.Plan, user.PlanExpiresAt.UTC().Format(time.RFC3339))
	} else {
		_, _ = fmt.Fprintf(out, "User %s is now on plan %s\n", user.Email, user.Plan)
	}
	return nil
}

func rotateKeyCommand(ctx context.Context, out io.Writer, users userAdmin, email string) error {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	key, err := users.RotateAPIKey(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("rotating api key: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Rotated API key of %s; the old key no longer works\n", user.Email)
	printKey(out, key)
	return nil
}

func deleteUserCommand(ctx context.Context, out io.Writer, users userAdmin, email string) error {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if err := users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Deleted user %s and their pages\n", user.Email)
	return nil
}

// listEventsCommand prints the newest event log entries as a table.
func listEventsCommand(ctx context.Context, out io.Writer, events eventLister, limit int) error {
	list, err := events.ListEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintln(out, "No events")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tLEVEL\tCATEGORY\tMESSAGE\tMETADATA")
	for _, e := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.Level, e.Category, e.Message, e.Metadata)
	}
	return tw.Flush()
}

// jobRunner is the part of scheduler.Scheduler used by -prune-events.
type jobRunner interface {
	RunNow(name string) error
}

func pruneEventsCommand(out io.Writer, jobs jobRunner) error {
	if err := jobs.RunNow(scheduler.JobPruneEvents); err != nil {
		return fmt.Errorf("pruning events: %w", err)
	}
	_, _ = fmt.Fprintln(out, "Event log pruned")
	return nil
}

// newScheduler registers the background jobs without starting them.
func newScheduler(cfg *config.Config, events scheduler.EventPruner, logger *slog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.JobPruneEvents, cfg.EventPruneSchedule,
		scheduler.PruneEvents(events, cfg.EventRetention, time.Now, logger)); err != nil {
		return nil, fmt.Errorf("scheduling event pruning: %w", err)
	}
	return sched, nil
}

func parsePlan(s string) (model.PlanTier, error) {
	tier := model.PlanTier(s)
	if !tier.Valid() {
		return "", fmt.Errorf("unknown plan %q: want %s or %s", s, model.PlanFree, model.PlanPro)
	}
	return tier, nil
}

func parseExpiry(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("invalid plan expiry %q: want an RFC 3339 time or a positive duration", s)
	}
	t := now.Add(d)
	return &t, nil
}

func printKey(out io.Writer, key string) {
	_, _ = fmt.Fprintf(out, "API key: %s\n", key)
	_, _ = fmt.Fprintf(out, "Store it now; it cannot be shown again.\n")
}
