// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// JobPruneEvents is the name of the event log retention job.
const JobPruneEvents = "prune_events"

// EventPruner deletes event log entries older than a cutoff.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneEvents returns a job deleting events older than retention.
func PruneEvents(events EventPruner, retention time.Duration, now func() time.Time, logger *slog.Logger) JobFunc {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		cutoff := now().Add(-retention)
		n, err := events.DeleteEventsBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("pruned event log", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
		}
		return nil
	}
}
