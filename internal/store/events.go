// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/olegiv/landkit/internal/model"
)

// EventStore is the persisted audit log.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// RecordEvent appends an entry. metadata is stored as a JSON object.
func (s *EventStore) RecordEvent(ctx context.Context, level, category, message string, metadata map[string]any, at time.Time) error {
	meta := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			meta = string(b)
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_log (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		level, category, message, meta, at.UTC())
	if err != nil {
		return unavailable("recording event", err)
	}
	return nil
}

// ListEvents returns the newest events first, at most limit of them.
func (s *EventStore) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at FROM event_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, unavailable("listing events", err)
	}
	defer func() { _ = rows.Close() }()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, unavailable("listing events", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("listing events", err)
	}
	return events, nil
}

// DeleteEventsBefore prunes entries older than cutoff and returns how many
// were removed.
func (s *EventStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, unavailable("pruning events", err)
	}
	return res.RowsAffected()
}
