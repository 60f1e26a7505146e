// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/landkit/internal/model"
)

type recordedEvent struct {
	level    string
	category string
	message  string
	metadata map[string]any
}

type fakeWriter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (w *fakeWriter) RecordEvent(_ context.Context, level, category, message string, metadata map[string]any, _ time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, recordedEvent{level, category, message, metadata})
	return nil
}

func newTestLogger(w EventWriter) *slog.Logger {
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewEventLogHandler(inner, w))
}

func TestEventLogHandlerForwardsWarnAndAbove(t *testing.T) {
	w := &fakeWriter{}
	logger := newTestLogger(w)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("quota exceeded", "page", "page_1", "category", model.EventCategoryPage)
	logger.Error("saving page failed", "error", "disk full")

	if len(w.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(w.events))
	}

	warn := w.events[0]
	if warn.level != model.EventLevelWarning || warn.category != model.EventCategoryPage || warn.message != "quota exceeded" {
		t.Errorf("warn event = %+v", warn)
	}
	if warn.metadata["page"] != "page_1" {
		t.Errorf("metadata = %v", warn.metadata)
	}
	if _, ok := warn.metadata["category"]; ok {
		t.Error("category leaked into metadata")
	}

	errEvent := w.events[1]
	if errEvent.level != model.EventLevelError || errEvent.category != model.EventCategorySystem {
		t.Errorf("error event = %+v", errEvent)
	}
}

func TestEventLogHandlerKeepsAttrsAndGroups(t *testing.T) {
	w := &fakeWriter{}
	logger := newTestLogger(w).With("category", model.EventCategoryCache).WithGroup("redis").With("addr", "localhost")

	logger.Warn("redis down", "attempt", 2)

	if len(w.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(w.events))
	}
	e := w.events[0]
	if e.category != model.EventCategoryCache {
		t.Errorf("category = %q", e.category)
	}
	if e.metadata["redis.addr"] != "localhost" || e.metadata["redis.attempt"] != "2" {
		t.Errorf("metadata = %v", e.metadata)
	}
}

func TestEventLogHandlerCustomLevel(t *testing.T) {
	w := &fakeWriter{}
	h := NewEventLogHandlerWithLevel(slog.NewTextHandler(io.Discard, nil), w, slog.LevelError)
	logger := slog.New(h)

	logger.Warn("not forwarded")
	logger.Error("forwarded")

	if len(w.events) != 1 || w.events[0].message != "forwarded" {
		t.Errorf("events = %+v", w.events)
	}
}

func TestEventLogHandlerWithoutWriter(t *testing.T) {
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(io.Discard, nil), nil))
	logger.Error("must not panic")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "info", "production")).Info("hello", "k", "v")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("production output is not JSON: %v (%s)", err, buf.String())
	}
	if decoded["msg"] != "hello" {
		t.Errorf("decoded = %v", decoded)
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "info", "development")).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("development output = %q", buf.String())
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "warn", "development")).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}
