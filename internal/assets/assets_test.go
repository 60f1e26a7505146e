// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landkit/internal/model"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	s, err := NewStore(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	s := newStore(t, Options{BaseURL: "https://example.com/"})

	u, err := s.Save(context.Background(), "user_1", "logo.png", bytes.NewReader(pngBytes(t, 20, 10)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "https://example.com/uploads/user_1/"), u)
	assert.True(t, strings.HasSuffix(u, ".png"), u)

	name := filepath.Base(u)
	info, err := os.Stat(filepath.Join(s.Dir(), "user_1", name))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSaveRelativeURLWithoutBase(t *testing.T) {
	s := newStore(t, Options{})

	u, err := s.Save(context.Background(), "user_1", "a.png", bytes.NewReader(pngBytes(t, 2, 2)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, URLPrefix+"user_1/"), u)
}

func TestSaveDownsizes(t *testing.T) {
	s := newStore(t, Options{MaxWidth: 16})

	u, err := s.Save(context.Background(), "user_1", "wide.png", bytes.NewReader(pngBytes(t, 64, 32)))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(s.Dir(), "user_1", filepath.Base(u)))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestSaveRejects(t *testing.T) {
	tests := []struct {
		name  string
		owner string
		data  func(t *testing.T) []byte
		field string
	}{
		{
			name:  "not an image",
			owner: "user_1",
			data:  func(*testing.T) []byte { return []byte("plain text body") },
			field: "file",
		},
		{
			name:  "too large",
			owner: "user_1",
			data:  func(*testing.T) []byte { return bytes.Repeat([]byte{0xff}, 300) },
			field: "file",
		},
		{
			name:  "owner with path",
			owner: "../evil",
			data:  func(t *testing.T) []byte { return pngBytes(t, 2, 2) },
			field: "owner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, Options{MaxBytes: 256})

			_, err := s.Save(context.Background(), tt.owner, "x.png", bytes.NewReader(tt.data(t)))
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	s := newStore(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "user_1", "a.png", bytes.NewReader(pngBytes(t, 2, 2)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStoreRequiresDir(t *testing.T) {
	_, err := NewStore(Options{}, nil)
	assert.Error(t, err)
}
