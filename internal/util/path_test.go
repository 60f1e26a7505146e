// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "hero.png", want: "hero.png"},
		{name: "spaces", input: "team photo.jpg", want: "team photo.jpg"},
		{name: "traversal", input: "../../../etc/passwd", want: "passwd"},
		{name: "nested", input: "owner/gallery/a.webp", want: "a.webp"},
		{name: "absolute", input: "/var/lib/landkit/x.gif", want: "x.gif"},
		{name: "uuid owner", input: "0b6f1c9e-3c55-4d8e-9d0f-5e2a7b1c4d3f", want: "0b6f1c9e-3c55-4d8e-9d0f-5e2a7b1c4d3f"},
		{name: "dot", input: ".", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "separator", input: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithinDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{name: "root itself", target: root, want: true},
		{name: "owner dir", target: filepath.Join(root, "owner"), want: true},
		{name: "file", target: filepath.Join(root, "owner", "a.png"), want: true},
		{name: "dotted name", target: filepath.Join(root, "..a.png"), want: true},
		{name: "parent", target: filepath.Join(root, ".."), want: false},
		{name: "sibling", target: filepath.Join(root, "..", "data"), want: false},
		{name: "prefix lookalike", target: root + "-evil", want: false},
		{name: "absolute elsewhere", target: "/etc/passwd", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithinDir(root, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	root := t.TempDir()

	got, err := SafeJoinPath(root, "owner", "a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "owner", "a.png"), got)

	// Join treats a leading separator in a later element as relative.
	got, err = SafeJoinPath(root, "/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), got)

	_, err = SafeJoinPath(root, "..", "secret")
	assert.ErrorIs(t, err, ErrPathEscapes)

	_, err = SafeJoinPath(root, "owner", "..", "..", "etc")
	assert.ErrorIs(t, err, ErrPathEscapes)
}
