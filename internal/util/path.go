// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a joined path resolves outside its root.
var ErrPathEscapes = errors.New("path escapes root directory")

// SanitizeFilename reduces name to its final element so user supplied owner
// ids and upload names can never address a parent directory.
func SanitizeFilename(name string) (string, error) {
	base := filepath.Base(name)
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("invalid filename: %q", name)
	}
	return base, nil
}

// WithinDir reports whether target resolves to root or somewhere below it.
func WithinDir(root, target string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, fmt.Errorf("resolving root: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, fmt.Errorf("resolving target: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return false, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}

// SafeJoinPath joins elems onto root and fails with ErrPathEscapes when the
// result lands outside root.
func SafeJoinPath(root string, elems ...string) (string, error) {
	joined := filepath.Join(append([]string{root}, elems...)...)
	ok, err := WithinDir(root, joined)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrPathEscapes
	}
	return joined, nil
}
