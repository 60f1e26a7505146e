// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package assets stores uploaded images on disk and hands back the public
// URL that blocks reference. Pages never embed image bytes.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/landkit/internal/imaging"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/util"
)

// URLPrefix is the path under which uploads are served.
const URLPrefix = "/uploads/"

// DefaultMaxUploadSize is used when Options.MaxBytes is not set.
const DefaultMaxUploadSize = 10 << 20

// Options configures a Store.
type Options struct {
	Dir      string // root directory for uploads
	BaseURL  string // public origin, may be empty for relative URLs
	MaxBytes int64
	MaxWidth int
}

// Store writes processed images below its root directory.
type Store struct {
	dir       string
	baseURL   string
	maxBytes  int64
	processor *imaging.Processor
	logger    *slog.Logger
}

// NewStore creates the upload directory if needed.
func NewStore(opts Options, logger *slog.Logger) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("assets: upload directory is required")
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("assets: creating upload directory: %w", err)
	}
	return &Store{
		dir:       opts.Dir,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		maxBytes:  opts.MaxBytes,
		processor: imaging.NewProcessor(opts.MaxWidth, 0),
		logger:    logger,
	}, nil
}

// Dir returns the upload root, for serving.
func (s *Store) Dir() string {
	return s.dir
}

// MaxBytes returns the upload size limit.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save processes the image read from r and stores it under the owner's
// directory with a random name. The original filename is only used for
// logging. It returns the public URL of the stored file.
func (s *Store) Save(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	owner, err := util.SanitizeFilename(ownerID)
	if err != nil || owner != ownerID {
		return "", &model.ValidationError{Field: "owner", Reason: "is not a valid directory name"}
	}

	// Read one byte past the limit to tell "exactly at" from "over".
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("assets: reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", &model.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("exceeds the %d byte upload limit", s.maxBytes),
		}
	}

	res, err := s.processor.Process(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return "", &model.ValidationError{Field: "file", Reason: "must be a JPEG, PNG, GIF or WebP image"}
		}
		return "", &model.ValidationError{Field: "file", Reason: "could not be decoded as an image"}
	}

	name := uuid.New().String() + res.Extension
	target, err := util.SafeJoinPath(s.dir, owner, name)
	if err != nil {
		return "", err
	}
	ownerDir := filepath.Dir(target)

	if err := os.MkdirAll(ownerDir, 0755); err != nil {
		return "", fmt.Errorf("assets: creating owner directory: %w", err)
	}
	if err := os.WriteFile(target, res.Data, 0644); err != nil {
		return "", fmt.Errorf("assets: writing file: %w", err)
	}

	s.logger.Info("asset stored",
		"owner", ownerID,
		"original", filename,
		"file", name,
		"width", res.Width,
		"height", res.Height,
		"bytes", len(res.Data),
	)

	return s.urlFor(owner, name), nil
}

func (s *Store) urlFor(owner, name string) string {
	p := path.Join(URLPrefix, url.PathEscape(owner), name)
	return s.baseURL + p
}
