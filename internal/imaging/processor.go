// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images before they are stored: EXIF
// orientation is applied, oversized images are downscaled and the result is
// re-encoded without metadata.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Supported formats.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
)

// Defaults used by NewProcessor.
const (
	DefaultMaxWidth = 2048
	DefaultQuality  = 85
)

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a processed image ready to be written out.
type Result struct {
	Data      []byte
	Format    string // output format, webp input is re-encoded as jpeg
	Extension string
	MimeType  string
	Width     int
	Height    int
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	maxWidth int
	quality  int
}

// NewProcessor creates a processor that downsizes anything wider than
// maxWidth. Non-positive arguments select the defaults.
func NewProcessor(maxWidth, quality int) *Processor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{maxWidth: maxWidth, quality: quality}
}

// MaxWidth returns the width limit of the processor.
func (p *Processor) MaxWidth() int {
	return p.maxWidth
}

// Process decodes the image in r, applies its EXIF orientation, fits it
// within the width limit and re-encodes it.
func (p *Processor) Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	// Pure Go has no WebP encoder.
	if format == FormatWebP {
		format = FormatJPEG
	}

	out, err := encodeImage(img, format, p.quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Data:      out,
		Format:    format,
		Extension: extensionFor(format),
		MimeType:  MimeType(format),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetectFormat detects the image format from raw bytes. It returns "" for
// anything unsupported.
func DetectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return FormatJPEG
	case strings.Contains(contentType, "png"):
		return FormatPNG
	case strings.Contains(contentType, "gif"):
		return FormatGIF
	case strings.Contains(contentType, "webp"):
		return FormatWebP
	default:
		return ""
	}
}

func extensionFor(format string) string {
	if format == FormatJPEG {
		return ".jpg"
	}
	return "." + format
}

// MimeType converts a format name to its MIME type.
func MimeType(format string) string {
	switch format {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatGIF:
		return "image/gif"
	case FormatWebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
