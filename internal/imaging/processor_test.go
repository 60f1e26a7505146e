// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, createTestImage(4, 4), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "png", data: encodePNG(t, createTestImage(4, 4)), want: FormatPNG},
		{name: "jpeg", data: jpg.Bytes(), want: FormatJPEG},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00"), want: FormatGIF},
		{name: "webp", data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), want: FormatWebP},
		{name: "tiff", data: []byte("II*\x00\x08\x00\x00\x00"), want: ""},
		{name: "text", data: []byte("hello"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessKeepsSmallImages(t *testing.T) {
	p := NewProcessor(100, 0)

	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(40, 20))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 40 || res.Height != 20 {
		t.Errorf("size = %dx%d, want 40x20", res.Width, res.Height)
	}
	if res.Format != FormatPNG || res.Extension != ".png" || res.MimeType != "image/png" {
		t.Errorf("result = %+v", res)
	}
}

func TestProcessDownsizesWideImages(t *testing.T) {
	p := NewProcessor(50, 0)

	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(200, 100))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 50 || res.Height != 25 {
		t.Errorf("size = %dx%d, want 50x25", res.Width, res.Height)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if cfg.Width != 50 {
		t.Errorf("encoded width = %d", cfg.Width)
	}
}

func TestProcessRejectsNonImages(t *testing.T) {
	p := NewProcessor(0, 0)

	_, err := p.Process(bytes.NewReader([]byte("definitely not an image")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Process() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestNewProcessorDefaults(t *testing.T) {
	p := NewProcessor(-1, 500)
	if p.MaxWidth() != DefaultMaxWidth || p.quality != DefaultQuality {
		t.Errorf("defaults not applied: %+v", p)
	}
}
