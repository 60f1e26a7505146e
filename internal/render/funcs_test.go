// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import "testing"

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		platform string
		url      string
		want     string
	}{
		{"youtube", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"youtube", "https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"youtube", "https://www.youtube.com/watch", ""},
		{"vimeo", "https://vimeo.com/76979871", "https://player.vimeo.com/video/76979871"},
		{"vimeo", "https://player.vimeo.com/video/76979871", "https://player.vimeo.com/video/76979871"},
		{"vimeo", "https://vimeo.com/channels/staff", ""},
		{"custom", "https://cdn.example.com/intro.mp4", "https://cdn.example.com/intro.mp4"},
		{"custom", "javascript:alert(1)", ""},
		{"youtube", "", ""},
		{"dailymotion", "https://dailymotion.com/video/x7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.platform+" "+tt.url, func(t *testing.T) {
			if got := EmbedURL(tt.platform, tt.url); got != tt.want {
				t.Errorf("EmbedURL(%q, %q) = %q, want %q", tt.platform, tt.url, got, tt.want)
			}
		})
	}
}
