// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/olegiv/landkit/internal/component"
)

// templateFuncs returns the functions available to block templates.
func (d *Dispatcher) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": d.renderMarkdown,
		"embedURL": EmbedURL,
		"stars": func(n int) string {
			n = clamp(n, 0, 5)
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"widthClass": func(w string) string {
			switch w {
			case component.WidthSmall, component.WidthMedium, component.WidthLarge, component.WidthFull:
				return "lk-w-" + w
			}
			return "lk-w-" + component.WidthLarge
		},
		"spacerHeight": func(h string) int {
			switch h {
			case component.HeightSmall:
				return 24
			case component.HeightLarge:
				return 96
			}
			return 48
		},
		"fontOr": func(f string) string {
			if f == "" {
				return "system-ui"
			}
			return f
		},
	}
}

// renderMarkdown converts text block content to sanitized HTML.
func (d *Dispatcher) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := d.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped
	}
	return template.HTML(d.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

var (
	youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)
	vimeoID   = regexp.MustCompile(`^[0-9]{3,12}$`)
)

// EmbedURL returns the player URL for a video on the given platform, or an
// empty string when the URL is not recognised. Custom videos are returned
// as-is when they use http or https.
func EmbedURL(platform, raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.Trim(u.Path, "/")

	switch platform {
	case component.PlatformYouTube:
		var id string
		switch host {
		case "youtu.be":
			id = path
		case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
			switch {
			case path == "watch":
				id = u.Query().Get("v")
			case strings.HasPrefix(path, "embed/"):
				id = strings.TrimPrefix(path, "embed/")
			case strings.HasPrefix(path, "shorts/"):
				id = strings.TrimPrefix(path, "shorts/")
			}
		}
		if !youtubeID.MatchString(id) {
			return ""
		}
		return "https://www.youtube.com/embed/" + id

	case component.PlatformVimeo:
		var id string
		switch host {
		case "vimeo.com":
			id = path
		case "player.vimeo.com":
			id = strings.TrimPrefix(path, "video/")
		}
		if !vimeoID.MatchString(id) {
			return ""
		}
		return "https://player.vimeo.com/video/" + id

	case component.PlatformCustom:
		return u.String()
	}
	return ""
}
