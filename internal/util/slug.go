// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation and validation for public page
// addresses.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds the length of a public page address.
const MaxSlugLength = 80

var (
	// separators matches runs of whitespace, underscores and hyphens
	separators = regexp.MustCompile(`[\s_-]+`)
	// disallowed matches everything outside the slug alphabet
	disallowed = regexp.MustCompile(`[^a-z0-9-]+`)
)

// Slugify derives a URL-safe slug from a page title. Accents are stripped,
// other scripts are transliterated to ASCII, separators collapse to single
// hyphens and the result is cut at MaxSlugLength on a word boundary.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(unidecode.Unidecode(result))
	result = separators.ReplaceAllString(strings.TrimSpace(result), "-")
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxSlugLength {
		result = result[:MaxSlugLength]
		if i := strings.LastIndexByte(result, '-'); i > 0 {
			result = result[:i]
		}
		result = strings.Trim(result, "-")
	}

	return result
}

// IsValidSlug checks that s uses only lowercase letters, digits and single
// inner hyphens, and fits MaxSlugLength.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
