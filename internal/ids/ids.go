// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ids generates the prefixed, K-sortable identifiers used for
// pages, blocks and users ("blk_01h455vb4pex5vsknk084sn02q").
package ids

import (
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in an id.
type Prefix string

// Entity prefixes.
const (
	PrefixPage  Prefix = "page"
	PrefixBlock Prefix = "blk"
	PrefixUser  Prefix = "user"
)

// New generates a fresh id with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) string {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("ids: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// NewPage generates a page id.
func NewPage() string { return New(PrefixPage) }

// NewBlock generates a block id.
func NewBlock() string { return New(PrefixBlock) }

// NewUser generates a user id.
func NewUser() string { return New(PrefixUser) }

// Valid reports whether s parses as an id carrying the expected prefix.
func Valid(s string, expected Prefix) bool {
	if !strings.HasPrefix(s, string(expected)+"_") {
		return false
	}
	_, err := typeid.Parse(s)
	return err == nil
}
