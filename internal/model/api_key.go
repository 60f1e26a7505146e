// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// APIKeyPrefix marks landkit API keys.
const APIKeyPrefix = "lk_"

// GenerateAPIKey generates a new random API key. The raw key is shown to the
// user once; only its hash is stored.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// HashAPIKey creates a SHA-256 hash of the API key for storage.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// LooksLikeAPIKey reports whether key has the landkit prefix and a body.
func LooksLikeAPIKey(key string) bool {
	return strings.HasPrefix(key, APIKeyPrefix) && len(key) > len(APIKeyPrefix)
}
