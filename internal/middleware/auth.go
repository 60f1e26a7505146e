// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/landkit/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys
const (
	ContextKeyUser  ContextKey = "user"
	ContextKeyActor ContextKey = "actor"
)

// UserLookup resolves a raw API key to its user.
type UserLookup interface {
	GetByAPIKey(ctx context.Context, key string) (model.User, error)
}

// APIKeyAuth creates middleware that authenticates requests with a Bearer
// API key. The user and the actor, carrying the tier in force now, are put
// into the request context.
func APIKeyAuth(users UserLookup, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey, msg := bearerToken(r)
			if msg != "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", msg, nil)
				return
			}

			user, err := users.GetByAPIKey(r.Context(), rawKey)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					slog.Warn("invalid api key", "path", r.URL.Path, "category", model.EventCategoryAuth)
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key", nil)
					return
				}
				slog.Error("failed to validate API key", "error", err, "category", model.EventCategoryAuth)
				WriteAPIError(w, http.StatusServiceUnavailable, "unavailable", "Failed to validate API key", nil)
				return
			}

			actor := model.Actor{ID: user.ID, Tier: user.EffectiveTier(now())}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), user, actor)))
		})
	}
}

// bearerToken extracts the key from the Authorization header. A non-empty
// message describes why the header was rejected.
func bearerToken(r *http.Request) (string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "Missing Authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "Invalid Authorization header format. Use: Bearer <api_key>"
	}

	rawKey := strings.TrimSpace(parts[1])
	if !model.LooksLikeAPIKey(rawKey) {
		return "", "Invalid API key"
	}
	return rawKey, ""
}

// WithActor returns ctx carrying user and actor.
func WithActor(ctx context.Context, user model.User, actor model.Actor) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, user)
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// ActorFromContext returns the authenticated actor.
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	a, ok := ctx.Value(ContextKeyActor).(model.Actor)
	return a, ok
}

// UserFromContext returns the authenticated user.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(ContextKeyUser).(model.User)
	return u, ok
}
