// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the public HTTP handlers: published pages,
// uploaded assets and health checks. The editor API lives in handler/api.
package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/render"
	"github.com/olegiv/landkit/internal/service"
)

// Route pattern constants for chi router registration.
const (
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness probe route.
	RouteHealthLive = "/health/live"
	// RoutePublicPage is the published page route.
	RoutePublicPage = "/p/{slug}"
	// RouteAPI is the mount point of the editor API.
	RouteAPI = "/api/v1"
)

// publicMaxAge is how long browsers may reuse a published page.
const publicMaxAge = 60 * time.Second

// FrontendHandler serves published pages.
type FrontendHandler struct {
	pages    *service.PageService
	renderer *render.Dispatcher
	logger   *slog.Logger
}

// NewFrontendHandler creates a new frontend handler.
func NewFrontendHandler(pages *service.PageService, renderer *render.Dispatcher, logger *slog.Logger) *FrontendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{
		pages:    pages,
		renderer: renderer,
		logger:   logger,
	}
}

// Page handles GET /p/{slug}. Only published pages resolve; drafts and
// unpublished pages answer 404 like missing ones.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.pages.Published(r.Context(), slug)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	vp := render.ParseViewport(r.URL.Query().Get("viewport"))
	if err := h.renderer.RenderPage(&buf, page, vp, false); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(publicMaxAge.Seconds())))
	_, _ = buf.WriteTo(w)
}

func (h *FrontendHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, "Page not found", http.StatusNotFound)
	case errors.Is(err, model.ErrUnavailable):
		h.logger.Error("public page unavailable", "path", r.URL.Path, "error", err, "category", model.EventCategoryHTTP)
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("rendering public page", "path", r.URL.Path, "error", err, "category", model.EventCategoryHTTP)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
