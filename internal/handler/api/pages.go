// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/landkit/internal/builder"
	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/render"
	"github.com/olegiv/landkit/internal/service"
)

// ListPages handles GET /api/v1/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	pages, err := h.pages.List(r.Context(), a)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	if pages == nil {
		pages = []model.Page{}
	}
	WriteSuccess(w, pages, &Meta{Total: len(pages)})
}

// CreatePage handles POST /api/v1/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req service.CreatePageParams
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.pages.Create(r.Context(), a, req)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteCreated(w, page)
}

// GetPage handles GET /api/v1/pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	page, err := h.pages.Get(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// SavePage handles PUT /api/v1/pages/{id}: the editor's whole-document save.
func (h *Handler) SavePage(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var doc model.Page
	if !decodeJSON(w, r, &doc) {
		return
	}
	page, err := h.pages.Save(r.Context(), a, chi.URLParam(r, "id"), doc)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// DeletePage handles DELETE /api/v1/pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.pages.Delete(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings handles PATCH /api/v1/pages/{id}/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var patch builder.PageSettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	page, err := h.pages.UpdateSettings(r.Context(), a, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// Publish handles POST /api/v1/pages/{id}/publish.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	page, err := h.pages.Publish(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// Unpublish handles POST /api/v1/pages/{id}/unpublish.
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	page, err := h.pages.Unpublish(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// Preview handles GET /api/v1/pages/{id}/preview. It renders the stored
// page as HTML whatever its status.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	page, err := h.pages.Get(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	vp := render.ParseViewport(r.URL.Query().Get("viewport"))
	if err := h.renderer.RenderPage(&buf, page, vp, true); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// SlugCheckResponse answers GET /api/v1/pages/{id}/slug-check.
type SlugCheckResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}

// CheckSlug handles GET /api/v1/pages/{id}/slug-check?slug=... so an editor
// can warn about a conflict before publishing.
func (h *Handler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		WriteValidationError(w, "Slug is required", map[string]string{"slug": "is required"})
		return
	}

	available, err := h.pages.SlugAvailable(r.Context(), a, chi.URLParam(r, "id"), slug)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, SlugCheckResponse{Slug: slug, Available: available}, nil)
}

// AddBlockRequest is the body of POST /api/v1/pages/{id}/blocks. A missing
// data object inserts the variant defaults.
type AddBlockRequest struct {
	Type component.Type `json:"type"`
	Data map[string]any `json:"data"`
}

// AddBlockResponse carries the new block with the page it was added to.
type AddBlockResponse struct {
	Page  model.Page  `json:"page"`
	Block model.Block `json:"block"`
}

// AddBlock handles POST /api/v1/pages/{id}/blocks.
func (h *Handler) AddBlock(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req AddBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		WriteValidationError(w, "Block type is required", map[string]string{"type": "is required"})
		return
	}
	page, block, err := h.pages.AddBlock(r.Context(), a, chi.URLParam(r, "id"), req.Type, req.Data)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteCreated(w, AddBlockResponse{Page: page, Block: block})
}

// UpdateBlockRequest is the body of PATCH /api/v1/pages/{id}/blocks/{blockID}.
// A null value removes an optional key.
type UpdateBlockRequest struct {
	Data map[string]any `json:"data"`
}

// UpdateBlock handles PATCH /api/v1/pages/{id}/blocks/{blockID}.
func (h *Handler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req UpdateBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.pages.UpdateBlock(r.Context(), a, chi.URLParam(r, "id"), chi.URLParam(r, "blockID"), req.Data)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// DeleteBlock handles DELETE /api/v1/pages/{id}/blocks/{blockID}.
func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	page, err := h.pages.DeleteBlock(r.Context(), a, chi.URLParam(r, "id"), chi.URLParam(r, "blockID"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// MoveBlockRequest is the body of POST /api/v1/pages/{id}/blocks/{blockID}/move.
type MoveBlockRequest struct {
	Direction builder.Direction `json:"direction"`
}

// MoveBlock handles POST /api/v1/pages/{id}/blocks/{blockID}/move.
func (h *Handler) MoveBlock(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req MoveBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := h.pages.MoveBlock(r.Context(), a, chi.URLParam(r, "id"), chi.URLParam(r, "blockID"), req.Direction)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}
