// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API used by the page editor.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/landkit/internal/assets"
	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/middleware"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/render"
	"github.com/olegiv/landkit/internal/service"
)

// maxJSONBody bounds the size of a JSON request body.
const maxJSONBody = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	pages    *service.PageService
	renderer *render.Dispatcher
	assets   *assets.Store
	logger   *slog.Logger
}

// NewHandler creates a new API handler. A nil asset store disables uploads.
func NewHandler(pages *service.PageService, renderer *render.Dispatcher, store *assets.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pages:    pages,
		renderer: renderer,
		assets:   store,
		logger:   logger,
	}
}

// Routes registers the API endpoints on r. Authentication and rate limiting
// are applied by the caller.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Status)
	r.Get("/components", h.ListComponents)
	r.Get("/me", h.Me)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetPage)
			r.Put("/", h.SavePage)
			r.Delete("/", h.DeletePage)
			r.Patch("/settings", h.UpdateSettings)
			r.Post("/publish", h.Publish)
			r.Post("/unpublish", h.Unpublish)
			r.Get("/preview", h.Preview)
			r.Get("/slug-check", h.CheckSlug)

			r.Post("/blocks", h.AddBlock)
			r.Patch("/blocks/{blockID}", h.UpdateBlock)
			r.Delete("/blocks/{blockID}", h.DeleteBlock)
			r.Post("/blocks/{blockID}/move", h.MoveBlock)
		})
	})

	r.Post("/assets", h.UploadAsset)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total int `json:"total"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", message, fieldErrors)
}

// WriteServiceError maps an error from the page service to a response.
// Unclassified errors are logged and reported as 500.
func (h *Handler) WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound  *model.NotFoundError
		quota     *model.QuotaExceededError
		invalid   *model.ValidationError
		violation *component.SchemaViolation
	)

	switch {
	case errors.As(err, &notFound):
		WriteNotFound(w, fmt.Sprintf("%s not found", notFound.Kind))
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, "Not found")
	case errors.As(err, &quota):
		WriteError(w, http.StatusForbidden, "quota_exceeded", err.Error(), map[string]string{
			"resource": quota.Resource,
			"limit":    strconv.Itoa(quota.Limit),
		})
	case errors.Is(err, model.ErrQuotaExceeded):
		WriteError(w, http.StatusForbidden, "quota_exceeded", err.Error(), nil)
	case errors.Is(err, model.ErrPermissionDenied):
		WriteForbidden(w, "You do not have access to this page")
	case errors.Is(err, model.ErrSlugConflict):
		WriteError(w, http.StatusConflict, "slug_conflict", err.Error(), nil)
	case errors.As(err, &violation):
		WriteValidationError(w, err.Error(), fieldDetails(violation.Field, violation.Reason))
	case errors.As(err, &invalid):
		WriteValidationError(w, err.Error(), fieldDetails(invalid.Field, invalid.Reason))
	case errors.Is(err, component.ErrUnknownVariant):
		WriteValidationError(w, err.Error(), map[string]string{"type": "unknown component type"})
	case errors.Is(err, model.ErrValidationFailed), errors.Is(err, component.ErrSchemaViolation):
		WriteValidationError(w, err.Error(), nil)
	case errors.Is(err, model.ErrUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Service temporarily unavailable", nil)
	default:
		h.logger.Error("api request failed", "path", r.URL.Path, "error", err)
		WriteInternalError(w, "Internal error")
	}
}

func fieldDetails(field, reason string) map[string]string {
	if field == "" {
		return nil
	}
	return map[string]string{field: reason}
}

// decodeJSON reads a JSON body into v. It writes the 400 response itself and
// returns false when the body cannot be decoded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			WriteBadRequest(w, "Request body is required", nil)
			return false
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body is too large", nil)
			return false
		}
		WriteBadRequest(w, "Invalid JSON body", map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// actor returns the authenticated caller. Routes are always mounted behind
// APIKeyAuth, so a missing actor means the router is misconfigured.
func actor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	a, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w, "Authentication required")
	}
	return a, ok
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}

// ListComponents returns the component palette.
func (h *Handler) ListComponents(w http.ResponseWriter, _ *http.Request) {
	defs := h.pages.Engine().Registry().Definitions()
	WriteSuccess(w, defs, &Meta{Total: len(defs)})
}

// MeResponse describes the caller and the limits of their plan.
type MeResponse struct {
	User   model.User     `json:"user"`
	Tier   model.PlanTier `json:"tier"`
	Quotas model.Quotas   `json:"quotas"`
}

// Me returns the authenticated user with their effective tier.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	caps := h.pages.Capabilities(a)
	WriteSuccess(w, MeResponse{User: user, Tier: caps.Tier, Quotas: caps.Quotas}, nil)
}
