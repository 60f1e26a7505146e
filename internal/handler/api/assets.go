// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file itself.
const multipartOverhead = 1 << 20

// AssetResponse is returned for a stored upload.
type AssetResponse struct {
	URL string `json:"url"`
}

// UploadAsset handles POST /api/v1/assets. The image is sent in the "file"
// field of a multipart form; the response carries the URL to place in a
// block.
func (h *Handler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if h.assets == nil {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Uploads are disabled", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.assets.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(h.assets.MaxBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Upload is too large", nil)
			return
		}
		WriteBadRequest(w, "Failed to parse multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No file provided. Use the 'file' field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.assets.Save(r.Context(), a.ID, header.Filename, file)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteCreated(w, AssetResponse{URL: url})
}
