// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/landkit/internal/assets"
	"github.com/olegiv/landkit/internal/cache"
	"github.com/olegiv/landkit/internal/middleware"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/render"
	"github.com/olegiv/landkit/internal/service"
	"github.com/olegiv/landkit/internal/store"
	"github.com/olegiv/landkit/internal/testutil"
)

type apiFixture struct {
	router  http.Handler
	pages   *service.PageService
	freeKey string
	proKey  string
	free    model.User
	pro     model.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })

	clock := &testutil.Clock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	pages := service.NewPageService(store.NewPageStore(db), service.PageServiceOptions{
		Published: cache.NewPublishedPages(mem, time.Minute),
		Logger:    logger,
		Now:       clock.Now,
	})

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	assetStore, err := assets.NewStore(assets.Options{Dir: t.TempDir(), MaxBytes: 1 << 20}, logger)
	if err != nil {
		t.Fatalf("assets.NewStore: %v", err)
	}

	h := NewHandler(pages, renderer, assetStore, logger)
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(store.NewUserStore(db), clock.Now))
		h.Routes(r)
	})

	free, freeKey := testutil.CreateUser(t, db, "free@example.com", model.PlanFree)
	pro, proKey := testutil.CreateUser(t, db, "pro@example.com", model.PlanPro)

	return &apiFixture{
		router:  r,
		pages:   pages,
		freeKey: freeKey,
		proKey:  proKey,
		free:    free,
		pro:     pro,
	}
}

// do sends a JSON request authenticated with key. A nil body sends none;
// a string body is sent verbatim.
func (f *apiFixture) do(t *testing.T, method, path, key string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the data field of a success response into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) *Meta {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(resp.Data, v); err != nil {
			t.Fatalf("decode data: %v (body %s)", err, rec.Body.String())
		}
	}
	return resp.Meta
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, rec.Body.String())
	}
	return resp.Error
}

func (f *apiFixture) createPage(t *testing.T, key, title string) model.Page {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/pages", key, map[string]string{"title": title})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create page: status %d, body %s", rec.Code, rec.Body.String())
	}
	var p model.Page
	decodeData(t, rec, &p)
	return p
}
