// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/landkit/internal/assets"
	"github.com/olegiv/landkit/internal/cache"
	"github.com/olegiv/landkit/internal/handler/api"
	"github.com/olegiv/landkit/internal/middleware"
	"github.com/olegiv/landkit/internal/render"
	"github.com/olegiv/landkit/internal/service"
)

// Rate limit defaults, in requests per second.
const (
	DefaultAPIRateLimit    = 10.0
	DefaultAPIRateBurst    = 20
	DefaultPublicRateLimit = 20.0
	DefaultPublicRateBurst = 40
)

// uploadsMaxAge is the browser cache lifetime of uploaded files.
const uploadsMaxAge = 365 * 24 * time.Hour

// RouterConfig holds everything the HTTP surface is built from.
type RouterConfig struct {
	DB       *sql.DB
	Cache    cache.Cacher
	Pages    *service.PageService
	Renderer *render.Dispatcher
	Assets   *assets.Store
	Users    middleware.UserLookup
	Logger   *slog.Logger
	Now      func() time.Time

	IsDevelopment   bool
	APIRateLimit    float64
	APIRateBurst    int
	PublicRateLimit float64
	PublicRateBurst int
}

// NewRouter builds the chi router serving the public pages, uploads, health
// checks and the editor API.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.APIRateLimit <= 0 {
		cfg.APIRateLimit = DefaultAPIRateLimit
	}
	if cfg.APIRateBurst <= 0 {
		cfg.APIRateBurst = DefaultAPIRateBurst
	}
	if cfg.PublicRateLimit <= 0 {
		cfg.PublicRateLimit = DefaultPublicRateLimit
	}
	if cfg.PublicRateBurst <= 0 {
		cfg.PublicRateBurst = DefaultPublicRateBurst
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))

	health := NewHealthHandler(cfg.DB, cfg.Cache, uploadsDir(cfg.Assets))
	r.Get(RouteHealth, health.Health)
	r.Get(RouteHealthLive, health.Liveness)

	frontend := NewFrontendHandler(cfg.Pages, cfg.Renderer, cfg.Logger)
	publicLimiter := middleware.NewGlobalRateLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst)
	r.With(publicLimiter.HTMLMiddleware()).Get(RoutePublicPage, frontend.Page)

	if cfg.Assets != nil {
		files := http.StripPrefix(assets.URLPrefix, http.FileServer(http.Dir(cfg.Assets.Dir())))
		r.With(middleware.StaticCache(uploadsMaxAge)).Handle(assets.URLPrefix+"*", files)
	}

	apiHandler := api.NewHandler(cfg.Pages, cfg.Renderer, cfg.Assets, cfg.Logger)
	r.Route(RouteAPI, func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Users, cfg.Now))
		r.Use(middleware.APIRateLimit(cfg.APIRateLimit, cfg.APIRateBurst))
		apiHandler.Routes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return r
}

func uploadsDir(s *assets.Store) string {
	if s == nil {
		return ""
	}
	return s.Dir()
}
