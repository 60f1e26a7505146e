// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/olegiv/landkit/internal/assets"
	"github.com/olegiv/landkit/internal/cache"
	"github.com/olegiv/landkit/internal/config"
	"github.com/olegiv/landkit/internal/handler"
	"github.com/olegiv/landkit/internal/logging"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/render"
	"github.com/olegiv/landkit/internal/service"
	"github.com/olegiv/landkit/internal/store"
	"github.com/olegiv/landkit/internal/version"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	createUser := flag.String("create-user", "", "Create a user with this email, print its API key and exit")
	userName := flag.String("name", "", "Display name for -create-user")
	plan := flag.String("plan", string(model.PlanFree), "Plan for -create-user and -set-plan: free|pro")
	setPlan := flag.String("set-plan", "", "Move the user with this email to -plan and exit")
	planExpires := flag.String("plan-expires", "", "Expiry for -set-plan: RFC 3339 time or duration such as 720h")
	rotateKey := flag.String("rotate-key", "", "Issue a new API key for the user with this email and exit")
	deleteUser := flag.String("delete-user", "", "Delete the user with this email and their pages, then exit")
	listEvents := flag.Int("events", 0, "Print the newest N event log entries and exit")
	pruneEvents := flag.Bool("prune-events", false, "Prune the event log now and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "landkit - landing page builder\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_DB_PATH          SQLite database path (default: ./data/landkit.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_ENV              Environment: development|production|test (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_UPLOADS_DIR      Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_BASE_URL         Public origin used in asset URLs (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_REDIS_URL        Redis URL for the published page cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_FREE_MAX_GALLERY Gallery images on the free plan (default: 3)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDKIT_PRO_MAX_GALLERY  Gallery images on the pro plan (default: 30)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(version.Get().String())
		os.Exit(0)
	}

	opts := cliOptions{
		createUser:  *createUser,
		setPlan:     *setPlan,
		rotateKey:   *rotateKey,
		deleteUser:  *deleteUser,
		name:        *userName,
		plan:        *plan,
		planExpires: *planExpires,
		listEvents:  *listEvents,
		pruneEvents: *pruneEvents,
	}
	if err := run(opts); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	// Load .env file if present (development)
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	baseHandler := logging.NewHandler(os.Stdout, cfg.LogLevel, cfg.Env)
	logger := slog.New(baseHandler)
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	events := store.NewEventStore(db)
	logger = slog.New(logging.NewEventLogHandler(baseHandler, events))
	slog.SetDefault(logger)

	ctx := context.Background()

	if opts.isCommand() {
		return runCommand(ctx, commandEnv{
			out:    os.Stdout,
			users:  store.NewUserStore(db),
			events: events,
			cfg:    cfg,
			logger: logger,
			now:    time.Now,
		}, opts)
	}

	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	cacher := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	assetStore, err := assets.NewStore(assets.Options{
		Dir:      cfg.UploadsDir,
		BaseURL:  cfg.BaseURL,
		MaxBytes: cfg.MaxUploadBytes(),
		MaxWidth: cfg.ImageMaxWidth,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing uploads: %w", err)
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	pages := service.NewPageService(store.NewPageStore(db), service.PageServiceOptions{
		Quotas:    cfg.PlanQuotas(),
		Published: cache.NewPublishedPages(cacher, cfg.CacheTTL),
		Logger:    logger,
	})

	sched, err := newScheduler(cfg, events, logger)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		DB:            db,
		Cache:         cacher,
		Pages:         pages,
		Renderer:      renderer,
		Assets:        assetStore,
		Users:         store.NewUserStore(db),
		Logger:        logger,
		IsDevelopment: cfg.IsDevelopment(),
		APIRateLimit:  cfg.APIRateLimit,
		APIRateBurst:  cfg.APIRateBurst,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
