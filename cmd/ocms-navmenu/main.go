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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-navmenu/internal/cache"
	"github.com/olegiv/ocms-navmenu/internal/config"
	"github.com/olegiv/ocms-navmenu/internal/handler/api"
	"github.com/olegiv/ocms-navmenu/internal/hooks"
	"github.com/olegiv/ocms-navmenu/internal/logging"
	"github.com/olegiv/ocms-navmenu/internal/metrics"
	"github.com/olegiv/ocms-navmenu/internal/model"
	"github.com/olegiv/ocms-navmenu/internal/service"
	"github.com/olegiv/ocms-navmenu/internal/store"
	"github.com/olegiv/ocms-navmenu/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ocms-navmenu - navigation menu items REST API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DB_PATH           SQLite database path (default: ./data/ocms-navmenu.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SITE_URL          Public base URL of generated links (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SITE_CHARSET      Charset of original titles (default: utf-8)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_API_NAMESPACE     REST route prefix (default: ocms/v1)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_REDIS_URL         Redis URL for the term cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DO_SEED           Create the default menus (default: false)\n")
	}
	flag.Parse()

	build := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("ocms-navmenu %s\n", build)
		os.Exit(0)
	}

	if err := run(build); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(build version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
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

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.NewStore(db)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, st.Queries))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	termCache, fellBack, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = termCache.Close() }()

	slog.Info("term cache ready", "redis", cfg.UseRedisCache() && !fellBack, "ttl", cfg.CacheTTLDuration())

	events := service.NewEventService(st.Queries)
	if fellBack {
		_ = events.LogCacheEvent(ctx, model.EventLevelWarning, "Redis unavailable, term cache uses memory", nil)
	}

	collector := metrics.NewCollector()
	if stats, ok := termCache.(cache.StatsProvider); ok {
		collector.WatchCache("terms", stats)
	}

	registry := hooks.NewRegistry(logger)
	service.SubscribeAudit(registry, events, api.HookAfterInsert)

	types := service.NewContentTypes()
	titles := service.NewTitleRenderer()
	terms := service.NewCachedTermStore(st, termCache, 0)

	menuItems, err := api.NewMenuItemsController(api.MenuItemsConfig{
		Namespace: cfg.APINamespace,
		SiteURL:   cfg.SiteURL,
		Charset:   cfg.SiteCharset,
		Store:     st,
		Resolver:  service.NewSetupResolver(st, terms, types, titles, cfg.SiteURL),
		Meta:      api.NewPostMetaFields(st),
		Terms:     terms,
		Types:     types,
		Titles:    titles,
		Events:    hooks.NewSink(registry, logger),
		Filter:    hooks.NewFilter(registry, logger),
		Metrics:   collector,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("creating menu items controller: %w", err)
	}

	apiHandler := api.NewHandler(cfg.APINamespace, menuItems, db, build, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.IsDevelopment() {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(collector.Middleware)

	r.Mount("/"+cfg.APINamespace, apiHandler.Routes())
	r.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "namespace", cfg.APINamespace)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
