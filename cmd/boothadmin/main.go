// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/cache"
	"github.com/virtualspaces/boothadmin/internal/chart"
	"github.com/virtualspaces/boothadmin/internal/config"
	"github.com/virtualspaces/boothadmin/internal/handler"
	"github.com/virtualspaces/boothadmin/internal/logging"
	"github.com/virtualspaces/boothadmin/internal/markup"
	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/render"
	"github.com/virtualspaces/boothadmin/internal/scheduler"
	"github.com/virtualspaces/boothadmin/internal/service"
	"github.com/virtualspaces/boothadmin/internal/session"
	"github.com/virtualspaces/boothadmin/internal/store"
	"github.com/virtualspaces/boothadmin/internal/version"
	"github.com/virtualspaces/boothadmin/web"
)

// loginCleanupSchedule prunes expired sign-in attempts.
const loginCleanupSchedule = "@every 10m"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Booth Admin - virtual booth dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_API_URL          Booth REST API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_ID               Booth being administered (UUID)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_DB_PATH          SQLite session database (default: ./data/boothadmin.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BOOTH_REDIS_URL        Redis URL for the view-state cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("boothadmin %s\n", version.Current())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	slog.SetDefault(logger)

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	sessionManager := session.New(db, cfg.IsDevelopment())

	views, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = views.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("view cache initialized", "backend", "redis")
	} else {
		slog.Info("view cache initialized", "backend", "memory")
	}

	api, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIURL,
		UserAgent: "boothadmin/" + version.Current().Version,
		Timeout:   cfg.APITimeout,
	})
	if err != nil {
		return fmt.Errorf("initializing api client: %w", err)
	}

	authService := service.NewAuthService(api)
	mediaService := service.NewMediaService(api)
	visitorService := service.NewVisitorService(api)
	sessionStore := session.NewStore(sessionManager, authService)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
		MediaBase:      cfg.MediaBase(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	readiness := middleware.NewReadiness(handler.LoadingPage(renderer))
	probe := scheduler.NewProbe(api, 5*time.Second, logger)

	shell := handler.NewShell(handler.ShellConfig{
		Renderer:  renderer,
		Sessions:  sessionManager,
		Media:     mediaService,
		Views:     views,
		ViewTTL:   cfg.CacheTTL,
		BoothID:   cfg.BoothID,
		BoothName: cfg.BoothName,
	})

	a := &app{
		cfg:             cfg,
		sessions:        sessionManager,
		store:           sessionStore,
		readiness:       readiness,
		loginProtection: loginProtection,
		auth:            handler.NewAuthHandler(renderer, sessionStore, shell, loginProtection),
		analytics:       handler.NewAnalyticsHandler(shell, visitorService, chart.New(cfg.ChartAssetsHost)),
		customize:       handler.NewCustomizeHandler(shell, mediaService, markup.New(), cfg.BoothDescription),
		users:           handler.NewUsersHandler(shell, visitorService),
		health:          handler.NewHealthHandler(db, probe, readiness),
	}
	router, err := a.routes()
	if err != nil {
		return err
	}

	sched := scheduler.New(logger)
	if err := sched.Add("api-probe", cfg.ProbeSchedule, func() {
		probe.Check(context.Background())
	}); err != nil {
		return fmt.Errorf("scheduling api probe: %w", err)
	}
	if err := sched.Add("login-cleanup", loginCleanupSchedule, loginProtection.Cleanup); err != nil {
		return fmt.Errorf("scheduling login cleanup: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second, // uploads are relayed to the API
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Startup and serve failures stop the process so a supervisor can
	// restart it instead of leaving it on the loading page.
	fatal := make(chan error, 2)

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "booth_id", cfg.BoothID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal <- fmt.Errorf("serving http: %w", err)
		}
	}()

	// The listener answers with the loading page until the session table
	// is ready.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := prepare(ctx, db, probe, readiness); err != nil {
			fatal <- err
			return
		}
		slog.Info("service ready")
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-fatal:
		slog.Error("stopping after fatal error", "error", runErr)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return runErr
}

// prepare runs the startup work hidden behind the loading page and opens
// the readiness gate once the session table exists.
func prepare(ctx context.Context, db *sql.DB, probe *scheduler.Probe, readiness *middleware.Readiness) error {
	if err := store.Migrate(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	probe.Check(ctx)
	readiness.MarkReady()
	return nil
}
