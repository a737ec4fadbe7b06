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
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"

	"github.com/olegiv/jobboard/internal/cache"
	"github.com/olegiv/jobboard/internal/config"
	"github.com/olegiv/jobboard/internal/logging"
	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/scheduler"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/session"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/version"
	"github.com/olegiv/jobboard/web"
)

// application holds the dependencies shared by the router and handlers.
type application struct {
	cfg             *config.Config
	db              *sql.DB
	sessionManager  *scs.SessionManager
	renderer        *render.Renderer
	jobs            *service.JobService
	events          *service.EventService
	loginProtection *middleware.LoginProtection
	htmlLimiter     *middleware.RateLimiter
	apiLimiter      *middleware.RateLimiter
	staticFS        fs.FS
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	promote := flag.String("promote", "", "Grant admin rights to the user with this email and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "jobboard - job posts and applications\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_SESSION_SECRET         Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_DB_PATH                SQLite database path (default: ./data/jobboard.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_SERVER_HOST            Server host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_LOG_LEVEL              debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_UPLOADS_DIR            CV storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_MAX_UPLOAD_MB          CV size limit in MB (default: 20)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_EVENT_RETENTION_DAYS   Event log retention, 0 keeps forever (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_SITE_URL               Public base URL for robots.txt and sitemap.xml\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_REDIS_URL              Redis URL for the markdown cache (default: in-memory)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_CACHE_TTL              Markdown cache entry lifetime (default: 1h)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JOBBOARD_DO_SEED                Create the default admin and a sample post (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.Get().String())
		os.Exit(0)
	}

	if err := run(*promote); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(promoteEmail string) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

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

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also go to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()

	if promoteEmail != "" {
		user, err := store.PromoteUser(ctx, db, promoteEmail)
		if err != nil {
			return fmt.Errorf("promoting %s: %w", promoteEmail, err)
		}
		slog.Info("user is now an admin", "user_id", user.ID, "email", user.Email)
		return nil
	}

	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.Prefix = cfg.CachePrefix
	cacheCfg.DefaultTTL = cfg.CacheTTL
	cacheResult, err := cache.New(cacheCfg)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()
	slog.Info("markdown cache ready",
		"backend", cacheResult.Backend,
		"fallback", cacheResult.IsFallback,
		"redis_url", cache.SanitizeRedisURL(cfg.RedisURL),
	)

	renderer, err := render.New(render.Config{
		TemplatesFS:      templatesFS,
		SessionManager:   sessionManager,
		IsDev:            cfg.IsDevelopment(),
		MarkdownCache:    cacheResult.Cache,
		MarkdownCacheTTL: cfg.CacheTTL,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	eventService := service.NewEventService(db)
	jobService := service.NewJobService(db, service.NewCVStorage(cfg.UploadsDir, cfg.MaxUploadBytes()))

	sched := scheduler.New(eventService, logger, scheduler.Config{EventRetention: cfg.EventRetention()})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	appCtx, cancelApp := context.WithCancel(ctx)
	defer cancelApp()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	loginProtection.Start(appCtx)
	htmlLimiter := middleware.NewRateLimiter(10, 20)
	htmlLimiter.Start(appCtx)
	apiLimiter := middleware.NewRateLimiter(20, 40)
	apiLimiter.Start(appCtx)

	app := &application{
		cfg:             cfg,
		db:              db,
		sessionManager:  sessionManager,
		renderer:        renderer,
		jobs:            jobService,
		events:          eventService,
		loginProtection: loginProtection,
		htmlLimiter:     htmlLimiter,
		apiLimiter:      apiLimiter,
		staticFS:        staticFS,
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           app.routes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for CV uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// parseLogLevel maps JOBBOARD_LOG_LEVEL to a slog level. Unknown values mean info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
