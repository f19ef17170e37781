// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the dual-source chapter API server.
//
// Startup order: config and logger, PostgreSQL, Redis, migrations, the
// upstream limiter and MangaDex client, domain wiring, then the HTTP server.
// On SIGTERM the server stops first and the limiter drains afterwards.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/api"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/manga"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/reader"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/config"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/constants"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/migration"
	pgstore "github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/postgres"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ratelimit"
	redisstore "github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/redis"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/sec"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/storage"
)

func main() {
	// ── 1. Configuration & Logger ─────────────────────────────────────────
	// Config errors are logged through a provisional JSON logger at info level.
	log := newLogger(false)

	cfg, err := config.Load()
	must(log, err, "load configuration")

	log = newLogger(cfg.Debug)
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("upstream_max_concurrent", cfg.UpstreamMaxConcurrent),
		slog.Float64("upstream_rps", cfg.UpstreamRPS),
	)

	// Startup dependencies must answer within 30s.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background sweepers on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 2. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Upstream Access ────────────────────────────────────────────────
	// One limiter per process; every MangaDex call is admitted through it.
	limiter := ratelimit.New(ratelimit.Config{
		MaxConcurrent:     cfg.UpstreamMaxConcurrent,
		RequestsPerSecond: cfg.UpstreamRPS,
		Burst:             cfg.UpstreamBurst,
	})

	mangadexClient := mangadex.NewClient(limiter, mangadex.Options{
		BaseURL:   cfg.MangaDexBaseURL,
		UserAgent: cfg.MangaDexUserAgent,
		Timeout:   cfg.UpstreamTimeout,
		Cache:     mangadex.NewRedisCache(rdb),
		CacheTTL:  cfg.RelationCacheTTL,
	}, log)

	// ── 6. Auth & Storage ─────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	disk, err := storage.NewDisk(cfg.UploadDir, cfg.UploadPublicURL)
	must(log, err, "prepare upload directory")

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Checks: []api.HealthCheck{
			{Name: "postgres", Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
			{Name: "redis", Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
		},
		Upstream: limiter.Stats,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	chapterRepository := chapter.NewRepository(pool)
	chapterService := chapter.NewService(chapterRepository, mangadexClient, disk, cfg.BatchSize, log)
	readerAssembler := reader.NewAssembler(chapterRepository, mangadexClient, log)
	mangaService := manga.NewService(manga.NewPostgresRepository(pool), mangadexClient, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Chapter:   chapter.NewHandler(chapterService, cfg.UploadMaxBytes),
		Reader:    reader.NewHandler(readerAssembler),
		Manga:     manga.NewHandler(mangaService),
		Uploads:   http.FileServer(http.Dir(disk.Root())),
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_listen_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
	}

	// The server no longer admits requests, so the upstream queue can drain.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	if err := limiter.Close(drainCtx); err != nil {
		log.Error("upstream_drain_incomplete", slog.Any("error", err), slog.Any("stats", limiter.Stats()))
	}

	log.Info("server_stopped", slog.Any("upstream", limiter.Stats()))
}

// newLogger builds the process-wide JSON logger tagged with the service name and version.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// must exits the process when a startup step fails.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
