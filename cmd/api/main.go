// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Sakan HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the S3 client.
//  7. Wire services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/sakan/internal/api"
	"github.com/taibuivan/sakan/internal/core/ad"
	"github.com/taibuivan/sakan/internal/platform/config"
	"github.com/taibuivan/sakan/internal/platform/constants"
	"github.com/taibuivan/sakan/internal/platform/metrics"
	"github.com/taibuivan/sakan/internal/platform/migration"
	pgstore "github.com/taibuivan/sakan/internal/platform/postgres"
	redisstore "github.com/taibuivan/sakan/internal/platform/redis"
	"github.com/taibuivan/sakan/internal/platform/sec"
	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/account"
	"github.com/taibuivan/sakan/internal/users/auth"
)

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "sakan"))
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Sakan] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{Addr: cfg.RedisAddr(), Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Object Storage ─────────────────────────────────────────────────
	s3Client, err := storage.NewS3Client(startupCtx, storage.S3Options{
		Endpoint:       cfg.S3Endpoint,
		Region:         cfg.S3Region,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		ForcePathStyle: cfg.S3ForcePathStyle,
	})
	must(log, err, "initialize s3 client")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	recorder := metrics.New()

	signer, err := sec.NewSessionTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	must(log, err, "initialize session token signer")

	userRepository := auth.NewUserRepository(pool)
	adminRepository := auth.NewAdminRepository(pool)
	sessions := auth.NewSessionService(auth.NewSessionRepository(pool), signer, recorder)
	authService := auth.NewService(userRepository, adminRepository, auth.NewOTPRepository(rdb), sessions, auth.LogOTPSender{}, recorder)
	guard := auth.NewGuard(sessions, userRepository, adminRepository)

	s3Store := storage.NewS3Store(
		s3Client,
		s3.NewPresignClient(s3Client),
		storage.NewUploadRegistry(rdb, constants.PresignedURLTTL),
		cfg.S3Bucket,
		constants.PresignedURLTTL,
	)
	storageService := storage.NewService(map[storage.StorageType]storage.Store{storage.StorageS3: s3Store}, recorder)

	adService := ad.NewService(ad.NewPostgresRepository(pool), storageService, recorder)
	accountService := account.NewService(userRepository, storageService)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, recorder, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Guard:     guard,
		Auth:      auth.NewHandler(authService, cfg.IsProduction()),
		Account:   account.NewHandler(accountService),
		Ad:        ad.NewHandler(adService, guard.Authenticate),
		Storage:   storage.NewHandler(storageService, guard.Authenticate, recorder, cfg.UploadTempDir),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
