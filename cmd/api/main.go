package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fake_e164_backend/internal/batch"
	"fake_e164_backend/internal/e164"
	apphttp "fake_e164_backend/internal/http"
	"fake_e164_backend/internal/http/router"
	"fake_e164_backend/internal/scheduler"
	"fake_e164_backend/platform/cache"
	"fake_e164_backend/platform/config"
	"fake_e164_backend/platform/db"
	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/phone"
	"fake_e164_backend/platform/storage"
	"fake_e164_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Generator
	// ========================================================================

	oracle := phone.NewOracle()
	provider := e164.NewProvider(oracle, e164.MustLoadSafeRegistry(), cfg.GetMaxAttempts(), log)

	fake := faker.New(cfg.GetRandomSeed())
	if err := fake.AddProvider(provider); err != nil {
		panic("failed to register e164 provider: " + err.Error())
	}
	log.Info("faker providers registered", "providers", fake.Providers(), "seeded", cfg.GetRandomSeed() != 0)

	// Shared validator instance for dependency injection
	val := validator.NewWithRegions(oracle)

	batchSvc := batch.NewService(provider, cfg, log)
	health := healthChecks{}

	// ========================================================================
	// Optional infrastructure for background batches
	// ========================================================================

	if cfg.GetDatabaseURL() != "" {
		pool := connectDatabase(ctx, cfg, log)
		defer pool.Close()
		batchSvc.SetJobStore(batch.NewRepo(pool))
		health = append(health, db.NewPoolAdapter(pool))
	} else {
		log.Warn("DATABASE_URL not configured; batch jobs disabled")
	}

	if cfg.GetRedisURL() != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer func() { _ = redisClient.Close() }()
		batchSvc.SetDeduper(batch.NewRedisDeduper(redisClient, cfg.GetBatchDedupTTL()))
		health = append(health, cache.NewHealthAdapter(redisClient))

		queue, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize batch queue client", "error", err)
			panic("failed to initialize batch queue client: " + err.Error())
		}
		defer func() { _ = queue.Close() }()
		batchSvc.SetQueue(queue)
	} else {
		log.Warn("REDIS_URL not configured; batch queue disabled")
	}

	if cfg.IsMinIOEnabled() {
		storageSvc := connectStorage(ctx, cfg, log)
		batchSvc.SetExporter(batch.NewExporter(storageSvc, cfg.GetMinioBucketBatches()))
	}

	log.Info("batch service initialized", "async", batchSvc.AsyncEnabled(), "workers", cfg.GetBatchWorkers())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			e164.NewModule(provider, val, cfg.GetSearchTimeout()),
			batch.NewModule(batchSvc, val, cfg.GetBatchTimeout()),
		},
	}
	if len(health) > 0 {
		app.Health = health
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// healthChecks pings every configured backend.
type healthChecks []apphttp.HealthChecker

func (h healthChecks) Ping(ctx context.Context) error {
	for _, check := range h {
		if err := check.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, batch.Migrations, batch.MigrationsDir)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
}

func connectStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage.MinIOService {
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetMinioBucketBatches()
	if err := withRetry(ctx, log, "ensure batches bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "batchesBucket", bucket)

	return storageSvc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
