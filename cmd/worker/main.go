package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fake_e164_backend/internal/batch"
	"fake_e164_backend/internal/e164"
	"fake_e164_backend/internal/scheduler"
	"fake_e164_backend/platform/cache"
	"fake_e164_backend/platform/config"
	"fake_e164_backend/platform/db"
	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/phone"
	"fake_e164_backend/platform/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting batch worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	provider := e164.NewProvider(phone.NewOracle(), e164.MustLoadSafeRegistry(), cfg.GetMaxAttempts(), log)
	if err := faker.New(cfg.GetRandomSeed()).AddProvider(provider); err != nil {
		panic("failed to register e164 provider: " + err.Error())
	}

	// Worker-side batch wiring (no HTTP handlers required).
	batchSvc := batch.NewService(provider, cfg, log)
	batchSvc.SetJobStore(batch.NewRepo(pool))
	batchSvc.SetDeduper(batch.NewRedisDeduper(redisClient, cfg.GetBatchDedupTTL()))
	batchSvc.SetExporter(batch.NewExporter(storageSvc, cfg.GetMinioBucketBatches()))

	worker, err := scheduler.NewWorker(cfg, batchSvc, log)
	if err != nil {
		log.Error("failed to initialize batch worker", "error", err)
		panic("failed to initialize batch worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
