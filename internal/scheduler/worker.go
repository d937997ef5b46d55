package scheduler

import (
	"context"
	"fmt"

	"fake_e164_backend/platform/apperr"
	"fake_e164_backend/platform/config"
	"fake_e164_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// BatchProcessor runs a stored batch job.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, jobID uuid.UUID) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor BatchProcessor
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, processor BatchProcessor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		processor: processor,
		log:       log,
	}

	mux.HandleFunc(TaskGenerateBatch, w.handleGenerateBatch)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("batch worker stopped", "error", err)
	}
}

func (w *Worker) handleGenerateBatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseGenerateBatchPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	return retryable(w.processor.ProcessBatch(ctx, jobID))
}

// retryable marks domain failures as final; only infrastructure errors are
// retried by asynq.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	switch apperr.GetKind(err) {
	case apperr.KindUnknown, apperr.KindInternal:
		return err
	}
	return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
}
