package batch

import (
	"context"
	"time"

	"fake_e164_backend/internal/e164"
	"fake_e164_backend/platform/apperr"
	"fake_e164_backend/platform/config"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxDuplicateDraws bounds consecutive duplicate draws for one slot of a
// unique batch before the batch is declared unsatisfiable.
const maxDuplicateDraws = 64

var (
	// ErrAsyncDisabled is returned by Submit when no queue or store is wired.
	ErrAsyncDisabled = apperr.BadRequest("background batches are not enabled")
	// ErrNotEnoughUnique is returned when a unique batch keeps drawing duplicates.
	ErrNotEnoughUnique = apperr.Conflict("not enough distinct numbers for the requested batch")
	// ErrNotExported is returned when a download is requested for an unfinished job.
	ErrNotExported = apperr.Conflict("batch job has no export yet")
)

// Enqueuer schedules background processing of a stored job.
type Enqueuer interface {
	EnqueueBatch(ctx context.Context, jobID uuid.UUID) error
}

// Service generates batches inline or as background jobs.
type Service struct {
	provider *e164.Provider
	dedup    Deduper
	store    JobStore
	exporter *Exporter
	queue    Enqueuer
	workers  int
	maxCount int
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a batch service with an in-memory deduper. Background
// jobs need SetJobStore, SetExporter and SetQueue.
func NewService(provider *e164.Provider, cfg config.BatchConfig, log *logger.Logger) *Service {
	workers := cfg.GetBatchWorkers()
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		provider: provider,
		dedup:    NewMemoryDeduper(),
		workers:  workers,
		maxCount: cfg.GetBatchMaxCount(),
		log:      log,
		now:      time.Now,
	}
}

// SetDeduper replaces the uniqueness tracker, e.g. with a RedisDeduper.
func (s *Service) SetDeduper(d Deduper) { s.dedup = d }

// SetJobStore sets the job persistence.
func (s *Service) SetJobStore(store JobStore) { s.store = store }

// SetExporter sets the object storage exporter.
func (s *Service) SetExporter(exporter *Exporter) { s.exporter = exporter }

// SetQueue sets the background queue.
func (s *Service) SetQueue(queue Enqueuer) { s.queue = queue }

// AsyncEnabled reports whether Submit can accept jobs.
func (s *Service) AsyncEnabled() bool {
	return s.store != nil && s.exporter != nil && s.queue != nil
}

// Validate checks a spec before any work is done.
func (s *Service) Validate(spec Spec) error {
	if spec.Count < 1 {
		return apperr.Validation("count must be at least 1")
	}
	if s.maxCount > 0 && spec.Count > s.maxCount {
		return apperr.Validation("count exceeds the batch limit").WithDetails(map[string]int{"max": s.maxCount})
	}
	if spec.Valid && !spec.Possible {
		return e164.ErrContradictoryConstraints.WithOp("batch.validate")
	}
	switch spec.Format {
	case "", FormatJSON, FormatCSV:
	default:
		return apperr.Validation("unsupported format")
	}
	return nil
}

// Generate produces spec.Count numbers using parallel workers, each drawing
// from its own forked random stream.
func (s *Service) Generate(ctx context.Context, spec Spec) ([]string, error) {
	if err := s.Validate(spec); err != nil {
		return nil, err
	}

	dedupKey := uuid.NewString()
	if spec.Unique {
		defer func() {
			if err := s.dedup.Release(context.WithoutCancel(ctx), dedupKey); err != nil {
				s.log.Warn("failed to release batch dedup set", "error", err)
			}
		}()
	}

	out := make([]string, spec.Count)
	slots := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(slots)
		for i := 0; i < spec.Count; i++ {
			select {
			case slots <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workers := min(s.workers, spec.Count)
	for w := 0; w < workers; w++ {
		gen := s.provider.Fork()
		g.Go(func() error {
			for i := range slots {
				number, err := s.draw(gctx, gen, dedupKey, spec)
				if err != nil {
					return err
				}
				out[i] = number
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) draw(ctx context.Context, gen *e164.Provider, dedupKey string, spec Spec) (string, error) {
	for dup := 0; ; dup++ {
		number, err := gen.E164(ctx, spec.options()...)
		if err != nil {
			return "", err
		}
		if !spec.Unique {
			return number, nil
		}

		added, err := s.dedup.Add(ctx, dedupKey, number)
		if err != nil {
			return "", err
		}
		if added {
			return number, nil
		}
		if dup >= maxDuplicateDraws {
			return "", ErrNotEnoughUnique.WithOp("batch.generate")
		}
	}
}

// Submit stores a queued job and hands it to the background queue.
func (s *Service) Submit(ctx context.Context, spec Spec) (Job, error) {
	if !s.AsyncEnabled() {
		return Job{}, ErrAsyncDisabled
	}
	if err := s.Validate(spec); err != nil {
		return Job{}, err
	}

	now := s.now()
	job := Job{
		ID:        uuid.New(),
		Status:    StatusQueued,
		Spec:      spec,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.Spec.Format = spec.format()

	if err := s.store.Create(ctx, job); err != nil {
		return Job{}, err
	}
	if err := s.queue.EnqueueBatch(ctx, job.ID); err != nil {
		_ = s.store.MarkFailed(ctx, job.ID, "enqueue failed")
		return Job{}, apperr.Wrap(apperr.KindInternal, "failed to enqueue batch job", err)
	}

	s.log.JobEvent(job.ID.String(), string(StatusQueued), nil)
	return job, nil
}

// Get returns a stored job.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	if s.store == nil {
		return Job{}, ErrAsyncDisabled
	}
	return s.store.Get(ctx, id)
}

// DownloadURL presigns the export of a completed job.
func (s *Service) DownloadURL(ctx context.Context, job Job) (*storage.PresignedURL, error) {
	if s.exporter == nil {
		return nil, ErrAsyncDisabled
	}
	if job.Status != StatusCompleted || job.ObjectKey == "" {
		return nil, ErrNotExported
	}
	return s.exporter.DownloadURL(ctx, job.ObjectKey)
}

// ProcessBatch runs a stored job: generate, export, record the outcome.
func (s *Service) ProcessBatch(ctx context.Context, id uuid.UUID) error {
	if s.store == nil || s.exporter == nil {
		return ErrAsyncDisabled
	}

	log := s.log.WithContext(context.WithValue(ctx, logger.JobIDKey, id.String()))

	job, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == StatusCompleted {
		return nil
	}
	if err := s.store.MarkRunning(ctx, id); err != nil {
		return err
	}
	log.JobEvent(id.String(), string(StatusRunning), nil)

	numbers, err := s.Generate(ctx, job.Spec)
	if err != nil {
		return s.fail(ctx, log, id, err)
	}

	key, err := s.exporter.Export(ctx, job, numbers)
	if err != nil {
		return s.fail(ctx, log, id, err)
	}

	if err := s.store.MarkCompleted(ctx, id, key); err != nil {
		return err
	}
	log.JobEvent(id.String(), string(StatusCompleted), nil)
	return nil
}

func (s *Service) fail(ctx context.Context, log *logger.Logger, id uuid.UUID, cause error) error {
	log.JobEvent(id.String(), string(StatusFailed), cause)
	if err := s.store.MarkFailed(context.WithoutCancel(ctx), id, cause.Error()); err != nil {
		log.Error("failed to record batch failure", "error", err)
	}
	return cause
}
