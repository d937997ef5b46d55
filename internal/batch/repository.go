package batch

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"fake_e164_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations holds the goose migrations for the job table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

const jobNotFoundMessage = "batch job not found"

// JobStore persists batch jobs.
type JobStore interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, id uuid.UUID) (Job, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, objectKey string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// Repo implements JobStore with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a PostgreSQL job store.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ JobStore = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, job Job) error {
	query := `
		INSERT INTO e164_batch_jobs (id, status, region, count, valid, possible, is_unique, format, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.Spec.Region, job.Spec.Count, job.Spec.Valid, job.Spec.Possible,
		job.Spec.Unique, string(job.Spec.format()), job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create batch job: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	query := `
		SELECT id, status, region, count, valid, possible, is_unique, format, object_key, error, created_at, updated_at
		FROM e164_batch_jobs
		WHERE id = $1`

	var job Job
	var status, format string
	var objectKey, reason *string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &status, &job.Spec.Region, &job.Spec.Count, &job.Spec.Valid, &job.Spec.Possible,
		&job.Spec.Unique, &format, &objectKey, &reason, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMessage)
		}
		return Job{}, fmt.Errorf("get batch job: %w", err)
	}

	job.Status = Status(status)
	job.Spec.Format = Format(format)
	if objectKey != nil {
		job.ObjectKey = *objectKey
	}
	if reason != nil {
		job.Error = *reason
	}
	return job, nil
}

func (r *Repo) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, `UPDATE e164_batch_jobs SET status = $2, updated_at = now() WHERE id = $1`, id, string(StatusRunning))
}

func (r *Repo) MarkCompleted(ctx context.Context, id uuid.UUID, objectKey string) error {
	return r.update(ctx, `UPDATE e164_batch_jobs SET status = $2, object_key = $3, updated_at = now() WHERE id = $1`,
		id, string(StatusCompleted), objectKey)
}

func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.update(ctx, `UPDATE e164_batch_jobs SET status = $2, error = $3, updated_at = now() WHERE id = $1`,
		id, string(StatusFailed), reason)
}

func (r *Repo) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update batch job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMessage)
	}
	return nil
}

// MemoryStore is a JobStore for single-process use without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]Job
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]Job), now: time.Now}
}

var _ JobStore = (*MemoryStore)(nil)

func (s *MemoryStore) Create(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return apperr.Conflict("batch job already exists")
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, apperr.NotFound(jobNotFoundMessage)
	}
	return job, nil
}

func (s *MemoryStore) MarkRunning(_ context.Context, id uuid.UUID) error {
	return s.mutate(id, func(j *Job) { j.Status = StatusRunning })
}

func (s *MemoryStore) MarkCompleted(_ context.Context, id uuid.UUID, objectKey string) error {
	return s.mutate(id, func(j *Job) {
		j.Status = StatusCompleted
		j.ObjectKey = objectKey
	})
}

func (s *MemoryStore) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	return s.mutate(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = reason
	})
}

func (s *MemoryStore) mutate(id uuid.UUID, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return apperr.NotFound(jobNotFoundMessage)
	}
	fn(&job)
	job.UpdatedAt = s.now()
	s.jobs[id] = job
	return nil
}
