// Package batch generates fixture sets of fake E.164 numbers, optionally
// unique, exported to object storage and tracked as background jobs.
package batch

import (
	"time"

	"fake_e164_backend/internal/e164"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a batch job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Format is the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Spec describes one batch.
type Spec struct {
	Count    int    `json:"count" validate:"required,min=1"`
	Region   string `json:"region,omitempty" validate:"omitempty,region"`
	Valid    bool   `json:"valid"`
	Possible bool   `json:"possible"`
	Unique   bool   `json:"unique"`
	Format   Format `json:"format" validate:"omitempty,oneof=json csv"`
}

func (s Spec) options() []e164.Option {
	return []e164.Option{
		e164.WithRegion(s.Region),
		e164.WithValid(s.Valid),
		e164.WithPossible(s.Possible),
	}
}

func (s Spec) format() Format {
	if s.Format == "" {
		return FormatJSON
	}
	return s.Format
}

// Job is a persisted batch request.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	Spec      Spec      `json:"spec"`
	ObjectKey string    `json:"objectKey,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
