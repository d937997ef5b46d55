package batch

import "fake_e164_backend/platform/storage"

// CreateRequest is the body of POST /api/v1/e164/batches.
type CreateRequest struct {
	Count    int    `json:"count" validate:"required,min=1"`
	Region   string `json:"region" validate:"omitempty,region"`
	Valid    *bool  `json:"valid"`
	Possible *bool  `json:"possible"`
	Unique   bool   `json:"unique"`
	Format   Format `json:"format" validate:"omitempty,oneof=json csv"`
	// Async queues the batch as a background job instead of returning it inline.
	Async bool `json:"async"`
}

// Spec converts the request; absent flags default to true.
func (r CreateRequest) Spec() Spec {
	spec := Spec{
		Count:    r.Count,
		Region:   r.Region,
		Valid:    true,
		Possible: true,
		Unique:   r.Unique,
		Format:   r.Format,
	}
	if r.Valid != nil {
		spec.Valid = *r.Valid
	}
	if r.Possible != nil {
		spec.Possible = *r.Possible
	}
	return spec
}

// InlineResponse carries numbers generated in the request.
type InlineResponse struct {
	Count   int      `json:"count"`
	Numbers []string `json:"numbers"`
}

// JobResponse describes a background job.
type JobResponse struct {
	Job
	Download *storage.PresignedURL `json:"download,omitempty"`
}
