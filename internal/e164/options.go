package e164

// Option adjusts a single E164 request.
type Option func(*request)

type request struct {
	region   string
	valid    bool
	possible bool
}

func newRequest(opts []Option) request {
	req := request{valid: true, possible: true}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// WithRegion pins the region. Empty keeps the random default.
func WithRegion(region string) Option {
	return func(r *request) { r.region = region }
}

// WithValid sets whether the number must be valid (true) or invalid (false).
func WithValid(valid bool) Option {
	return func(r *request) { r.valid = valid }
}

// WithPossible sets whether the number must be possible (true) or impossible (false).
func WithPossible(possible bool) Option {
	return func(r *request) { r.possible = possible }
}
