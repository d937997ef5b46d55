package e164

import "fake_e164_backend/platform/phone"

// GenerateRequest is the query of GET /api/v1/e164.
type GenerateRequest struct {
	Region   string `form:"region" validate:"omitempty,region"`
	Valid    *bool  `form:"valid"`
	Possible *bool  `form:"possible"`
}

// Options converts the query into provider options; absent flags keep the defaults.
func (r GenerateRequest) Options() []Option {
	opts := []Option{WithRegion(r.Region)}
	if r.Valid != nil {
		opts = append(opts, WithValid(*r.Valid))
	}
	if r.Possible != nil {
		opts = append(opts, WithPossible(*r.Possible))
	}
	return opts
}

// SafeRequest is the query of GET /api/v1/e164/safe.
type SafeRequest struct {
	Region string `form:"region" validate:"omitempty,alpha,len=2"`
}

// SafeResponse is a reserved number.
type SafeResponse struct {
	Number string `json:"number"`
}

// ExampleRequest is the query of GET /api/v1/e164/example.
type ExampleRequest struct {
	Region string `form:"region" validate:"required,region"`
	Type   string `form:"type" validate:"omitempty,oneof=mobile fixed fixed_line toll_free premium_rate shared_cost voip personal_number pager uan voicemail"`
}

// ExampleResponse is a metadata example number.
type ExampleResponse struct {
	Number string `json:"number"`
	Region string `json:"region"`
	Type   string `json:"type"`
}

// RegionsResponse lists the regions each endpoint accepts.
type RegionsResponse struct {
	Regions     []string `json:"regions"`
	SafeRegions []string `json:"safeRegions"`
}

// ValidateRequest is the body of POST /api/v1/e164/validate.
type ValidateRequest struct {
	Number string `json:"number" validate:"required,max=64"`
	Region string `json:"region" validate:"omitempty,region"`
}

// ValidateResponse is the oracle's classification.
type ValidateResponse struct {
	E164     string `json:"e164"`
	Region   string `json:"region"`
	Valid    bool   `json:"valid"`
	Possible bool   `json:"possible"`
}

func newValidateResponse(c phone.Classification) ValidateResponse {
	return ValidateResponse{
		E164:     c.E164,
		Region:   c.Region,
		Valid:    c.Valid,
		Possible: c.Possible,
	}
}
