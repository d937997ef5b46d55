// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegionTag validates an optional numbering-plan region code.
const RegionTag = "region"

// RegionChecker reports whether a region code is known.
type RegionChecker interface {
	IsSupportedRegion(region string) bool
}

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance.
// Domain-specific validation rules can be registered using RegisterValidation.
func New() *Validator {
	return &Validator{
		v: validator.New(),
	}
}

// NewWithRegions creates a Validator with the "region" tag registered. Empty
// values pass; combine with "required" when the field is mandatory.
func NewWithRegions(regions RegionChecker) *Validator {
	val := New()
	_ = val.RegisterValidation(RegionTag, func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if value == "" {
			return true
		}
		return regions.IsSupportedRegion(value)
	})
	return val
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Engine exposes the underlying validator, e.g. to install it as gin's
// binding validator.
func (val *Validator) Engine() *validator.Validate {
	return val.v
}
