package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubRegions map[string]bool

func (s stubRegions) IsSupportedRegion(region string) bool { return s[region] }

type regionRequest struct {
	Region string `validate:"omitempty,region"`
}

type requiredRegionRequest struct {
	Region string `validate:"required,region"`
}

func TestRegionTag(t *testing.T) {
	val := NewWithRegions(stubRegions{"GB": true})

	assert.NoError(t, val.Struct(regionRequest{Region: "GB"}))
	assert.NoError(t, val.Struct(regionRequest{}), "empty region is optional")
	assert.Error(t, val.Struct(regionRequest{Region: "ZZ"}))
	assert.Error(t, val.Struct(requiredRegionRequest{}))
}

func TestVar(t *testing.T) {
	val := New()

	assert.NoError(t, val.Var("abc", "len=3"))
	assert.Error(t, val.Var("abcd", "len=3"))
}
