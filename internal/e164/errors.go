package e164

import "fake_e164_backend/platform/apperr"

var (
	// ErrContradictoryConstraints is returned when a number is requested valid
	// but impossible. Validity implies possibility, so the search could never end.
	ErrContradictoryConstraints = apperr.Precondition("a number cannot be valid and impossible at the same time")
	// ErrUnsupportedRegion is returned for region codes the numbering plan does not know.
	ErrUnsupportedRegion = apperr.Validation("unsupported region")
	// ErrNoImpossibleLength is returned when every parseable national length is
	// possible for the region's calling code.
	ErrNoImpossibleLength = apperr.Precondition("region has no impossible national length")
	// ErrSearchExhausted is returned when a capped search runs out of attempts.
	ErrSearchExhausted = apperr.Exhausted("no acceptable number found within the attempt limit")
	// ErrUnknownSafeRegion is returned when the safe table has no entry for a region.
	ErrUnknownSafeRegion = apperr.NotFound("no safe numbers for region")
	// ErrUnknownExample is returned when the metadata has no example of the requested type.
	ErrUnknownExample = apperr.NotFound("no example number for region and type")
	// ErrUnparseableNumber is returned when a submitted number cannot be parsed.
	ErrUnparseableNumber = apperr.Validation("number could not be parsed")
)
