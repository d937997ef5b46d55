package e164

import (
	"sync/atomic"

	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/phone"
)

// countingSource records how many draws were made.
type countingSource struct {
	inner faker.Source
	draws atomic.Int64
}

func newCountingSource(seed int64) *countingSource {
	return &countingSource{inner: faker.NewSource(seed)}
}

func (s *countingSource) Intn(n int) int {
	s.draws.Add(1)
	return s.inner.Intn(n)
}

func (s *countingSource) Numerify(pattern string) string {
	s.draws.Add(1)
	return s.inner.Numerify(pattern)
}

func (s *countingSource) Fork() faker.Source { return s.inner.Fork() }

// neverValidOracle reports every number invalid.
type neverValidOracle struct {
	phone.Oracle
}

func (neverValidOracle) IsValid(*phone.Number) bool                 { return false }
func (neverValidOracle) IsValidForRegion(*phone.Number, string) bool { return false }

// noExamplesOracle hides the metadata examples.
type noExamplesOracle struct {
	phone.Oracle
}

func (noExamplesOracle) ExampleNationalNumbers(string) []string { return nil }

// allPossibleOracle reports every parseable length as possible.
type allPossibleOracle struct {
	phone.Oracle
}

func (allPossibleOracle) PossibleNationalLengths(int) []int {
	lengths := make([]int, 0, phone.MaxNationalLength)
	for l := phone.MinNationalLength; l <= phone.MaxNationalLength; l++ {
		lengths = append(lengths, l)
	}
	return lengths
}

var testOracle = phone.NewOracle()
