package e164

import (
	"strconv"
	"strings"

	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/phone"
)

const (
	// fallbackNationalLength is used when the metadata has no example numbers:
	// one nonzero placeholder followed by five digit placeholders.
	fallbackNationalLength = 6
	// sharedPrefixLength is how many leading example digits a region keeps
	// when another region owns its calling code.
	sharedPrefixLength = 3
)

// Deriver maps a region to the numerify template for one search iteration.
type Deriver struct {
	oracle phone.Oracle
}

// NewDeriver creates a pattern deriver over oracle.
func NewDeriver(oracle phone.Oracle) *Deriver {
	return &Deriver{oracle: oracle}
}

// CallingCode resolves region to its country calling code.
func (d *Deriver) CallingCode(region string) (int, error) {
	code := d.oracle.CountryCodeForRegion(region)
	if code <= 0 {
		return 0, ErrUnsupportedRegion.WithDetails(map[string]string{"region": region})
	}
	return code, nil
}

// Derive builds the template: a literal "+", the calling code, then the
// national part. When possible is true the national length is taken from one
// of the region's example numbers. A valid request for a region that shares
// its calling code with a larger region (e.g. CA under +1) keeps the example's
// leading digits so the number lands in the region's own ranges. When possible
// is false the national length is one the calling code never accepts.
func (d *Deriver) Derive(region string, valid, possible bool, src faker.Source) (faker.Template, error) {
	code, err := d.CallingCode(region)
	if err != nil {
		return faker.Template{}, err
	}

	if !possible {
		length, ok := impossibleLength(d.oracle.PossibleNationalLengths(code))
		if !ok {
			return faker.Template{}, ErrNoImpossibleLength.WithDetails(map[string]string{"region": region})
		}
		return faker.Compile(buildPattern(code, "", length)), nil
	}

	examples := d.oracle.ExampleNationalNumbers(region)
	if len(examples) == 0 {
		return faker.Compile(buildPattern(code, "", fallbackNationalLength)), nil
	}

	example := faker.RandomElement(src, examples)
	prefix := ""
	if valid && d.sharesCallingCode(region, code) {
		prefix = example[:min(sharedPrefixLength, len(example)-1)]
	}
	return faker.Compile(buildPattern(code, prefix, len(example))), nil
}

// impossibleLength picks the longest length below the shortest possible one.
// When the shortest possible length is already the parser's minimum it falls
// back to the first gap in the accepted range. possible is sorted ascending.
func impossibleLength(possible []int) (int, bool) {
	if len(possible) == 0 {
		return fallbackNationalLength, true
	}
	if below := possible[0] - 1; below >= phone.MinNationalLength {
		return below, true
	}

	accepted := make(map[int]bool, len(possible))
	for _, length := range possible {
		accepted[length] = true
	}
	for length := phone.MinNationalLength; length <= phone.MaxNationalLength; length++ {
		if !accepted[length] {
			return length, true
		}
	}
	return 0, false
}

func (d *Deriver) sharesCallingCode(region string, code int) bool {
	main := d.oracle.MainRegionForCallingCode(code)
	return main != "" && !strings.EqualFold(main, region)
}

// buildPattern renders "+<code><prefix>" followed by placeholders up to
// nationalLength digits. Without a prefix the first national digit is nonzero.
func buildPattern(callingCode int, prefix string, nationalLength int) string {
	var b strings.Builder
	b.WriteByte('+')
	b.WriteString(strconv.Itoa(callingCode))
	b.WriteString(prefix)
	remaining := nationalLength - len(prefix)
	if prefix == "" {
		b.WriteRune(faker.NonZeroDigitPlaceholder)
		remaining--
	}
	b.WriteString(strings.Repeat(string(faker.DigitPlaceholder), remaining))
	return b.String()
}
