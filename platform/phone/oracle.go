// Package phone provides phone number utilities backed by the libphonenumber
// metadata. This is part of the platform layer and contains no business logic.
package phone

import (
	"sort"
	"strings"
	"sync"

	"github.com/nyaruka/phonenumbers"
)

// Bounds on the national significant number length accepted by Parse.
const (
	MinNationalLength = phonenumbers.MIN_LENGTH_FOR_NSN
	MaxNationalLength = phonenumbers.MAX_LENGTH_FOR_NSN
)

// Number is a parsed phone number.
type Number = phonenumbers.PhoneNumber

// NumberType mirrors the metadata number categories.
type NumberType = phonenumbers.PhoneNumberType

// exampleTypes are the categories whose example numbers seed the length
// classes offered to the pattern deriver.
var exampleTypes = []NumberType{
	phonenumbers.MOBILE,
	phonenumbers.FIXED_LINE,
	phonenumbers.TOLL_FREE,
	phonenumbers.VOIP,
}

// Oracle answers parse, validity and possibility questions against the
// numbering-plan metadata.
type Oracle interface {
	Parse(raw, region string) (*Number, error)
	IsValid(num *Number) bool
	IsValidForRegion(num *Number, region string) bool
	IsPossible(num *Number) bool
	CountryCodeForRegion(region string) int
	FormatE164(num *Number) string
	SupportedRegions() []string
	IsSupportedRegion(region string) bool
	MainRegionForCallingCode(code int) string
	ExampleNationalNumbers(region string) []string
	PossibleNationalLengths(callingCode int) []int
	ExampleNumber(region string, typ NumberType) (*Number, bool)
}

// LibOracle implements Oracle on top of github.com/nyaruka/phonenumbers.
// The region list and length classes are computed once and shared.
type LibOracle struct {
	once      sync.Once
	regions   []string
	regionSet map[string]bool

	examplesMu sync.RWMutex
	examples   map[string][]string

	lengthsMu sync.RWMutex
	lengths   map[int][]int
}

// NewOracle returns the metadata-backed oracle.
func NewOracle() *LibOracle {
	return &LibOracle{
		examples: make(map[string][]string),
		lengths:  make(map[int][]int),
	}
}

var _ Oracle = (*LibOracle)(nil)

func (o *LibOracle) Parse(raw, region string) (*Number, error) {
	return phonenumbers.Parse(raw, region)
}

func (o *LibOracle) IsValid(num *Number) bool {
	return phonenumbers.IsValidNumber(num)
}

func (o *LibOracle) IsValidForRegion(num *Number, region string) bool {
	return phonenumbers.IsValidNumberForRegion(num, region)
}

func (o *LibOracle) IsPossible(num *Number) bool {
	return phonenumbers.IsPossibleNumber(num)
}

// CountryCodeForRegion returns 0 for regions the metadata does not know.
func (o *LibOracle) CountryCodeForRegion(region string) int {
	return phonenumbers.GetCountryCodeForRegion(strings.ToUpper(region))
}

func (o *LibOracle) FormatE164(num *Number) string {
	return phonenumbers.Format(num, phonenumbers.E164)
}

// SupportedRegions returns the sorted list of geographic region codes.
func (o *LibOracle) SupportedRegions() []string {
	o.loadRegions()
	out := make([]string, len(o.regions))
	copy(out, o.regions)
	return out
}

func (o *LibOracle) IsSupportedRegion(region string) bool {
	o.loadRegions()
	return o.regionSet[strings.ToUpper(region)]
}

func (o *LibOracle) loadRegions() {
	o.once.Do(func() {
		o.regionSet = phonenumbers.GetSupportedRegions()
		o.regions = make([]string, 0, len(o.regionSet))
		for region := range o.regionSet {
			o.regions = append(o.regions, region)
		}
		sort.Strings(o.regions)
	})
}

// MainRegionForCallingCode returns the region that owns code's formatting
// rules, e.g. "US" for 1 and "GB" for 44.
func (o *LibOracle) MainRegionForCallingCode(code int) string {
	return phonenumbers.GetRegionCodeForCountryCode(code)
}

// ExampleNationalNumbers returns the distinct national significant numbers of
// the region's example numbers. Empty when the metadata carries no examples.
func (o *LibOracle) ExampleNationalNumbers(region string) []string {
	region = strings.ToUpper(region)

	o.examplesMu.RLock()
	cached, ok := o.examples[region]
	o.examplesMu.RUnlock()
	if ok {
		return cached
	}

	seen := make(map[string]bool)
	examples := make([]string, 0, len(exampleTypes))
	for _, typ := range exampleTypes {
		num, ok := o.ExampleNumber(region, typ)
		if !ok {
			continue
		}
		nsn := phonenumbers.GetNationalSignificantNumber(num)
		if nsn == "" || seen[nsn] {
			continue
		}
		seen[nsn] = true
		examples = append(examples, nsn)
	}
	sort.Strings(examples)

	o.examplesMu.Lock()
	o.examples[region] = examples
	o.examplesMu.Unlock()

	return examples
}

// PossibleNationalLengths returns the national significant number lengths,
// between the parser's bounds, that the metadata accepts as possible for
// callingCode. Local-only lengths are included. Possibility depends only on
// the length, so one probe per length is enough.
func (o *LibOracle) PossibleNationalLengths(callingCode int) []int {
	o.lengthsMu.RLock()
	cached, ok := o.lengths[callingCode]
	o.lengthsMu.RUnlock()
	if ok {
		return cached
	}

	code := int32(callingCode)
	var national uint64 = 1
	lengths := make([]int, 0, 4)
	for length := 1; length <= MaxNationalLength; length++ {
		if length >= MinNationalLength {
			probe := national
			num := &Number{CountryCode: &code, NationalNumber: &probe}
			if phonenumbers.IsPossibleNumber(num) {
				lengths = append(lengths, length)
			}
		}
		national *= 10
	}

	o.lengthsMu.Lock()
	o.lengths[callingCode] = lengths
	o.lengthsMu.Unlock()

	return lengths
}

// ExampleNumber returns the metadata example number of the given type.
func (o *LibOracle) ExampleNumber(region string, typ NumberType) (*Number, bool) {
	num := phonenumbers.GetExampleNumberForType(strings.ToUpper(region), typ)
	if num == nil {
		return nil, false
	}
	return num, true
}

// ParseNumberType maps a lowercase category name to a NumberType.
func ParseNumberType(name string) (NumberType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mobile":
		return phonenumbers.MOBILE, true
	case "fixed_line", "fixed":
		return phonenumbers.FIXED_LINE, true
	case "toll_free":
		return phonenumbers.TOLL_FREE, true
	case "premium_rate":
		return phonenumbers.PREMIUM_RATE, true
	case "shared_cost":
		return phonenumbers.SHARED_COST, true
	case "voip":
		return phonenumbers.VOIP, true
	case "personal_number":
		return phonenumbers.PERSONAL_NUMBER, true
	case "pager":
		return phonenumbers.PAGER, true
	case "uan":
		return phonenumbers.UAN, true
	case "voicemail":
		return phonenumbers.VOICEMAIL, true
	}
	return phonenumbers.UNKNOWN, false
}
