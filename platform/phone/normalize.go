package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Classification is the oracle's verdict on a single input.
type Classification struct {
	E164     string
	Region   string
	Valid    bool
	Possible bool
}

// Classify parses input against defaultRegion and reports validity and
// possibility.
func Classify(o Oracle, input, defaultRegion string) (Classification, error) {
	number, err := o.Parse(strings.TrimSpace(input), strings.ToUpper(defaultRegion))
	if err != nil {
		return Classification{}, err
	}

	return Classification{
		E164:     o.FormatE164(number),
		Region:   phonenumbers.GetRegionCodeForNumber(number),
		Valid:    o.IsValid(number),
		Possible: o.IsPossible(number),
	}, nil
}
