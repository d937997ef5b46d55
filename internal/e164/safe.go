package e164

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"fake_e164_backend/platform/faker"

	"gopkg.in/yaml.v3"
)

//go:embed safe_numbers.yaml
var safeNumbersYAML []byte

// SafeRegistry holds numbers that are reserved for fiction and testing and
// never resolve to a real subscriber. It is read-only after construction.
type SafeRegistry struct {
	numbers map[string][]string
	regions []string
}

// LoadSafeRegistry decodes the embedded table.
func LoadSafeRegistry() (*SafeRegistry, error) {
	return ParseSafeRegistry(safeNumbersYAML)
}

// MustLoadSafeRegistry is LoadSafeRegistry for process start-up.
func MustLoadSafeRegistry() *SafeRegistry {
	reg, err := LoadSafeRegistry()
	if err != nil {
		panic("failed to load safe numbers: " + err.Error())
	}
	return reg
}

// ParseSafeRegistry decodes a YAML mapping of region code to E.164 literals.
func ParseSafeRegistry(data []byte) (*SafeRegistry, error) {
	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode safe numbers: %w", err)
	}

	reg := &SafeRegistry{
		numbers: make(map[string][]string, len(raw)),
		regions: make([]string, 0, len(raw)),
	}
	for region, numbers := range raw {
		region = strings.ToUpper(strings.TrimSpace(region))
		if region == "" {
			return nil, fmt.Errorf("safe numbers: empty region key")
		}
		if len(numbers) == 0 {
			return nil, fmt.Errorf("safe numbers: region %s has no entries", region)
		}
		for _, n := range numbers {
			if !strings.HasPrefix(n, "+") {
				return nil, fmt.Errorf("safe numbers: %q in %s is not in E.164 form", n, region)
			}
		}
		reg.numbers[region] = append([]string(nil), numbers...)
		reg.regions = append(reg.regions, region)
	}
	if len(reg.regions) == 0 {
		return nil, fmt.Errorf("safe numbers: table is empty")
	}
	sort.Strings(reg.regions)

	return reg, nil
}

// Regions returns the populated region codes, sorted.
func (r *SafeRegistry) Regions() []string {
	return append([]string(nil), r.regions...)
}

// Numbers returns a copy of the list for region.
func (r *SafeRegistry) Numbers(region string) ([]string, bool) {
	numbers, ok := r.numbers[strings.ToUpper(region)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), numbers...), true
}

// Pick returns a uniformly chosen number for region, or for a uniformly
// chosen region when region is empty.
func (r *SafeRegistry) Pick(region string, src faker.Source) (string, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = faker.RandomElement(src, r.regions)
	}

	numbers, ok := r.numbers[region]
	if !ok {
		return "", ErrUnknownSafeRegion.WithOp("e164.safe").WithDetails(map[string]interface{}{
			"region":    region,
			"available": r.regions,
		})
	}
	return faker.RandomElement(src, numbers), nil
}
