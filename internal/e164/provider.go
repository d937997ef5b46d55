// Package e164 generates fake telephone numbers in E.164 format: valid,
// merely possible, impossible, or drawn from a table of reserved safe numbers.
package e164

import (
	"context"
	"sync"

	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/phone"
)

// ProviderName is the registration key used with faker.Faker.
const ProviderName = "e164"

// legacyRegions is the default pool of the deprecated entry points.
var legacyRegions = []string{"AU", "US", "GB", "NZ"}

// Provider is the faker plugin exposing the E.164 operations.
type Provider struct {
	oracle   phone.Oracle
	searcher *Searcher
	safe     *SafeRegistry
	log      *logger.Logger

	mu  sync.RWMutex
	src faker.Source
}

// NewProvider wires a provider. It uses its own time-seeded source until a
// host binds one through faker.Faker.AddProvider.
func NewProvider(oracle phone.Oracle, safe *SafeRegistry, maxAttempts int, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &Provider{
		oracle:   oracle,
		searcher: NewSearcher(oracle, maxAttempts, log),
		safe:     safe,
		log:      log,
		src:      faker.NewSource(0),
	}
}

var (
	_ faker.Provider = (*Provider)(nil)
	_ faker.Binder   = (*Provider)(nil)
)

func (p *Provider) Name() string { return ProviderName }

// Bind replaces the random source.
func (p *Provider) Bind(src faker.Source) {
	p.mu.Lock()
	p.src = src
	p.mu.Unlock()
}

func (p *Provider) source() faker.Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.src
}

// Fork returns a provider sharing everything but the random source, which is
// an independent stream derived from this provider's.
func (p *Provider) Fork() *Provider {
	return &Provider{
		oracle:   p.oracle,
		searcher: p.searcher,
		safe:     p.safe,
		log:      p.log,
		src:      p.source().Fork(),
	}
}

// Regions returns every region E164 accepts.
func (p *Provider) Regions() []string {
	return p.oracle.SupportedRegions()
}

// SafeRegions returns the regions SafeE164 accepts.
func (p *Provider) SafeRegions() []string {
	return p.safe.Regions()
}

// Generate runs the search and returns the full result.
func (p *Provider) Generate(ctx context.Context, opts ...Option) (Result, error) {
	req := newRequest(opts)
	if req.valid && !req.possible {
		return Result{}, ErrContradictoryConstraints.WithOp("e164.generate")
	}

	src := p.source()
	region := req.region
	if region == "" {
		region = faker.RandomElement(src, p.oracle.SupportedRegions())
	}

	return p.searcher.Search(ctx, src, region, req.valid, req.possible)
}

// E164 returns a number in E.164 format. Defaults: a uniformly chosen
// supported region, valid and possible.
func (p *Provider) E164(ctx context.Context, opts ...Option) (string, error) {
	res, err := p.Generate(ctx, opts...)
	if err != nil {
		return "", err
	}
	return res.Number, nil
}

// SafeE164 returns a reserved number for region, or for a random safe region
// when region is empty.
func (p *Provider) SafeE164(region string) (string, error) {
	return p.safe.Pick(region, p.source())
}

// ExampleE164 returns the metadata example number of the given type.
func (p *Provider) ExampleE164(region string, typ phone.NumberType) (string, error) {
	if !p.oracle.IsSupportedRegion(region) {
		return "", ErrUnsupportedRegion.WithOp("e164.example").WithDetails(map[string]string{"region": region})
	}
	num, ok := p.oracle.ExampleNumber(region, typ)
	if !ok {
		return "", ErrUnknownExample.WithOp("e164.example").WithDetails(map[string]string{"region": region})
	}
	return p.oracle.FormatE164(num), nil
}

// ValidE164PhoneNumber returns a valid number for country (default: one of AU, US, GB, NZ).
//
// Deprecated: use E164.
func (p *Provider) ValidE164PhoneNumber(ctx context.Context, country string) (string, error) {
	p.log.Deprecated("ValidE164PhoneNumber", "E164")
	return p.E164(ctx, WithRegion(p.legacyRegion(country)))
}

// InvalidE164PhoneNumber returns a possible but invalid number for country
// (default: one of AU, US, GB, NZ).
//
// Deprecated: use E164 with WithValid(false).
func (p *Provider) InvalidE164PhoneNumber(ctx context.Context, country string) (string, error) {
	p.log.Deprecated("InvalidE164PhoneNumber", "E164")
	return p.E164(ctx, WithRegion(p.legacyRegion(country)), WithValid(false))
}

// E164PhoneNumber is the old three-flag form.
//
// Deprecated: use E164 with WithValid and WithPossible.
func (p *Provider) E164PhoneNumber(ctx context.Context, country string, isValid, isPossible bool) (string, error) {
	p.log.Deprecated("E164PhoneNumber", "E164")
	if isValid && !isPossible {
		return "", ErrContradictoryConstraints.WithOp("e164.generate")
	}
	return p.E164(ctx, WithRegion(p.legacyRegion(country)), WithValid(isValid), WithPossible(isPossible))
}

func (p *Provider) legacyRegion(country string) string {
	if country != "" {
		return country
	}
	return faker.RandomElement(p.source(), legacyRegions)
}

// Classify parses input (relative to region when it has no leading "+") and
// reports the oracle's verdict.
func (p *Provider) Classify(input, region string) (phone.Classification, error) {
	result, err := phone.Classify(p.oracle, input, region)
	if err != nil {
		return phone.Classification{}, ErrUnparseableNumber.WithOp("e164.classify")
	}
	return result, nil
}
