package e164

import (
	"context"
	"strings"
	"time"

	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/phone"
)

// Result is an accepted number together with how it was found.
type Result struct {
	Number      string `json:"number"`
	Region      string `json:"region"`
	CallingCode int    `json:"callingCode"`
	Valid       bool   `json:"valid"`
	Possible    bool   `json:"possible"`
	Attempts    int    `json:"attempts"`
}

// Searcher runs the generate-and-test loop. The numbering plan is only
// exposed as a classifier, so numbers are drawn at random from the derived
// template and rejected until the oracle agrees with the requested constraints.
//
// The loop has no iteration cap unless maxAttempts is positive; acceptance sets
// are dense enough that it ends after a handful of draws for every region.
// Callers that need bounded latency pass a context with a deadline.
type Searcher struct {
	oracle      phone.Oracle
	deriver     *Deriver
	maxAttempts int
	log         *logger.Logger
}

// NewSearcher creates a searcher. maxAttempts <= 0 means unbounded.
func NewSearcher(oracle phone.Oracle, maxAttempts int, log *logger.Logger) *Searcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Searcher{
		oracle:      oracle,
		deriver:     NewDeriver(oracle),
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Search returns the first candidate for region whose validity and
// possibility match the request. valid without possible is rejected before
// any randomness is consumed.
func (s *Searcher) Search(ctx context.Context, src faker.Source, region string, valid, possible bool) (Result, error) {
	if valid && !possible {
		return Result{}, ErrContradictoryConstraints.WithOp("e164.search")
	}

	region = strings.ToUpper(strings.TrimSpace(region))
	if !s.oracle.IsSupportedRegion(region) {
		return Result{}, ErrUnsupportedRegion.WithOp("e164.search").WithDetails(map[string]string{"region": region})
	}

	callingCode, err := s.deriver.CallingCode(region)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	for attempt := 1; ; attempt++ {
		if s.maxAttempts > 0 && attempt > s.maxAttempts {
			return Result{}, ErrSearchExhausted.WithOp("e164.search").WithDetails(map[string]interface{}{
				"region":   region,
				"attempts": s.maxAttempts,
			})
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		tpl, err := s.deriver.Derive(region, valid, possible, src)
		if err != nil {
			return Result{}, err
		}

		num, err := s.oracle.Parse(tpl.Expand(src), region)
		if err != nil {
			continue
		}

		isValid, isPossible, ok := s.classify(num, region, valid, possible)
		if !ok {
			continue
		}

		s.log.WithContext(ctx).Generation(region, valid, possible, attempt, time.Since(start))
		return Result{
			Number:      s.oracle.FormatE164(num),
			Region:      region,
			CallingCode: callingCode,
			Valid:       isValid,
			Possible:    isPossible,
			Attempts:    attempt,
		}, nil
	}
}

// classify applies the four acceptance checks. Validity and possibility are
// independent axes, so each direction is tested on its own. A required-valid
// number must be valid for the requested region, not merely for a region that
// shares the calling code.
func (s *Searcher) classify(num *phone.Number, region string, valid, possible bool) (isValid, isPossible, ok bool) {
	isValid = s.oracle.IsValid(num)
	if valid && (!isValid || !s.oracle.IsValidForRegion(num, region)) {
		return isValid, false, false
	}
	if !valid && isValid {
		return isValid, false, false
	}

	isPossible = s.oracle.IsPossible(num)
	if possible && !isPossible {
		return isValid, isPossible, false
	}
	if !possible && isPossible {
		return isValid, isPossible, false
	}

	return isValid, isPossible, true
}
