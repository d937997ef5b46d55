package e164

import (
	"context"
	"strings"
	"testing"
	"time"

	"fake_e164_backend/platform/apperr"
	"fake_e164_backend/platform/faker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchValidUS(t *testing.T) {
	s := NewSearcher(testOracle, 10000, nil)

	res, err := s.Search(context.Background(), faker.NewSource(11), "US", true, true)
	require.NoError(t, err)

	assert.Regexp(t, `^\+1\d{10}$`, res.Number)
	assert.Equal(t, "US", res.Region)
	assert.Equal(t, 1, res.CallingCode)
	assert.True(t, res.Valid)
	assert.True(t, res.Possible)
	assert.GreaterOrEqual(t, res.Attempts, 1)

	num, err := testOracle.Parse(res.Number, "")
	require.NoError(t, err)
	assert.True(t, testOracle.IsValidForRegion(num, "US"))
}

func TestSearchModesAcrossAllRegions(t *testing.T) {
	if testing.Short() {
		t.Skip("sweeps every supported region")
	}

	modes := []struct {
		name            string
		valid, possible bool
	}{
		{"valid", true, true},
		{"invalid", false, true},
		{"impossible", false, false},
	}

	s := NewSearcher(testOracle, 200000, nil)
	src := faker.NewSource(2024)

	for _, region := range testOracle.SupportedRegions() {
		for _, mode := range modes {
			t.Run(region+"/"+mode.name, func(t *testing.T) {
				res, err := s.Search(context.Background(), src, region, mode.valid, mode.possible)
				require.NoError(t, err)
				require.True(t, strings.HasPrefix(res.Number, "+"))

				num, err := testOracle.Parse(res.Number, "")
				require.NoError(t, err)
				assert.Equal(t, res.Number, testOracle.FormatE164(num), "E.164 round trip")

				assert.Equal(t, mode.possible, testOracle.IsPossible(num), res.Number)
				if mode.valid {
					assert.True(t, testOracle.IsValidForRegion(num, region), res.Number)
				} else {
					assert.False(t, testOracle.IsValid(num), res.Number)
				}
				assert.Equal(t, testOracle.CountryCodeForRegion(region), int(num.GetCountryCode()))
			})
		}
	}
}

func TestSearchInvalidForSharedCallingCodeRegions(t *testing.T) {
	s := NewSearcher(testOracle, 10000, nil)

	for _, region := range []string{"VA", "AX", "SJ", "TA", "CA"} {
		res, err := s.Search(context.Background(), faker.NewSource(5), region, false, true)
		require.NoError(t, err, region)

		num, err := testOracle.Parse(res.Number, "")
		require.NoError(t, err, region)
		assert.False(t, testOracle.IsValid(num), res.Number)
		assert.True(t, testOracle.IsPossible(num), res.Number)
	}
}

func TestSearchImpossibleTerminatesWhereLongNumbersArePossible(t *testing.T) {
	s := NewSearcher(testOracle, 0, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, region := range []string{"JP", "ID"} {
		res, err := s.Search(ctx, faker.NewSource(7), region, false, false)
		require.NoError(t, err, region)

		num, err := testOracle.Parse(res.Number, "")
		require.NoError(t, err, region)
		assert.False(t, testOracle.IsPossible(num), res.Number)
		assert.Equal(t, 1, res.Attempts, res.Number)
	}
}

func TestSearchRejectsContradictionBeforeDrawing(t *testing.T) {
	s := NewSearcher(testOracle, 0, nil)
	src := newCountingSource(1)

	_, err := s.Search(context.Background(), src, "US", true, false)

	require.ErrorIs(t, err, ErrContradictoryConstraints)
	assert.Equal(t, apperr.KindPrecondition, apperr.GetKind(err))
	assert.Zero(t, src.draws.Load())
}

func TestSearchUnsupportedRegion(t *testing.T) {
	s := NewSearcher(testOracle, 0, nil)

	_, err := s.Search(context.Background(), faker.NewSource(1), "ZZ", true, true)
	assert.ErrorIs(t, err, ErrUnsupportedRegion)
}

func TestSearchNormalizesRegionCase(t *testing.T) {
	s := NewSearcher(testOracle, 10000, nil)

	res, err := s.Search(context.Background(), faker.NewSource(3), " gb ", true, true)
	require.NoError(t, err)
	assert.Equal(t, "GB", res.Region)
	assert.True(t, strings.HasPrefix(res.Number, "+44"))
}

func TestSearchExhausted(t *testing.T) {
	s := NewSearcher(neverValidOracle{testOracle}, 25, nil)

	_, err := s.Search(context.Background(), faker.NewSource(1), "AU", true, true)

	require.ErrorIs(t, err, ErrSearchExhausted)
	assert.Equal(t, apperr.KindExhausted, apperr.GetKind(err))
}

func TestSearchHonoursCancellation(t *testing.T) {
	s := NewSearcher(neverValidOracle{testOracle}, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, faker.NewSource(1), "AU", true, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchIsDeterministicForSeed(t *testing.T) {
	s := NewSearcher(testOracle, 10000, nil)

	a, err := s.Search(context.Background(), faker.NewSource(77), "NZ", false, true)
	require.NoError(t, err)
	b, err := s.Search(context.Background(), faker.NewSource(77), "NZ", false, true)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
