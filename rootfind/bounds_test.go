package rootfind_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvprop/rootfind"
)

// TestIntegrationBounds_UnitCase is the hand-checkable case
// m=0, v=1, a=2, b=1: the bounds must straddle the mode and sit exactly
// LogMargin below the mode value.
func TestIntegrationBounds_UnitCase(t *testing.T) {
	lower, mode, upper, err := rootfind.IntegrationBoundsForPrecision(0, 1, 2, 1)
	require.NoError(t, err)

	require.Less(t, lower, mode)
	require.Less(t, mode, upper)
	require.Positive(t, lower)

	f, df := rootfind.PrecisionLogIntegrand(0, 1, 2, 1)
	assert.InDelta(t, 0.0, df(mode), 1e-8, "mode must be stationary")
	target := f(mode) - rootfind.LogMargin
	assert.InDelta(t, target, f(lower), 1e-6, "lower bound sits on the -50 level")
	assert.InDelta(t, target, f(upper), 1e-6, "upper bound sits on the -50 level")
}

// TestIntegrationBounds_OffsetMeans uses a nonzero mean difference; the
// quartic/cubic machinery must still produce a valid bracket.
func TestIntegrationBounds_OffsetMeans(t *testing.T) {
	for _, tc := range []struct {
		name       string
		m, v, a, b float64
	}{
		{"moderate", 2, 0.5, 3, 2},
		{"sharp-prior", 0.1, 2, 50, 50},
		{"small-shape", -1, 1, 0.25, 0.5},
		{"zero-variance", 1.5, 0, 2, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lower, mode, upper, err := rootfind.IntegrationBoundsForPrecision(tc.m, tc.v, tc.a, tc.b)
			require.NoError(t, err)
			require.Less(t, lower, mode)
			require.Less(t, mode, upper)

			f, _ := rootfind.PrecisionLogIntegrand(tc.m, tc.v, tc.a, tc.b)
			target := f(mode) - rootfind.LogMargin
			assert.InDelta(t, target, f(lower), 1e-6)
			assert.InDelta(t, target, f(upper), 1e-6)
		})
	}
}

// TestIntegrationBounds_MassCoverage checks the margin's purpose: the
// integrand mass outside [lower, upper] is negligible relative to a
// crude in-bounds Riemann sum.
func TestIntegrationBounds_MassCoverage(t *testing.T) {
	lower, mode, upper, err := rootfind.IntegrationBoundsForPrecision(0.5, 1, 2, 1)
	require.NoError(t, err)

	f, _ := rootfind.PrecisionLogIntegrand(0.5, 1, 2, 1)
	shift := f(mode)
	const n = 4000
	h := (upper - lower) / n
	sum := 0.0
	for i := 0; i <= n; i++ {
		sum += math.Exp(f(lower+float64(i)*h) - shift)
	}
	sum *= h
	// Tail estimate: integrand ≤ exp(-LogMargin) outside the bounds over a
	// comparable width.
	tail := math.Exp(-rootfind.LogMargin) * (upper - lower)
	assert.Less(t, tail/sum, 1e-15, "mass outside the bounds must be negligible")
}

// TestIntegrationBounds_InvalidInput covers the error contract.
func TestIntegrationBounds_InvalidInput(t *testing.T) {
	_, _, _, err := rootfind.IntegrationBoundsForPrecision(0, 1, 2, 0)
	assert.ErrorIs(t, err, rootfind.ErrNoMode, "zero rate has no mode")

	_, _, _, err = rootfind.IntegrationBoundsForPrecision(0, 1, -0.75, 1)
	assert.ErrorIs(t, err, rootfind.ErrNoMode, "a ≤ -1/2 is unbounded at 0")

	_, _, _, err = rootfind.IntegrationBoundsForPrecision(math.NaN(), 1, 2, 1)
	assert.ErrorIs(t, err, rootfind.ErrNoMode)
}
