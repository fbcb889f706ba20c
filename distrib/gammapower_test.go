package distrib_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvprop/distrib"
)

// TestGammaPower_UnitPowerMatchesGamma checks that Power=1 reproduces the
// plain Gamma law.
func TestGammaPower_UnitPowerMatchesGamma(t *testing.T) {
	gp := distrib.GammaPowerFromShapeAndRate(3, 2, 1)
	g := distrib.GammaFromShapeAndRate(3, 2)

	assert.InDelta(t, g.GetMean(), gp.GetMean(), 1e-12)
	m, v := gp.GetMeanAndVariance()
	gm, gv := g.GetMeanAndVariance()
	assert.InDelta(t, gm, m, 1e-12)
	assert.InDelta(t, gv, v, 1e-12)
	assert.InDelta(t, g.LogProb(1.7), gp.LogProb(1.7), 1e-12)
}

// TestGammaPower_InverseGammaMean checks the Power=-1 (inverse-Gamma)
// moment: E[1/X] = rate/(shape-1).
func TestGammaPower_InverseGammaMean(t *testing.T) {
	gp := distrib.GammaPowerFromShapeAndRate(3, 2, -1)
	assert.InDelta(t, 1.0, gp.GetMean(), 1e-12, "E[X^-1] = 2/(3-1)")

	heavy := distrib.GammaPowerFromShapeAndRate(0.5, 2, -1)
	assert.True(t, math.IsInf(heavy.GetMean(), 1), "shape+power ≤ 0 has no mean")
}

// TestGammaPower_PowerMismatch verifies the invalid-argument error.
func TestGammaPower_PowerMismatch(t *testing.T) {
	a := distrib.GammaPowerFromShapeAndRate(2, 1, 2)
	b := distrib.GammaPowerFromShapeAndRate(2, 1, -1)

	_, err := a.Times(b)
	require.ErrorIs(t, err, distrib.ErrPowerMismatch)
	_, err = a.Ratio(b, false)
	require.ErrorIs(t, err, distrib.ErrPowerMismatch)
}

// TestGammaPower_ProductRatioRoundTrip encodes Ratio(Times(A,B),B) ≈ A
// at a shared power.
func TestGammaPower_ProductRatioRoundTrip(t *testing.T) {
	a := distrib.GammaPowerFromShapeAndRate(3, 2, 2)
	b := distrib.GammaPowerFromShapeAndRate(4, 1, 2)

	p, err := a.Times(b)
	require.NoError(t, err)
	got, err := p.Ratio(b, false)
	require.NoError(t, err)
	assert.InDelta(t, a.Shape, got.Shape, 1e-12)
	assert.InDelta(t, a.Rate, got.Rate, 1e-12)
}

// TestGammaPower_Uniform checks the zero-information representation
// (shape = power, rate = 0) and its algebraic neutrality.
func TestGammaPower_Uniform(t *testing.T) {
	u := distrib.GammaPowerUniform(2)
	require.True(t, u.IsUniform())
	assert.Equal(t, 0.0, u.LogProb(3), "uniform has constant density")

	a := distrib.GammaPowerFromShapeAndRate(3, 2, 2)
	p, err := a.Times(u)
	require.NoError(t, err)
	assert.Equal(t, a.Shape, p.Shape, "uniform is the product identity")
	assert.Equal(t, a.Rate, p.Rate)
}
