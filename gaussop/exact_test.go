package gaussop_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvprop/distrib"
	"github.com/katalvlaran/lvprop/gaussop"
)

func TestSampleMessage_Shrinkage(t *testing.T) {
	mean := distrib.GaussianFromMeanAndPrecision(2, 4)
	msg, err := gaussop.SampleMessage(mean, 1)
	require.NoError(t, err)

	// R = r/(r+Pm) = 1/5 scales both natural parameters.
	assert.InDelta(t, 0.8, msg.Precision, 1e-12)
	assert.InDelta(t, 1.6, msg.MeanTimesPrecision, 1e-12)
}

func TestSampleMessage_Limits(t *testing.T) {
	mean := distrib.GaussianFromMeanAndPrecision(1, 3)

	zero, err := gaussop.SampleMessage(mean, 0)
	require.NoError(t, err)
	assert.True(t, zero.IsUniform(), "zero precision carries no information")

	inf, err := gaussop.SampleMessage(mean, math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, mean, inf, "infinite precision copies the mean belief")

	pt, err := gaussop.SampleMessage(distrib.GaussianPointMass(1.5), 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, pt.GetMean(), 1e-12)
	assert.InDelta(t, 2.0, pt.Precision, 1e-12)
}

func TestSampleMessage_Errors(t *testing.T) {
	mean := distrib.GaussianFromMeanAndPrecision(0, 1)

	_, err := gaussop.SampleMessage(mean, -1)
	assert.ErrorIs(t, err, gaussop.ErrInvalidArgument)

	_, err = gaussop.SampleMessage(mean, math.NaN())
	assert.ErrorIs(t, err, gaussop.ErrInvalidArgument)

	improper := distrib.GaussianFromNatural(0, -2)
	_, err = gaussop.SampleMessage(improper, 1)
	assert.ErrorIs(t, err, gaussop.ErrImproperMessage)
}

func TestMeanMessage_Symmetry(t *testing.T) {
	g := distrib.GaussianFromMeanAndVariance(-1, 0.5)
	a, err := gaussop.SampleMessage(g, 2)
	require.NoError(t, err)
	b, err := gaussop.MeanMessage(g, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLogAverageFactor_NormalOracle(t *testing.T) {
	for _, tc := range []struct{ x, m, r float64 }{
		{0, 0, 1},
		{1.2, -0.3, 4},
		{-2, 1, 0.25},
	} {
		want := distuv.Normal{Mu: tc.m, Sigma: 1 / math.Sqrt(tc.r)}.LogProb(tc.x)
		assert.InDelta(t, want, gaussop.LogAverageFactor(tc.x, tc.m, tc.r), 1e-12)
	}
}

func TestLogAverageFactorMean_CollapsesVariance(t *testing.T) {
	mean := distrib.GaussianFromMeanAndVariance(0.5, 2)
	want := distuv.Normal{Mu: 0.5, Sigma: math.Sqrt(2 + 1.0/4)}.LogProb(1.0)
	assert.InDelta(t, want, gaussop.LogAverageFactorMean(1.0, mean, 4), 1e-12)

	pt := distrib.GaussianPointMass(0.5)
	assert.InDelta(t,
		gaussop.LogAverageFactor(1.0, 0.5, 4),
		gaussop.LogAverageFactorMean(1.0, pt, 4), 1e-12)
}

// A very sharp Gamma belief about the precision must reproduce the
// fixed-precision density: the Student-t collapses onto the Normal.
func TestLogAverageFactorPrecision_SharpLimit(t *testing.T) {
	sharp := distrib.GammaFromShapeAndRate(2e6, 1e6) // mean 2, tiny variance
	want := gaussop.LogAverageFactor(1.0, 0.2, 2)
	got := gaussop.LogAverageFactorPrecision(1.0, 0.2, sharp)
	assert.InDelta(t, want, got, 1e-4)

	pt := distrib.GammaPointMass(2)
	assert.InDelta(t, want, gaussop.LogAverageFactorPrecision(1.0, 0.2, pt), 1e-12)
}

// Evidence must decay monotonically as the observation moves away from
// the mean under a heavy-tailed precision belief.
func TestLogAverageFactorPrecision_Monotone(t *testing.T) {
	prec := distrib.GammaFromShapeAndRate(1, 1)
	prev := math.Inf(1)
	for _, d := range []float64{0, 0.5, 1, 2, 4, 8} {
		cur := gaussop.LogAverageFactorPrecision(d, 0, prec)
		assert.Less(t, cur, prev, "evidence must fall with distance d=%v", d)
		prev = cur
	}
}
