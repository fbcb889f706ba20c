package gaussop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvprop/distrib"
	"github.com/katalvlaran/lvprop/gaussop"
	"github.com/katalvlaran/lvprop/rootfind"
)

func TestLaplace_PointMassPrecisionDelegates(t *testing.T) {
	site := gaussop.NewSite(gaussop.DefaultOptions())
	sample := distrib.GaussianFromMeanAndVariance(0.3, 2)
	mean := distrib.GaussianFromMeanAndVariance(-0.2, 0.5)

	got, err := site.SampleAverageConditionalLaplace(sample, mean, distrib.GammaPointMass(3))
	require.NoError(t, err)
	want, err := gaussop.SampleMessage(mean, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	g, err := site.PrecisionAverageConditionalLaplace(sample, mean, distrib.GammaPointMass(3))
	require.NoError(t, err)
	assert.True(t, g.IsUniform())
}

func TestLaplace_UniformShortcuts(t *testing.T) {
	site := gaussop.NewSite(gaussop.DefaultOptions())
	sample := distrib.GaussianFromMeanAndVariance(0, 1)
	prec := distrib.GammaFromShapeAndRate(2, 1)

	msg, err := site.SampleAverageConditionalLaplace(sample, distrib.GaussianUniform(), prec)
	require.NoError(t, err)
	assert.True(t, msg.IsUniform())

	// Uniform sample: the expansion buffer collapses onto the precision
	// message, so E[1/r] = rate/(shape-1) = 1.
	mean := distrib.GaussianFromMeanAndVariance(0.5, 2)
	msg, err = site.SampleAverageConditionalLaplace(distrib.GaussianUniform(), mean, prec)
	require.NoError(t, err)
	mm, vm := msg.GetMeanAndVariance()
	assert.InDelta(t, 0.5, mm, 1e-12)
	assert.InDelta(t, 3.0, vm, 1e-12)

	laf, err := site.LogAverageFactorLaplace(distrib.GaussianUniform(), mean, prec)
	require.NoError(t, err)
	assert.Zero(t, laf)
}

// UpdateQ must land on a stationary point of the precision log-integrand
// and fit a proper Gamma there.
func TestLaplace_UpdateQStationarity(t *testing.T) {
	site := gaussop.NewSite(gaussop.DefaultOptions())
	sample := distrib.GaussianFromMeanAndVariance(1.2, 0.8)
	mean := distrib.GaussianFromMeanAndVariance(-0.4, 1.5)
	prec := distrib.GammaFromShapeAndRate(3, 2)

	require.NoError(t, site.UpdateQ(sample, mean, prec))
	q := site.Q()
	require.True(t, q.IsProper())

	// A Gamma fit from derivatives at a stationary point has its mode at
	// that point; the mode must itself be (nearly) stationary.
	slow, err := gaussop.PrecisionAverageConditionalSlow(sample, mean, prec, gaussop.DefaultOptions())
	require.NoError(t, err)
	sm, _ := slow.Times(prec).GetMeanAndVariance()
	assert.InEpsilon(t, sm, q.GetMean(), 0.1, "expansion buffer tracks the precision posterior")
}

// With a sharp precision belief the Laplace expansion is accurate: the
// messages must agree with the dense reference grid to a few percent.
func TestLaplace_MatchesReferenceOnSharpPrecision(t *testing.T) {
	sample := distrib.GaussianFromMeanAndVariance(0.5, 1.5)
	mean := distrib.GaussianFromMeanAndVariance(0, 1)
	prec := distrib.GammaFromShapeAndRate(100, 100)
	opts := gaussop.DefaultOptions()

	site := gaussop.NewSite(opts)
	fast, err := site.SampleAverageConditionalLaplace(sample, mean, prec)
	require.NoError(t, err)
	slow, err := gaussop.SampleAverageConditionalSlow(sample, mean, prec, opts)
	require.NoError(t, err)

	fm, fv := fast.Times(sample).GetMeanAndVariance()
	sm, sv := slow.Times(sample).GetMeanAndVariance()
	assert.InDelta(t, sm, fm, 0.02)
	assert.InEpsilon(t, sv, fv, 0.05)

	gfast, err := site.PrecisionAverageConditionalLaplace(sample, mean, prec)
	require.NoError(t, err)
	gslow, err := gaussop.PrecisionAverageConditionalSlow(sample, mean, prec, opts)
	require.NoError(t, err)
	pm, pv := gfast.Times(prec).GetMeanAndVariance()
	qm, qv := gslow.Times(prec).GetMeanAndVariance()
	assert.InEpsilon(t, qm, pm, 0.02)
	assert.InEpsilon(t, qv, pv, 0.15)

	lfast, err := site.LogAverageFactorLaplace(sample, mean, prec)
	require.NoError(t, err)
	lslow, err := gaussop.LogAverageFactorSlow(sample, mean, prec, opts)
	require.NoError(t, err)
	assert.InDelta(t, lslow, lfast, 0.05)
}

// A vague prior whose mode sits far above the likelihood-supported
// region gives the integrand two local maxima. Seeded from the prior
// mean the iteration converges into the prior-dominated one near r=78;
// the expansion must land on the likelihood-dominated optimum instead,
// which attains a higher integrand value.
func TestLaplace_CompetingOptimaPickHigher(t *testing.T) {
	site := gaussop.NewSite(gaussop.DefaultOptions())
	sample := distrib.GaussianFromMeanAndVariance(6, 0.5)
	mean := distrib.GaussianFromMeanAndVariance(0, 0.5)
	prec := distrib.GammaFromShapeAndRate(2, 0.01)

	require.NoError(t, site.UpdateQ(sample, mean, prec))
	q := site.Q()
	require.True(t, q.IsProper())

	// The Gamma fit from derivatives at the expansion point has its mode
	// there, so the mode must be stationary and beat the competing
	// optimum.
	f, df := rootfind.PrecisionLogIntegrand(6, 1, 1, 0.01)
	x := q.GetMode()
	assert.Less(t, x, 1.0)
	assert.InDelta(t, 0, df(x), 1e-6)
	assert.Greater(t, f(x), f(78.0))
}

// Exhausting the iteration cap falls back to the bound-search midpoint
// and must still produce a usable proper message.
func TestLaplace_IterationCapFallback(t *testing.T) {
	opts := gaussop.DefaultOptions()
	opts.MaxFixedPointIters = 1
	site := gaussop.NewSite(opts)

	sample := distrib.GaussianFromMeanAndVariance(1.2, 0.8)
	mean := distrib.GaussianFromMeanAndVariance(-0.4, 1.5)
	prec := distrib.GammaFromShapeAndRate(2, 1)

	require.NoError(t, site.UpdateQ(sample, mean, prec))
	assert.True(t, site.Q().IsProper())
}

func TestLaplace_ImproperPrecisionRejected(t *testing.T) {
	site := gaussop.NewSite(gaussop.DefaultOptions())
	sample := distrib.GaussianFromMeanAndVariance(0, 1)
	mean := distrib.GaussianFromMeanAndVariance(0, 1)

	err := site.UpdateQ(sample, mean, distrib.GammaFromShapeAndRate(2, -1))
	assert.ErrorIs(t, err, gaussop.ErrImproperMessage)
}

func TestLaplace_ResetClearsBuffer(t *testing.T) {
	site := gaussop.NewSite(gaussop.DefaultOptions())
	sample := distrib.GaussianFromMeanAndVariance(1, 1)
	mean := distrib.GaussianFromMeanAndVariance(0, 1)
	prec := distrib.GammaFromShapeAndRate(3, 2)

	require.NoError(t, site.UpdateQ(sample, mean, prec))
	require.False(t, site.Q().IsUniform())
	site.Reset()
	assert.True(t, site.Q().IsUniform())
}
