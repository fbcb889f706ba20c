package gaussop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvprop/distrib"
	"github.com/katalvlaran/lvprop/rootfind"
)

// mixtureGate selects the numerically preferred accumulation branch:
// when the incoming message precision exceeds the likelihood precision
// by this factor, the posterior is dominated by the incoming message and
// the ratio against it would cancel catastrophically; the per-node
// likelihood mixture is accumulated directly instead.
const mixtureGate = 1e8

// dominanceEps declares the reweighted proposal degenerate when a single
// node carries more than (1 - dominanceEps) of the total mass.
const dominanceEps = 1e-12

// quadNodes holds the reweighted precision grid of one message
// computation: nodes, full log-weights (quadrature weight + importance
// correction + per-node evidence) and shifted linear weights.
type quadNodes struct {
	rs []float64
	lw []float64
	w  []float64
}

// precisionNodes builds the quadrature grid for the current messages.
//
// The proposal is the precision marginal - the incoming precision
// message times the site's expansion buffer - falling back to the
// message alone when the product is improper. Each node is reweighted by
// precision.LogProb(node) − proposal.LogProb(node) to correct for
// sampling the marginal, plus the per-node evidence
// logZ(r) = log N(mx−mm; 0, vx+vm+1/r).
//
// If the reweighted grid collapses onto a single dominant node, the
// proposal missed the integrand: the grid is rebuilt once around that
// node with unit relative variance.
func (s *Site) precisionNodes(mx, vx, mm, vm float64, precision distrib.Gamma) (*quadNodes, error) {
	d := mx - mm
	vTot := vx + vm
	prop := precision.Times(s.q)
	if prop.IsPointMass() || !prop.IsProper() {
		prop = precision
	}
	for attempt := 0; ; attempt++ {
		rs, ws, err := rootfind.GammaNodesAndWeights(prop.Shape, prop.Rate, s.opts.QuadratureNodeCount)
		if err != nil {
			return nil, fmt.Errorf("quadrature proposal shape=%v rate=%v: %w", prop.Shape, prop.Rate, err)
		}
		n := len(rs)
		lw := make([]float64, n)
		for i, r := range rs {
			u := vTot + 1/r
			lz := -0.5*math.Log(2*math.Pi*u) - 0.5*d*d/u
			lw[i] = math.Log(ws[i]) + precision.LogProb(r) - prop.LogProb(r) + lz
		}
		shift := floats.Max(lw)
		if math.IsInf(shift, -1) {
			return nil, fmt.Errorf("mean distance %v, combined variance %v: %w", d, vTot, ErrDegenerateEvidence)
		}
		w := make([]float64, n)
		wsum, maxI := 0.0, 0
		for i, l := range lw {
			w[i] = math.Exp(l - shift)
			wsum += w[i]
			if w[i] > w[maxI] {
				maxI = i
			}
		}
		if attempt == 0 && n > 1 && w[maxI] > (1-dominanceEps)*wsum {
			rstar := rs[maxI]
			prop = distrib.GammaFromMeanAndVariance(rstar, rstar*rstar)
			continue
		}
		return &quadNodes{rs: rs, lw: lw, w: w}, nil
	}
}

// messageToSample moment-matches the sample posterior over a weighted
// precision grid and divides out the incoming sample message. Shared by
// the quadrature and reference operators.
func messageToSample(sample, mean distrib.Gaussian, rs, w []float64, forceProper bool) distrib.Gaussian {
	mm, vm := mean.GetMeanAndVariance()
	rbar := stat.Mean(rs, w)

	likPrec := 1 / (vm + 1/rbar)
	if sample.IsPointMass() || sample.Precision >= mixtureGate*likPrec {
		// Mixture branch: the outgoing message is the moment-matched
		// mixture of the per-node likelihood messages N(mm, vm+1/r).
		vs := make([]float64, len(rs))
		for i, r := range rs {
			vs[i] = vm + 1/r
		}
		return distrib.GaussianFromMeanAndVariance(mm, stat.Mean(vs, w))
	}

	// Marginal branch: accumulate the per-node posterior moments of the
	// sample, then take the ratio against the incoming message.
	post := make([]float64, len(rs))
	post2 := make([]float64, len(rs))
	for i, r := range rs {
		pl := 1 / (vm + 1/r)
		pp := sample.Precision + pl
		pmean := (sample.MeanTimesPrecision + mm*pl) / pp
		post[i] = pmean
		post2[i] = 1/pp + pmean*pmean
	}
	em := stat.Mean(post, w)
	e2 := stat.Mean(post2, w)
	marg := distrib.GaussianFromMeanAndVariance(em, e2-em*em)
	return marg.Ratio(sample, forceProper)
}

// checkQuadratureInputs validates the common preconditions of the
// stochastic-precision operators: no NaNs, proper-or-uniform Gaussians.
func checkQuadratureInputs(sample, mean distrib.Gaussian, precision distrib.Gamma) error {
	if err := checkGaussian(sample, "sample"); err != nil {
		return err
	}
	if err := checkGaussian(mean, "mean"); err != nil {
		return err
	}
	if err := checkGamma(precision, "precision"); err != nil {
		return err
	}
	if !sample.IsProper() && !sample.IsUniform() {
		return fmt.Errorf("sample precision %v: %w", sample.Precision, ErrImproperMessage)
	}
	if !mean.IsProper() && !mean.IsUniform() {
		return fmt.Errorf("mean precision %v: %w", mean.Precision, ErrImproperMessage)
	}
	return nil
}

// SampleAverageConditional computes the quadrature message to the sample
// argument given Normal sample/mean beliefs and a Gamma precision belief.
//
// Shortcuts: a point-mass precision delegates to the closed-form
// operator; a uniform mean yields a uniform message; a uniform sample
// with proper mean yields the Student-t-variance closed form
// N(E[mean], Var[mean] + E[1/precision]), which requires precision
// shape > 1 (otherwise the posterior variance is infinite and
// ErrImproperMessage is returned).
func (s *Site) SampleAverageConditional(sample, mean distrib.Gaussian, precision distrib.Gamma) (distrib.Gaussian, error) {
	if err := checkQuadratureInputs(sample, mean, precision); err != nil {
		return distrib.Gaussian{}, err
	}
	if precision.IsPointMass() {
		return SampleMessage(mean, precision.Point())
	}
	if mean.IsUniform() {
		return distrib.GaussianUniform(), nil
	}
	if !precision.IsProper() {
		return distrib.Gaussian{}, fmt.Errorf(
			"precision shape=%v rate=%v: %w", precision.Shape, precision.Rate, ErrImproperMessage)
	}
	if sample.IsUniform() {
		ev := precision.GetMeanInverse()
		if math.IsInf(ev, 1) {
			return distrib.Gaussian{}, fmt.Errorf(
				"precision shape %v ≤ 1 with uniform sample gives an infinite-variance posterior: %w",
				precision.Shape, ErrImproperMessage)
		}
		mm, vm := mean.GetMeanAndVariance()
		return distrib.GaussianFromMeanAndVariance(mm, vm+ev), nil
	}

	mx, vx := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	qn, err := s.precisionNodes(mx, vx, mm, vm, precision)
	if err != nil {
		return distrib.Gaussian{}, err
	}
	result := messageToSample(sample, mean, qn.rs, qn.w, s.opts.ForceProper)
	if err := checkGaussianResult(result, "quadrature sample message"); err != nil {
		return distrib.Gaussian{}, err
	}
	return result, nil
}

// MeanAverageConditional computes the quadrature message to the mean
// argument. The factor is symmetric in sample and mean, so the roles swap.
func (s *Site) MeanAverageConditional(sample, mean distrib.Gaussian, precision distrib.Gamma) (distrib.Gaussian, error) {
	msg, err := s.SampleAverageConditional(mean, sample, precision)
	if err != nil {
		return distrib.Gaussian{}, fmt.Errorf("mean message: %w", err)
	}
	return msg, nil
}

// PrecisionAverageConditional computes the quadrature message to the
// precision argument and stores it into the site's expansion buffer for
// the next call's proposal.
//
// A point-mass precision receives the uniform message (nothing can move
// it); a uniform sample or mean makes the evidence independent of the
// precision, so the message is uniform as well.
func (s *Site) PrecisionAverageConditional(sample, mean distrib.Gaussian, precision distrib.Gamma) (distrib.Gamma, error) {
	if err := checkQuadratureInputs(sample, mean, precision); err != nil {
		return distrib.Gamma{}, err
	}
	if precision.IsPointMass() {
		return distrib.GammaUniform(), nil
	}
	if sample.IsUniform() || mean.IsUniform() {
		return distrib.GammaUniform(), nil
	}
	if !precision.IsProper() {
		return distrib.Gamma{}, fmt.Errorf(
			"precision shape=%v rate=%v: %w", precision.Shape, precision.Rate, ErrImproperMessage)
	}

	mx, vx := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	qn, err := s.precisionNodes(mx, vx, mm, vm, precision)
	if err != nil {
		return distrib.Gamma{}, err
	}
	er := stat.Mean(qn.rs, qn.w)
	r2 := make([]float64, len(qn.rs))
	for i, r := range qn.rs {
		r2[i] = r * r
	}
	variance := stat.Mean(r2, qn.w) - er*er
	if !(variance > 0) {
		return distrib.Gamma{}, fmt.Errorf(
			"precision posterior collapsed (mean=%v variance=%v): %w", er, variance, ErrInternal)
	}
	marg := distrib.GammaFromMeanAndVariance(er, variance)
	out := marg.Ratio(precision, s.opts.ForceProper)
	if err := checkGammaResult(out, "quadrature precision message"); err != nil {
		return distrib.Gamma{}, err
	}
	s.q = out
	return out, nil
}

// LogAverageFactor returns this factor's log-evidence contribution
// log ∫∫∫ sample(x)·N(x; m, 1/r)·mean(m)·precision(r) dx dm dr.
func (s *Site) LogAverageFactor(sample, mean distrib.Gaussian, precision distrib.Gamma) (float64, error) {
	if err := checkQuadratureInputs(sample, mean, precision); err != nil {
		return 0, err
	}
	if precision.IsPointMass() {
		r := precision.Point()
		mm, vm := mean.GetMeanAndVariance()
		lik := distrib.GaussianFromMeanAndVariance(mm, vm+1/r)
		return lik.LogAverageOf(sample), nil
	}
	if sample.IsUniform() || mean.IsUniform() {
		return 0, nil
	}
	if !precision.IsProper() {
		return 0, fmt.Errorf(
			"precision shape=%v rate=%v: %w", precision.Shape, precision.Rate, ErrImproperMessage)
	}

	mx, vx := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	qn, err := s.precisionNodes(mx, vx, mm, vm, precision)
	if err != nil {
		return 0, err
	}
	laf := floats.LogSumExp(qn.lw)
	if math.IsInf(laf, -1) || math.IsNaN(laf) {
		return 0, fmt.Errorf("log-evidence %v: %w", laf, ErrDegenerateEvidence)
	}
	return laf, nil
}

// LogEvidenceRatio returns the EP evidence contribution: LogAverageFactor
// minus the overlap of the outgoing sample message with the incoming
// sample belief.
func (s *Site) LogEvidenceRatio(sample, mean distrib.Gaussian, precision distrib.Gamma) (float64, error) {
	laf, err := s.LogAverageFactor(sample, mean, precision)
	if err != nil {
		return 0, err
	}
	to, err := s.SampleAverageConditional(sample, mean, precision)
	if err != nil {
		return 0, err
	}
	return laf - to.LogAverageOf(sample), nil
}
