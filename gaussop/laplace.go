package gaussop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"

	"github.com/katalvlaran/lvprop/distrib"
	"github.com/katalvlaran/lvprop/rootfind"
)

// Laplace operator: instead of integrating over the precision, expand
// the log-integrand to second order around its mode and read the
// messages off the local derivatives. Far cheaper than quadrature and
// accurate when the precision belief is sharp.
//
// The expansion point is maintained in the Site: UpdateQ runs a monotone
// fixed-point iteration on the stationarity condition of
//
//	φ(r) = (a−1)·log r − b·r − ½·log(v + 1/r) − ½·m²/(v + 1/r)
//
// with m = E[sample] − E[mean] and v = Var[sample] + Var[mean], then
// stores the second-order Gamma fit as the new expansion buffer Q.

// fixedPointTol is the relative convergence tolerance of the
// expansion-point iteration.
const fixedPointTol = 1e-10

// dlogfs returns the likelihood part ℓ(r) = ½·log u − ½·m²·u of the
// log-integrand and its first three derivatives, where u = r/(vr+1) is
// the precision of the collapsed likelihood N(m; 0, v + 1/r). Working
// through powers of 1/(vr+1) avoids cancellation for large vr.
func dlogfs(r, m, v float64) [4]float64 {
	q := v*r + 1
	u := r / q
	u1 := 1 / (q * q)
	u2 := -2 * v / (q * q * q)
	u3 := 6 * v * v / (q * q * q * q)
	return [4]float64{
		0.5*math.Log(u) - 0.5*m*m*u,
		0.5*u1/u - 0.5*m*m*u1,
		0.5*(u2*u-u1*u1)/(u*u) - 0.5*m*m*u2,
		0.5*(u3*u*u-3*u2*u1*u+2*u1*u1*u1)/(u*u*u) - 0.5*m*m*u3,
	}
}

// fixedPoint iterates the stationarity condition of the precision
// log-integrand from x0. Two update rules keep the iteration monotone:
// for vx ≥ 1 the log term is absorbed into an effective rate, otherwise
// the 1/x branch of a quadratic solve is used. Returns the last iterate
// and whether the relative tolerance was reached.
func fixedPoint(a, b, m, v, x0 float64, maxIter int) (float64, bool) {
	x := x0
	for i := 0; i < maxIter; i++ {
		q := v*x + 1
		var x1 float64
		if v*x >= 1 && a+0.5 > 0 {
			beff := b + 0.5*v/q + 0.5*m*m/(q*q)
			x1 = (a + 0.5) / beff
		} else {
			bb := b + 0.5*m*m/(q*q)
			cc := 0.5 * x / q
			x1 = (a + math.Sqrt(a*a+4*bb*cc)) / (2 * bb)
		}
		if math.IsNaN(x1) || x1 <= 0 {
			return x, false
		}
		if math.Abs(x1-x) <= fixedPointTol*math.Max(math.Abs(x), math.Abs(x1)) {
			return x1, true
		}
		x = x1
	}
	return x, false
}

// limitCandidates are the closed-form maximizers of the two asymptotic
// regimes of the integrand (likelihood-dominated and prior-dominated),
// used to test a converged expansion point against a competing local
// optimum.
func limitCandidates(a, b, m, v float64) []float64 {
	var cands []float64
	if d := b + 0.5*(v+m*m); a+0.5 > 0 && d > 0 {
		cands = append(cands, (a+0.5)/d)
	}
	if a > 0 && b > 0 {
		cands = append(cands, a/b)
	}
	return cands
}

// UpdateQ recomputes the expansion point and the expansion buffer Q from
// the current messages. Degenerate inputs collapse the buffer onto the
// precision message itself. Call before reading any Laplace message for
// a new message configuration.
func (s *Site) UpdateQ(sample, mean distrib.Gaussian, precision distrib.Gamma) error {
	if err := checkQuadratureInputs(sample, mean, precision); err != nil {
		return err
	}
	if precision.IsPointMass() {
		s.q = precision
		s.x = precision.Point()
		return nil
	}
	if !precision.IsProper() {
		return fmt.Errorf(
			"precision shape=%v rate=%v: %w", precision.Shape, precision.Rate, ErrImproperMessage)
	}
	if sample.IsUniform() || mean.IsUniform() {
		// The likelihood term is flat in r; the integrand is the precision
		// message itself.
		s.q = precision
		s.x = precision.Shape / precision.Rate
		return nil
	}

	mx, vx := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	m := mx - mm
	v := vx + vm
	a := precision.Shape - 1
	b := precision.Rate

	x := precision.Shape / b
	if s.q.IsProper() {
		x = s.q.GetMean()
	}
	if !(x > 0) || math.IsInf(x, 1) {
		x = 1
	}
	x, converged := fixedPoint(a, b, m, v, x, s.opts.MaxFixedPointIters)
	if converged {
		// A converged point may still be the lesser of two local optima;
		// restart once from the best closed-form regime maximizer if it
		// attains a higher integrand value.
		f, _ := rootfind.PrecisionLogIntegrand(m, v, a, b)
		best := x
		for _, cand := range limitCandidates(a, b, m, v) {
			if f(cand) > f(best) {
				best = cand
			}
		}
		if best != x {
			if x2, ok := fixedPoint(a, b, m, v, best, s.opts.MaxFixedPointIters); ok {
				x = x2
			} else {
				converged = false
			}
		}
	}
	if !converged {
		lower, _, upper, err := rootfind.IntegrationBoundsForPrecision(m, v, a, b)
		if err != nil {
			return fmt.Errorf("expansion-point fallback: %w", err)
		}
		x = 0.5 * (lower + upper)
	}

	der := dlogfs(x, m, v)
	dlp := a/x - b + der[1]
	ddlp := -a/(x*x) + der[2]
	s.q = distrib.GammaFromDerivatives(x, dlp, ddlp, true)
	s.x = x
	return checkGammaResult(s.q, "laplace expansion")
}

// laplaceMoments propagates a function g of the precision through the
// expansion buffer q on the log scale: with x̄ = E_q[r],
//
//	E[g] ≈ g(x̄) + g₁·(ψ(a) − log a) + ½·g₂·ψ₁(a)
//	Var[g] ≈ g₁²·ψ₁(a)
//
// where g₁ = x̄·g′, g₂ = g₁ + x̄²·g″ are the log-scale derivatives and
// ψ, ψ₁ are the digamma and trigamma functions.
func laplaceMoments(q distrib.Gamma, g, dg, ddg float64) (mean, variance float64) {
	a := q.Shape
	xbar := a / q.Rate
	g1 := xbar * dg
	g2 := g1 + xbar*xbar*ddg
	tri := mathext.Zeta(2, a)
	mean = g + g1*(mathext.Digamma(a)-math.Log(a)) + 0.5*g2*tri
	variance = g1 * g1 * tri
	return mean, variance
}

// SampleAverageConditionalLaplace computes the Laplace message to the
// sample argument. UpdateQ runs first, so the expansion buffer reflects
// the given messages.
func (s *Site) SampleAverageConditionalLaplace(sample, mean distrib.Gaussian, precision distrib.Gamma) (distrib.Gaussian, error) {
	if err := s.UpdateQ(sample, mean, precision); err != nil {
		return distrib.Gaussian{}, err
	}
	if precision.IsPointMass() {
		return SampleMessage(mean, precision.Point())
	}
	if mean.IsUniform() {
		return distrib.GaussianUniform(), nil
	}
	if sample.IsUniform() {
		ev := s.q.GetMeanInverse()
		if math.IsInf(ev, 1) {
			return distrib.Gaussian{}, fmt.Errorf(
				"expansion shape %v ≤ 1 with uniform sample gives an infinite-variance posterior: %w",
				s.q.Shape, ErrImproperMessage)
		}
		mm, vm := mean.GetMeanAndVariance()
		return distrib.GaussianFromMeanAndVariance(mm, vm+ev), nil
	}

	if !s.q.IsProper() {
		return distrib.Gaussian{}, fmt.Errorf(
			"expansion buffer shape=%v rate=%v: %w", s.q.Shape, s.q.Rate, ErrInternal)
	}
	mx, _ := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	xbar := s.q.Shape / s.q.Rate

	// Likelihood precision toward the sample and its r-derivatives.
	qd := vm*xbar + 1
	sl := xbar / qd
	sl1 := 1 / (qd * qd)
	sl2 := -2 * vm / (qd * qd * qd)

	var result distrib.Gaussian
	if sample.IsPointMass() || sample.Precision >= mixtureGate*sl {
		// Mixture regime: propagate the likelihood variance vm + 1/r.
		g := vm + 1/xbar
		dg := -1 / (xbar * xbar)
		ddg := 2 / (xbar * xbar * xbar)
		ev, _ := laplaceMoments(s.q, g, dg, ddg)
		result = distrib.GaussianFromMeanAndVariance(mm, ev)
	} else {
		// Conditional posterior moments of the sample at precision r and
		// their r-derivatives, propagated through q.
		pp := sample.Precision + sl
		mpost := (sample.MeanTimesPrecision + mm*sl) / pp
		dm := sl1 * sample.Precision * (mm - mx) / (pp * pp)
		ddm := sample.Precision * (mm - mx) * (sl2*pp - 2*sl1*sl1) / (pp * pp * pp)
		vpost := 1 / pp
		dv := -sl1 / (pp * pp)
		ddv := (2*sl1*sl1 - sl2*pp) / (pp * pp * pp)

		em, vFromMean := laplaceMoments(s.q, mpost, dm, ddm)
		evp, _ := laplaceMoments(s.q, vpost, dv, ddv)
		marg := distrib.GaussianFromMeanAndVariance(em, evp+vFromMean)
		result = marg.Ratio(sample, s.opts.ForceProper)
	}
	if err := checkGaussianResult(result, "laplace sample message"); err != nil {
		return distrib.Gaussian{}, err
	}
	return result, nil
}

// MeanAverageConditionalLaplace computes the Laplace message to the mean
// argument by role symmetry.
func (s *Site) MeanAverageConditionalLaplace(sample, mean distrib.Gaussian, precision distrib.Gamma) (distrib.Gaussian, error) {
	msg, err := s.SampleAverageConditionalLaplace(mean, sample, precision)
	if err != nil {
		return distrib.Gaussian{}, fmt.Errorf("mean message: %w", err)
	}
	return msg, nil
}

// PrecisionAverageConditionalLaplace computes the Laplace message to the
// precision argument: the expansion buffer divided by the incoming
// message.
func (s *Site) PrecisionAverageConditionalLaplace(sample, mean distrib.Gaussian, precision distrib.Gamma) (distrib.Gamma, error) {
	if err := s.UpdateQ(sample, mean, precision); err != nil {
		return distrib.Gamma{}, err
	}
	if precision.IsPointMass() {
		return distrib.GammaUniform(), nil
	}
	out := s.q.Ratio(precision, s.opts.ForceProper)
	if err := checkGammaResult(out, "laplace precision message"); err != nil {
		return distrib.Gamma{}, err
	}
	return out, nil
}

// LogAverageFactorLaplace returns the Laplace log-evidence estimate
//
//	log p(r*) + log Z(r*) − log q(r*)
//
// evaluated at the expansion mean r* = E_q[r]: the standard identity
// that the evidence equals integrand/posterior at any point, applied at
// the point where the Gamma fit is most accurate.
func (s *Site) LogAverageFactorLaplace(sample, mean distrib.Gaussian, precision distrib.Gamma) (float64, error) {
	if err := s.UpdateQ(sample, mean, precision); err != nil {
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

	if !s.q.IsProper() {
		return 0, fmt.Errorf(
			"expansion buffer shape=%v rate=%v: %w", s.q.Shape, s.q.Rate, ErrInternal)
	}
	mx, vx := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	m := mx - mm
	v := vx + vm
	xbar := s.q.Shape / s.q.Rate
	lz := dlogfs(xbar, m, v)[0] - 0.5*math.Log(2*math.Pi)
	laf := precision.LogProb(xbar) + lz - s.q.LogProb(xbar)
	if math.IsNaN(laf) {
		return 0, fmt.Errorf("log-evidence NaN at expansion point %v: %w", xbar, ErrInternal)
	}
	if math.IsInf(laf, -1) {
		return 0, fmt.Errorf("log-evidence %v: %w", laf, ErrDegenerateEvidence)
	}
	return laf, nil
}
