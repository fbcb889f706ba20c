package gaussop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvprop/distrib"
	"github.com/katalvlaran/lvprop/rootfind"
)

// Reference operator: the same message contract as the quadrature
// operator, evaluated on a dense deterministic grid between integration
// bounds derived from the precision log-integrand. Orders of magnitude
// slower than the adaptive grid; its role is validation and fallback.
//
// The grid requires an interior mode of the integrand, which exists only
// for precision shape > 1/2; smaller shapes return
// ErrUnsupportedConfiguration.

// slowGrid is the dense precision grid of one reference computation.
type slowGrid struct {
	rs []float64
	lw []float64 // trapezoid log-weights: the full log-integrand, end nodes halved, excluding the step width
	w  []float64
	h  float64
}

// boundLevelTol is the permitted drift of a bound's log-integrand value
// from the mode-minus-margin level before the bracket is declared
// defective.
const boundLevelTol = 1.0

// checkBoundLevels verifies that both integration bounds sit on the
// level f(mode) − LogMargin. A bound further off the level than
// boundLevelTol means the search returned a defective bracket, reported
// as ErrInternal rather than silently integrated over.
func checkBoundLevels(f func(float64) float64, lower, mode, upper float64) error {
	target := f(mode) - rootfind.LogMargin
	if math.Abs(f(lower)-target) > boundLevelTol || math.Abs(f(upper)-target) > boundLevelTol {
		return fmt.Errorf(
			"bound levels f(lower)-target=%v f(upper)-target=%v: %w",
			f(lower)-target, f(upper)-target, ErrInternal)
	}
	return nil
}

// slowWeights lays ReferenceNodeCount equispaced nodes between the
// automatically derived integration bounds and evaluates the full
// log-integrand precision.LogProb(r) + logZ(r) at each.
//
// The bound values are rechecked against the mode level: a bound more
// than one nat away from (mode − LogMargin) means the search returned a
// defective bracket, reported as ErrInternal rather than silently
// integrated over.
func slowWeights(sample, mean distrib.Gaussian, precision distrib.Gamma, opts Options) (*slowGrid, error) {
	mx, vx := sample.GetMeanAndVariance()
	mm, vm := mean.GetMeanAndVariance()
	m := mx - mm
	v := vx + vm
	a := precision.Shape - 1
	if a <= -0.5 {
		return nil, fmt.Errorf(
			"precision shape %v ≤ 1/2 has no interior integrand mode: %w",
			precision.Shape, ErrUnsupportedConfiguration)
	}

	lower, mode, upper, err := rootfind.IntegrationBoundsForPrecision(m, v, a, precision.Rate)
	if err != nil {
		return nil, fmt.Errorf("integration bounds: %w", err)
	}
	f, _ := rootfind.PrecisionLogIntegrand(m, v, a, precision.Rate)
	if err := checkBoundLevels(f, lower, mode, upper); err != nil {
		return nil, err
	}

	n := opts.ReferenceNodeCount
	h := (upper - lower) / float64(n-1)
	rs := make([]float64, n)
	lw := make([]float64, n)
	for i := range rs {
		r := lower + float64(i)*h
		u := v + 1/r
		rs[i] = r
		lw[i] = precision.LogProb(r) - 0.5*math.Log(2*math.Pi*u) - 0.5*m*m/u
	}
	// Trapezoid rule: the boundary nodes carry half weight.
	lw[0] -= math.Ln2
	lw[n-1] -= math.Ln2
	shift := floats.Max(lw)
	if math.IsInf(shift, -1) {
		return nil, fmt.Errorf("mean distance %v, combined variance %v: %w", m, v, ErrDegenerateEvidence)
	}
	w := make([]float64, n)
	for i, l := range lw {
		w[i] = math.Exp(l - shift)
	}
	return &slowGrid{rs: rs, lw: lw, w: w, h: h}, nil
}

// SampleAverageConditionalSlow computes the reference message to the
// sample argument. Degenerate inputs take the same shortcuts as the
// quadrature operator.
func SampleAverageConditionalSlow(sample, mean distrib.Gaussian, precision distrib.Gamma, opts Options) (distrib.Gaussian, error) {
	opts = opts.normalized()
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

	grid, err := slowWeights(sample, mean, precision, opts)
	if err != nil {
		return distrib.Gaussian{}, err
	}
	result := messageToSample(sample, mean, grid.rs, grid.w, opts.ForceProper)
	if err := checkGaussianResult(result, "reference sample message"); err != nil {
		return distrib.Gaussian{}, err
	}
	return result, nil
}

// MeanAverageConditionalSlow computes the reference message to the mean
// argument by role symmetry.
func MeanAverageConditionalSlow(sample, mean distrib.Gaussian, precision distrib.Gamma, opts Options) (distrib.Gaussian, error) {
	msg, err := SampleAverageConditionalSlow(mean, sample, precision, opts)
	if err != nil {
		return distrib.Gaussian{}, fmt.Errorf("mean message: %w", err)
	}
	return msg, nil
}

// PrecisionAverageConditionalSlow computes the reference message to the
// precision argument: moment-matched precision posterior divided by the
// incoming precision message.
func PrecisionAverageConditionalSlow(sample, mean distrib.Gaussian, precision distrib.Gamma, opts Options) (distrib.Gamma, error) {
	opts = opts.normalized()
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

	grid, err := slowWeights(sample, mean, precision, opts)
	if err != nil {
		return distrib.Gamma{}, err
	}
	er := stat.Mean(grid.rs, grid.w)
	r2 := make([]float64, len(grid.rs))
	for i, r := range grid.rs {
		r2[i] = r * r
	}
	variance := stat.Mean(r2, grid.w) - er*er
	if !(variance > 0) {
		return distrib.Gamma{}, fmt.Errorf(
			"precision posterior collapsed (mean=%v variance=%v): %w", er, variance, ErrInternal)
	}
	marg := distrib.GammaFromMeanAndVariance(er, variance)
	out := marg.Ratio(precision, opts.ForceProper)
	if err := checkGammaResult(out, "reference precision message"); err != nil {
		return distrib.Gamma{}, err
	}
	return out, nil
}

// LogAverageFactorSlow returns the reference log-evidence contribution:
// a trapezoid sum of the full integrand over the dense grid.
func LogAverageFactorSlow(sample, mean distrib.Gaussian, precision distrib.Gamma, opts Options) (float64, error) {
	opts = opts.normalized()
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

	grid, err := slowWeights(sample, mean, precision, opts)
	if err != nil {
		return 0, err
	}
	laf := floats.LogSumExp(grid.lw) + math.Log(grid.h)
	if math.IsInf(laf, -1) || math.IsNaN(laf) {
		return 0, fmt.Errorf("log-evidence %v: %w", laf, ErrDegenerateEvidence)
	}
	return laf, nil
}
