package gaussop

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvprop/distrib"
)

// Closed-form operator: exact messages when the precision is a known
// constant rather than a message.
//
// The sample message given a Normal mean-belief M with precision Pm is
// the shrinkage
//
//	precision' = R·Pm,  mean×precision' = R·(M.MeanTimesPrecision),
//	R = r/(r + Pm),
//
// which degenerates to the uniform message at r = 0 and to M itself as
// r → ∞. Evidence contributions are exact Normal log-densities, with
// the random-precision case delegating to the Student-t density.

// SampleMessage returns the exact message to the sample argument given
// the mean belief and a constant precision r ≥ 0.
//
// Errors:
//   - ErrInvalidArgument - r is negative or NaN.
//   - ErrImproperMessage - mean precision ≤ -r, an impossible
//     configuration whose product message would be improper.
func SampleMessage(mean distrib.Gaussian, precision float64) (distrib.Gaussian, error) {
	if math.IsNaN(precision) || precision < 0 {
		return distrib.Gaussian{}, fmt.Errorf("precision=%v: %w", precision, ErrInvalidArgument)
	}
	if err := checkGaussian(mean, "mean"); err != nil {
		return distrib.Gaussian{}, err
	}
	if mean.IsPointMass() {
		return distrib.GaussianFromMeanAndPrecision(mean.Point(), precision), nil
	}
	if precision == 0 {
		return distrib.GaussianUniform(), nil
	}
	if math.IsInf(precision, 1) {
		return mean, nil
	}
	if mean.Precision <= -precision {
		return distrib.Gaussian{}, fmt.Errorf(
			"mean precision %v ≤ -%v: %w", mean.Precision, precision, ErrImproperMessage)
	}
	r := precision / (precision + mean.Precision)
	return distrib.GaussianFromNatural(r*mean.MeanTimesPrecision, r*mean.Precision), nil
}

// MeanMessage returns the exact message to the mean argument given the
// sample belief and a constant precision r ≥ 0. The relation is
// symmetric in sample and mean, so the formula is identical.
func MeanMessage(sample distrib.Gaussian, precision float64) (distrib.Gaussian, error) {
	msg, err := SampleMessage(sample, precision)
	if err != nil {
		return distrib.Gaussian{}, fmt.Errorf("mean message: %w", err)
	}
	return msg, nil
}

// LogAverageFactor returns the exact factor log-density for fully
// observed arguments: log N(sample; mean, 1/precision).
func LogAverageFactor(sample, mean, precision float64) float64 {
	d := sample - mean
	return 0.5*math.Log(precision/(2*math.Pi)) - 0.5*precision*d*d
}

// LogAverageFactorMean integrates out a random mean in closed form:
// log N(sample; E[mean], Var[mean] + 1/precision).
func LogAverageFactorMean(sample float64, mean distrib.Gaussian, precision float64) float64 {
	if mean.IsPointMass() {
		return LogAverageFactor(sample, mean.Point(), precision)
	}
	mm, vm := mean.GetMeanAndVariance()
	return distrib.GaussianFromMeanAndVariance(mm, vm+1/precision).LogProb(sample)
}

// LogAverageFactorPrecision integrates out a random Gamma precision:
// the Student-t log-density
//
//	a·log b − lnΓ(a) + lnΓ(a+½) − ½·log 2π − (a+½)·log(b + d²/2)
//
// with d = sample − mean.
func LogAverageFactorPrecision(sample, mean float64, precision distrib.Gamma) float64 {
	if precision.IsPointMass() {
		return LogAverageFactor(sample, mean, precision.Point())
	}
	a, b := precision.Shape, precision.Rate
	d := sample - mean
	lga, _ := math.Lgamma(a)
	lgah, _ := math.Lgamma(a + 0.5)
	return a*math.Log(b) - lga + lgah - 0.5*math.Log(2*math.Pi) -
		(a+0.5)*math.Log(b+0.5*d*d)
}
