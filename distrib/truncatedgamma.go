package distrib

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// TruncatedGamma is a Gamma message restricted to the interval
// [Lower, Upper]. Outside the interval the density is zero; inside it is
// the Gamma density divided by the probability mass of the interval.
// Used by the power-factor operators that share the root-finding
// utilities with the Normal-precision factor.
type TruncatedGamma struct {
	Gamma Gamma
	Lower float64
	Upper float64
}

// TruncatedGammaFromShapeAndRate builds a TruncatedGamma on [lower, upper].
func TruncatedGammaFromShapeAndRate(shape, rate, lower, upper float64) TruncatedGamma {
	return TruncatedGamma{Gamma: GammaFromShapeAndRate(shape, rate), Lower: lower, Upper: upper}
}

// TruncatedGammaUniform returns the zero-information message on (0, ∞).
func TruncatedGammaUniform() TruncatedGamma {
	return TruncatedGamma{Gamma: GammaUniform(), Upper: math.Inf(1)}
}

// gammaProbBetween returns P(lower < X < upper) for X ~ Gamma(shape, rate)
// via the regularized lower incomplete gamma function.
func gammaProbBetween(shape, rate, lower, upper float64) float64 {
	var pl, pu float64
	if lower <= 0 {
		pl = 0
	} else {
		pl = mathext.GammaIncReg(shape, rate*lower)
	}
	if math.IsInf(upper, 1) {
		pu = 1
	} else {
		pu = mathext.GammaIncReg(shape, rate*upper)
	}
	return pu - pl
}

// IsPointMass reports whether the message is degenerate, either through
// its Gamma component or through a collapsed interval.
func (t TruncatedGamma) IsPointMass() bool {
	return t.Gamma.IsPointMass() || t.Lower == t.Upper
}

// Point returns the point-mass location.
func (t TruncatedGamma) Point() float64 {
	if t.Gamma.IsPointMass() {
		return t.Gamma.Point()
	}
	return t.Lower
}

// IsUniform reports whether the message carries no information.
func (t TruncatedGamma) IsUniform() bool {
	return t.Gamma.IsUniform() && t.Lower <= 0 && math.IsInf(t.Upper, 1)
}

// IsProper reports whether the message is a valid distribution: a proper
// Gamma component, a non-empty interval, and positive interval mass.
func (t TruncatedGamma) IsProper() bool {
	if t.IsPointMass() {
		return t.Lower <= t.Upper
	}
	if !t.Gamma.IsProper() || t.Lower >= t.Upper {
		return false
	}
	return gammaProbBetween(t.Gamma.Shape, t.Gamma.Rate, t.Lower, t.Upper) > 0
}

// GetMean returns the truncated mean
//
//	E[X | L < X < U] = (shape/rate) · P(L<Y<U) / P(L<X<U),  Y ~ Gamma(shape+1, rate).
func (t TruncatedGamma) GetMean() float64 {
	if t.IsPointMass() {
		return t.Point()
	}
	a, b := t.Gamma.Shape, t.Gamma.Rate
	z := gammaProbBetween(a, b, t.Lower, t.Upper)
	if z <= 0 {
		return math.NaN()
	}
	return (a / b) * gammaProbBetween(a+1, b, t.Lower, t.Upper) / z
}

// GetMeanAndVariance returns the truncated mean and variance, using the
// shape-raised incomplete-gamma ratios for the first two moments.
func (t TruncatedGamma) GetMeanAndVariance() (mean, variance float64) {
	if t.IsPointMass() {
		return t.Point(), 0
	}
	a, b := t.Gamma.Shape, t.Gamma.Rate
	z := gammaProbBetween(a, b, t.Lower, t.Upper)
	if z <= 0 {
		return math.NaN(), math.NaN()
	}
	m1 := (a / b) * gammaProbBetween(a+1, b, t.Lower, t.Upper) / z
	m2 := (a * (a + 1) / (b * b)) * gammaProbBetween(a+2, b, t.Lower, t.Upper) / z
	return m1, m2 - m1*m1
}

// GetMode returns the Gamma mode clamped into [Lower, Upper].
func (t TruncatedGamma) GetMode() float64 {
	m := t.Gamma.GetMode()
	if m < t.Lower {
		return t.Lower
	}
	if m > t.Upper {
		return t.Upper
	}
	return m
}

// Times returns the product with another TruncatedGamma: Gamma components
// multiply, intervals intersect. An empty intersection yields an improper
// message (Lower > Upper) detectable via IsProper.
func (t TruncatedGamma) Times(b TruncatedGamma) TruncatedGamma {
	return TruncatedGamma{
		Gamma: t.Gamma.Times(b.Gamma),
		Lower: math.Max(t.Lower, b.Lower),
		Upper: math.Min(t.Upper, b.Upper),
	}
}

// TimesGamma returns the product with an untruncated Gamma message.
func (t TruncatedGamma) TimesGamma(b Gamma) TruncatedGamma {
	return TruncatedGamma{Gamma: t.Gamma.Times(b), Lower: t.Lower, Upper: t.Upper}
}

// Ratio divides out an untruncated Gamma message, keeping the interval.
func (t TruncatedGamma) Ratio(b Gamma, forceProper bool) TruncatedGamma {
	return TruncatedGamma{Gamma: t.Gamma.Ratio(b, forceProper), Lower: t.Lower, Upper: t.Upper}
}

// LogProb returns the log-density at x: -Inf outside the interval, the
// normalized Gamma log-density inside.
func (t TruncatedGamma) LogProb(x float64) float64 {
	if t.IsPointMass() {
		if x == t.Point() {
			return 0
		}
		return math.Inf(-1)
	}
	if x < t.Lower || x > t.Upper {
		return math.Inf(-1)
	}
	z := gammaProbBetween(t.Gamma.Shape, t.Gamma.Rate, t.Lower, t.Upper)
	return t.Gamma.LogProb(x) - math.Log(z)
}

// LogNormalizer returns the Gamma log-normalizer plus the log interval mass.
func (t TruncatedGamma) LogNormalizer() float64 {
	return t.Gamma.LogNormalizer() +
		math.Log(gammaProbBetween(t.Gamma.Shape, t.Gamma.Rate, t.Lower, t.Upper))
}
