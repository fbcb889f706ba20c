package distrib

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// minProperShape is the clamp target for a non-positive shape under
// ForceProper: the smallest shape treated as a valid proper parameter.
const minProperShape = 1e-10

// Gamma is a Gamma-family message with density
//
//	p(x) ∝ x^(Shape-1) · exp(-Rate·x),  x > 0.
//
// The natural parameters are (Shape-1, Rate); storing (Shape, Rate)
// keeps the moment formulas readable. Shape ≤ 0 or Rate < 0 encode
// improper messages, which EP produces transiently. A point mass is a
// flag + location (conceptually Rate = ∞ at fixed mean).
type Gamma struct {
	Shape float64
	Rate  float64

	point   float64
	isPoint bool
}

// GammaFromShapeAndRate builds a Gamma from shape and rate.
func GammaFromShapeAndRate(shape, rate float64) Gamma {
	return Gamma{Shape: shape, Rate: rate}
}

// GammaFromNatural builds a Gamma from natural parameters (shape-1, rate).
func GammaFromNatural(shapeMinus1, rate float64) Gamma {
	return Gamma{Shape: shapeMinus1 + 1, Rate: rate}
}

// GammaFromMeanAndVariance builds the moment-matched Gamma:
// shape = mean²/variance, rate = mean/variance. Zero variance yields a
// point mass, infinite variance the uniform message.
func GammaFromMeanAndVariance(mean, variance float64) Gamma {
	if variance == 0 {
		return GammaPointMass(mean)
	}
	if math.IsInf(variance, 1) {
		return GammaUniform()
	}
	return Gamma{Shape: mean * mean / variance, Rate: mean / variance}
}

// GammaFromDerivatives builds the Gamma whose log-density matches the
// first two derivatives of a target log-density at x > 0:
//
//	shape = 1 − x²·ddLogP,  rate = −x·ddLogP − dLogP.
//
// With forceProper=true, invalid results are clamped to the nearest
// valid parameters (shape to a tiny positive value, negative rate to 0).
func GammaFromDerivatives(x, dLogP, ddLogP float64, forceProper bool) Gamma {
	shape := 1 - x*x*ddLogP
	rate := -x*ddLogP - dLogP
	if forceProper {
		if shape <= 0 {
			shape = minProperShape
		}
		if rate < 0 {
			rate = 0
		}
	}
	return Gamma{Shape: shape, Rate: rate}
}

// GammaPointMass returns the degenerate message concentrated at x.
func GammaPointMass(x float64) Gamma {
	return Gamma{point: x, isPoint: true}
}

// GammaUniform returns the zero-information message (shape 1, rate 0).
func GammaUniform() Gamma { return Gamma{Shape: 1} }

// IsPointMass reports whether g is a degenerate point mass.
func (g Gamma) IsPointMass() bool { return g.isPoint }

// Point returns the location of a point mass; meaningless otherwise.
func (g Gamma) Point() float64 { return g.point }

// IsUniform reports whether g carries no information.
func (g Gamma) IsUniform() bool {
	return !g.isPoint && g.Shape == 1 && g.Rate == 0
}

// IsProper reports whether g is a valid normalizable distribution.
func (g Gamma) IsProper() bool {
	if g.isPoint {
		return true
	}
	return g.Shape > 0 && g.Rate > 0 &&
		!math.IsInf(g.Shape, 0) && !math.IsInf(g.Rate, 0)
}

// GetMean returns shape/rate; +Inf when rate is zero.
func (g Gamma) GetMean() float64 {
	if g.isPoint {
		return g.point
	}
	if g.Rate == 0 {
		return math.Inf(1)
	}
	return g.Shape / g.Rate
}

// GetVariance returns shape/rate²; 0 for a point mass.
func (g Gamma) GetVariance() float64 {
	if g.isPoint {
		return 0
	}
	if g.Rate == 0 {
		return math.Inf(1)
	}
	return g.Shape / (g.Rate * g.Rate)
}

// GetMeanAndVariance returns both moments in one call.
func (g Gamma) GetMeanAndVariance() (mean, variance float64) {
	return g.GetMean(), g.GetVariance()
}

// GetMeanLog returns E[log x] = digamma(shape) − log(rate).
func (g Gamma) GetMeanLog() float64 {
	if g.isPoint {
		return math.Log(g.point)
	}
	return mathext.Digamma(g.Shape) - math.Log(g.Rate)
}

// GetMeanInverse returns E[1/x] = rate/(shape-1) for shape > 1, +Inf otherwise.
func (g Gamma) GetMeanInverse() float64 {
	if g.isPoint {
		return 1 / g.point
	}
	if g.Shape <= 1 {
		return math.Inf(1)
	}
	return g.Rate / (g.Shape - 1)
}

// GetMode returns max(shape-1, 0)/rate, the density maximizer.
func (g Gamma) GetMode() float64 {
	if g.isPoint {
		return g.point
	}
	if g.Shape <= 1 {
		return 0
	}
	return (g.Shape - 1) / g.Rate
}

// Times returns the product message g·b (natural parameters add):
// shape g+b-1, rates add. A point mass absorbs the product.
func (g Gamma) Times(b Gamma) Gamma {
	if g.isPoint {
		return g
	}
	if b.isPoint {
		return b
	}
	return Gamma{Shape: g.Shape + b.Shape - 1, Rate: g.Rate + b.Rate}
}

// Ratio returns the quotient message g/b (natural parameters subtract).
//
// With forceProper=true the result is clamped to valid parameters:
// shape to a tiny positive value when non-positive, negative rate to 0.
// A point-mass numerator keeps its point; a point-mass denominator with
// a non-point numerator yields the uniform message.
func (g Gamma) Ratio(b Gamma, forceProper bool) Gamma {
	if g.isPoint {
		return g
	}
	if b.isPoint {
		return GammaUniform()
	}
	r := Gamma{Shape: g.Shape - b.Shape + 1, Rate: g.Rate - b.Rate}
	if forceProper {
		if r.Shape <= 0 {
			r.Shape = minProperShape
		}
		if r.Rate < 0 {
			r.Rate = 0
		}
	}
	return r
}

// Pow returns g raised to the power s (natural parameters scale by s).
func (g Gamma) Pow(s float64) Gamma {
	if g.isPoint {
		if s == 0 {
			return GammaUniform()
		}
		return g
	}
	return Gamma{Shape: s*(g.Shape-1) + 1, Rate: s * g.Rate}
}

// GammaWeightedSum returns the moment-matched mixture w1·a + w2·b.
func GammaWeightedSum(w1 float64, a Gamma, w2 float64, b Gamma) Gamma {
	if w1 == 0 {
		return b
	}
	if w2 == 0 {
		return a
	}
	if a.IsUniform() || b.IsUniform() {
		return GammaUniform()
	}
	ma, va := a.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	w := w1 + w2
	m := (w1*ma + w2*mb) / w
	s := (w1*(va+ma*ma) + w2*(vb+mb*mb)) / w
	return GammaFromMeanAndVariance(m, s-m*m)
}

// LogProb returns the log-density of g at x.
// A point mass yields 0 at its location and -Inf elsewhere; the uniform
// message yields 0 everywhere.
func (g Gamma) LogProb(x float64) float64 {
	if g.isPoint {
		if x == g.point {
			return 0
		}
		return math.Inf(-1)
	}
	if g.IsUniform() {
		return 0
	}
	if x < 0 {
		return math.Inf(-1)
	}
	return (g.Shape-1)*math.Log(x) - g.Rate*x - g.LogNormalizer()
}

// LogNormalizer returns lgamma(shape) − shape·log(rate).
func (g Gamma) LogNormalizer() float64 {
	if g.isPoint || g.Rate <= 0 || g.Shape <= 0 {
		return 0
	}
	lg, _ := math.Lgamma(g.Shape)
	return lg - g.Shape*math.Log(g.Rate)
}

// LogAverageOf returns log ∫ g(x)·b(x) dx.
func (g Gamma) LogAverageOf(b Gamma) float64 {
	if g.isPoint {
		return b.LogProb(g.point)
	}
	if b.isPoint {
		return g.LogProb(b.point)
	}
	if g.IsUniform() || b.IsUniform() {
		return 0
	}
	prod := g.Times(b)
	return prod.LogNormalizer() - g.LogNormalizer() - b.LogNormalizer()
}
