package distrib

import "math"

// Gaussian is a Normal-family message in natural parameters.
//
// The density is exp(MeanTimesPrecision·x − Precision·x²/2 − logZ), so the
// moment parameters are mean = MeanTimesPrecision/Precision and
// variance = 1/Precision. Precision may be zero (uniform message) or
// negative (improper message, produced transiently by EP ratios).
// A point mass is stored as a flag + location rather than an infinite
// precision, so its mean survives arithmetic exactly.
type Gaussian struct {
	// MeanTimesPrecision is the first natural parameter, mean·precision.
	MeanTimesPrecision float64
	// Precision is the second natural parameter, 1/variance.
	Precision float64

	point   float64
	isPoint bool
}

// GaussianFromNatural builds a Gaussian from its natural parameters.
func GaussianFromNatural(meanTimesPrecision, precision float64) Gaussian {
	return Gaussian{MeanTimesPrecision: meanTimesPrecision, Precision: precision}
}

// GaussianFromMeanAndPrecision builds a Gaussian from moment mean and precision.
// An infinite precision yields a point mass at mean.
func GaussianFromMeanAndPrecision(mean, precision float64) Gaussian {
	if math.IsInf(precision, 1) {
		return GaussianPointMass(mean)
	}
	return Gaussian{MeanTimesPrecision: mean * precision, Precision: precision}
}

// GaussianFromMeanAndVariance builds a Gaussian from moment parameters.
// Zero variance yields a point mass, infinite variance the uniform message.
func GaussianFromMeanAndVariance(mean, variance float64) Gaussian {
	if variance == 0 {
		return GaussianPointMass(mean)
	}
	if math.IsInf(variance, 1) {
		return GaussianUniform()
	}
	return Gaussian{MeanTimesPrecision: mean / variance, Precision: 1 / variance}
}

// GaussianPointMass returns the degenerate message concentrated at x.
func GaussianPointMass(x float64) Gaussian {
	return Gaussian{point: x, isPoint: true}
}

// GaussianUniform returns the zero-information message (all naturals zero).
func GaussianUniform() Gaussian { return Gaussian{} }

// IsPointMass reports whether g is a degenerate point mass.
func (g Gaussian) IsPointMass() bool { return g.isPoint }

// Point returns the location of a point mass; meaningless otherwise.
func (g Gaussian) Point() float64 { return g.point }

// IsUniform reports whether g carries no information.
func (g Gaussian) IsUniform() bool {
	return !g.isPoint && g.Precision == 0 && g.MeanTimesPrecision == 0
}

// IsProper reports whether g is a valid normalizable distribution.
// Point masses count as proper; the uniform message does not.
func (g Gaussian) IsProper() bool {
	if g.isPoint {
		return true
	}
	return g.Precision > 0 && !math.IsInf(g.Precision, 0) && !math.IsNaN(g.MeanTimesPrecision)
}

// GetMean returns the mean. The uniform message reports mean 0.
func (g Gaussian) GetMean() float64 {
	if g.isPoint {
		return g.point
	}
	if g.Precision == 0 {
		return 0
	}
	return g.MeanTimesPrecision / g.Precision
}

// GetVariance returns the variance: 0 for a point mass, +Inf for uniform.
func (g Gaussian) GetVariance() float64 {
	if g.isPoint {
		return 0
	}
	if g.Precision == 0 {
		return math.Inf(1)
	}
	return 1 / g.Precision
}

// GetMeanAndVariance returns both moments in one call.
func (g Gaussian) GetMeanAndVariance() (mean, variance float64) {
	return g.GetMean(), g.GetVariance()
}

// Times returns the product message g·b (natural parameters add).
// A point mass absorbs the product; the product of two point masses at
// different locations is undefined and returns the receiver's point.
func (g Gaussian) Times(b Gaussian) Gaussian {
	if g.isPoint {
		return g
	}
	if b.isPoint {
		return b
	}
	return Gaussian{
		MeanTimesPrecision: g.MeanTimesPrecision + b.MeanTimesPrecision,
		Precision:          g.Precision + b.Precision,
	}
}

// Ratio returns the quotient message g/b (natural parameters subtract).
//
// With forceProper=true a result with negative precision is clamped to
// the uniform message, the nearest valid distribution, instead of being
// returned improper. A point-mass numerator keeps its point; a point-mass
// denominator with a non-point numerator yields the uniform message.
func (g Gaussian) Ratio(b Gaussian, forceProper bool) Gaussian {
	if g.isPoint {
		return g
	}
	if b.isPoint {
		return GaussianUniform()
	}
	r := Gaussian{
		MeanTimesPrecision: g.MeanTimesPrecision - b.MeanTimesPrecision,
		Precision:          g.Precision - b.Precision,
	}
	if forceProper && r.Precision < 0 {
		return GaussianUniform()
	}
	return r
}

// Pow returns g raised to the power s (natural parameters scale by s).
// A point mass stays a point mass for s > 0 and becomes uniform at s = 0.
func (g Gaussian) Pow(s float64) Gaussian {
	if g.isPoint {
		if s == 0 {
			return GaussianUniform()
		}
		return g
	}
	return Gaussian{MeanTimesPrecision: s * g.MeanTimesPrecision, Precision: s * g.Precision}
}

// GaussianWeightedSum returns the moment-matched mixture w1·a + w2·b.
// If either component with positive weight is uniform, the result is
// uniform (its infinite variance dominates the match).
func GaussianWeightedSum(w1 float64, a Gaussian, w2 float64, b Gaussian) Gaussian {
	if w1 == 0 {
		return b
	}
	if w2 == 0 {
		return a
	}
	if a.IsUniform() || b.IsUniform() {
		return GaussianUniform()
	}
	ma, va := a.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	w := w1 + w2
	m := (w1*ma + w2*mb) / w
	v := (w1*(va+ma*ma) + w2*(vb+mb*mb)) / w
	return GaussianFromMeanAndVariance(m, v-m*m)
}

// LogProb returns the log-density of g at x.
// A point mass yields 0 at its location and -Inf elsewhere. A message
// with zero precision keeps its linear term exp(mtp·x); for the uniform
// message (mtp = 0) this is the improper constant density 1.
func (g Gaussian) LogProb(x float64) float64 {
	if g.isPoint {
		if x == g.point {
			return 0
		}
		return math.Inf(-1)
	}
	if g.Precision == 0 {
		return g.MeanTimesPrecision * x
	}
	d := x - g.MeanTimesPrecision/g.Precision
	return 0.5*math.Log(g.Precision/(2*math.Pi)) - 0.5*g.Precision*d*d
}

// LogNormalizer returns the log-partition function of the natural
// parameters, mtp²/(2·prec) + log(2π/prec)/2. Defined for proper g only.
func (g Gaussian) LogNormalizer() float64 {
	if g.isPoint || g.Precision <= 0 {
		return 0
	}
	return g.MeanTimesPrecision*g.MeanTimesPrecision/(2*g.Precision) +
		0.5*math.Log(2*math.Pi/g.Precision)
}

// LogAverageOf returns log ∫ g(x)·b(x) dx, the log-normalizer of the
// product of the two messages. Uniform operands contribute factor 1.
func (g Gaussian) LogAverageOf(b Gaussian) float64 {
	if g.isPoint {
		return b.LogProb(g.point)
	}
	if b.isPoint {
		return g.LogProb(b.point)
	}
	if g.IsUniform() || b.IsUniform() {
		return 0
	}
	mg, vg := g.GetMeanAndVariance()
	mb, vb := b.GetMeanAndVariance()
	v := vg + vb
	d := mg - mb
	return -0.5*math.Log(2*math.Pi*v) - 0.5*d*d/v
}
