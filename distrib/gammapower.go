package distrib

import (
	"errors"
	"math"
)

// ErrPowerMismatch indicates Times/Ratio of GammaPower operands whose
// Power parameters differ. The algebra is only closed at equal powers;
// a mismatch is a caller bug.
var ErrPowerMismatch = errors.New("distrib: gamma-power operands have different powers")

// GammaPower is the law of Y = X^Power where X ~ Gamma(Shape, Rate).
// Power may be negative (e.g. -1 gives the inverse-Gamma family).
// The density over y is
//
//	p(y) ∝ y^((Shape-Power)/Power) · exp(-Rate·y^(1/Power)).
//
// Used by the power-factor operators; the uniform message has
// Shape = Power and Rate = 0 (constant density over y).
type GammaPower struct {
	Shape float64
	Rate  float64
	Power float64

	point   float64
	isPoint bool
}

// GammaPowerFromShapeAndRate builds a GammaPower message.
func GammaPowerFromShapeAndRate(shape, rate, power float64) GammaPower {
	return GammaPower{Shape: shape, Rate: rate, Power: power}
}

// GammaPowerFromGamma wraps a Gamma message as the law of X^power.
func GammaPowerFromGamma(g Gamma, power float64) GammaPower {
	if g.IsPointMass() {
		return GammaPowerPointMass(math.Pow(g.Point(), power), power)
	}
	return GammaPower{Shape: g.Shape, Rate: g.Rate, Power: power}
}

// GammaPowerPointMass returns the degenerate message concentrated at y.
func GammaPowerPointMass(y, power float64) GammaPower {
	return GammaPower{Power: power, point: y, isPoint: true}
}

// GammaPowerUniform returns the zero-information message for a power.
func GammaPowerUniform(power float64) GammaPower {
	return GammaPower{Shape: power, Power: power}
}

// IsPointMass reports whether g is a degenerate point mass.
func (g GammaPower) IsPointMass() bool { return g.isPoint }

// Point returns the location of a point mass; meaningless otherwise.
func (g GammaPower) Point() float64 { return g.point }

// IsUniform reports whether g carries no information.
func (g GammaPower) IsUniform() bool {
	return !g.isPoint && g.Shape == g.Power && g.Rate == 0
}

// IsProper reports whether g is a valid normalizable distribution.
func (g GammaPower) IsProper() bool {
	if g.isPoint {
		return true
	}
	return g.Shape > 0 && g.Rate > 0 && g.Power != 0 &&
		!math.IsInf(g.Shape, 0) && !math.IsInf(g.Rate, 0)
}

// GetMean returns E[Y] = Γ(shape+power) / (Γ(shape)·rate^power), or +Inf
// when the moment does not exist (shape+power ≤ 0 or rate = 0).
func (g GammaPower) GetMean() float64 {
	if g.isPoint {
		return g.point
	}
	return g.momentAt(g.Power)
}

// GetMeanAndVariance returns the first two moments of Y. Either may be
// +Inf when the corresponding Gamma moment does not exist.
func (g GammaPower) GetMeanAndVariance() (mean, variance float64) {
	if g.isPoint {
		return g.point, 0
	}
	m1 := g.momentAt(g.Power)
	m2 := g.momentAt(2 * g.Power)
	if math.IsInf(m1, 0) || math.IsInf(m2, 0) {
		return m1, math.Inf(1)
	}
	return m1, m2 - m1*m1
}

// momentAt returns E[X^c] for X ~ Gamma(shape, rate).
func (g GammaPower) momentAt(c float64) float64 {
	if g.Shape+c <= 0 || g.Rate <= 0 {
		return math.Inf(1)
	}
	lg1, _ := math.Lgamma(g.Shape + c)
	lg0, _ := math.Lgamma(g.Shape)
	return math.Exp(lg1 - lg0 - c*math.Log(g.Rate))
}

// GetMode returns ((shape-power)/rate)^power when shape > power, else 0.
func (g GammaPower) GetMode() float64 {
	if g.isPoint {
		return g.point
	}
	if g.Shape <= g.Power || g.Rate == 0 {
		return 0
	}
	return math.Pow((g.Shape-g.Power)/g.Rate, g.Power)
}

// Times returns the product message. The exponents over y add, which in
// shape terms is shape1 + shape2 − power; rates add. Powers must match.
func (g GammaPower) Times(b GammaPower) (GammaPower, error) {
	if !g.isPoint && !b.isPoint && g.Power != b.Power {
		return GammaPower{}, ErrPowerMismatch
	}
	if g.isPoint {
		return g, nil
	}
	if b.isPoint {
		return b, nil
	}
	return GammaPower{
		Shape: g.Shape + b.Shape - g.Power,
		Rate:  g.Rate + b.Rate,
		Power: g.Power,
	}, nil
}

// Ratio returns the quotient message (exponents subtract). ForceProper
// clamps shape to a tiny positive value and a negative rate to zero.
func (g GammaPower) Ratio(b GammaPower, forceProper bool) (GammaPower, error) {
	if !g.isPoint && !b.isPoint && g.Power != b.Power {
		return GammaPower{}, ErrPowerMismatch
	}
	if g.isPoint {
		return g, nil
	}
	if b.isPoint {
		return GammaPowerUniform(g.Power), nil
	}
	r := GammaPower{
		Shape: g.Shape - b.Shape + g.Power,
		Rate:  g.Rate - b.Rate,
		Power: g.Power,
	}
	if forceProper {
		if r.Shape <= 0 {
			r.Shape = minProperShape
		}
		if r.Rate < 0 {
			r.Rate = 0
		}
	}
	return r, nil
}

// Pow returns g raised to the power s: the y-exponent scales by s, so
// shape' = s·(shape − power) + power and rate' = s·rate.
func (g GammaPower) Pow(s float64) GammaPower {
	if g.isPoint {
		if s == 0 {
			return GammaPowerUniform(g.Power)
		}
		return g
	}
	return GammaPower{Shape: s*(g.Shape-g.Power) + g.Power, Rate: s * g.Rate, Power: g.Power}
}

// LogProb returns the log-density of g at y > 0, via the change of
// variables x = y^(1/power):
//
//	log p(y) = log Gamma(x; shape, rate) + log|dx/dy|.
func (g GammaPower) LogProb(y float64) float64 {
	if g.isPoint {
		if y == g.point {
			return 0
		}
		return math.Inf(-1)
	}
	if g.IsUniform() {
		return 0
	}
	if y <= 0 {
		return math.Inf(-1)
	}
	x := math.Pow(y, 1/g.Power)
	base := GammaFromShapeAndRate(g.Shape, g.Rate)
	// |dx/dy| = x/(|power|·y)
	return base.LogProb(x) + math.Log(x/(math.Abs(g.Power)*y))
}
