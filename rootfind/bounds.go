package rootfind

import (
	"fmt"
	"math"
	"sort"
)

// LogMargin is the drop below the integrand mode at which the
// integration bounds are placed: exp(-50) is negligible in double
// precision, so mass outside the bounds cannot affect any sum.
const LogMargin = 50

// PrecisionLogIntegrand returns φ(r) = a·log r − b·r − ½·log(v+1/r)
// − ½·m²/(v+1/r) and its first derivative, the log-integrand over a
// precision r > 0 with difference-of-means m, combined variance v and a
// Gamma(a+1, b)-shaped prior weight. Both functions return -Inf / 0
// respectively outside the domain.
func PrecisionLogIntegrand(m, v, a, b float64) (f, df func(float64) float64) {
	f = func(r float64) float64 {
		if r <= 0 {
			return math.Inf(-1)
		}
		u := v + 1/r
		return a*math.Log(r) - b*r - 0.5*math.Log(u) - 0.5*m*m/u
	}
	df = func(r float64) float64 {
		if r <= 0 {
			return 0
		}
		q := v*r + 1
		return (a+0.5)/r - b - 0.5*v/q - 0.5*m*m/(q*q)
	}
	return f, df
}

// IntegrationBoundsForPrecision finds the mode of the precision
// log-integrand φ (see PrecisionLogIntegrand) over r > 0 and the two
// points lower < mode < upper where φ drops LogMargin below its maximum.
//
// The stationary points of φ are the positive roots of the cubic
//
//	-b·v²·r³ + (a·v² - 2bv)·r² + (2av + v/2 - b - m²/2)·r + (a + ½) = 0
//
// (φ′ cleared by r·(vr+1)²) and its inflection points the positive roots
// of the cubic
//
//	a·v³·r³ + ((3a+1)·v² - m²v)·r² + 3(a+½)·v·r + (a+½) = 0
//
// (φ″ cleared by -r²·(vr+1)³). The level crossings are located by
// FindZeroes seeded with those points.
//
// Requirements: b > 0 and a > -½, so φ → -Inf at both domain ends.
//
// Errors:
//   - ErrNoMode        - no positive stationary point (invalid a, b, v).
//   - ErrBracketFailed - fewer than two level crossings found.
func IntegrationBoundsForPrecision(m, v, a, b float64) (lower, mode, upper float64, err error) {
	if math.IsNaN(m) || math.IsNaN(v) || v < 0 || math.IsInf(v, 0) {
		return 0, 0, 0, fmt.Errorf("m=%v v=%v: %w", m, v, ErrNoMode)
	}
	if b <= 0 || a <= -0.5 {
		return 0, 0, 0, fmt.Errorf("a=%v b=%v: %w", a, b, ErrNoMode)
	}

	f, df := PrecisionLogIntegrand(m, v, a, b)

	stationary, rerr := RealRoots([]float64{
		-b * v * v,
		a*v*v - 2*b*v,
		2*a*v + 0.5*v - b - 0.5*m*m,
		a + 0.5,
	}, Positive)
	if rerr != nil {
		return 0, 0, 0, rerr
	}
	if len(stationary) == 0 {
		return 0, 0, 0, ErrNoMode
	}

	mode = stationary[0]
	for _, r := range stationary[1:] {
		if f(r) > f(mode) {
			mode = r
		}
	}
	target := f(mode) - LogMargin

	inflections, rerr := RealRoots([]float64{
		a * v * v * v,
		(3*a+1)*v*v - m*m*v,
		3 * (a + 0.5) * v,
		a + 0.5,
	}, Positive)
	if rerr != nil {
		return 0, 0, 0, rerr
	}

	g := func(r float64) float64 { return f(r) - target }
	partition := append([]float64{0}, stationary...)
	partition = append(partition, math.Inf(1))
	sort.Float64s(partition)

	zeros := FindZeroes(g, df, partition, inflections)
	if len(zeros) < 2 {
		return 0, 0, 0, fmt.Errorf("m=%v v=%v a=%v b=%v: %w", m, v, a, b, ErrBracketFailed)
	}
	lower, upper = zeros[0], zeros[0]
	for _, z := range zeros[1:] {
		lower = math.Min(lower, z)
		upper = math.Max(upper, z)
	}
	return lower, mode, upper, nil
}
