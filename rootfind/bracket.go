package rootfind

import "math"

// FindZeroes locates every sign-change root of f between consecutive
// entries of stationary, which must be sorted ascending and include the
// domain endpoints (these may be ±Inf). Between two stationary points f
// is monotone, so each interval holds at most one root.
//
// Within each crossing interval the root is found by Newton's method
// seeded at the inflection point (from inflections) with the largest
// |df| inside the interval; the seed guarantees a monotone step
// direction, and the iteration stops at the first step whose direction
// reverses. Newton falls back to bisection when it produces a non-finite
// value, leaves the interval, or no inflection seed exists; an infinite
// interval edge is handled by exponential bracket expansion from the
// finite edge.
//
// Intervals where f evaluates to NaN at an edge are skipped.
func FindZeroes(f, df func(float64) float64, stationary, inflections []float64) []float64 {
	var roots []float64
	for i := 0; i+1 < len(stationary); i++ {
		lo, hi := stationary[i], stationary[i+1]
		if !(lo < hi) {
			continue
		}
		if r, ok := zeroOnInterval(f, df, lo, hi, inflections); ok {
			roots = append(roots, r)
		}
	}
	return roots
}

// zeroOnInterval finds the single root of a monotone f on (lo, hi).
func zeroOnInterval(f, df func(float64) float64, lo, hi float64, inflections []float64) (float64, bool) {
	aX, aS := edgeValue(f, lo, hi)
	if aS == 0 {
		if math.IsNaN(f(aX)) {
			return 0, false
		}
		return aX, true
	}
	bX, bS := edgeValue(f, hi, lo)
	if bS == 0 {
		if math.IsNaN(f(bX)) {
			return 0, false
		}
		return bX, true
	}
	if aS == bS {
		return 0, false
	}
	if seed, ok := bestSeed(df, inflections, math.Min(aX, bX), math.Max(aX, bX)); ok {
		if root, ok := newton(f, df, aX, bX, seed); ok {
			return root, true
		}
	}
	return bisect(f, aX, bX), true
}

// edgeValue returns a finite abscissa representing the interval edge and
// the sign of f there. A finite edge is evaluated directly (an infinite
// f value still has a usable sign). An infinite edge is approached by
// exponential expansion from the other edge; if the sign never changes,
// the inner sign is reported and the interval holds no crossing.
func edgeValue(f func(float64) float64, end, inner float64) (float64, int) {
	if !math.IsInf(end, 0) {
		return end, fsign(f(end))
	}
	start := inner
	if math.IsInf(start, 0) {
		start = 0
	}
	ref := fsign(f(start))
	dir := 1.0
	if math.IsInf(end, -1) {
		dir = -1
	}
	step := math.Max(1, math.Abs(start))
	x := start
	for j := 0; j < 200; j++ {
		x = start + dir*step
		if s := fsign(f(x)); s != 0 && s != ref {
			return x, s
		}
		step *= 2
		if math.IsInf(step, 0) {
			break
		}
	}
	return x, ref
}

// bestSeed picks the inflection point strictly inside (lo, hi) with the
// largest finite |df|.
func bestSeed(df func(float64) float64, inflections []float64, lo, hi float64) (float64, bool) {
	best, bestAbs := 0.0, math.Inf(-1)
	found := false
	for _, p := range inflections {
		if p <= lo || p >= hi {
			continue
		}
		d := math.Abs(df(p))
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		if d > bestAbs {
			best, bestAbs = p, d
			found = true
		}
	}
	return best, found
}

// newton iterates x ← x − f(x)/df(x) inside (lo, hi), terminating on the
// first step-direction reversal. Returns ok=false when the iteration
// must fall back to bisection.
func newton(f, df func(float64) float64, lo, hi, seed float64) (float64, bool) {
	if lo > hi {
		lo, hi = hi, lo
	}
	x := seed
	prev := 0.0
	for i := 0; i < 100; i++ {
		fx := f(x)
		if fx == 0 {
			return x, true
		}
		if math.IsInf(fx, 0) || math.IsNaN(fx) {
			return 0, false
		}
		d := df(x)
		if d == 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			return 0, false
		}
		step := -fx / d
		if prev != 0 && (step > 0) != (prev > 0) {
			return x, true
		}
		nx := x + step
		if nx <= lo || nx >= hi {
			return 0, false
		}
		if nx == x {
			return x, true
		}
		x, prev = nx, step
	}
	return 0, false
}

// bisect halves [a, b] (sign change assumed) down to machine precision.
func bisect(f func(float64) float64, a, b float64) float64 {
	sa := fsign(f(a))
	for i := 0; i < 200; i++ {
		m := 0.5 * (a + b)
		if m == a || m == b {
			return m
		}
		fm := f(m)
		if fm == 0 {
			return m
		}
		if fsign(fm) == sa {
			a = m
		} else {
			b = m
		}
	}
	return 0.5 * (a + b)
}

// fsign returns the sign of v; zero and NaN both map to 0.
func fsign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
