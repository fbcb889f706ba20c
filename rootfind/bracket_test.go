package rootfind_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvprop/rootfind"
)

// TestFindZeroes_NewtonSeededAtInflection finds the root of
// tanh(x) - 1/2, monotone on all of R with its inflection at 0.
func TestFindZeroes_NewtonSeededAtInflection(t *testing.T) {
	f := func(x float64) float64 { return math.Tanh(x) - 0.5 }
	df := func(x float64) float64 { c := math.Cosh(x); return 1 / (c * c) }

	roots := rootfind.FindZeroes(f, df,
		[]float64{math.Inf(-1), math.Inf(1)}, []float64{0})
	require.Len(t, roots, 1)
	assert.InDelta(t, math.Atanh(0.5), roots[0], 1e-10)
}

// TestFindZeroes_BisectionFallback finds both roots of x²-4 with no
// inflection seed available, forcing bisection with bracket expansion
// toward the infinite edges.
func TestFindZeroes_BisectionFallback(t *testing.T) {
	f := func(x float64) float64 { return x*x - 4 }
	df := func(x float64) float64 { return 2 * x }

	roots := rootfind.FindZeroes(f, df,
		[]float64{math.Inf(-1), 0, math.Inf(1)}, nil)
	require.Len(t, roots, 2)
	assert.InDelta(t, -2, roots[0], 1e-10)
	assert.InDelta(t, 2, roots[1], 1e-10)
}

// TestFindZeroes_NoCrossing returns nothing when the function never
// changes sign inside an interval.
func TestFindZeroes_NoCrossing(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	df := func(x float64) float64 { return 2 * x }

	roots := rootfind.FindZeroes(f, df,
		[]float64{math.Inf(-1), 0, math.Inf(1)}, nil)
	assert.Empty(t, roots)
}

// TestFindZeroes_InfiniteEdgeValue tolerates f evaluating to -Inf at a
// finite interval edge, the shape of the precision log-integrand at 0.
func TestFindZeroes_InfiniteEdgeValue(t *testing.T) {
	f := func(x float64) float64 {
		if x <= 0 {
			return math.Inf(-1)
		}
		return math.Log(x) + 1
	}
	df := func(x float64) float64 { return 1 / x }

	roots := rootfind.FindZeroes(f, df, []float64{0, 10}, nil)
	require.Len(t, roots, 1)
	assert.InDelta(t, math.Exp(-1), roots[0], 1e-10)
}
