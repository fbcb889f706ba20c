package rootfind_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvprop/rootfind"
)

// TestGammaNodesAndWeights_Moments verifies the rule integrates the
// polynomial moments of the Gamma density exactly (up to rounding):
// Σw = 1, Σw·x = a/b, Σw·x² = a(a+1)/b².
func TestGammaNodesAndWeights_Moments(t *testing.T) {
	for _, tc := range []struct {
		name        string
		shape, rate float64
		n           int
	}{
		{"unit", 1, 1, 20},
		{"typical", 2, 1, 50},
		{"fractional-shape", 0.5, 2, 50},
		{"sharp", 100, 100, 50},
	} {
		t.Run(tc.name, func(t *testing.T) {
			nodes, weights, err := rootfind.GammaNodesAndWeights(tc.shape, tc.rate, tc.n)
			require.NoError(t, err)
			require.Len(t, nodes, tc.n)
			require.Len(t, weights, tc.n)

			var w0, w1, w2 float64
			for i := range nodes {
				require.Positive(t, nodes[i], "gamma nodes live on (0, inf)")
				w0 += weights[i]
				w1 += weights[i] * nodes[i]
				w2 += weights[i] * nodes[i] * nodes[i]
			}
			a, b := tc.shape, tc.rate
			assert.InDelta(t, 1, w0, 1e-10, "weights sum to one")
			assert.InDelta(t, a/b, w1, 1e-8*math.Max(1, a/b), "first moment")
			assert.InDelta(t, a*(a+1)/(b*b), w2, 1e-8*math.Max(1, a*(a+1)/(b*b)), "second moment")
		})
	}
}

// TestGammaNodesAndWeights_SmallRule checks the analytically known
// one-point rule: a single node must sit at the mean.
func TestGammaNodesAndWeights_SmallRule(t *testing.T) {
	nodes, weights, err := rootfind.GammaNodesAndWeights(3, 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, nodes[0], 1e-12, "one-point rule sits at E[X]=a/b")
	assert.InDelta(t, 1, weights[0], 1e-12)
}

// TestGammaNodesAndWeights_InvalidInput covers the error contract.
func TestGammaNodesAndWeights_InvalidInput(t *testing.T) {
	_, _, err := rootfind.GammaNodesAndWeights(2, 1, 0)
	assert.ErrorIs(t, err, rootfind.ErrBadNodeCount)

	_, _, err = rootfind.GammaNodesAndWeights(0, 1, 10)
	assert.ErrorIs(t, err, rootfind.ErrBadShape)

	_, _, err = rootfind.GammaNodesAndWeights(2, -1, 10)
	assert.ErrorIs(t, err, rootfind.ErrBadShape)
}
