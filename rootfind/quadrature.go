package rootfind

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GammaNodesAndWeights returns an n-point probability quadrature rule
// for the Gamma(shape, rate) density: Σ weights[i]·g(nodes[i]) ≈ E[g(X)],
// with the weights summing to 1. The rule is exact for polynomials of
// degree ≤ 2n-1.
//
// Construction is Golub–Welsch for the generalized Gauss–Laguerre family
// with α = shape-1 (so the node distribution matches the Gamma density
// in the standard Gauss–Laguerre sense): the nodes are the eigenvalues
// of the symmetric tridiagonal Jacobi matrix with diagonal 2k+α+1 and
// off-diagonal √(k(k+α)), the weights the squared first components of
// its orthonormal eigenvectors. Nodes are scaled by 1/rate.
//
// Errors:
//   - ErrBadNodeCount - n ≤ 0.
//   - ErrBadShape     - shape ≤ 0 or rate ≤ 0 (or non-finite).
//   - ErrEigenFailed  - the tridiagonal eigensolve did not converge.
func GammaNodesAndWeights(shape, rate float64, n int) (nodes, weights []float64, err error) {
	if n <= 0 {
		return nil, nil, ErrBadNodeCount
	}
	if !(shape > 0) || !(rate > 0) || math.IsInf(shape, 0) || math.IsInf(rate, 0) {
		return nil, nil, ErrBadShape
	}

	alpha := shape - 1
	jacobi := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		jacobi.SetSym(i, i, 2*float64(i)+alpha+1)
		if i+1 < n {
			k := float64(i + 1)
			jacobi.SetSym(i, i+1, math.Sqrt(k*(k+alpha)))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(jacobi, true) {
		return nil, nil, ErrEigenFailed
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	vals := eig.Values(nil)
	nodes = make([]float64, n)
	weights = make([]float64, n)
	for i := 0; i < n; i++ {
		nodes[i] = vals[i] / rate
		v := vecs.At(0, i)
		weights[i] = v * v
	}
	return nodes, weights, nil
}
