package rootfind

import (
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// imagEps bounds the relative imaginary magnitude below which an
// eigenvalue of the companion matrix is accepted as a real root.
const imagEps = 1e-12

// RealRoots returns the real roots of the polynomial with the given
// coefficients, highest degree first. Roots are sorted ascending. The
// optional keep predicate filters the result (pass nil to keep all).
//
// The roots are computed as eigenvalues of the companion matrix;
// eigenvalues whose imaginary part is negligible relative to their
// magnitude are treated as real.
//
// Errors:
//   - ErrBadCoefficients - coeffs is empty or contains NaN/Inf.
//   - ErrEigenFailed     - the eigensolver did not converge.
func RealRoots(coeffs []float64, keep func(float64) bool) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, ErrBadCoefficients
	}
	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, ErrBadCoefficients
		}
	}
	// Strip leading zeros; a vanished leading coefficient lowers the degree.
	i := 0
	for i < len(coeffs)-1 && coeffs[i] == 0 {
		i++
	}
	coeffs = coeffs[i:]
	n := len(coeffs) - 1
	if n == 0 {
		return nil, nil
	}
	if n == 1 {
		r := -coeffs[1] / coeffs[0]
		if keep != nil && !keep(r) {
			return nil, nil
		}
		return []float64{r}, nil
	}

	// Companion matrix of the monic polynomial x^n + a1·x^(n-1) + ... + an.
	c := mat.NewDense(n, n, nil)
	for row := 1; row < n; row++ {
		c.Set(row, row-1, 1)
	}
	for row := 0; row < n; row++ {
		c.Set(row, n-1, -coeffs[n-row]/coeffs[0])
	}

	var eig mat.Eigen
	if !eig.Factorize(c, mat.EigenNone) {
		return nil, ErrEigenFailed
	}

	var roots []float64
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) > imagEps*math.Max(1, cmplx.Abs(v)) {
			continue
		}
		r := real(v)
		if keep != nil && !keep(r) {
			continue
		}
		roots = append(roots, r)
	}
	sort.Float64s(roots)
	return roots, nil
}

// Positive is a RealRoots filter keeping strictly positive roots.
func Positive(r float64) bool { return r > 0 }
