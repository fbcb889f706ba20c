// Package rootfind provides the numerical utilities shared by the
// message operators: polynomial real-root extraction, zero bracketing
// across piecewise-monotone functions, automatic integration bounds for
// the precision integrand, and Gauss-type quadrature rules for Gamma
// densities.
//
// What:
//
//   - RealRoots - all real roots of a polynomial (coefficients
//     highest-degree-first) via a companion-matrix eigensolve, optionally
//     filtered by a predicate (e.g. positivity).
//   - FindZeroes - every sign-change root of a function between its
//     consecutive stationary points, using Newton seeded at inflection
//     points and bisection with exponential bracket expansion as fallback.
//   - IntegrationBoundsForPrecision - the mode of the precision
//     log-integrand and the two points where it falls 50 nats below the
//     mode, bracketing everything that matters in double precision.
//   - GammaNodesAndWeights - generalized Gauss–Laguerre probability
//     quadrature for a Gamma(shape, rate) density via Golub–Welsch.
//
// Newton termination:
//
//	Between stationary points the target is analytically monotone, so
//	Newton converges from one side; the first step whose direction flips
//	signals floating-point convergence. No magnitude tolerance is used.
//
// Complexity:
//
//   - RealRoots: O(d³) for degree d (eigensolve), d ≤ 4 in practice.
//   - FindZeroes: O(k·c) for k intervals and c ≤ 200 evaluations each.
//   - GammaNodesAndWeights: O(n³) worst case for n nodes (symmetric
//     tridiagonal eigensolve), n ≈ 50 in practice.
//
// Errors (sentinel):
//
//   - ErrBadCoefficients - empty or non-finite coefficient vector.
//   - ErrEigenFailed     - the eigensolver did not converge.
//   - ErrBadNodeCount    - quadrature node count ≤ 0.
//   - ErrBadShape        - Gamma quadrature needs shape > 0 and rate > 0.
//   - ErrNoMode          - the precision integrand has no interior maximum.
//   - ErrBracketFailed   - the -50 level crossings could not be bracketed.
package rootfind

import "errors"

var (
	// ErrBadCoefficients indicates an empty or non-finite coefficient vector.
	ErrBadCoefficients = errors.New("rootfind: invalid polynomial coefficients")

	// ErrEigenFailed indicates the eigensolver did not converge.
	ErrEigenFailed = errors.New("rootfind: eigendecomposition failed")

	// ErrBadNodeCount indicates a non-positive quadrature node count.
	ErrBadNodeCount = errors.New("rootfind: node count must be positive")

	// ErrBadShape indicates invalid Gamma parameters for a quadrature rule.
	ErrBadShape = errors.New("rootfind: gamma quadrature needs shape > 0 and rate > 0")

	// ErrNoMode indicates the precision log-integrand has no interior maximum.
	ErrNoMode = errors.New("rootfind: log-integrand has no mode on (0, inf)")

	// ErrBracketFailed indicates the level crossings could not be located.
	ErrBracketFailed = errors.New("rootfind: failed to bracket level crossings")
)
