// Package gaussop computes the messages of the factor
//
//	sample ~ Normal(mean, 1/precision)
//
// for iterative approximate inference: given the current beliefs about
// two of {sample, mean, precision}, each operator returns an updated
// belief about the third, plus the factor's contribution to the model
// log-evidence.
//
// Four operator families cover the approximation regimes:
//
//   - Closed-form (exact.go) - precision is a known constant; messages
//     are exact Normal shrinkage formulas, evidence is a Normal or
//     Student-t log-density.
//   - Quadrature (quadrature.go) - precision is a Gamma message; moments
//     are accumulated over a small (≈50-node) Gauss-type grid placed on
//     an adaptive Gamma proposal and importance-corrected back to the
//     precision message.
//   - Reference/slow (slow.go) - the same contract over a dense
//     (≈16k-node) deterministic grid between automatically derived
//     integration bounds; used for validation and as fallback.
//   - Laplace (laplace.go) - maintains a persistent expansion point (the
//     mode of the precision integrand) by a monotone fixed-point
//     iteration and derives moments from local derivatives.
//
// State & concurrency:
//
//	A Site holds the per-factor-site expansion buffer Q (the quadrature
//	proposal / Laplace expansion Gamma). A Site is exclusively owned by
//	its factor site: calls against the same Site must be serialized by
//	the caller, while calls against different Sites are independent and
//	freely parallel. Options are read-only during a call.
//
// Errors (sentinel, matched with errors.Is):
//
//   - ErrInvalidArgument         - NaN parameters or impossible options: caller bug.
//   - ErrImproperMessage         - an input violates the positivity/properness
//     precondition for a valid outgoing message ("dependency not satisfied").
//   - ErrUnsupportedConfiguration - documented permanent limitation.
//   - ErrDegenerateEvidence      - total mass rounds to zero: contradictory beliefs.
//   - ErrInternal                - NaN/negative variance surfaced mid-computation;
//     reported with the producing parameters, never returned silently.
//
// Robustness comes from log-domain shifting before summation, Newton
// with bisection fallback in the bound search, expansion-point
// re-initialization against competing local optima, and hard iteration
// caps with a deterministic fallback to the reference bound-search path.
// No operation retries and no call blocks.
package gaussop
