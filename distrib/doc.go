// Package distrib implements the exponential-family distribution algebra
// consumed by the message operators: Gaussian and Gamma message types in
// natural parameters, plus the power-parameterized Gamma variants
// (TruncatedGamma, GammaPower) shared with the power-factor operators.
//
// What:
//
//   - Gaussian - natural parameters (Precision, MeanTimesPrecision).
//   - Gamma - natural parameters (Shape-1, Rate), stored as (Shape, Rate).
//   - TruncatedGamma - a Gamma restricted to [Lower, Upper], normalized
//     by the regularized incomplete gamma function.
//   - GammaPower - the law of X^Power where X ~ Gamma(Shape, Rate).
//
// All types are small immutable values: every operation returns a new
// value and never mutates its receiver. Degenerate states are first-class:
//
//   - point mass - the zero-variance limit, represented by a flag + value
//     (conceptually Precision = ∞ / Rate = ∞);
//   - uniform - the zero-information limit (all natural parameters zero:
//     Gaussian Precision = 0, Gamma Shape = 1 & Rate = 0).
//
// Why natural parameters:
//
//	Under the natural parameterization, the product and ratio of two
//	same-family distributions reduce to addition and subtraction, the
//	operations iterative message passing performs millions of times.
//
// Algebra (per family, where applicable):
//
//	FromNatural, FromShapeAndRate, FromMeanAndPrecision, FromMeanAndVariance,
//	FromDerivatives, PointMass, Uniform,
//	GetMean, GetVariance, GetMeanAndVariance, GetMeanLog, GetMode,
//	IsPointMass, IsUniform, IsProper,
//	Times, Ratio(denominator, forceProper), Pow, WeightedSum,
//	LogProb, LogAverageOf, LogNormalizer.
//
// ForceProper semantics:
//
//	Ratio with forceProper=true clamps a result with invalid natural
//	parameters to the nearest valid proper distribution instead of
//	returning an improper one: a Gaussian with negative precision becomes
//	uniform; a Gamma has its shape clamped positive and a negative rate
//	clamped to zero. Message operators rely on this pervasively.
//
// Errors:
//
//   - ErrPowerMismatch - Times/Ratio of GammaPower values whose Power
//     parameters differ (caller bug, not recoverable).
//
// Improper parameter combinations (negative Gaussian precision, Gamma
// shape ≤ 0) are representable on purpose - EP routinely produces them
// mid-iteration - and are detectable via IsProper.
package distrib
