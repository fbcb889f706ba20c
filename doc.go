// Package lvprop is the message-computation core of an approximate
// Bayesian inference engine, built around the factor
//
//	sample ~ Normal(mean, 1/precision)
//
// with an uncertain mean and a Gamma-distributed precision.
//
// 🚀 What is lvprop?
//
//	A numerical library that computes, for each argument of the factor,
//	an updated belief ("message") approximating that argument's
//	conditional posterior contribution:
//		• Distribution algebra: Gaussian, Gamma, TruncatedGamma, GammaPower
//		  in natural parameters, with product/ratio/power/mixture
//		• Root-finding: polynomial real roots, unimodal zero bracketing,
//		  automatic integration bounds, Gauss-type Gamma quadrature
//		• Closed-form messages for known-constant precision
//		• Adaptive ~50-node quadrature messages for stochastic precision
//		• A dense-grid reference operator for validation and fallback
//		• A Laplace operator with a persistent, re-estimated expansion point
//
// ✨ Why choose lvprop?
//
//   - Numerically careful – log-domain shifting, Newton with bisection
//     fallback, expansion-point re-initialization against competing optima
//   - Explicit failure taxonomy – improper inputs, degenerate evidence and
//     internal invariant violations are distinct, matchable errors
//   - Pure CPU-bound Go – no I/O, no hidden globals, caller-owned state
//
// Everything is organized under three subpackages:
//
//	distrib/  - exponential-family message types & their algebra
//	rootfind/ - polynomial roots, zero bracketing, bounds, quadrature rules
//	gaussop/  - the message operators (closed-form, quadrature, reference, Laplace)
//
// Quick sketch of one EP update:
//
//	site := gaussop.NewSite(gaussop.DefaultOptions())
//	msg, err := site.SampleAverageConditional(sample, mean, precision)
//
// Dive into each package's doc.go for the algorithms, complexity notes
// and error contracts.
package lvprop
