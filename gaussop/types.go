package gaussop

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvprop/distrib"
)

// Options configures the message operators.
//
// Fields:
//   - ForceProper         - clamp ratio results to valid proper
//     distributions instead of returning improper messages.
//   - QuadratureNodeCount - node count of the adaptive quadrature
//     operator (accuracy/cost knob).
//   - ReferenceNodeCount  - grid size of the reference/slow operator.
//   - MaxFixedPointIters  - hard cap on the Laplace expansion-point
//     fixed-point loop before falling back to the bound search.
//
// Zero fields are replaced by their defaults in NewSite. Options are
// read-only during inference: never mutate them while a computation
// against any Site is in flight.
type Options struct {
	ForceProper         bool
	QuadratureNodeCount int
	ReferenceNodeCount  int
	MaxFixedPointIters  int
}

// DefaultOptions returns the canonical configuration: ForceProper on,
// 50 quadrature nodes, a 16384-node reference grid, 100 fixed-point
// iterations.
func DefaultOptions() Options {
	return Options{
		ForceProper:         true,
		QuadratureNodeCount: 50,
		ReferenceNodeCount:  16384,
		MaxFixedPointIters:  100,
	}
}

// normalized fills zero knobs with their defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.QuadratureNodeCount <= 0 {
		o.QuadratureNodeCount = d.QuadratureNodeCount
	}
	if o.ReferenceNodeCount <= 0 {
		o.ReferenceNodeCount = d.ReferenceNodeCount
	}
	if o.MaxFixedPointIters <= 0 {
		o.MaxFixedPointIters = d.MaxFixedPointIters
	}
	return o
}

// Site is the per-factor-site state threaded through successive operator
// calls: the expansion buffer Q, a Gamma over the precision that serves
// as the quadrature proposal and the Laplace expansion point.
//
// Lifecycle: created uniform at factor-site initialization, recomputed
// from the current messages on every update call, and discarded when the
// enclosing inference run ends. A Site is exclusively owned by its
// factor site; concurrent calls against the same Site must be serialized
// by the caller. Distinct Sites share no state.
type Site struct {
	opts Options
	q    distrib.Gamma
	x    float64 // converged Laplace expansion abscissa
}

// NewSite returns a Site with a uniform expansion buffer.
func NewSite(opts Options) *Site {
	return &Site{opts: opts.normalized(), q: distrib.GammaUniform()}
}

// Q reads the current expansion buffer.
func (s *Site) Q() distrib.Gamma { return s.q }

// Reset reinitializes the expansion buffer to uniform, as at site creation.
func (s *Site) Reset() {
	s.q = distrib.GammaUniform()
	s.x = 0
}

// checkGaussian rejects NaN natural parameters (caller bug).
func checkGaussian(g distrib.Gaussian, name string) error {
	if g.IsPointMass() {
		if math.IsNaN(g.Point()) {
			return fmt.Errorf("%s: NaN point mass: %w", name, ErrInvalidArgument)
		}
		return nil
	}
	if math.IsNaN(g.Precision) || math.IsNaN(g.MeanTimesPrecision) {
		return fmt.Errorf("%s: NaN natural parameters: %w", name, ErrInvalidArgument)
	}
	return nil
}

// checkGamma rejects NaN shape/rate (caller bug).
func checkGamma(g distrib.Gamma, name string) error {
	if g.IsPointMass() {
		if math.IsNaN(g.Point()) {
			return fmt.Errorf("%s: NaN point mass: %w", name, ErrInvalidArgument)
		}
		return nil
	}
	if math.IsNaN(g.Shape) || math.IsNaN(g.Rate) {
		return fmt.Errorf("%s: NaN shape/rate: %w", name, ErrInvalidArgument)
	}
	return nil
}

// checkGaussianResult fails fast on a corrupted outgoing message, with
// the producing moments in the error (downstream assumes validity).
func checkGaussianResult(g distrib.Gaussian, context string) error {
	if math.IsNaN(g.Precision) || math.IsNaN(g.MeanTimesPrecision) {
		return fmt.Errorf("%s produced NaN message (precision=%v mtp=%v): %w",
			context, g.Precision, g.MeanTimesPrecision, ErrInternal)
	}
	return nil
}

// checkGammaResult fails fast on a corrupted outgoing Gamma message.
func checkGammaResult(g distrib.Gamma, context string) error {
	if math.IsNaN(g.Shape) || math.IsNaN(g.Rate) {
		return fmt.Errorf("%s produced NaN message (shape=%v rate=%v): %w",
			context, g.Shape, g.Rate, ErrInternal)
	}
	return nil
}
