// Package gaussop: sentinel error set. All operators return these
// sentinels, wrapped with fmt.Errorf("ctx: %w", ErrX) where parameter
// context is essential; tests match via errors.Is.

package gaussop

import "errors"

var (
	// ErrInvalidArgument indicates NaN parameters, mismatched counts or
	// impossible options. A caller bug: propagate immediately, no retry.
	ErrInvalidArgument = errors.New("gaussop: invalid argument")

	// ErrImproperMessage indicates an incoming message that violates the
	// properness precondition needed to form a valid outgoing message
	// (e.g. combined precision ≤ 0, or an infinite-variance posterior).
	// Schedulers treat this as "dependency not yet satisfied".
	ErrImproperMessage = errors.New("gaussop: improper message")

	// ErrUnsupportedConfiguration indicates a documented permanent
	// limitation of this approximation family. Never silently approximated.
	ErrUnsupportedConfiguration = errors.New("gaussop: unsupported configuration")

	// ErrDegenerateEvidence indicates the total probability mass over the
	// integration domain rounds to zero: the incoming beliefs contradict
	// each other. No fallback value is substituted.
	ErrDegenerateEvidence = errors.New("gaussop: evidence mass is zero")

	// ErrInternal indicates a NaN or negative shape/rate/variance surfaced
	// from arithmetic, or a defect detected by a defensive check. The
	// wrapped message carries the producing parameters.
	ErrInternal = errors.New("gaussop: internal invariant violation")
)
