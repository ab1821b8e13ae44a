// SPDX-License-Identifier: MIT

// Package matrix: functional configuration of the numeric policy.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Every option changes observable behavior and is covered by tests.

package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the tolerance used by ValidateSymmetric callers that
	// have no better estimate of their rounding error.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation in Set.
	DefaultValidateNaNInf = true
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
}

// WithValidateNaNInf enables strict finite-value validation (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf lets Set store NaN and ±Inf.
//
// Notes:
//   - Used for measurement matrices, where a NaN sample must survive into
//     derived products rather than abort the computation.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions resolves opts over the documented defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
