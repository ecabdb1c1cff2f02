package tape

// Options carries the tape's runtime filtering knobs. The source
// project exposes these as compile-time booleans (OptZeroAdjoint,
// OptIgnoreInvalidJacobies, OptJacobiIsZero); here they are fields set
// once at construction, since Go has no equivalent of a template
// parameter that would otherwise force a distinct generic tape type
// per flag combination.
type Options struct {
	// ZeroAdjoint skips the jacobian-consuming inner loop entirely for
	// any statement whose lhs adjoint is exactly zero when visited.
	ZeroAdjoint bool
	// IgnoreInvalidJacobies drops non-finite (NaN or Inf) jacobians at
	// push time instead of recording them.
	IgnoreInvalidJacobies bool
	// JacobiIsZero drops exactly-zero jacobians at push time.
	JacobiIsZero bool
}

// DefaultOptions matches the source project's defaults: all three
// filters enabled.
func DefaultOptions() Options {
	return Options{ZeroAdjoint: true, IgnoreInvalidJacobies: true, JacobiIsZero: true}
}

// DefaultChunkSize is the recommended chunk size for the jacobian and
// statement logs, matching the source project's compile-time default
// of 2^22 entries. Override with SetDataChunkSize / SetStatementChunkSize
// for tests or memory-constrained tapes.
const DefaultChunkSize = 1 << 22

// DefaultExternalFunctionChunkSize is the recommended chunk size for
// the external-function log.
const DefaultExternalFunctionChunkSize = 1000
