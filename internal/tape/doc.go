// Package tape implements the reverse-mode recording engine behind
// the public tape and active packages: a chunked, append-only log of
// elementary assignments plus the nested-position bookkeeping needed
// to rewind and replay any suffix of it.
//
// Two concrete tape types share this package: LinearTape assigns
// variable indices with a monotonic counter and never reuses one;
// ReuseTape recycles indices through a free list, bounding its adjoint
// vector by live working-set size rather than total statement count.
// They are kept as separate concrete types rather than unified behind
// a single generic Tape[Policy] — their statement record shapes differ
// (ReuseTape stores the lhs index per statement; LinearTape infers it
// from position) and unifying them would force an interface-dispatched
// record access on the reverse-evaluation hot path.
package tape
