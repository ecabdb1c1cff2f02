// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tape provides the public API for recording and replaying
// reverse-mode automatic differentiation tapes.
//
// The package defines two concrete tape implementations and the
// interfaces an expression layer (such as the active package) needs to
// drive them:
//   - LinearTape: assigns variable indices with a monotonic counter.
//   - ReuseTape: recycles released indices, bounding its adjoint
//     vector by live working-set size rather than total statement
//     count.
//   - Rhs / GradientSink: the contract an expression's right-hand side
//     must satisfy to be recorded by Store.
//   - Recorder: the common surface both tape types implement.
//
// Example:
//
//	t := tape.NewLinearTape()
//	var xi int
//	t.RegisterInput(&xi)
//	// ... record assignments through t.Store ...
//	t.SetGradient(yi, 1)
//	t.Evaluate()
//	dydx := t.GetGradient(xi)
package tape

import (
	"github.com/born-ml/codirecorder/internal/tape"
)

// Type aliases for the public API.

// Position locates a point in a tape's external-function log — its
// top-level position, as returned by GetPosition.
type Position = tape.Position

// Options carries a tape's runtime filtering knobs.
type Options = tape.Options

// Rhs is the contract an expression on the right-hand side of a
// tracked assignment must satisfy so Store can record it.
type Rhs = tape.Rhs

// GradientSink is the minimal surface an expression leaf needs to push
// a jacobian entry during CalcGradient.
type GradientSink = tape.GradientSink

// Recorder is the common surface implemented by both LinearTape and
// ReuseTape.
type Recorder = tape.Recorder

// IndexPolicy allocates and recycles variable identifiers.
type IndexPolicy = tape.IndexPolicy

// LinearIndexPolicy issues a fresh, ever-increasing index on every
// CheckIndex call and never reuses one.
type LinearIndexPolicy = tape.LinearIndexPolicy

// ReuseIndexPolicy recycles released indices through a LIFO free list.
type ReuseIndexPolicy = tape.ReuseIndexPolicy

// DefaultOptions matches the source project's defaults: all filters
// enabled.
func DefaultOptions() Options { return tape.DefaultOptions() }

// DefaultChunkSize is the recommended chunk size for the jacobian and
// statement logs.
const DefaultChunkSize = tape.DefaultChunkSize

// DefaultExternalFunctionChunkSize is the recommended chunk size for
// the external-function log.
const DefaultExternalFunctionChunkSize = tape.DefaultExternalFunctionChunkSize

// ComparePosition returns -1, 0, or 1 as a compares before, equal to,
// or after b in the tape's total order.
func ComparePosition(a, b Position) int { return tape.ComparePosition(a, b) }
