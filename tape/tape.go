// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tape

import (
	"github.com/born-ml/codirecorder/internal/tape"
)

// LinearTape is a reverse-mode recording tape whose variable indices
// are assigned by a single monotonically increasing counter and never
// recycled.
type LinearTape = tape.LinearTape

// NewLinearTape creates an empty, active LinearTape with default
// options and chunk sizes.
func NewLinearTape() *LinearTape { return tape.NewLinearTape() }

// NewLinearTapeWithOptions creates an empty, active LinearTape with the
// given filtering options.
func NewLinearTapeWithOptions(opts Options) *LinearTape {
	return tape.NewLinearTapeWithOptions(opts)
}

// ReuseTape is a reverse-mode recording tape whose variable indices are
// recycled through a free list, bounding its adjoint vector by live
// working-set size rather than total statement count.
type ReuseTape = tape.ReuseTape

// NewReuseTape creates an empty, active ReuseTape with default options
// and chunk sizes.
func NewReuseTape() *ReuseTape { return tape.NewReuseTape() }

// NewReuseTapeWithOptions creates an empty, active ReuseTape with the
// given filtering options.
func NewReuseTapeWithOptions(opts Options) *ReuseTape {
	return tape.NewReuseTapeWithOptions(opts)
}
