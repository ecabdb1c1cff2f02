// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package active

import "github.com/born-ml/codirecorder/tape"

// ActiveReal is a scalar value whose arithmetic is recorded onto a
// tape.Recorder for later reverse-mode evaluation.
type ActiveReal struct {
	tape  tape.Recorder
	value float64
	index int
}

// New creates an ActiveReal holding value, not yet tracked by the
// tape — its index is the inactive sentinel until RegisterInput is
// called.
func New(t tape.Recorder, value float64) ActiveReal {
	return ActiveReal{tape: t, value: value}
}

// Constant creates an ActiveReal holding a passive literal: it is
// recorded through StorePassive and never carries a gradient.
func Constant(t tape.Recorder, value float64) ActiveReal {
	r := ActiveReal{tape: t}
	t.StorePassive(&r.value, &r.index, value)
	return r
}

// Copy creates an ActiveReal that tracks the same tape variable as src,
// recorded through StoreCopy.
func Copy(src ActiveReal) ActiveReal {
	r := ActiveReal{tape: src.tape}
	src.tape.StoreCopy(&r.value, &r.index, src.value, src.index)
	return r
}

// RegisterInput marks r as a tape input, giving it a live index.
func (r *ActiveReal) RegisterInput() {
	r.tape.RegisterInput(&r.index)
}

// Release frees r's index back to its tape, standing in for the
// scope-exit release a destructor would give for free in the source
// project. Safe to call on an ActiveReal that was never registered.
func (r *ActiveReal) Release() {
	r.tape.FreeIndex(&r.index)
}

// Value returns r's primal value.
func (r ActiveReal) Value() float64 { return r.value }

// Index returns r's tape index, or the inactive sentinel (0) if r
// carries no gradient.
func (r ActiveReal) Index() int { return r.index }

// Gradient returns the adjoint accumulated for r by the most recent
// reverse pass.
func (r ActiveReal) Gradient() float64 { return r.tape.GetGradient(r.index) }

// SeedGradient sets r's adjoint directly, typically used to seed an
// output's sensitivity to 1 before calling Evaluate.
func (r ActiveReal) SeedGradient(g float64) { r.tape.SetGradient(r.index, g) }
