// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package active provides a minimal tracked scalar type, ActiveReal,
// that records its arithmetic onto a tape.Recorder.
//
// ActiveReal stands in for the expression-template / operator-
// overloading layer that sits above a recording tape in a full
// automatic-differentiation library — the part the tape core
// deliberately never imports, seeing expressions only through
// tape.Rhs. It exists here so the tape package has something concrete
// exercising every one of its recording entry points (Store, StoreCopy,
// StorePassive, PushJacobi, PushJacobiUnary, RegisterInput) from real
// scalar arithmetic.
//
// Example:
//
//	t := tape.NewLinearTape()
//	x := active.New(t, 3.0)
//	x.RegisterInput()
//	y := active.Mul(x, x)
//	y.SeedGradient(1)
//	t.Evaluate()
//	dydx := x.Gradient()
package active
