// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package active

import (
	"math"

	"github.com/born-ml/codirecorder/tape"
)

// Add computes a + b. d/da = 1, d/db = 1.
func Add(a, b ActiveReal) ActiveReal {
	r := ActiveReal{tape: a.tape}
	a.tape.Store(&r.value, &r.index, addExpr{a, b})
	return r
}

type addExpr struct{ a, b ActiveReal }

func (e addExpr) Value() float64          { return e.a.value + e.b.value }
func (e addExpr) MaxActiveVariables() int { return 2 }
func (e addExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobiUnary(e.a.index)
	sink.PushJacobiUnary(e.b.index)
}

// Sub computes a - b. d/da = 1, d/db = -1.
func Sub(a, b ActiveReal) ActiveReal {
	r := ActiveReal{tape: a.tape}
	a.tape.Store(&r.value, &r.index, subExpr{a, b})
	return r
}

type subExpr struct{ a, b ActiveReal }

func (e subExpr) Value() float64          { return e.a.value - e.b.value }
func (e subExpr) MaxActiveVariables() int { return 2 }
func (e subExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobiUnary(e.a.index)
	sink.PushJacobi(-1, e.b.index)
}

// Mul computes a * b. d/da = b, d/db = a.
func Mul(a, b ActiveReal) ActiveReal {
	r := ActiveReal{tape: a.tape}
	a.tape.Store(&r.value, &r.index, mulExpr{a, b})
	return r
}

type mulExpr struct{ a, b ActiveReal }

func (e mulExpr) Value() float64          { return e.a.value * e.b.value }
func (e mulExpr) MaxActiveVariables() int { return 2 }
func (e mulExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(e.b.value, e.a.index)
	sink.PushJacobi(e.a.value, e.b.index)
}

// Div computes a / b. d/da = 1/b, d/db = -a/b^2.
func Div(a, b ActiveReal) ActiveReal {
	r := ActiveReal{tape: a.tape}
	a.tape.Store(&r.value, &r.index, divExpr{a, b})
	return r
}

type divExpr struct{ a, b ActiveReal }

func (e divExpr) Value() float64          { return e.a.value / e.b.value }
func (e divExpr) MaxActiveVariables() int { return 2 }
func (e divExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(1/e.b.value, e.a.index)
	sink.PushJacobi(-e.a.value/(e.b.value*e.b.value), e.b.index)
}

// Sin computes sin(x). d/dx = cos(x).
func Sin(x ActiveReal) ActiveReal {
	r := ActiveReal{tape: x.tape}
	x.tape.Store(&r.value, &r.index, sinExpr{x})
	return r
}

type sinExpr struct{ x ActiveReal }

func (e sinExpr) Value() float64          { return math.Sin(e.x.value) }
func (e sinExpr) MaxActiveVariables() int { return 1 }
func (e sinExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(math.Cos(e.x.value), e.x.index)
}

// Cos computes cos(x). d/dx = -sin(x).
func Cos(x ActiveReal) ActiveReal {
	r := ActiveReal{tape: x.tape}
	x.tape.Store(&r.value, &r.index, cosExpr{x})
	return r
}

type cosExpr struct{ x ActiveReal }

func (e cosExpr) Value() float64          { return math.Cos(e.x.value) }
func (e cosExpr) MaxActiveVariables() int { return 1 }
func (e cosExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(-math.Sin(e.x.value), e.x.index)
}

// Exp computes exp(x). d/dx = exp(x).
func Exp(x ActiveReal) ActiveReal {
	r := ActiveReal{tape: x.tape}
	x.tape.Store(&r.value, &r.index, expExpr{x})
	return r
}

type expExpr struct{ x ActiveReal }

func (e expExpr) Value() float64          { return math.Exp(e.x.value) }
func (e expExpr) MaxActiveVariables() int { return 1 }
func (e expExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(math.Exp(e.x.value), e.x.index)
}

// Log computes ln(x). d/dx = 1/x.
func Log(x ActiveReal) ActiveReal {
	r := ActiveReal{tape: x.tape}
	x.tape.Store(&r.value, &r.index, logExpr{x})
	return r
}

type logExpr struct{ x ActiveReal }

func (e logExpr) Value() float64          { return math.Log(e.x.value) }
func (e logExpr) MaxActiveVariables() int { return 1 }
func (e logExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(1/e.x.value, e.x.index)
}

// Sqrt computes sqrt(x). d/dx = 1 / (2*sqrt(x)).
func Sqrt(x ActiveReal) ActiveReal {
	r := ActiveReal{tape: x.tape}
	x.tape.Store(&r.value, &r.index, sqrtExpr{x})
	return r
}

type sqrtExpr struct{ x ActiveReal }

func (e sqrtExpr) Value() float64          { return math.Sqrt(e.x.value) }
func (e sqrtExpr) MaxActiveVariables() int { return 1 }
func (e sqrtExpr) CalcGradient(sink tape.GradientSink) {
	sink.PushJacobi(1/(2*math.Sqrt(e.x.value)), e.x.index)
}
