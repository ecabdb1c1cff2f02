package tape

// fakeTerm is one leaf contribution used by fakeExpr in tests, standing
// in for the active package's real expression nodes.
type fakeTerm struct {
	index int
	coeff float64
}

// fakeExpr is a minimal Rhs: a precomputed value plus a fixed list of
// (coefficient, index) leaves. coeff == 1 routes through
// PushJacobiUnary to exercise both GradientSink entry points.
type fakeExpr struct {
	value float64
	terms []fakeTerm
}

func (e fakeExpr) Value() float64         { return e.value }
func (e fakeExpr) MaxActiveVariables() int { return len(e.terms) }

func (e fakeExpr) CalcGradient(sink GradientSink) {
	for _, term := range e.terms {
		if term.coeff == 1 {
			sink.PushJacobiUnary(term.index)
		} else {
			sink.PushJacobi(term.coeff, term.index)
		}
	}
}
