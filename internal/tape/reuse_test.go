package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReuseTape_ScalarAffine(t *testing.T) {
	tp := NewReuseTape()
	var xi int
	tp.RegisterInput(&xi)
	x := 5.0

	var y float64
	var yi int
	tp.Store(&y, &yi, fakeExpr{value: 2*x + 3, terms: []fakeTerm{{index: xi, coeff: 2}}})

	tp.SetGradient(yi, 1)
	tp.Evaluate()

	assert.Equal(t, 2*x+3, y)
	assert.Equal(t, 2.0, tp.GetGradient(xi))
}

func TestReuseTape_ProductPlusVariable(t *testing.T) {
	tp := NewReuseTape()
	var xi, yi int
	tp.RegisterInput(&xi)
	tp.RegisterInput(&yi)
	x, y := 2.0, 5.0

	var p float64
	var pi int
	tp.Store(&p, &pi, fakeExpr{value: x * y, terms: []fakeTerm{{index: xi, coeff: y}, {index: yi, coeff: x}}})

	var z float64
	var zi int
	tp.Store(&z, &zi, fakeExpr{value: p + y, terms: []fakeTerm{{index: pi, coeff: 1}, {index: yi, coeff: 1}}})

	tp.SetGradient(zi, 1)
	tp.Evaluate()

	assert.Equal(t, x*y+y, z)
	assert.Equal(t, y, tp.GetGradient(xi))
	assert.Equal(t, x+1, tp.GetGradient(yi))
}

func TestReuseTape_RewindIsolatesDiscardedStatements(t *testing.T) {
	tp := NewReuseTape()
	var xi int
	tp.RegisterInput(&xi)
	x := 4.0

	var a float64
	var ai int
	tp.Store(&a, &ai, fakeExpr{value: x + 1, terms: []fakeTerm{{index: xi, coeff: 1}}})

	pos := tp.GetPosition()

	var b float64
	var bi int
	tp.Store(&b, &bi, fakeExpr{value: a * a, terms: []fakeTerm{{index: ai, coeff: 2 * a}}})
	_ = bi

	tp.ResetTo(pos)

	var c float64
	var ci int
	tp.Store(&c, &ci, fakeExpr{value: a * 3, terms: []fakeTerm{{index: ai, coeff: 3}}})

	tp.SetGradient(ci, 1)
	tp.Evaluate()

	assert.Equal(t, 3.0, tp.GetGradient(xi), "x's adjoint must flow only through the surviving c = 3a; a's own adjoint is consumed (zeroed) by the reuse walk")
}

func TestReuseTape_ExternalFunctionBoundaryAndRelease(t *testing.T) {
	tp := NewReuseTape()
	var xi int
	tp.RegisterInput(&xi)

	push := func(cur int) int {
		var v float64
		var vi int
		tp.Store(&v, &vi, fakeExpr{value: 0, terms: []fakeTerm{{index: cur, coeff: 1}}})
		return vi
	}

	cur := xi
	for i := 0; i < 10; i++ {
		cur = push(cur)
	}

	called := false
	released := false
	tp.PushExternalFunction(func() { called = true }, func() { released = true })

	for i := 0; i < 10; i++ {
		cur = push(cur)
	}
	last := cur

	tp.SetGradient(last, 1)
	tp.Evaluate()

	assert.True(t, called)
	assert.Equal(t, 1.0, tp.GetGradient(xi))

	tp.Reset()
	assert.True(t, released)
}

// TestReuseTape_MaxAdjointIndexBoundedBySelfAssignmentReuse is the
// scenario a LinearTape cannot offer: repeatedly overwriting one
// logical variable keeps the live index working set — and therefore
// the adjoint vector — bounded by roughly how many values are alive at
// once, not by the total number of assignments ever recorded.
func TestReuseTape_MaxAdjointIndexBoundedBySelfAssignmentReuse(t *testing.T) {
	tp := NewReuseTape()
	var xi int
	tp.RegisterInput(&xi)

	cur := xi
	for i := 0; i < 1000; i++ {
		var v float64
		var vi int
		tp.Store(&v, &vi, fakeExpr{value: 0, terms: []fakeTerm{{index: cur, coeff: 1}}})
		tp.FreeIndex(&cur)
		cur = vi
	}

	assert.LessOrEqual(t, tp.GetAdjointsSize(), 4, "index reuse should keep the adjoint vector to a handful of slots across 1000 self-assignments")
}

func TestReuseTape_StoreCopyRoutesThroughRhsIndex(t *testing.T) {
	tp := NewReuseTape()
	var xi int
	tp.RegisterInput(&xi)
	x := 7.0

	var y float64
	var yi int
	tp.StoreCopy(&y, &yi, x, xi)

	tp.SetGradient(yi, 1)
	tp.Evaluate()

	assert.Equal(t, x, y)
	assert.Equal(t, 1.0, tp.GetGradient(xi))
}

func TestReuseTape_StorePassiveAlwaysFreesIndex(t *testing.T) {
	tp := NewReuseTape()
	var xi int
	tp.RegisterInput(&xi)

	idx := xi
	var v float64
	tp.StorePassive(&v, &idx, 42)

	assert.Zero(t, idx)
	assert.Equal(t, 42.0, v)
}
