package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexPolicies is the shared conformance fixture: every IndexPolicy
// implementation must satisfy the same index-0-never-issued and
// MaxIssued-non-decreasing invariants, regardless of whether it reuses
// freed indices.
func indexPolicies() map[string]IndexPolicy {
	return map[string]IndexPolicy{
		"linear": &LinearIndexPolicy{},
		"reuse":  &ReuseIndexPolicy{},
	}
}

func TestIndexPolicy_NeverIssuesZero(t *testing.T) {
	for name, p := range indexPolicies() {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				idx := 0
				p.CheckIndex(&idx)
				assert.NotZero(t, idx)
			}
		})
	}
}

func TestIndexPolicy_CheckIndexIsIdempotentWhileLive(t *testing.T) {
	for name, p := range indexPolicies() {
		t.Run(name, func(t *testing.T) {
			idx := 0
			p.CheckIndex(&idx)
			first := idx
			p.CheckIndex(&idx)
			assert.Equal(t, first, idx)
		})
	}
}

func TestIndexPolicy_FreeIndexZeroesTarget(t *testing.T) {
	for name, p := range indexPolicies() {
		t.Run(name, func(t *testing.T) {
			idx := 0
			p.CheckIndex(&idx)
			require.NotZero(t, idx)
			p.FreeIndex(&idx)
			assert.Zero(t, idx)
		})
	}
}

func TestLinearIndexPolicy_NeverReusesAFreedIndex(t *testing.T) {
	p := &LinearIndexPolicy{}
	a, b := 0, 0
	p.CheckIndex(&a)
	p.FreeIndex(&a)
	p.CheckIndex(&b)
	assert.NotEqual(t, 1, b, "a freed linear index must never be reissued")
}

func TestReuseIndexPolicy_ReissuesFreedIndicesBeforeMinting(t *testing.T) {
	p := &ReuseIndexPolicy{}
	a, b, c := 0, 0, 0
	p.CheckIndex(&a)
	p.CheckIndex(&b)
	p.FreeIndex(&a)
	p.CheckIndex(&c)
	assert.Equal(t, 1, c)
	assert.Equal(t, 2, p.MaxIssued(), "MaxIssued must not grow when an index is recycled")
}

func TestReuseIndexPolicy_Reset(t *testing.T) {
	p := &ReuseIndexPolicy{}
	idx := 0
	p.CheckIndex(&idx)
	p.Reset()
	assert.Zero(t, p.MaxIssued())
	fresh := 0
	p.CheckIndex(&fresh)
	assert.Equal(t, 1, fresh)
}
