package tape

// IndexPolicy allocates and recycles variable identifiers. Index 0 is
// the permanent inactive sentinel and is never issued.
//
// Neither tape calls through this interface on its hot path: LinearTape
// uses its own counter, which doubles as the jacobian log's terminator,
// and ReuseTape holds a concrete ReuseIndexPolicy and calls its methods
// directly — the indirection would cost a dynamic dispatch on every
// Store call for no benefit. The interface exists so the invariants the
// two allocation strategies share (index 0 never issued, CheckIndex
// leaving a live index alone, FreeIndex zeroing its target) can be
// exercised by one table-driven test.
type IndexPolicy interface {
	// CheckIndex assigns *idx a fresh or recycled index if it is
	// currently zero; otherwise it leaves *idx untouched.
	CheckIndex(idx *int)
	// FreeIndex releases *idx for reuse (or discards it, for policies
	// that never reuse) and sets *idx to zero.
	FreeIndex(idx *int)
	// MaxIssued returns the highest index ever issued.
	MaxIssued() int
	// Reset returns the policy to its initial state.
	Reset()
}

// LinearIndexPolicy issues a fresh, ever-increasing index on every
// CheckIndex call and never reuses one.
type LinearIndexPolicy struct {
	counter int
}

func (p *LinearIndexPolicy) CheckIndex(idx *int) {
	if *idx == 0 {
		p.counter++
		*idx = p.counter
	}
}

func (p *LinearIndexPolicy) FreeIndex(idx *int) { *idx = 0 }
func (p *LinearIndexPolicy) MaxIssued() int     { return p.counter }
func (p *LinearIndexPolicy) Reset()             { p.counter = 0 }

// ReuseIndexPolicy recycles released indices through a LIFO free list
// before minting new ones, bounding the live working set's index range
// independently of how many variables have existed over the tape's
// lifetime.
type ReuseIndexPolicy struct {
	maxIssued int
	freeList  []int
}

func (p *ReuseIndexPolicy) CheckIndex(idx *int) {
	if *idx != 0 {
		return
	}
	if n := len(p.freeList); n > 0 {
		*idx = p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return
	}
	p.maxIssued++
	*idx = p.maxIssued
}

func (p *ReuseIndexPolicy) FreeIndex(idx *int) {
	if *idx == 0 {
		return
	}
	p.freeList = append(p.freeList, *idx)
	*idx = 0
}

func (p *ReuseIndexPolicy) MaxIssued() int { return p.maxIssued }

func (p *ReuseIndexPolicy) Reset() {
	p.maxIssued = 0
	p.freeList = p.freeList[:0]
}
