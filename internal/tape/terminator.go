package tape

// linearCounter is the innermost log terminator for a LinearTape: a
// monotonically increasing statement count. Its value doubles as the
// upper bound on live adjoint indices, since every pushed statement
// both advances the counter and becomes that statement's lhs index.
type linearCounter struct {
	count int
}

func (c *linearCounter) position() int { return c.count }
func (c *linearCounter) reset(pos int) { c.count = pos }
func (c *linearCounter) next() int {
	c.count++
	return c.count
}

// emptyTerminator is the innermost log terminator for a ReuseTape.
// Index allocation is handled entirely by the free-list index policy,
// so the jacobian log's terminator carries no position information of
// its own.
type emptyTerminator struct{}

func (emptyTerminator) position() int { return 0 }
func (emptyTerminator) reset(int)     {}
