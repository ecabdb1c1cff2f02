package tape

// chunk is a fixed-capacity slice of records. Once full it is sealed
// and never written to again; a chunkVector starts a fresh one.
type chunk[R any] struct {
	records []R
	used    int
}

func newChunk[R any](capacity int) *chunk[R] {
	return &chunk[R]{records: make([]R, capacity)}
}

func (c *chunk[R]) remaining() int {
	return len(c.records) - c.used
}

// innerLog is the interface a chunkVector's predecessor in the nesting
// must satisfy: a position snapshot and a rewind.
type innerLog[P any] interface {
	position() P
	reset(pos P)
}

// chunkVector is a composable append-only log: a growing sequence of
// fixed-capacity chunks of record type R, each sealed chunk remembering
// the inner log's position at the moment it was sealed. Stacking three
// of these (jacobian, statement, external-function) with each using the
// one below as its inner log is what gives the tape its nested
// Position type.
type chunkVector[R any, P any] struct {
	chunks      []*chunk[R]
	innerAtSeal []P
	current     int
	chunkSize   int
	inner       innerLog[P]
}

func newChunkVector[R any, P any](chunkSize int, inner innerLog[P]) *chunkVector[R, P] {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &chunkVector[R, P]{
		chunks:      []*chunk[R]{newChunk[R](chunkSize)},
		innerAtSeal: make([]P, 1),
		chunkSize:   chunkSize,
		inner:       inner,
	}
}

// setChunkSize changes the capacity used for chunks started from now
// on; chunks already allocated are unaffected.
func (cv *chunkVector[R, P]) setChunkSize(size int) {
	if size < 1 {
		size = 1
	}
	cv.chunkSize = size
}

// ensureCapacity grows the still-empty current chunk to hold at least n
// records and raises the chunk size used for future chunks, so that up
// to n records can be pushed without an intervening seal. It is a
// best-effort pre-warming hint, not a hard guarantee once the current
// chunk has already received writes.
func (cv *chunkVector[R, P]) ensureCapacity(n int) {
	cur := cv.chunks[cv.current]
	if cur.used == 0 && len(cur.records) < n {
		cur.records = make([]R, n)
	}
	if cv.chunkSize < n {
		cv.chunkSize = n
	}
}

// reserveItems ensures k contiguous slots are available in the current
// chunk, sealing it and starting a fresh one if not. Sealing snapshots
// the inner log's position for the sealed chunk and leaves its real
// used count untouched — the unused tail capacity, if any, is simply
// never written or read again.
func (cv *chunkVector[R, P]) reserveItems(k int) {
	cur := cv.chunks[cv.current]
	if cur.remaining() >= k {
		return
	}
	cv.innerAtSeal[cv.current] = cv.inner.position()
	size := cv.chunkSize
	if size < k {
		size = k
	}
	cv.chunks = append(cv.chunks, newChunk[R](size))
	var zero P
	cv.innerAtSeal = append(cv.innerAtSeal, zero)
	cv.current++
}

// push appends rec to the current chunk. The caller must have already
// reserved room for it with reserveItems.
func (cv *chunkVector[R, P]) push(rec R) {
	c := cv.chunks[cv.current]
	if c.used >= len(c.records) {
		panic("tape: push called without a matching reserveItems")
	}
	c.records[c.used] = rec
	c.used++
}

// position returns the log's current position.
func (cv *chunkVector[R, P]) position() chunkPosition[P] {
	return chunkPosition[P]{Chunk: cv.current, Data: cv.chunks[cv.current].used, Inner: cv.inner.position()}
}

// reset rewinds the log (and everything it nests) to pos, discarding
// every chunk above it.
func (cv *chunkVector[R, P]) reset(pos chunkPosition[P]) {
	cv.current = pos.Chunk
	cv.chunks[cv.current].used = pos.Data
	cv.chunks = cv.chunks[:cv.current+1]
	cv.innerAtSeal = cv.innerAtSeal[:cv.current+1]
	cv.inner.reset(pos.Inner)
}

// currentUsed returns the number of records used in the current chunk
// only (not the running total).
func (cv *chunkVector[R, P]) currentUsed() int {
	return cv.chunks[cv.current].used
}

// chunkUsed returns the number of records stored in chunk idx.
func (cv *chunkVector[R, P]) chunkUsed(idx int) int {
	return cv.chunks[idx].used
}

// innerPositionAt returns the inner log's position snapshot taken when
// chunk idx was sealed.
func (cv *chunkVector[R, P]) innerPositionAt(idx int) P {
	return cv.innerAtSeal[idx]
}

// recordsAt returns the backing slice for chunk idx.
func (cv *chunkVector[R, P]) recordsAt(idx int) []R {
	return cv.chunks[idx].records
}

// usedRecordCount returns the total number of records across every
// chunk, current one included.
func (cv *chunkVector[R, P]) usedRecordCount() int {
	total := 0
	for i := 0; i < cv.current; i++ {
		total += cv.chunks[i].used
	}
	return total + cv.chunks[cv.current].used
}

// forEach visits every record in [end, start), in descending position
// order: from the record just below start down to (and including) the
// record at end.
func (cv *chunkVector[R, P]) forEach(start, end chunkPosition[P], visit func(rec *R)) {
	for c := start.Chunk; c >= end.Chunk; c-- {
		recs := cv.chunks[c].records
		upper := cv.chunks[c].used
		if c == start.Chunk {
			upper = start.Data
		}
		lower := 0
		if c == end.Chunk {
			lower = end.Data
		}
		for i := upper - 1; i >= lower; i-- {
			visit(&recs[i])
		}
	}
}
