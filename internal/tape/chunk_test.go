package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkVector_PushWithoutReservePanics(t *testing.T) {
	var term emptyTerminator
	cv := newChunkVector[int, int](4, term)
	assert.Panics(t, func() { cv.push(1) })
}

func TestChunkVector_SealsOnCapacityExhaustion(t *testing.T) {
	var term emptyTerminator
	cv := newChunkVector[int, int](2, term)
	cv.reserveItems(2)
	cv.push(1)
	cv.push(2)
	require.Equal(t, 0, cv.current)

	cv.reserveItems(1)
	require.Equal(t, 1, cv.current, "exhausting the first chunk's capacity should seal it and start a new one")
	cv.push(3)

	assert.Equal(t, 2, cv.chunkUsed(0))
	assert.Equal(t, 1, cv.chunkUsed(1))
}

func TestChunkVector_PositionRoundTripsThroughReset(t *testing.T) {
	var term emptyTerminator
	cv := newChunkVector[int, int](2, term)
	cv.reserveItems(2)
	cv.push(1)
	mid := cv.position()
	cv.push(2)
	cv.reserveItems(1)
	cv.push(3)

	cv.reset(mid)
	assert.Equal(t, mid, cv.position())
	assert.Equal(t, 0, cv.current)
	assert.Equal(t, 1, cv.chunkUsed(0))
}

func TestChunkVector_ForEachVisitsDescending(t *testing.T) {
	var term emptyTerminator
	cv := newChunkVector[int, int](2, term)
	for i := 1; i <= 5; i++ {
		cv.reserveItems(1)
		cv.push(i)
	}
	start := cv.position()
	end := chunkPosition[int]{}

	var seen []int
	cv.forEach(start, end, func(rec *int) { seen = append(seen, *rec) })
	assert.Equal(t, []int{5, 4, 3, 2, 1}, seen)
}

func TestChunkVector_EnsureCapacityOnlyGrowsEmptyCurrentChunk(t *testing.T) {
	var term emptyTerminator
	cv := newChunkVector[int, int](2, term)
	cv.ensureCapacity(10)
	assert.GreaterOrEqual(t, len(cv.chunks[0].records), 10)

	cv.reserveItems(1)
	cv.push(1)
	cv.ensureCapacity(100)
	assert.Less(t, len(cv.chunks[0].records), 100, "a chunk that already has writes must not be reallocated")
}
