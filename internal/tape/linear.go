package tape

// LinearTape is a reverse-mode recording tape whose variable indices
// are assigned by a single monotonically increasing counter, shared
// between the jacobian log's terminator and the lhs index handed out
// by Store and RegisterInput. Its adjoint vector therefore grows to
// the total number of statements ever recorded and never shrinks; a
// full Reset zeroes it but keeps its size.
type LinearTape struct {
	data    *chunkVector[jacobianRecord, int]
	stmt    *chunkVector[linearStatementRecord, jacobianPosition]
	ext     *externalFunctionLog
	counter *linearCounter
	adj     *adjointVector
	active  bool
	opts    Options
}

// NewLinearTape creates an empty, active LinearTape with default
// options and chunk sizes.
func NewLinearTape() *LinearTape {
	return NewLinearTapeWithOptions(DefaultOptions())
}

// NewLinearTapeWithOptions creates an empty, active LinearTape with the
// given filtering options.
func NewLinearTapeWithOptions(opts Options) *LinearTape {
	counter := &linearCounter{}
	data := newChunkVector[jacobianRecord, int](DefaultChunkSize, counter)
	stmt := newChunkVector[linearStatementRecord, jacobianPosition](DefaultChunkSize, data)
	ext := newChunkVector[externalFunctionRecord, statementPosition](DefaultExternalFunctionChunkSize, stmt)
	return &LinearTape{data: data, stmt: stmt, ext: ext, counter: counter, adj: newAdjointVector(), active: true, opts: opts}
}

func (t *LinearTape) SetActive()    { t.active = true }
func (t *LinearTape) SetPassive()   { t.active = false }
func (t *LinearTape) IsActive() bool { return t.active }

// RegisterInput gives index a fresh value and pushes a zero-argument
// statement for it, so the reverse walk's implicit adjoint-index cursor
// stays in lockstep with the statement log even for variables that
// were never the output of a Store.
func (t *LinearTape) RegisterInput(index *int) {
	t.stmt.reserveItems(1)
	t.stmt.push(linearStatementRecord{ArgCount: 0})
	*index = t.counter.next()
}

// RegisterOutput is a no-op: a LinearTape needs no bookkeeping to mark
// a variable as an output of interest.
func (t *LinearTape) RegisterOutput(index int) { _ = index }

// FreeIndex is a no-op: a LinearTape's indices are never recycled, so
// there is nothing to release.
func (t *LinearTape) FreeIndex(index *int) { _ = index }

// Store records lhsValue, lhsIndex = rhs.Value(), rhs's jacobians. If
// rhs turns out to have no active leaves, lhsIndex becomes the inactive
// sentinel. If the tape is passive, only lhsValue is assigned and
// lhsIndex is left untouched.
func (t *LinearTape) Store(lhsValue *float64, lhsIndex *int, rhs Rhs) {
	if !t.active {
		*lhsValue = rhs.Value()
		return
	}
	t.data.reserveItems(rhs.MaxActiveVariables())
	t.stmt.reserveItems(1)
	start := t.data.currentUsed()
	rhs.CalcGradient(t)
	active := t.data.currentUsed() - start
	if active == 0 {
		*lhsIndex = 0
	} else {
		t.stmt.push(linearStatementRecord{ArgCount: uint8(active)})
		*lhsIndex = t.counter.next()
	}
	*lhsValue = rhs.Value()
}

// StoreCopy records lhsValue, lhsIndex = rhsValue, rhsIndex — a plain
// alias of an existing tracked variable, with no jacobian entries of
// its own. When the tape is passive, lhsIndex is left untouched rather
// than zeroed, mirroring the source project; see DESIGN.md for the
// correctness hazard this preserves.
func (t *LinearTape) StoreCopy(lhsValue *float64, lhsIndex *int, rhsValue float64, rhsIndex int) {
	if t.active {
		*lhsIndex = rhsIndex
	}
	*lhsValue = rhsValue
}

// StorePassive records lhsValue = rhs, a plain (non-tracked) literal,
// freeing lhsIndex back to the sentinel when the tape is active.
func (t *LinearTape) StorePassive(lhsValue *float64, lhsIndex *int, rhs float64) {
	if t.active {
		*lhsIndex = 0
	}
	*lhsValue = rhs
}

func (t *LinearTape) PushJacobi(jacobian float64, rhsIndex int) {
	if rhsIndex == 0 {
		return
	}
	if t.opts.IgnoreInvalidJacobies && !isFinite(jacobian) {
		return
	}
	if t.opts.JacobiIsZero && jacobian == 0 {
		return
	}
	t.data.push(jacobianRecord{Partial: jacobian, RhsIndex: rhsIndex})
}

func (t *LinearTape) PushJacobiUnary(rhsIndex int) {
	if rhsIndex == 0 {
		return
	}
	t.data.push(jacobianRecord{Partial: 1.0, RhsIndex: rhsIndex})
}

func (t *LinearTape) SetGradient(index int, gradient float64) {
	if index != 0 {
		t.adj.set(index, gradient)
	}
}

func (t *LinearTape) GetGradient(index int) float64 { return t.adj.get(index) }
func (t *LinearTape) Gradient(index int) *float64   { return t.adj.at(index) }

func (t *LinearTape) GetPosition() Position { return t.ext.position() }

func (t *LinearTape) Reset() { t.ResetTo(Position{}) }

// ResetTo clears every adjoint from pos's implicit lhs-index boundary up
// to the current expression count, releases every external function
// above pos, and rewinds all three logs and the counter to pos.
func (t *LinearTape) ResetTo(pos Position) {
	t.adj.clearRange(pos.Inner.Inner.Inner, t.counter.count)
	releaseExternalFunctions(t.ext, pos)
	t.ext.reset(pos)
}

func (t *LinearTape) ClearAdjoints() { t.adj.clearRange(0, t.counter.count) }

func (t *LinearTape) ClearAdjointsRange(start, end Position) {
	t.adj.clearRange(start.Inner.Inner.Inner, end.Inner.Inner.Inner)
}

func (t *LinearTape) AllocateAdjoints() { t.adj.grow(t.counter.count + 1) }
func (t *LinearTape) SetAdjointsSize(size int) { t.adj.grow(size) }

func (t *LinearTape) SetDataChunkSize(size int)             { t.data.setChunkSize(size) }
func (t *LinearTape) SetStatementChunkSize(size int)        { t.stmt.setChunkSize(size) }
func (t *LinearTape) SetExternalFunctionChunkSize(size int) { t.ext.setChunkSize(size) }

// Resize raises the data and statement logs' chunk sizes to at least
// dataSize / statementSize entries. A log whose current chunk is still
// empty has that chunk reallocated to the new size; a current chunk
// that already holds records keeps its capacity, so the new size only
// applies from the next chunk on.
func (t *LinearTape) Resize(dataSize, statementSize int) {
	t.data.ensureCapacity(dataSize)
	t.stmt.ensureCapacity(statementSize)
}

func (t *LinearTape) GetUsedStatementsSize() int  { return t.stmt.usedRecordCount() }
func (t *LinearTape) GetUsedDataEntriesSize() int { return t.data.usedRecordCount() }
func (t *LinearTape) GetAdjointsSize() int        { return t.adj.size() }

func (t *LinearTape) PushExternalFunction(call func(), release func()) {
	var releaseErr func() error
	if release != nil {
		releaseErr = func() error { release(); return nil }
	}
	t.ext.reserveItems(1)
	t.ext.push(externalFunctionRecord{call: call, release: releaseErr, boundary: t.stmt.position()})
}

func (t *LinearTape) PushExternalFunctionHandle(call func(), release func()) {
	t.PushExternalFunction(call, release)
}

// Evaluate runs a full reverse pass, from the tape's current position
// back to the very beginning.
func (t *LinearTape) Evaluate() { t.EvaluateRange(t.GetPosition(), Position{}) }

// EvaluateRange runs a reverse pass over [end, start), seeding nothing:
// callers must have already called SetGradient on their outputs.
func (t *LinearTape) EvaluateRange(start, end Position) {
	if ComparePosition(start, end) < 0 {
		panicBackwardRange(start, end)
	}
	if t.adj.size() <= t.counter.count {
		t.adj.grow(t.counter.count + 1)
	}
	t.evaluateExternal(start, end)
}

func (t *LinearTape) evaluateExternal(start, end Position) {
	curStmt := start.Inner
	t.ext.forEach(start, end, func(rec *externalFunctionRecord) {
		t.evaluateStatements(curStmt, rec.boundary)
		rec.call()
		curStmt = rec.boundary
	})
	t.evaluateStatements(curStmt, end.Inner)
}

func (t *LinearTape) evaluateStatements(start, end statementPosition) {
	stmtPos := start.Data
	curJac := start.Inner
	for c := start.Chunk; c > end.Chunk; c-- {
		records := t.stmt.recordsAt(c)
		endJac := t.stmt.innerPositionAt(c - 1)
		t.evaluateJacobianSegment(curJac, endJac, records, &stmtPos)
		curJac = endJac
		stmtPos = t.stmt.chunkUsed(c - 1)
	}
	records := t.stmt.recordsAt(end.Chunk)
	t.evaluateJacobianSegment(curJac, end.Inner, records, &stmtPos)
}

// evaluateJacobianSegment walks the jacobian-log chunks spanning the
// range (end, start] of adjoint-index ("expression count") values,
// consuming one statement from stmtRecords per unit decrease.
func (t *LinearTape) evaluateJacobianSegment(start, end jacobianPosition, stmtRecords []linearStatementRecord, stmtPos *int) {
	dataPos := start.Data
	curCounter := start.Inner
	for c := start.Chunk; c > end.Chunk; c-- {
		jac := t.data.recordsAt(c)
		endCounter := t.data.innerPositionAt(c - 1)
		t.applyChainRule(curCounter, endCounter, jac, &dataPos, stmtRecords, stmtPos)
		curCounter = endCounter
		dataPos = t.data.chunkUsed(c - 1)
	}
	jac := t.data.recordsAt(end.Chunk)
	t.applyChainRule(curCounter, end.Inner, jac, &dataPos, stmtRecords, stmtPos)
}

// applyChainRule is the innermost reverse-mode loop: for each adjoint
// index between end (exclusive) and start (inclusive), pop that
// statement's jacobian entries and accumulate into the rhs adjoints.
func (t *LinearTape) applyChainRule(start, end int, jac []jacobianRecord, dataPos *int, stmtRecords []linearStatementRecord, stmtPos *int) {
	adjPos := start
	for adjPos > end {
		adj := t.adj.get(adjPos)
		adjPos--
		*stmtPos--
		argCount := int(stmtRecords[*stmtPos].ArgCount)
		if t.opts.ZeroAdjoint && adj == 0 {
			*dataPos -= argCount
			continue
		}
		for i := 0; i < argCount; i++ {
			*dataPos--
			e := jac[*dataPos]
			t.adj.add(e.RhsIndex, adj*e.Partial)
		}
	}
}
