package tape

// ReuseTape is a reverse-mode recording tape whose variable indices are
// recycled through a free list as soon as they die, instead of growing
// monotonically. Its adjoint vector is bounded by the largest number of
// indices ever live at once rather than by total statement count, at
// the cost of storing the lhs index explicitly on every statement and
// zeroing an adjoint immediately after it is consumed (an index may be
// reassigned to an earlier-recorded, later-replayed statement).
type ReuseTape struct {
	data  *chunkVector[jacobianRecord, int]
	stmt  *chunkVector[reuseStatementRecord, jacobianPosition]
	ext   *externalFunctionLog
	index ReuseIndexPolicy
	adj   *adjointVector
	active bool
	opts  Options
}

// NewReuseTape creates an empty, active ReuseTape with default options
// and chunk sizes.
func NewReuseTape() *ReuseTape {
	return NewReuseTapeWithOptions(DefaultOptions())
}

// NewReuseTapeWithOptions creates an empty, active ReuseTape with the
// given filtering options.
func NewReuseTapeWithOptions(opts Options) *ReuseTape {
	var term emptyTerminator
	data := newChunkVector[jacobianRecord, int](DefaultChunkSize, term)
	stmt := newChunkVector[reuseStatementRecord, jacobianPosition](DefaultChunkSize, data)
	ext := newChunkVector[externalFunctionRecord, statementPosition](DefaultExternalFunctionChunkSize, stmt)
	return &ReuseTape{data: data, stmt: stmt, ext: ext, adj: newAdjointVector(), active: true, opts: opts}
}

func (t *ReuseTape) SetActive()     { t.active = true }
func (t *ReuseTape) SetPassive()    { t.active = false }
func (t *ReuseTape) IsActive() bool { return t.active }

// RegisterInput just mints (or recycles) an index for it; unlike
// LinearTape, no statement needs pushing, since the reverse walk reads
// the lhs index straight off each statement record rather than
// inferring it positionally.
func (t *ReuseTape) RegisterInput(index *int) { t.index.CheckIndex(index) }

func (t *ReuseTape) RegisterOutput(index int) { _ = index }

// FreeIndex releases index back to the free list, standing in for the
// destructor-driven release (destroyGradientData) the source project
// gets from C++ RAII.
func (t *ReuseTape) FreeIndex(index *int) { t.index.FreeIndex(index) }

// Store records lhsValue, lhsIndex = rhs.Value(), rhs's jacobians,
// minting lhsIndex (or recycling it from the free list) only if rhs
// turns out to have active leaves. A passive tape frees lhsIndex back
// to the sentinel instead.
func (t *ReuseTape) Store(lhsValue *float64, lhsIndex *int, rhs Rhs) {
	if !t.active {
		t.index.FreeIndex(lhsIndex)
		*lhsValue = rhs.Value()
		return
	}
	t.data.reserveItems(rhs.MaxActiveVariables())
	t.stmt.reserveItems(1)
	start := t.data.currentUsed()
	rhs.CalcGradient(t)
	active := t.data.currentUsed() - start
	if active == 0 {
		t.index.FreeIndex(lhsIndex)
	} else {
		t.index.CheckIndex(lhsIndex)
		t.stmt.push(reuseStatementRecord{ArgCount: uint8(active), LhsIndex: *lhsIndex})
	}
	*lhsValue = rhs.Value()
}

// StoreCopy records lhsValue, lhsIndex = rhsValue, rhsIndex, pushing a
// single unary-jacobian statement when rhsIndex is active so the
// reverse walk can route the copy's adjoint back to rhsIndex.
func (t *ReuseTape) StoreCopy(lhsValue *float64, lhsIndex *int, rhsValue float64, rhsIndex int) {
	if !t.active {
		t.index.FreeIndex(lhsIndex)
		*lhsValue = rhsValue
		return
	}
	if rhsIndex == 0 {
		t.index.FreeIndex(lhsIndex)
	} else {
		t.index.CheckIndex(lhsIndex)
		t.data.reserveItems(1)
		t.stmt.reserveItems(1)
		t.data.push(jacobianRecord{Partial: 1.0, RhsIndex: rhsIndex})
		t.stmt.push(reuseStatementRecord{ArgCount: 1, LhsIndex: *lhsIndex})
	}
	*lhsValue = rhsValue
}

// StorePassive records lhsValue = rhs, a plain literal, always freeing
// lhsIndex regardless of the tape's activity — unlike LinearTape, there
// is no "leave it untouched while passive" branch here, matching the
// source project's reuse variant.
func (t *ReuseTape) StorePassive(lhsValue *float64, lhsIndex *int, rhs float64) {
	t.index.FreeIndex(lhsIndex)
	*lhsValue = rhs
}

func (t *ReuseTape) PushJacobi(jacobian float64, rhsIndex int) {
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

func (t *ReuseTape) PushJacobiUnary(rhsIndex int) {
	if rhsIndex == 0 {
		return
	}
	t.data.push(jacobianRecord{Partial: 1.0, RhsIndex: rhsIndex})
}

func (t *ReuseTape) SetGradient(index int, gradient float64) {
	if index != 0 {
		t.adj.set(index, gradient)
	}
}

func (t *ReuseTape) GetGradient(index int) float64 { return t.adj.get(index) }
func (t *ReuseTape) Gradient(index int) *float64   { return t.adj.at(index) }

func (t *ReuseTape) GetPosition() Position { return t.ext.position() }

// Reset rewinds the tape to its very beginning and also returns the
// index policy to its initial state.
func (t *ReuseTape) Reset() {
	t.ResetTo(Position{})
	t.index.Reset()
}

// ResetTo clears every live adjoint, releases every external function
// above pos, and rewinds all three logs to pos. The index policy is
// left as it is, so variables that are still alive keep their indices
// and no new index can collide with them.
func (t *ReuseTape) ResetTo(pos Position) {
	t.adj.clearRange(0, t.index.MaxIssued())
	releaseExternalFunctions(t.ext, pos)
	t.ext.reset(pos)
}

func (t *ReuseTape) ClearAdjoints() { t.adj.clearRange(0, t.index.MaxIssued()) }

// ClearAdjointsRange degenerates to clearing only index 0: the jacobian
// log's terminator carries no position information on a ReuseTape (see
// emptyTerminator), so start.Inner.Inner.Inner and end.Inner.Inner.Inner
// are always both zero. Preserved as-is from the source project rather
// than "fixed", since callers who want a real bounded clear on a
// ReuseTape should use ClearAdjoints instead.
func (t *ReuseTape) ClearAdjointsRange(start, end Position) {
	t.adj.clearRange(start.Inner.Inner.Inner, end.Inner.Inner.Inner)
}

func (t *ReuseTape) AllocateAdjoints()        { t.adj.grow(t.index.MaxIssued() + 1) }
func (t *ReuseTape) SetAdjointsSize(size int) { t.adj.grow(size) }

func (t *ReuseTape) SetDataChunkSize(size int)             { t.data.setChunkSize(size) }
func (t *ReuseTape) SetStatementChunkSize(size int)        { t.stmt.setChunkSize(size) }
func (t *ReuseTape) SetExternalFunctionChunkSize(size int) { t.ext.setChunkSize(size) }

func (t *ReuseTape) Resize(dataSize, statementSize int) {
	t.data.ensureCapacity(dataSize)
	t.stmt.ensureCapacity(statementSize)
}

func (t *ReuseTape) GetUsedStatementsSize() int  { return t.stmt.usedRecordCount() }
func (t *ReuseTape) GetUsedDataEntriesSize() int { return t.data.usedRecordCount() }
func (t *ReuseTape) GetAdjointsSize() int        { return t.index.MaxIssued() + 1 }

func (t *ReuseTape) PushExternalFunction(call func(), release func()) {
	var releaseErr func() error
	if release != nil {
		releaseErr = func() error { release(); return nil }
	}
	t.ext.reserveItems(1)
	t.ext.push(externalFunctionRecord{call: call, release: releaseErr, boundary: t.stmt.position()})
}

func (t *ReuseTape) PushExternalFunctionHandle(call func(), release func()) {
	t.PushExternalFunction(call, release)
}

func (t *ReuseTape) Evaluate() { t.EvaluateRange(t.GetPosition(), Position{}) }

func (t *ReuseTape) EvaluateRange(start, end Position) {
	if ComparePosition(start, end) < 0 {
		panicBackwardRange(start, end)
	}
	if t.adj.size() <= t.index.MaxIssued() {
		t.adj.grow(t.index.MaxIssued() + 1)
	}
	t.evaluateExternal(start, end)
}

func (t *ReuseTape) evaluateExternal(start, end Position) {
	curStmt := start.Inner
	t.ext.forEach(start, end, func(rec *externalFunctionRecord) {
		t.evaluateStatements(curStmt, rec.boundary)
		rec.call()
		curStmt = rec.boundary
	})
	t.evaluateStatements(curStmt, end.Inner)
}

func (t *ReuseTape) evaluateStatements(start, end statementPosition) {
	stmtPos := start.Data
	curJac := start.Inner
	for c := start.Chunk; c > end.Chunk; c-- {
		records := t.stmt.recordsAt(c)
		endJac := t.stmt.innerPositionAt(c - 1)
		t.evaluateJacobianSegment(curJac, endJac, records, &stmtPos, 0)
		curJac = endJac
		stmtPos = t.stmt.chunkUsed(c - 1)
	}
	records := t.stmt.recordsAt(end.Chunk)
	t.evaluateJacobianSegment(curJac, end.Inner, records, &stmtPos, end.Data)
}

// evaluateJacobianSegment walks the jacobian-log chunks spanning one
// statement chunk's entries, from jacobian position start down to end,
// draining statements from stmtRecords down to (but not including)
// stmtFloor.
func (t *ReuseTape) evaluateJacobianSegment(start, end jacobianPosition, stmtRecords []reuseStatementRecord, stmtPos *int, stmtFloor int) {
	dataPos := start.Data
	for c := start.Chunk; c > end.Chunk; c-- {
		jac := t.data.recordsAt(c)
		t.applyChainRule(stmtRecords, stmtPos, stmtFloor, jac, &dataPos)
		dataPos = t.data.chunkUsed(c - 1)
	}
	jac := t.data.recordsAt(end.Chunk)
	t.applyChainRule(stmtRecords, stmtPos, stmtFloor, jac, &dataPos)
}

// applyChainRule is the innermost reverse-mode loop: for each statement
// above stmtFloor, read its lhs adjoint, immediately zero it (the index
// may belong to a different, earlier-recorded statement once we
// continue further back), then pop its jacobian entries. It stops early
// once the jacobian chunk jac is exhausted: every statement has at
// least one entry, all in one chunk, so the remaining statements'
// entries lie in an earlier chunk.
func (t *ReuseTape) applyChainRule(stmtRecords []reuseStatementRecord, stmtPos *int, stmtFloor int, jac []jacobianRecord, dataPos *int) {
	for *stmtPos > stmtFloor && *dataPos > 0 {
		*stmtPos--
		rec := stmtRecords[*stmtPos]
		adj := t.adj.get(rec.LhsIndex)
		t.adj.set(rec.LhsIndex, 0)
		argCount := int(rec.ArgCount)
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
