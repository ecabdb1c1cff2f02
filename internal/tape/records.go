package tape

// jacobianRecord is one (partial, rhs-index) pair contributing to a
// statement's reverse-mode update.
type jacobianRecord struct {
	Partial  float64
	RhsIndex int
}

// linearStatementRecord is one assignment on a LinearTape. The lhs
// index is implicit: it is one more than the jacobian log's terminator
// position (the running expression count) at the moment the statement
// was pushed, so it is never stored.
type linearStatementRecord struct {
	ArgCount uint8
}

// reuseStatementRecord is one assignment on a ReuseTape. Unlike the
// linear variant, the lhs index has to be stored explicitly: indices
// are recycled, so they no longer correlate with statement order.
type reuseStatementRecord struct {
	ArgCount uint8
	LhsIndex int
}

// externalFunctionRecord is a user callback inserted at a recorded
// statement-log boundary. release runs at most once, when the record
// falls off the tape on a reset.
type externalFunctionRecord struct {
	call     func()
	release  func() error
	boundary statementPosition
}
