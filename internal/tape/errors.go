package tape

import "fmt"

// The tape panics on contract violations rather than returning errors
// for them, matching the source project's internal/tensor package:
// a malformed call graph is a programming error, not a recoverable
// runtime condition.

func panicZeroGradientIndex() {
	panic("tape: Gradient(0) dereferences the reserved inactive sentinel index")
}

func panicBackwardRange(start, end Position) {
	panic(fmt.Sprintf("tape: EvaluateRange requires start >= end, got start=%+v end=%+v", start, end))
}
