package tape

type externalFunctionLog = chunkVector[externalFunctionRecord, statementPosition]

// releaseExternalFunctions runs release exactly once, in descending
// order, for every external-function record strictly above pos. A
// release that panics is recovered and skipped so the remaining
// pending releases still run — best-effort cleanup, matching the
// source project's forEach-driven popExternalFunction pass in reset.
func releaseExternalFunctions(ext *externalFunctionLog, pos Position) {
	ext.forEach(ext.position(), pos, func(rec *externalFunctionRecord) {
		if rec.release == nil {
			return
		}
		func() {
			defer func() { recover() }()
			_ = rec.release()
		}()
	})
}
