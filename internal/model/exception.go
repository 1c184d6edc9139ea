package model

// ExceptionType is one member of a catch clause's type union.
type ExceptionType struct {
	SimpleName   string // final name segment, qualifiers stripped
	BroadBuiltin bool   // Exception, Throwable or Error
}

// HandlerVerdict classifies what a catch body does with the failure.
type HandlerVerdict string

const (
	// VerdictEmpty means the body has no statements.
	VerdictEmpty HandlerVerdict = "empty"
	// VerdictLogsOrReports means the body records the failure somewhere.
	VerdictLogsOrReports HandlerVerdict = "logs-or-reports"
	// VerdictRethrows means the body throws the caught value or a wrapper of it.
	VerdictRethrows HandlerVerdict = "rethrows"
	// VerdictDelegatesToHandler means the body hands off to a same-instance method.
	VerdictDelegatesToHandler HandlerVerdict = "delegates"
	// VerdictSemanticFallback means the body substitutes a recognizable default.
	VerdictSemanticFallback HandlerVerdict = "semantic-fallback"
	// VerdictLoopControlExit means the body skips the iteration inside a loop.
	VerdictLoopControlExit HandlerVerdict = "loop-control-exit"
	// VerdictSideEffectOnly means the body acts without recording the failure.
	VerdictSideEffectOnly HandlerVerdict = "side-effect-only"
)

// Acceptable reports whether the verdict needs no finding on its own.
func (v HandlerVerdict) Acceptable() bool {
	switch v {
	case VerdictLogsOrReports, VerdictRethrows, VerdictDelegatesToHandler,
		VerdictSemanticFallback, VerdictLoopControlExit:
		return true
	case VerdictEmpty, VerdictSideEffectOnly:
		return false
	}

	return false
}
