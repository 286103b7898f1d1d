package events

// EventType names a lifecycle event raised by the reduce/solve pipelines.
type EventType string

const (
	// ReduceStarted fires when a QUMO reduction begins.
	ReduceStarted EventType = "reduce.started"
	// ReduceCompleted fires when a QUMO reduction produces an instance.
	ReduceCompleted EventType = "reduce.completed"
	// ScenarioParsed fires after a settlement scenario is parsed and
	// validated.
	ScenarioParsed EventType = "scenario.parsed"
	// SolveStarted fires when a settlement or QUMO solve is dispatched to
	// a backend.
	SolveStarted EventType = "solve.started"
	// SolveCompleted fires when a backend returns an OPTIMAL result.
	SolveCompleted EventType = "solve.completed"
	// ErrorOccurred fires for any error surfaced by a module, regardless
	// of its taxonomy (qerr, serr, or ambient).
	ErrorOccurred EventType = "error.occurred"
)
