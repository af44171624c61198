package core

// Result declares where a flow persists its task outputs. Backends propagate
// their default Result to registered flows that declare none of their own.
type Result struct {
	// Location is the templated target the result writes to, e.g. a
	// filesystem path or object key prefix. An empty location on a flow
	// that requires results is flagged by the healthcheck gate.
	Location string
}

// Flow is the workflow-graph artifact registered into a storage backend.
// Ownership stays with the caller; backends only record how and where the
// flow is stored, they never mutate it.
type Flow struct {
	// Name identifies the flow within a backend. Re-registering a flow with
	// the same name is backend-defined behavior (the shipped backends
	// overwrite the previous registration).
	Name string

	// Result declares how task outputs are persisted. Nil means the flow
	// inherits the backend default, if any.
	Result *Result

	// RequiresResult marks that the flow retries or caches task runs and
	// therefore cannot execute without a satisfiable result configuration.
	RequiresResult bool

	// Payload carries the serialized flow graph, or the script source when
	// the backend stores flows as scripts. Opaque to this package.
	Payload []byte
}

// EffectiveResult returns the flow's own result configuration, or the given
// backend default when the flow declares none.
func (f *Flow) EffectiveResult(backendDefault *Result) *Result {
	if f.Result != nil {
		return f.Result
	}
	return backendDefault
}
