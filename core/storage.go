package core

import "github.com/hupe1980/flowstore/logging"

// Metadata is the read-only surface common to every storage backend. It is
// the view serialization schemas dump from.
type Metadata interface {
	// Name returns the backend's kind tag, e.g. "Local" or "S3". It always
	// identifies the concrete backend, never a shared base.
	Name() string
	// Labels returns the backend's labels: the explicit labels merged with
	// the backend defaults when default-label merging is enabled. The
	// result is deduplicated and carries no ordering guarantee.
	Labels() []string
	// Secrets returns the secret names materialized into the execution
	// context at run time. Never nil.
	Secrets() []string
	// Result returns the backend's default result configuration, or nil.
	Result() *Result
	// StoredAsScript reports whether flows are persisted as standalone
	// scripts rather than serialized flow graphs.
	StoredAsScript() bool
	// Flows maps registered flow names to their locations. Nil-safe; an
	// unbuilt or registry-less backend returns an empty map.
	Flows() map[string]string
}

// Storage is the capability contract every pluggable backend implements.
//
// AddFlow, Contains and Build are required; a type omitting any of them does
// not satisfy the interface and cannot be used as a backend at all. The
// optional operations GetEnvRunner and GetFlow carry default implementations
// (via storage.Base) that fail with ErrNotSupported.
//
// A backend moves Unbuilt -> Built exactly once, through Build. The contract
// does not enforce that Build precedes RunBasicHealthchecks; a backend
// without a materialized registry health-checks as a no-op.
type Storage interface {
	Metadata

	// AddFlow registers a flow with this backend and returns its location,
	// an opaque token unique within the backend instance.
	AddFlow(f *Flow) (string, error)

	// Contains reports membership of a candidate over whatever the backend
	// considers its artifacts or locations. Pure; no I/O.
	Contains(candidate string) bool

	// Build finalizes the backend, returning an instance (usually itself)
	// whose state fully describes how and where each flow is stored. Safe
	// to call after any number of AddFlow calls, including zero.
	Build() (Storage, error)

	// GetEnvRunner returns an execution handle for the flow at the given
	// location. Backends that do not support direct execution fail with
	// ErrNotSupported.
	GetEnvRunner(location string) (EnvRunner, error)

	// GetFlow returns the flow registered at the given location. Backends
	// that cannot retrieve flows fail with ErrNotSupported.
	GetFlow(location string) (*Flow, error)

	// Serialize produces a mapping representation of the backend, tagged
	// with a "type" discriminator naming the concrete backend kind.
	Serialize() (map[string]any, error)

	// RunBasicHealthchecks passes every tracked flow to the result
	// compatibility checker. A backend with no materialized registry
	// returns nil. Checker failures propagate verbatim.
	RunBasicHealthchecks() error

	// Logger returns the backend's named logging handle.
	Logger() logging.Logger
}

// EnvRunner executes a stored flow with caller-supplied environment variable
// overrides, e.g. to select an executor for the run.
type EnvRunner interface {
	Run(env map[string]string) error
}

// ResultChecker is the external compatibility checker consumed by the
// healthcheck gate. Check fails with a descriptive error naming the
// offending flows; it reports, never repairs.
type ResultChecker interface {
	Check(flows []*Flow) error
}
