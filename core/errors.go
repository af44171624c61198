package core

import "errors"

var (
	// ErrNotSupported is returned when an optional storage operation
	// (GetEnvRunner, GetFlow) is invoked on a backend that did not
	// override the contract default. Non-retryable.
	ErrNotSupported = errors.New("operation not supported by this storage backend")

	// ErrFlowNotFound is returned when a location or flow name does not
	// resolve to a registered flow in the backend.
	ErrFlowNotFound = errors.New("flow not found in storage")
)
