// Package core provides the foundational domain types and interfaces used by
// flowstore. It defines the core abstractions for:
//
//   - Flows (workflow-graph artifacts registered into a storage backend)
//   - Results (declared persistence targets for a flow's task outputs)
//   - The Storage capability contract every backend implements
//   - EnvRunner (execution handle for flows stored as runnable scripts)
//   - ResultChecker (pre-execution compatibility gate collaborator)
//
// The package intentionally keeps implementation concerns (persistence,
// serialization schemas, concrete backends) out of scope, exposing small
// interfaces so that backends can be swapped without touching calling code.
package core
