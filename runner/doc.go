// Package runner implements the execution handle storage backends return
// from GetEnvRunner. A Script runs a flow stored as a standalone script,
// with caller-supplied environment variables overlaid on the process
// environment (e.g. to select an executor for the run).
package runner
