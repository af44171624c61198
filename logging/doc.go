// Package logging provides a minimal logging interface and adapters for
// flowstore.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that storage backends use for observability. This package
// includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - GetLogger, a factory handing out loggers named by backend kind tag
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
