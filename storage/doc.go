// Package storage contains the embeddable Base all storage backends build
// on, plus the shipped reference backends (Memory, Local; an S3-compatible
// backend lives in the s3 subpackage).
//
// The canonical Storage contract lives in the core package to avoid
// dependency cycles and keep domain contracts central. Base provides the
// contract-level defaults: label resolution, serialization delegation, the
// healthcheck gate, the named logger, and the "unsupported" behavior of the
// optional operations. A concrete backend embeds *Base and supplies the
// three required operations (AddFlow, Contains, Build); a type missing any
// of them does not satisfy core.Storage at all.
//
// Callers should depend on the core.Storage interface rather than concrete
// types so they can substitute alternative backends in tests or production.
package storage
