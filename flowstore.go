// Package flowstore defines the pluggable storage backend contract for a
// workflow-definition registry, plus reference backends. Most applications
// interact with this package by:
//  1. Constructing a backend (NewMemory, NewLocal, NewS3, or a custom
//     core.Storage implementation)
//  2. Registering flows via AddFlow
//  3. Optionally running RunBasicHealthchecks before execution
//  4. Finalizing via Build, after which the backend is treated as an
//     immutable record of what is stored where
//
// The capability contract lives in the core package; the embeddable base
// and the shipped backends live under storage. This façade re-exports the
// common entry points so simple callers need a single import.
package flowstore

import (
	"github.com/hupe1980/flowstore/core"
	"github.com/hupe1980/flowstore/storage"
	"github.com/hupe1980/flowstore/storage/s3"
)

// Storage is the capability contract every backend implements.
type Storage = core.Storage

// Flow is the workflow artifact registered into a backend.
type Flow = core.Flow

// Result declares where a flow persists its task outputs.
type Result = core.Result

// EnvRunner executes a stored flow with environment overrides.
type EnvRunner = core.EnvRunner

// Options is the constructor configuration shared by all backends.
type Options = storage.Options

// NewMemory returns an in-process backend. See storage.NewMemory.
func NewMemory(optFns ...func(o *Options)) *storage.Memory {
	return storage.NewMemory(optFns...)
}

// NewLocal returns a filesystem backend rooted at directory. See
// storage.NewLocal.
func NewLocal(directory string, optFns ...func(o *Options)) (*storage.Local, error) {
	return storage.NewLocal(directory, optFns...)
}

// NewS3 returns an S3-compatible backend. See the storage/s3 package.
func NewS3(cfg s3.Config, optFns ...func(o *Options)) (*s3.Storage, error) {
	return s3.New(cfg, optFns...)
}
