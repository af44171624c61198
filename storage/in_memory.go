package storage

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/flowstore/core"
	"github.com/hupe1980/flowstore/schema"
)

// KindMemory is the kind tag of the in-process backend.
const KindMemory = "Memory"

func init() {
	schema.Register(KindMemory, schema.BaseSchema{})
}

// Memory is a trivial in-process storage backend useful for tests, examples
// and single-process prototypes. Flows live in the internal registry only;
// nothing survives a process restart. Locations are opaque uuid tokens.
//
// This implementation is intentionally minimal. For production, prefer a
// durable backend (Local, s3.Storage) that can survive process restarts.
type Memory struct {
	*Base
}

// NewMemory returns an empty in-memory storage backend.
func NewMemory(optFns ...func(o *Options)) *Memory {
	return &Memory{Base: NewBase(KindMemory, nil, optFns...)}
}

// AddFlow registers the flow and returns its location. Re-registering a
// flow name replaces the previous registration under a fresh location.
func (s *Memory) AddFlow(f *core.Flow) (string, error) {
	if f == nil {
		return "", fmt.Errorf("add flow: nil flow")
	}

	if prev, ok := s.Flows()[f.Name]; ok {
		s.Untrack(prev)
	}

	location := uuid.NewString()
	s.Track(location, f)
	s.Logger().Debug("flow registered", "flow", f.Name, "location", location)

	return location, nil
}

// Contains reports whether the given location belongs to this backend.
func (s *Memory) Contains(candidate string) bool {
	_, ok := s.Tracked(candidate)
	return ok
}

// Build finalizes the backend. The registry is already materialized by
// AddFlow, so this is a no-op returning the instance itself.
func (s *Memory) Build() (core.Storage, error) {
	return s, nil
}

// GetFlow returns the flow registered at the given location.
func (s *Memory) GetFlow(location string) (*core.Flow, error) {
	f, ok := s.Tracked(location)
	if !ok {
		return nil, fmt.Errorf("get flow for %q: %w", location, core.ErrFlowNotFound)
	}
	return f, nil
}
