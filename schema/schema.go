// Package schema holds the serialization registry for storage backends.
// Each backend kind registers a Schema that dumps its instances into a
// mapping representation; Dump guarantees the mapping carries a "type"
// discriminator so an external deserialization path can pick the right
// kind. The reverse path is not defined here.
package schema

import (
	"fmt"
	"sync"

	"github.com/hupe1980/flowstore/core"
)

// Schema produces a mapping representation of a storage backend. Kind
// specific schemas may type-assert the Metadata to their concrete backend
// to dump additional fields.
type Schema interface {
	Dump(m core.Metadata) (map[string]any, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Schema{}
)

// Register associates a backend kind tag with its schema. Later
// registrations for the same kind win; backends register in their package
// init.
func Register(kind string, s Schema) {
	mu.Lock()
	defer mu.Unlock()
	registry[kind] = s
}

// Lookup returns the schema registered for the given kind.
func Lookup(kind string) (Schema, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[kind]
	return s, ok
}

// Dump serializes the backend through the schema registered for its kind.
// The returned mapping always carries the kind tag under "type", regardless
// of what the schema emitted.
func Dump(m core.Metadata) (map[string]any, error) {
	s, ok := Lookup(m.Name())
	if !ok {
		return nil, fmt.Errorf("no schema registered for storage kind %q", m.Name())
	}

	out, err := s.Dump(m)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	out["type"] = m.Name()

	return out, nil
}

// BaseSchema dumps the fields every storage backend shares. Kind specific
// schemas typically embed or call it and add their own fields.
type BaseSchema struct{}

// Dump implements Schema over the common Metadata surface.
func (BaseSchema) Dump(m core.Metadata) (map[string]any, error) {
	out := map[string]any{
		"type":             m.Name(),
		"labels":           m.Labels(),
		"secrets":          m.Secrets(),
		"stored_as_script": m.StoredAsScript(),
		"flows":            m.Flows(),
	}
	if r := m.Result(); r != nil {
		out["result"] = map[string]any{"location": r.Location}
	}

	return out, nil
}
