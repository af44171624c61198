// Package manifest defines the serialized representation storage backends
// persist for a registered flow, whether the bytes land on a local disk or
// in an object store.
package manifest

import "github.com/hupe1980/flowstore/core"

// Manifest is the on-disk / object-body form of a registered flow.
type Manifest struct {
	Name           string `yaml:"name"`
	RequiresResult bool   `yaml:"requires_result,omitempty"`
	ResultLocation string `yaml:"result_location,omitempty"`
	HasResult      bool   `yaml:"has_result,omitempty"`
	Payload        []byte `yaml:"payload,omitempty"`
}

// FromFlow captures the flow's persisted fields. HasResult distinguishes a
// declared-but-empty result location from no result at all.
func FromFlow(f *core.Flow) Manifest {
	m := Manifest{
		Name:           f.Name,
		RequiresResult: f.RequiresResult,
		Payload:        f.Payload,
	}
	if f.Result != nil {
		m.HasResult = true
		m.ResultLocation = f.Result.Location
	}
	return m
}

// ToFlow reconstructs the flow the manifest was captured from.
func (m Manifest) ToFlow() *core.Flow {
	f := &core.Flow{
		Name:           m.Name,
		RequiresResult: m.RequiresResult,
		Payload:        m.Payload,
	}
	if m.HasResult {
		f.Result = &core.Result{Location: m.ResultLocation}
	}
	return f
}
