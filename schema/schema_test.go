package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flowstore/core"
)

// fakeMetadata is a minimal core.Metadata for registry tests.
type fakeMetadata struct {
	name   string
	result *core.Result
}

func (m fakeMetadata) Name() string             { return m.name }
func (m fakeMetadata) Labels() []string         { return []string{"a"} }
func (m fakeMetadata) Secrets() []string        { return []string{} }
func (m fakeMetadata) Result() *core.Result     { return m.result }
func (m fakeMetadata) StoredAsScript() bool     { return true }
func (m fakeMetadata) Flows() map[string]string { return map[string]string{"etl": "loc-1"} }

func TestRegisterAndLookup(t *testing.T) {
	Register("FakeKind", BaseSchema{})

	s, ok := Lookup("FakeKind")
	assert.True(t, ok)
	assert.NotNil(t, s)

	_, ok = Lookup("NeverRegistered")
	assert.False(t, ok)
}

func TestDumpUnregisteredKind(t *testing.T) {
	_, err := Dump(fakeMetadata{name: "NeverRegistered"})
	assert.Error(t, err)
}

func TestDumpEnforcesDiscriminator(t *testing.T) {
	// A schema that forgets the discriminator entirely.
	Register("Forgetful", schemaFunc(func(core.Metadata) (map[string]any, error) {
		return map[string]any{"custom": true}, nil
	}))

	out, err := Dump(fakeMetadata{name: "Forgetful"})
	require.NoError(t, err)
	assert.Equal(t, "Forgetful", out["type"])
	assert.Equal(t, true, out["custom"])
}

func TestBaseSchemaDump(t *testing.T) {
	out, err := BaseSchema{}.Dump(fakeMetadata{
		name:   "Kind",
		result: &core.Result{Location: "/results"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Kind", out["type"])
	assert.Equal(t, []string{"a"}, out["labels"])
	assert.Equal(t, []string{}, out["secrets"])
	assert.Equal(t, true, out["stored_as_script"])
	assert.Equal(t, map[string]string{"etl": "loc-1"}, out["flows"])
	assert.Equal(t, map[string]any{"location": "/results"}, out["result"])
}

func TestBaseSchemaDumpWithoutResult(t *testing.T) {
	out, err := BaseSchema{}.Dump(fakeMetadata{name: "Kind"})
	require.NoError(t, err)

	_, hasResult := out["result"]
	assert.False(t, hasResult)
}

// schemaFunc adapts a function to the Schema interface.
type schemaFunc func(m core.Metadata) (map[string]any, error)

func (f schemaFunc) Dump(m core.Metadata) (map[string]any, error) { return f(m) }
