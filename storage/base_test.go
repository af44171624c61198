package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flowstore/config"
	"github.com/hupe1980/flowstore/core"
	"github.com/hupe1980/flowstore/healthcheck"
	"github.com/hupe1980/flowstore/schema"
)

func init() {
	schema.Register("Stub", schema.BaseSchema{})
}

// stubBackend is a minimal complete backend with configurable default
// labels, used to exercise the Base behavior in isolation.
type stubBackend struct {
	*Base
}

func newStubBackend(defaults []string, optFns ...func(o *Options)) *stubBackend {
	return &stubBackend{Base: NewBase("Stub", defaults, optFns...)}
}

func (s *stubBackend) AddFlow(f *core.Flow) (string, error) {
	location := "stub://" + f.Name
	s.Track(location, f)
	return location, nil
}

func (s *stubBackend) Contains(candidate string) bool {
	_, ok := s.Tracked(candidate)
	return ok
}

func (s *stubBackend) Build() (core.Storage, error) { return s, nil }

var _ core.Storage = (*stubBackend)(nil)

// partialBackend omits AddFlow and therefore must not satisfy the contract.
type partialBackend struct {
	*Base
}

func (p *partialBackend) Contains(string) bool         { return false }
func (p *partialBackend) Build() (core.Storage, error) { return nil, nil }

func TestPartialBackendDoesNotSatisfyContract(t *testing.T) {
	_, ok := any(&partialBackend{Base: NewBase("Partial", nil)}).(core.Storage)
	assert.False(t, ok, "a backend missing AddFlow must not satisfy core.Storage")
}

func TestLabelsMergeWithDefaults(t *testing.T) {
	enabled := true
	b := newStubBackend([]string{"b", "c"}, func(o *Options) {
		o.Labels = []string{"a", "b"}
		o.AddDefaultLabels = &enabled
	})

	assert.ElementsMatch(t, []string{"a", "b", "c"}, b.Labels())
}

func TestLabelsWithoutMerging(t *testing.T) {
	disabled := false
	b := newStubBackend([]string{"b", "c"}, func(o *Options) {
		o.Labels = []string{"a", "b"}
		o.AddDefaultLabels = &disabled
	})

	assert.ElementsMatch(t, []string{"a", "b"}, b.Labels())
}

func TestLabelsPureRecomputation(t *testing.T) {
	enabled := true
	b := newStubBackend([]string{"x"}, func(o *Options) {
		o.Labels = []string{"a"}
		o.AddDefaultLabels = &enabled
	})

	first := b.Labels()
	first[0] = "mutated"

	assert.ElementsMatch(t, []string{"a", "x"}, b.Labels())
}

func TestAddDefaultLabelsResolvedOnceFromConfig(t *testing.T) {
	t.Cleanup(config.Reset)

	config.Set(config.KeyAddDefaultLabels, false)
	b := newStubBackend([]string{"d"}, func(o *Options) {
		o.Labels = []string{"a"}
	})

	// Flipping the config after construction must not change the instance.
	config.Set(config.KeyAddDefaultLabels, true)

	assert.ElementsMatch(t, []string{"a"}, b.Labels())
}

func TestSecretsNeverNil(t *testing.T) {
	b := newStubBackend(nil)

	require.NotNil(t, b.Secrets())
	assert.Empty(t, b.Secrets())
}

func TestNameIsConcreteKind(t *testing.T) {
	assert.Equal(t, "Stub", newStubBackend(nil).Name())
}

func TestSerializeCarriesDiscriminator(t *testing.T) {
	b := newStubBackend(nil, func(o *Options) {
		o.Secrets = []string{"AWS_CREDENTIALS"}
	})

	out, err := b.Serialize()
	require.NoError(t, err)

	assert.Equal(t, "Stub", out["type"])
	assert.Equal(t, []string{"AWS_CREDENTIALS"}, out["secrets"])
}

func TestSerializeWithoutRegisteredSchema(t *testing.T) {
	b := NewBase("Unregistered", nil)

	_, err := b.Serialize()
	assert.Error(t, err)
}

func TestHealthchecksNoRegistryIsNoOp(t *testing.T) {
	b := newStubBackend(nil)

	// No AddFlow happened, so the registry was never materialized.
	assert.NoError(t, b.RunBasicHealthchecks())
}

func TestHealthchecksNameOffendingFlow(t *testing.T) {
	b := newStubBackend(nil)

	_, err := b.AddFlow(&core.Flow{Name: "etl", Result: &core.Result{Location: "/results/etl"}, RequiresResult: true})
	require.NoError(t, err)
	_, err = b.AddFlow(&core.Flow{Name: "report", RequiresResult: true})
	require.NoError(t, err)

	err = b.RunBasicHealthchecks()
	require.Error(t, err)
	assert.ErrorIs(t, err, healthcheck.ErrIncompatibleResult)
	assert.Contains(t, err.Error(), "report")
	assert.NotContains(t, err.Error(), "etl")
}

func TestHealthchecksCompatibleFlowsSucceed(t *testing.T) {
	b := newStubBackend(nil)

	_, err := b.AddFlow(&core.Flow{Name: "etl", Result: &core.Result{Location: "/results/etl"}, RequiresResult: true})
	require.NoError(t, err)
	_, err = b.AddFlow(&core.Flow{Name: "report", Result: &core.Result{Location: "/results/report"}, RequiresResult: true})
	require.NoError(t, err)

	assert.NoError(t, b.RunBasicHealthchecks())
}

func TestDefaultResultPropagatesToTrackedFlows(t *testing.T) {
	b := newStubBackend(nil, func(o *Options) {
		o.Result = &core.Result{Location: "/results/default"}
	})

	location, err := b.AddFlow(&core.Flow{Name: "etl", RequiresResult: true})
	require.NoError(t, err)

	tracked, ok := b.Tracked(location)
	require.True(t, ok)
	require.NotNil(t, tracked.Result)
	assert.Equal(t, "/results/default", tracked.Result.Location)

	// With the default propagated, the result check is satisfied.
	assert.NoError(t, b.RunBasicHealthchecks())
}

func TestCheckerFailurePropagatesVerbatim(t *testing.T) {
	boom := errors.New("checker rejected everything")
	b := newStubBackend(nil, func(o *Options) {
		o.Checker = failingChecker{err: boom}
	})

	_, err := b.AddFlow(&core.Flow{Name: "etl"})
	require.NoError(t, err)

	assert.ErrorIs(t, b.RunBasicHealthchecks(), boom)
}

type failingChecker struct{ err error }

func (c failingChecker) Check([]*core.Flow) error { return c.err }

func TestOptionalOperationsUnsupportedByDefault(t *testing.T) {
	b := newStubBackend(nil)

	_, err := b.GetFlow("anywhere")
	assert.ErrorIs(t, err, core.ErrNotSupported)

	_, err = b.GetEnvRunner("anywhere")
	assert.ErrorIs(t, err, core.ErrNotSupported)
}

func TestFlowsMapsNamesToLocations(t *testing.T) {
	b := newStubBackend(nil)
	assert.Empty(t, b.Flows())

	_, err := b.AddFlow(&core.Flow{Name: "etl"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"etl": "stub://etl"}, b.Flows())
}
