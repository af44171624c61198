package storage

import (
	"fmt"
	"sort"

	"github.com/hupe1980/flowstore/config"
	"github.com/hupe1980/flowstore/core"
	"github.com/hupe1980/flowstore/healthcheck"
	"github.com/hupe1980/flowstore/logging"
	"github.com/hupe1980/flowstore/schema"
)

// Options holds the constructor configuration recognized by every backend.
type Options struct {
	// Result is the default result configuration propagated to registered
	// flows that declare none of their own.
	Result *core.Result
	// Secrets lists secret names materialized into the execution context at
	// run time. Consumption is external to this library.
	Secrets []string
	// Labels are the explicit labels associated with the backend.
	Labels []string
	// AddDefaultLabels overrides the configuration-sourced default for
	// merging backend default labels. Nil means "use the config value",
	// resolved once at construction.
	AddDefaultLabels *bool
	// StoredAsScript marks that flows are persisted as standalone scripts
	// rather than serialized flow graphs.
	StoredAsScript bool
	// Logger overrides the named logger derived from the backend kind.
	Logger logging.Logger
	// Checker overrides the result compatibility checker used by the
	// healthcheck gate.
	Checker core.ResultChecker
}

// Base carries the state and contract-level defaults shared by all storage
// backends. Concrete backends embed *Base and implement the required
// operations AddFlow, Contains and Build themselves.
//
// Base is a single-threaded value object: all methods are meant to be called
// from one workflow-registration goroutine at definition time.
type Base struct {
	kind             string
	defaultLabels    []string
	result           *core.Result
	secrets          []string
	storedAsScript   bool
	explicitLabels   []string
	addDefaultLabels bool

	logger  logging.Logger
	checker core.ResultChecker

	// flows is the internal registry, keyed by location. It stays nil until
	// the first Track call; the healthcheck gate treats nil as "no registry"
	// and no-ops.
	flows map[string]*core.Flow
}

// NewBase constructs the shared backend state. kind is the concrete
// backend's type tag (it becomes Name(), the logger name and the serialized
// discriminator); defaultLabels are the backend-specific labels merged in
// when default-label merging is enabled.
func NewBase(kind string, defaultLabels []string, optFns ...func(o *Options)) *Base {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	// Resolved exactly once; the config source is never re-read afterward.
	add := config.AddDefaultLabels()
	if opts.AddDefaultLabels != nil {
		add = *opts.AddDefaultLabels
	}

	secrets := opts.Secrets
	if secrets == nil {
		secrets = []string{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger(kind)
	}

	checker := opts.Checker
	if checker == nil {
		checker = healthcheck.ResultChecker{}
	}

	return &Base{
		kind:             kind,
		defaultLabels:    dedupe(defaultLabels),
		result:           opts.Result,
		secrets:          secrets,
		storedAsScript:   opts.StoredAsScript,
		explicitLabels:   dedupe(opts.Labels),
		addDefaultLabels: add,
		logger:           logger,
		checker:          checker,
	}
}

// Name returns the concrete backend's kind tag.
func (b *Base) Name() string { return b.kind }

// Logger returns the backend's named logging handle.
func (b *Base) Logger() logging.Logger { return b.logger }

// Result returns the backend's default result configuration, or nil.
func (b *Base) Result() *core.Result { return b.result }

// Secrets returns the configured secret names. Never nil.
func (b *Base) Secrets() []string {
	out := make([]string, len(b.secrets))
	copy(out, b.secrets)
	return out
}

// StoredAsScript reports whether flows are persisted as standalone scripts.
func (b *Base) StoredAsScript() bool { return b.storedAsScript }

// DefaultLabels returns the backend-specific default labels.
func (b *Base) DefaultLabels() []string {
	out := make([]string, len(b.defaultLabels))
	copy(out, b.defaultLabels)
	return out
}

// Labels computes the backend's labels from the explicit labels and,
// when default-label merging is enabled, the backend defaults. Pure;
// duplicates collapse and enumeration order is not guaranteed.
func (b *Base) Labels() []string {
	if !b.addDefaultLabels {
		out := make([]string, len(b.explicitLabels))
		copy(out, b.explicitLabels)
		return out
	}

	seen := make(map[string]struct{}, len(b.explicitLabels)+len(b.defaultLabels))
	out := make([]string, 0, len(b.explicitLabels)+len(b.defaultLabels))
	for _, l := range b.explicitLabels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	for _, l := range b.defaultLabels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}

	return out
}

// Flows maps registered flow names to their locations. Returns an empty map
// when the backend tracks nothing.
func (b *Base) Flows() map[string]string {
	out := make(map[string]string, len(b.flows))
	for loc, f := range b.flows {
		out[f.Name] = loc
	}
	return out
}

// Track records a flow in the internal registry, materializing the registry
// on first use. The flow is stored as a shallow copy carrying the backend's
// default result when the flow declares none, so the caller's value is never
// mutated.
func (b *Base) Track(location string, f *core.Flow) {
	if b.flows == nil {
		b.flows = make(map[string]*core.Flow)
	}
	tracked := *f
	tracked.Result = f.EffectiveResult(b.result)
	b.flows[location] = &tracked
}

// Untrack removes the registry entry for the given location, if any.
func (b *Base) Untrack(location string) {
	delete(b.flows, location)
}

// Tracked returns the registered flow at the given location.
func (b *Base) Tracked(location string) (*core.Flow, bool) {
	f, ok := b.flows[location]
	return f, ok
}

// GetEnvRunner is the contract default for backends without direct
// execution support. It always fails with core.ErrNotSupported.
func (b *Base) GetEnvRunner(location string) (core.EnvRunner, error) {
	return nil, fmt.Errorf("get env runner for %q: %s storage: %w", location, b.kind, core.ErrNotSupported)
}

// GetFlow is the contract default for backends without retrieval support.
// It always fails with core.ErrNotSupported.
func (b *Base) GetFlow(location string) (*core.Flow, error) {
	return nil, fmt.Errorf("get flow for %q: %s storage: %w", location, b.kind, core.ErrNotSupported)
}

// Serialize delegates to the schema registered for the backend kind. The
// produced mapping always carries the kind tag under "type". Backends whose
// schema dumps fields beyond the shared Metadata surface override this with
// schema.Dump(self).
func (b *Base) Serialize() (map[string]any, error) {
	return schema.Dump(b)
}

// RunBasicHealthchecks passes every tracked flow through the result
// compatibility checker. A backend whose registry was never materialized
// (Build not run, or the backend keeps no registry) returns nil; this
// looseness is deliberate and mirrors the permissive contract. Checker
// failures propagate verbatim.
func (b *Base) RunBasicHealthchecks() error {
	if b.flows == nil {
		return nil
	}

	locations := make([]string, 0, len(b.flows))
	for loc := range b.flows {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	flows := make([]*core.Flow, 0, len(locations))
	for _, loc := range locations {
		flows = append(flows, b.flows[loc])
	}

	return b.checker.Check(flows)
}

// dedupe collapses duplicates preserving first-seen order. A nil input
// normalizes to an empty slice.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
