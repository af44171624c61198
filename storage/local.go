package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/flowstore/core"
	"github.com/hupe1980/flowstore/internal/manifest"
	"github.com/hupe1980/flowstore/internal/util"
	"github.com/hupe1980/flowstore/runner"
	"github.com/hupe1980/flowstore/schema"
)

// KindLocal is the kind tag of the filesystem backend.
const KindLocal = "Local"

func init() {
	schema.Register(KindLocal, localSchema{})
}

// Local stores flows on the local filesystem. Each flow is written as a
// yaml manifest, or as the raw script file when the backend is configured
// with StoredAsScript. Locations are absolute file paths.
//
// The default label is the machine hostname, so external schedulers can
// route runs back to the machine holding the files.
type Local struct {
	*Base

	directory string
}

// NewLocal creates a filesystem backend rooted at directory and ensures the
// directory exists. An empty directory defaults to ~/.flowstore/flows.
func NewLocal(directory string, optFns ...func(o *Options)) (*Local, error) {
	if directory == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve default storage directory: %w", err)
		}
		directory = filepath.Join(home, ".flowstore", "flows")
	}

	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &Local{
		Base:      NewBase(KindLocal, []string{hostnameLabel()}, optFns...),
		directory: abs,
	}, nil
}

// Directory returns the root directory flows are stored under.
func (s *Local) Directory() string { return s.directory }

// AddFlow writes the flow to disk and returns its file path. Re-registering
// a flow name overwrites the previous file.
func (s *Local) AddFlow(f *core.Flow) (string, error) {
	if f == nil {
		return "", fmt.Errorf("add flow: nil flow")
	}

	var location string
	if s.StoredAsScript() {
		location = filepath.Join(s.directory, util.Slugify(f.Name)+".sh")
		if err := os.WriteFile(location, f.Payload, 0o755); err != nil {
			return "", fmt.Errorf("write flow script: %w", err)
		}
	} else {
		location = filepath.Join(s.directory, util.Slugify(f.Name)+".yaml")
		data, err := yaml.Marshal(manifest.FromFlow(f))
		if err != nil {
			return "", fmt.Errorf("encode flow manifest: %w", err)
		}
		if err := os.WriteFile(location, data, 0o644); err != nil {
			return "", fmt.Errorf("write flow manifest: %w", err)
		}
	}

	s.Track(location, f)
	s.Logger().Debug("flow stored", "flow", f.Name, "location", location)

	return location, nil
}

// Contains reports whether a flow with the given name is registered with
// this backend.
func (s *Local) Contains(candidate string) bool {
	_, ok := s.Flows()[candidate]
	return ok
}

// Build finalizes the backend. Flows are already on disk at this point, so
// Build only re-verifies the directory and returns the instance itself.
func (s *Local) Build() (core.Storage, error) {
	if err := os.MkdirAll(s.directory, 0o755); err != nil {
		return nil, fmt.Errorf("build local storage: %w", err)
	}
	return s, nil
}

// GetFlow reads the flow back from the given file path.
func (s *Local) GetFlow(location string) (*core.Flow, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("get flow for %q: %w", location, core.ErrFlowNotFound)
		}
		return nil, fmt.Errorf("read flow at %q: %w", location, err)
	}

	if s.StoredAsScript() {
		name := strings.TrimSuffix(filepath.Base(location), ".sh")
		if tracked, ok := s.Tracked(location); ok {
			name = tracked.Name
		}
		return &core.Flow{Name: name, Payload: data}, nil
	}

	var m manifest.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode flow manifest at %q: %w", location, err)
	}

	return m.ToFlow(), nil
}

// GetEnvRunner returns a script runner for the flow at the given path.
// Only supported when the backend stores flows as scripts.
func (s *Local) GetEnvRunner(location string) (core.EnvRunner, error) {
	if !s.StoredAsScript() {
		return s.Base.GetEnvRunner(location)
	}
	if _, err := os.Stat(location); err != nil {
		return nil, fmt.Errorf("get env runner for %q: %w", location, core.ErrFlowNotFound)
	}

	return runner.NewScript(location, func(o *runner.Options) {
		o.Logger = s.Logger()
	}), nil
}

// Serialize delegates to the Local schema, which adds the storage directory
// to the common fields.
func (s *Local) Serialize() (map[string]any, error) {
	return schema.Dump(s)
}

// localSchema extends the base dump with the storage directory.
type localSchema struct {
	schema.BaseSchema
}

func (ls localSchema) Dump(m core.Metadata) (map[string]any, error) {
	out, err := ls.BaseSchema.Dump(m)
	if err != nil {
		return nil, err
	}

	l, ok := m.(*Local)
	if !ok {
		return nil, fmt.Errorf("local schema: unexpected backend type %T", m)
	}
	out["directory"] = l.Directory()

	return out, nil
}

func hostnameLabel() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "local"
	}
	return host
}
