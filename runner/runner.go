package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/hupe1980/flowstore/logging"
)

// Options holds dependency and configuration overrides passed to NewScript.
type Options struct {
	// Interpreter invokes the script. Defaults to "sh".
	Interpreter string
	// Dir is the working directory for the run. Empty means the current
	// process directory.
	Dir string
	// Stdout and Stderr receive the script's output. Default to the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
	// Logger records run lifecycle events.
	Logger logging.Logger
}

// Script executes a flow stored as a standalone script. It implements
// core.EnvRunner.
type Script struct {
	path        string
	interpreter string
	dir         string
	stdout      io.Writer
	stderr      io.Writer
	logger      logging.Logger
}

// NewScript constructs a Script runner for the script at path.
func NewScript(path string, optFns ...func(o *Options)) *Script {
	opts := Options{
		Interpreter: "sh",
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Script{
		path:        path,
		interpreter: opts.Interpreter,
		dir:         opts.Dir,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		logger:      opts.Logger,
	}
}

// Path returns the script location the runner executes.
func (s *Script) Path() string { return s.path }

// Run executes the script synchronously. The given environment variables
// are overlaid on the process environment; later keys win over inherited
// ones.
func (s *Script) Run(env map[string]string) error {
	cmd := exec.Command(s.interpreter, s.path)
	cmd.Dir = s.dir
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	cmd.Env = mergeEnv(os.Environ(), env)

	start := time.Now()
	s.logger.Info("running flow script", "script", s.path, "env_overrides", len(env))

	if err := cmd.Run(); err != nil {
		s.logger.Error("flow script failed", "script", s.path, "duration", time.Since(start), "error", err.Error())
		return fmt.Errorf("run flow script %q: %w", s.path, err)
	}

	s.logger.Info("flow script completed", "script", s.path, "duration", time.Since(start))
	return nil
}

// mergeEnv appends overrides to the inherited environment. Appended entries
// win: the OS uses the last occurrence of a duplicated key.
func mergeEnv(inherited []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return inherited
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]string, 0, len(inherited)+len(keys))
	merged = append(merged, inherited...)
	for _, k := range keys {
		merged = append(merged, k+"="+overrides[k])
	}
	return merged
}
