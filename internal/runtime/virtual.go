// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"nimbus-cli/pkg/types"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes scripts with the embedded mvdan/sh interpreter.
type VirtualRuntime struct {
	// InheritEnv seeds every script with the host environment
	InheritEnv bool
	// Env is layered over the host environment and under Script.Env
	Env map[string]string

	logger *log.Logger
}

// NewVirtualRuntime creates a runtime that inherits the host environment and
// adds env (typically the shell.env config block) to every script.
func NewVirtualRuntime(logger *log.Logger, env map[string]string) *VirtualRuntime {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &VirtualRuntime{
		InheritEnv: true,
		Env:        maps.Clone(env),
		logger:     logger,
	}
}

// Validate parses the script without running it.
func (r *VirtualRuntime) Validate(s Script) error {
	_, err := parse(s)
	return err
}

// Run executes the script. A non-zero exit yields *ExitStatusError; parse
// failures yield *SyntaxError.
func (r *VirtualRuntime) Run(ctx context.Context, s Script) error {
	prog, err := parse(s)
	if err != nil {
		return err
	}

	stdout, stderr := s.Stdout, s.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(r.environ(s)...)),
		interp.StdIO(s.Stdin, stdout, stderr),
		interp.ExecHandlers(r.execHandler),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}
	// "--" keeps arguments such as "-v" from being read as shell options.
	if len(s.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, s.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter for script '%s': %w", s.Name, err)
	}

	r.logger.Debug("running script", "script", s.Name, "dir", s.Dir, "args", s.Args)
	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitStatusError{Script: s.Name, Code: types.ExitCode(status)}
		}
		return fmt.Errorf("script '%s' failed: %w", s.Name, err)
	}
	return nil
}

// Output runs the script and returns what it wrote to stdout. Stderr is passed
// through to s.Stderr.
func (r *VirtualRuntime) Output(ctx context.Context, s Script) (string, error) {
	var buf bytes.Buffer
	s.Stdout = &buf
	err := r.Run(ctx, s)
	return buf.String(), err
}

// environ merges the host environment, the runtime's Env and the script's Env
// in increasing precedence.
func (r *VirtualRuntime) environ(s Script) []string {
	env := make(map[string]string)
	if r.InheritEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
				env[k] = v
			}
		}
	}
	maps.Copy(env, r.Env)
	maps.Copy(env, s.Env)

	pairs := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}

func (r *VirtualRuntime) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) > 0 {
			r.logger.Debug("exec", "cmd", args[0], "args", args[1:])
		}
		return next(ctx, args)
	}
}

func parse(s Script) (*syntax.File, error) {
	if strings.TrimSpace(s.Source) == "" {
		return nil, fmt.Errorf("script '%s': %w", s.Name, ErrEmptyScript)
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(s.Source), s.Name)
	if err != nil {
		return nil, &SyntaxError{Script: s.Name, Err: err}
	}
	return prog, nil
}
