// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"nimbus-cli/internal/config"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/project"
	"nimbus-cli/internal/runtime"
)

type (
	// Globals are the options accepted by every command.
	Globals struct {
		Help    bool
		Version bool
		Verbose bool
		Quiet   bool
		JSON    bool
		NoColor bool
	}

	// Env is the execution environment of a single invocation.
	Env struct {
		Hooks   *hook.Engine
		Logger  *log.Logger
		Config  *config.Config
		Runtime runtime.Runner

		// Project is nil when the working directory is outside a project.
		Project *project.Project
		// WorkDir is the directory nimbus was invoked from.
		WorkDir string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Vars are exported to every script as environment variables.
		Vars    map[string]string
		Version string
		Globals Globals
	}
)

// NewEnv returns an Env wired to the process streams, a fresh hook engine,
// default configuration and the embedded shell runtime.
func NewEnv(logger *log.Logger, version string) *Env {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := config.DefaultConfig()
	wd, _ := os.Getwd()
	return &Env{
		Hooks:   hook.NewEngine(logger),
		Logger:  logger,
		Config:  cfg,
		Runtime: runtime.NewVirtualRuntime(logger, cfg.Shell.Env),
		WorkDir: wd,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Vars:    map[string]string{"NIMBUS_VERSION": version},
		Version: version,
	}
}

// HookProject describes the current project for hook payloads. It is the
// zero Project outside a project.
func (e *Env) HookProject() hook.Project {
	if e.Project == nil {
		return hook.Project{}
	}
	hp := hook.Project{Name: e.Project.Name, Type: e.Project.Type, Dir: e.Project.Dir}
	for _, name := range slices.Sorted(maps.Keys(e.Project.Integrations)) {
		if e.Project.IntegrationEnabled(name) {
			hp.Integrations = append(hp.Integrations, name)
		}
	}
	return hp
}

// RequireProject returns the current project or an actionable error
// explaining how to create one.
func (e *Env) RequireProject() (*project.Project, error) {
	if e.Project != nil {
		return e.Project, nil
	}
	return nil, issue.NewErrorContext().
		WithOperation("locate project").
		WithResource(e.WorkDir).
		WithIssue(issue.ProjectNotFoundId).
		WithSuggestion("Run the command from a directory containing " + project.FileName).
		WithSuggestion("Create " + project.FileName + " with at least a name, e.g. name: \"my-app\"").
		Wrap(&project.NotFoundError{Dir: e.WorkDir}).
		BuildError()
}

// Script prepares a script to run in dir with the invocation streams and
// Vars layered under extra.
func (e *Env) Script(name, source, dir string, args []string, extra map[string]string) runtime.Script {
	env := maps.Clone(e.Vars)
	if env == nil {
		env = map[string]string{}
	}
	maps.Copy(env, extra)
	return runtime.Script{
		Name:   name,
		Source: source,
		Dir:    dir,
		Env:    env,
		Args:   args,
		Stdin:  e.Stdin,
		Stdout: e.Stdout,
		Stderr: e.Stderr,
	}
}

// RunProjectScript runs the named script from the project file in the
// project directory.
func (e *Env) RunProjectScript(ctx context.Context, name string, args []string, extra map[string]string) error {
	p, err := e.RequireProject()
	if err != nil {
		return err
	}
	src, ok := p.Script(name)
	if !ok {
		return &MissingScriptError{Name: name, Project: p.FilePath, Available: p.ScriptNames()}
	}
	return e.Runtime.Run(ctx, e.Script("scripts."+name, src, p.Dir, args, extra))
}

// Printf writes to the invocation's standard output.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.Stdout, format, args...)
}

// Println writes to the invocation's standard output.
func (e *Env) Println(args ...any) {
	fmt.Fprintln(e.Stdout, args...)
}
