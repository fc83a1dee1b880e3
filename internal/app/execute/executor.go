// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/argv"
	"nimbus-cli/internal/commands"
	"nimbus-cli/internal/config"
	"nimbus-cli/internal/discovery"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/internal/plugin"
	"nimbus-cli/internal/plugins"
	"nimbus-cli/internal/project"
	"nimbus-cli/internal/runtime"
	"nimbus-cli/pkg/command"
)

type (
	// Options configures an Executor. Zero fields take production defaults.
	Options struct {
		Version string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// WorkDir is where the project lookup starts. Defaults to the
		// process working directory.
		WorkDir string
		// Environ replaces the host environment of scripts when non-nil.
		Environ map[string]string

		Config      config.Provider
		LoadOptions config.LoadOptions

		// Runtime overrides the embedded shell runner.
		Runtime runtime.Runner
		// Catalog returns the built-in plugins bound to an environment.
		Catalog func(env *app.Env) *plugin.Catalog
		// PluginsDir overrides the user plugin directory scanned by discovery.
		PluginsDir string
	}

	// Executor runs invocations. It is safe to reuse; every call builds a
	// fresh environment.
	Executor struct {
		opts Options
	}

	// Session is a prepared invocation: the environment with plugins
	// installed and the command tree built, ready to resolve Args.
	Session struct {
		Env  *app.Env
		Root *namespace.Namespace
		// Args is the argument vector after user alias expansion.
		Args []string
	}
)

// New creates an Executor.
func New(opts Options) *Executor {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Config == nil {
		opts.Config = config.NewProvider()
	}
	if opts.Catalog == nil {
		opts.Catalog = plugins.Catalog
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Executor{opts: opts}
}

// Execute prepares a session for args and runs it.
func (x *Executor) Execute(ctx context.Context, args []string) error {
	s, err := x.Prepare(ctx, args)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// Prepare loads the configuration and the project, installs the plugins
// and builds the root namespace. Nothing is resolved yet.
func (x *Executor) Prepare(ctx context.Context, args []string) (*Session, error) {
	globals := commands.ScanGlobals(args)
	logger := newLogger(x.opts.Stderr, globals)

	cfg, err := x.opts.Config.Load(ctx, x.opts.LoadOptions)
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose && !globals.Quiet {
		logger.SetLevel(log.DebugLevel)
	}

	env := app.NewEnv(logger, x.opts.Version)
	env.Config = cfg
	env.Globals = globals
	env.Stdin, env.Stdout, env.Stderr = x.opts.Stdin, x.opts.Stdout, x.opts.Stderr
	if x.opts.WorkDir != "" {
		env.WorkDir = x.opts.WorkDir
	}
	env.Runtime = x.runtime(logger, cfg)

	if env.Project, err = loadProject(ctx, env.WorkDir); err != nil {
		return nil, err
	}

	installed, err := x.install(ctx, env)
	if err != nil {
		return nil, err
	}
	detectProjectType(ctx, env)

	configPath := x.opts.LoadOptions.ConfigFilePath
	if configPath == "" {
		configPath, _ = config.FilePath(x.opts.LoadOptions)
	}
	root, err := commands.Root(env, commands.Options{
		Plugins:    installed.Plugins,
		Mounts:     installed.Mounts,
		Aliases:    cfg.Aliases,
		ConfigPath: configPath,
	})
	if err != nil {
		return nil, err
	}

	return &Session{Env: env, Root: root, Args: commands.ExpandAlias(args, cfg.Aliases)}, nil
}

// Run resolves the session arguments and runs the resolved command. A
// walk that stops on a namespace prints its help when no tokens are
// left and fails with a not-found error otherwise.
func (s *Session) Run(ctx context.Context) error {
	env := s.Env
	tokens := argv.StripOptions(s.Args, commands.GlobalOptions)

	if env.Globals.Version && len(tokens) == 0 {
		env.Println(commands.RootName + " " + env.Version)
		return nil
	}

	loc, err := namespace.Locate(ctx, s.Root, tokens)
	if err != nil {
		return loadFailed(err)
	}
	if !loc.Found() {
		if len(loc.Args) > 0 {
			return commands.NotFound(loc)
		}
		return commands.NamespaceHelp(ctx, env.Stdout, loc.Namespace)
	}

	meta, err := loc.Command.Metadata(ctx)
	if err != nil {
		return loadFailed(&namespace.LoadError{Path: loc.Names(), Kind: namespace.KindCommand, Err: err})
	}
	if env.Globals.Help {
		return commands.CommandHelp(env.Stdout, commands.CommandPath(loc), meta, env.Globals.Verbose)
	}
	if err := meta.Check(); err != nil {
		return err
	}

	options := commands.WithGlobals(meta.Options)
	parsed, err := argv.Parse(argv.DropPath(s.Args, loc.Tokens()), options)
	if err != nil {
		return usageFailed(loc, err)
	}
	env.Globals = commands.GlobalsFrom(parsed.Options)
	opts := commands.StripGlobals(meta.Options, parsed.Options)

	if violations := command.Validate(meta, parsed.Inputs, opts); len(violations) > 0 {
		return usageFailed(loc, &command.ValidationError{Command: meta.Name, Violations: violations})
	}

	env.Logger.Debug("running command", "path", commands.CommandPath(loc))
	return loc.Command.Run(ctx, &namespace.Invocation{
		Env:       env,
		Path:      loc.Names(),
		Inputs:    parsed.Inputs,
		Options:   opts,
		Unknown:   parsed.Unknown,
		Separated: parsed.Separated,
	})
}

// newLogger builds the invocation logger. --quiet wins over --verbose.
func newLogger(w io.Writer, g app.Globals) *log.Logger {
	level := log.InfoLevel
	switch {
	case g.Quiet:
		level = log.ErrorLevel
	case g.Verbose:
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{Prefix: commands.RootName, Level: level})
	if g.NoColor {
		logger.SetColorProfile(termenv.Ascii)
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return logger
}

func (x *Executor) runtime(logger *log.Logger, cfg *config.Config) runtime.Runner {
	if x.opts.Runtime != nil {
		return x.opts.Runtime
	}
	vr := runtime.NewVirtualRuntime(logger, cfg.Shell.Env)
	if x.opts.Environ != nil {
		vr.InheritEnv = false
		vr.Env = maps.Clone(x.opts.Environ)
		maps.Copy(vr.Env, cfg.Shell.Env)
	}
	return vr
}

func loadProject(ctx context.Context, dir string) (*project.Project, error) {
	p, err := project.Discover(ctx, dir)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, project.ErrProjectNotFound):
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}
	return nil, issue.NewErrorContext().
		WithOperation("load project file").
		WithResource(dir).
		WithSuggestion("Fix the errors reported for " + project.FileName).
		Wrap(err).
		BuildError()
}

// install selects the enabled built-in plugins, adds the discovered script
// plugins and installs them all. Discovery diagnostics are logged.
func (x *Executor) install(ctx context.Context, env *app.Env) (*plugin.Installed, error) {
	selected, err := x.opts.Catalog(env).Select(env.Config.Plugins.Enabled)
	if err != nil {
		return nil, pluginsFailed(err, "Check plugins.enabled in "+config.ConfigFileName+"."+config.ConfigFileExt)
	}

	d := discovery.New(env.Config)
	if x.opts.PluginsDir != "" {
		d = d.WithUserDir(x.opts.PluginsDir)
	}
	result, err := d.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pluginsFailed(err)
	}
	for _, diag := range result.Diagnostics {
		logDiagnostic(env.Logger, diag)
	}
	for _, m := range result.Manifests {
		selected = append(selected, discovery.NewPlugin(m, env))
	}

	installed, err := plugin.NewInstaller(env.Hooks, env.Logger).Install(ctx, selected)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pluginsFailed(err, "Run 'nimbus plugins list' with the plugin disabled to inspect the others")
	}
	return installed, nil
}

func logDiagnostic(logger *log.Logger, d discovery.Diagnostic) {
	kv := []any{"code", d.Code, "path", d.Path}
	if d.Severity == discovery.SeverityError {
		logger.Error(d.Message, kv...)
		return
	}
	logger.Warn(d.Message, kv...)
}

// detectProjectType asks the plugins for the project type when the
// project file does not declare one.
func detectProjectType(ctx context.Context, env *app.Env) {
	if env.Project == nil || env.Project.Type != "" {
		return
	}
	typ, found, err := hook.FireFirst(ctx, env.Hooks, hook.ProjectDetect, hook.DetectPayload{Dir: env.Project.Dir})
	if err != nil {
		env.Logger.Debug("project type detection failed", "error", err)
	}
	if found {
		env.Project.Type = typ
		env.Logger.Debug("detected project type", "type", typ)
	}
}

func pluginsFailed(err error, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation("install plugins").
		WithIssue(issue.PluginLoadFailedId).
		WithSuggestions(slices.Concat(suggestions, []string{"Run with --verbose for details"})...).
		Wrap(err).
		BuildError()
}

func loadFailed(err error) error {
	return issue.NewErrorContext().
		WithOperation("load command").
		WithIssue(issue.PluginLoadFailedId).
		WithSuggestion("Run with --verbose for details").
		Wrap(err).
		BuildError()
}

// usageFailed reports argument and validation errors with a pointer to
// the command help.
func usageFailed(loc *namespace.Location, err error) error {
	help := strings.Join(commands.CommandPath(loc), " ")
	return issue.NewErrorContext().
		WithOperation("parse arguments").
		WithResource(help).
		WithIssue(issue.ValidationFailedId).
		WithSuggestion("Run '" + help + " --help' for usage").
		Wrap(err).
		BuildError()
}
