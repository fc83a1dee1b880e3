// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"slices"
	"testing"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/argv"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/internal/project"
	"nimbus-cli/internal/runtime"
	"nimbus-cli/pkg/command"
)

type recorder struct {
	scripts []runtime.Script
}

func (r *recorder) Run(_ context.Context, s runtime.Script) error {
	r.scripts = append(r.scripts, s)
	return nil
}

func deployPlugin(t *testing.T, env *app.Env) *Plugin {
	t.Helper()

	m, err := ParseManifest([]byte(deployManifest), "plugin.toml")
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	m.Dir = t.TempDir()
	return NewPlugin(m, env)
}

func TestPlugin_Identity(t *testing.T) {
	t.Parallel()

	p := deployPlugin(t, app.NewEnv(nil, "test"))
	if p.ID() != "deploy" || p.Version() != "1.2.0" || p.Description() != "Deploy builds to hosting" {
		t.Errorf("identity = %q %q %q", p.ID(), p.Version(), p.Description())
	}
	if !slices.Equal(p.Dependencies(), []string{"cordova"}) {
		t.Errorf("Dependencies() = %v", p.Dependencies())
	}

	mounts := p.Namespaces()
	if len(mounts) != 1 || mounts[0].Name != "deploy" {
		t.Fatalf("Namespaces() = %+v", mounts)
	}

	hooksOnly := NewPlugin(&Manifest{ID: "hooks-only"}, nil)
	if got := hooksOnly.Namespaces(); got != nil {
		t.Errorf("Namespaces() without commands = %+v, want nil", got)
	}
}

func TestPlugin_RunCommand(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	env := app.NewEnv(nil, "test")
	env.Runtime = rec
	p := deployPlugin(t, env)

	ns, err := p.namespace(context.Background())
	if err != nil {
		t.Fatalf("namespace() error = %v", err)
	}
	args := []string{"p", "production", "-n", "--region=eu", "--", "extra"}
	loc, err := namespace.Locate(context.Background(), ns, argv.StripOptions(args, nil))
	if err != nil || !loc.Found() {
		t.Fatalf("Locate() = %+v, %v", loc, err)
	}
	if !slices.Equal(loc.Names(), []string{"push"}) {
		t.Errorf("Names() = %v, want the alias resolved", loc.Names())
	}
	meta, err := loc.Command.Metadata(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := argv.Parse(argv.DropPath(args, loc.Tokens()), meta.Options)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if v := command.Validate(meta, parsed.Inputs, parsed.Options); len(v) != 0 {
		t.Fatalf("Validate() = %v", v)
	}

	err = loc.Command.Run(context.Background(), &namespace.Invocation{
		Env:       env,
		Path:      loc.Names(),
		Inputs:    parsed.Inputs,
		Options:   parsed.Options,
		Unknown:   parsed.Unknown,
		Separated: parsed.Separated,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.scripts) != 1 {
		t.Fatalf("ran %d scripts, want 1", len(rec.scripts))
	}
	s := rec.scripts[0]
	if s.Name != "deploy push" || s.Source != `echo "pushing to $1"` {
		t.Errorf("script = %q %q", s.Name, s.Source)
	}
	if want := []string{"production", "--region=eu", "extra"}; !slices.Equal(s.Args, want) {
		t.Errorf("Args = %v, want %v", s.Args, want)
	}
	if s.Dir != p.Manifest().Dir {
		t.Errorf("Dir = %q, want the plugin directory outside a project", s.Dir)
	}
	wantEnv := map[string]string{
		"NIMBUS_OPT_DRY_RUN": "true",
		"NIMBUS_OPT_CHANNEL": "stable",
		"NIMBUS_PLUGIN_ID":   "deploy",
		"NIMBUS_VERSION":     "test",
	}
	for k, want := range wantEnv {
		if got := s.Env[k]; got != want {
			t.Errorf("Env[%s] = %q, want %q", k, got, want)
		}
	}
}

func TestPlugin_RunCommandInProject(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	env := app.NewEnv(nil, "test")
	env.Runtime = rec
	env.Project = &project.Project{Name: "app", Dir: "/work/app"}
	p := deployPlugin(t, env)

	ns, err := p.namespace(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	child, _, ok := ns.Lookup("status")
	if !ok || child.Kind() != namespace.KindCommand {
		t.Fatalf("Lookup(status) = %v", ok)
	}
	loc, err := namespace.Locate(context.Background(), ns, []string{"status"})
	if err != nil {
		t.Fatal(err)
	}
	if err := loc.Command.Run(context.Background(), &namespace.Invocation{Env: env, Options: command.Options{}}); err != nil {
		t.Fatal(err)
	}
	if got := rec.scripts[0].Dir; got != "/work/app" {
		t.Errorf("Dir = %q, want the project directory", got)
	}
}

func TestPlugin_Hooks(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	env := app.NewEnv(nil, "test")
	env.Runtime = rec
	p := deployPlugin(t, env)

	engine := hook.NewEngine(nil)
	if err := p.RegisterHooks(engine); err != nil {
		t.Fatalf("RegisterHooks() error = %v", err)
	}
	if got, want := engine.EventsOf("deploy"), []string{"build:after", "command:info"}; !slices.Equal(got, want) {
		t.Errorf("EventsOf() = %v, want %v", got, want)
	}

	payload := hook.BuildPayload{
		Project:  hook.Project{Name: "app", Dir: "/work/app"},
		Engine:   "vite",
		Platform: "android",
		Prod:     true,
	}
	if _, err := hook.Fire(context.Background(), engine, hook.BuildAfter, payload); err != nil {
		t.Fatalf("Fire(build:after) error = %v", err)
	}
	if len(rec.scripts) != 1 {
		t.Fatalf("ran %d scripts, want 1", len(rec.scripts))
	}
	s := rec.scripts[0]
	if s.Source != "echo built" || s.Dir != "/work/app" {
		t.Errorf("script = %q in %q", s.Source, s.Dir)
	}
	wantEnv := map[string]string{
		"NIMBUS_EVENT":        "build:after",
		"NIMBUS_PROJECT_NAME": "app",
		"NIMBUS_ENGINE":       "vite",
		"NIMBUS_PLATFORM":     "android",
		"NIMBUS_PROD":         "true",
	}
	for k, want := range wantEnv {
		if got := s.Env[k]; got != want {
			t.Errorf("Env[%s] = %q, want %q", k, got, want)
		}
	}
}

func TestPlugin_OutputHooks(t *testing.T) {
	t.Parallel()

	env := app.NewEnv(nil, "test")
	env.Runtime = runtime.NewVirtualRuntime(nil, nil)
	m := &Manifest{
		ID:  "ionic",
		Dir: t.TempDir(),
		Hooks: map[string]string{
			"command:info":   `printf 'cli=%s\nignored line\n = empty\nplugin = %s\n' 7.1 "$NIMBUS_PLUGIN_ID"`,
			"project:detect": `if [ -n "$NIMBUS_PROJECT_DIR" ]; then echo "  ionic-angular  "; fi`,
		},
	}
	engine := hook.NewEngine(nil)
	if err := NewPlugin(m, env).RegisterHooks(engine); err != nil {
		t.Fatal(err)
	}

	results, err := hook.Fire(context.Background(), engine, hook.CommandInfo, hook.InfoPayload{})
	if err != nil {
		t.Fatalf("Fire(command:info) error = %v", err)
	}
	want := []hook.InfoItem{
		{Group: "ionic", Key: "cli", Value: "7.1"},
		{Group: "ionic", Key: "plugin", Value: "ionic"},
	}
	if len(results) != 1 || !slices.Equal(results[0], want) {
		t.Errorf("info = %v, want %v", results, want)
	}

	typ, found, err := hook.FireFirst(context.Background(), engine, hook.ProjectDetect, hook.DetectPayload{Dir: m.Dir})
	if err != nil || !found || typ != "ionic-angular" {
		t.Errorf("FireFirst(project:detect) = %q, %v, %v", typ, found, err)
	}
}

func TestPlugin_HookFailure(t *testing.T) {
	t.Parallel()

	env := app.NewEnv(nil, "test")
	env.Runtime = runtime.NewVirtualRuntime(nil, nil)
	m := &Manifest{ID: "strict", Dir: t.TempDir(), Hooks: map[string]string{"serve:before": "exit 4"}}
	engine := hook.NewEngine(nil)
	if err := NewPlugin(m, env).RegisterHooks(engine); err != nil {
		t.Fatal(err)
	}

	_, err := hook.Fire(context.Background(), engine, hook.ServeBefore, hook.ServePayload{Host: "localhost", Port: "8100"})
	if !errors.Is(err, runtime.ErrScriptFailed) {
		t.Fatalf("Fire(serve:before) error = %v, want ErrScriptFailed", err)
	}
	if got := runtime.ExitCodeOf(err); got != 4 {
		t.Errorf("ExitCodeOf() = %d, want 4", got)
	}
}

func TestOptionVar(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"dry-run": "NIMBUS_OPT_DRY_RUN",
		"channel": "NIMBUS_OPT_CHANNEL",
	}
	for name, want := range tests {
		if got := OptionVar(name); got != want {
			t.Errorf("OptionVar(%q) = %q, want %q", name, got, want)
		}
	}
}
