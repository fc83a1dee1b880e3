// SPDX-License-Identifier: MPL-2.0

package capacitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"nimbus-cli/internal/app"
	"nimbus-cli/internal/hook"
	"nimbus-cli/internal/namespace"
	"nimbus-cli/internal/project"
	"nimbus-cli/internal/runtime"
	"nimbus-cli/pkg/command"
)

type recorder struct {
	scripts []runtime.Script
	err     error
}

func (r *recorder) Run(_ context.Context, s runtime.Script) error {
	r.scripts = append(r.scripts, s)
	return r.err
}

func testEnv() (*app.Env, *recorder) {
	rec := &recorder{}
	env := app.NewEnv(nil, "test")
	env.Runtime = rec
	env.Project = &project.Project{
		Name:         "app",
		Dir:          "/work/app",
		Integrations: map[string]project.Integration{ID: {Enabled: true}},
	}
	return env, rec
}

func TestNamespace(t *testing.T) {
	t.Parallel()

	p := New(nil)
	mounts := p.Namespaces()
	if len(mounts) != 1 || mounts[0].Name != ID || !slices.Equal(mounts[0].Aliases, []string{"cap"}) {
		t.Fatalf("Namespaces() = %+v", mounts)
	}

	ns, err := mounts[0].Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"sync", "copy", "open", "add"}; !slices.Equal(ns.Names(), want) {
		t.Errorf("Names() = %v, want %v", ns.Names(), want)
	}

	cmds, err := ns.Commands(context.Background())
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	for _, c := range cmds {
		if err := c.Metadata.Check(); err != nil {
			t.Errorf("%v: Check() error = %v", c.Path, err)
		}
	}
}

func TestCommand_Open(t *testing.T) {
	t.Parallel()

	env, rec := testEnv()
	ns, err := New(env).namespace(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	loc, err := namespace.Locate(context.Background(), ns, []string{"open"})
	if err != nil || !loc.Found() {
		t.Fatalf("Locate(open) = %+v, %v", loc, err)
	}
	meta, err := loc.Command.Metadata(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if v := command.Validate(meta, nil, command.Options{}); len(v) != 1 || v[0].Field != "platform" {
		t.Errorf("Validate(open) violations = %v, want missing platform", v)
	}

	err = loc.Command.Run(context.Background(), &namespace.Invocation{Env: env, Inputs: []string{"ios"}, Options: command.Options{}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.scripts) != 1 || !slices.Equal(rec.scripts[0].Args, []string{"open", "ios"}) {
		t.Fatalf("scripts = %+v", rec.scripts)
	}
	if rec.scripts[0].Source != `npx cap "$@"` || rec.scripts[0].Dir != "/work/app" {
		t.Errorf("script = %+v", rec.scripts[0])
	}
}

func TestBuildAfter_CopiesAssets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload hook.BuildPayload
		want    [][]string
	}{
		{
			name:    "enabled with platform",
			payload: hook.BuildPayload{Project: hook.Project{Dir: "/work/app", Integrations: []string{ID}}, Platform: "android"},
			want:    [][]string{{"copy", "android"}},
		},
		{
			name:    "enabled without platform",
			payload: hook.BuildPayload{Project: hook.Project{Dir: "/work/app", Integrations: []string{"cordova", ID}}},
			want:    [][]string{{"copy"}},
		},
		{
			name:    "integration disabled",
			payload: hook.BuildPayload{Project: hook.Project{Dir: "/work/app"}},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, rec := testEnv()
			e := hook.NewEngine(nil)
			if err := New(env).RegisterHooks(e); err != nil {
				t.Fatal(err)
			}
			if _, err := hook.Fire(context.Background(), e, hook.BuildAfter, tt.payload); err != nil {
				t.Fatalf("build:after error = %v", err)
			}

			var got [][]string
			for _, s := range rec.scripts {
				got = append(got, s.Args)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("scripts = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("script %d args = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildAfter_FailureAttributed(t *testing.T) {
	t.Parallel()

	env, rec := testEnv()
	rec.err = &runtime.ExitStatusError{Script: "capacitor copy", Code: 1}
	e := hook.NewEngine(nil)
	if err := New(env).RegisterHooks(e); err != nil {
		t.Fatal(err)
	}

	_, err := hook.Fire(context.Background(), e, hook.BuildAfter, hook.BuildPayload{Project: hook.Project{Integrations: []string{ID}}})
	var fireErr *hook.FireError
	if !errors.As(err, &fireErr) || !slices.Equal(fireErr.Plugins(), []string{ID}) {
		t.Fatalf("build:after error = %v, want failure attributed to capacitor", err)
	}
	if !errors.Is(err, runtime.ErrScriptFailed) {
		t.Error("errors.Is(err, runtime.ErrScriptFailed) = false")
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	for _, marker := range MarkerFiles {
		t.Run(marker, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, marker), []byte("{}"), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := detect(context.Background(), hook.DetectPayload{Dir: dir})
			if err != nil || got != ID {
				t.Errorf("detect() = %q, %v", got, err)
			}
		})
	}

	if got, _ := detect(context.Background(), hook.DetectPayload{Dir: t.TempDir()}); got != "" {
		t.Errorf("detect(empty dir) = %q, want empty", got)
	}
}
