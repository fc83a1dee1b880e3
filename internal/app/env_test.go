// SPDX-License-Identifier: MPL-2.0

package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"nimbus-cli/internal/issue"
	"nimbus-cli/internal/project"
	"nimbus-cli/internal/runtime"
)

type recordingRunner struct {
	scripts []runtime.Script
}

func (r *recordingRunner) Run(_ context.Context, s runtime.Script) error {
	r.scripts = append(r.scripts, s)
	return nil
}

func testEnv() (*Env, *recordingRunner, *bytes.Buffer) {
	var out bytes.Buffer
	rec := &recordingRunner{}
	env := NewEnv(nil, "1.2.3")
	env.Runtime = rec
	env.Stdout = &out
	env.WorkDir = "/work"
	return env, rec, &out
}

func TestRequireProject(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	_, err := env.RequireProject()

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("RequireProject() error = %v, want *issue.ActionableError", err)
	}
	if actionable.Issue != issue.ProjectNotFoundId || actionable.Resource != "/work" {
		t.Errorf("ActionableError = %+v", actionable)
	}
	if !errors.Is(err, project.ErrProjectNotFound) {
		t.Error("errors.Is(err, project.ErrProjectNotFound) = false")
	}

	env.Project = &project.Project{Name: "app"}
	if p, err := env.RequireProject(); err != nil || p.Name != "app" {
		t.Errorf("RequireProject() = %v, %v", p, err)
	}
}

func TestRunProjectScript(t *testing.T) {
	t.Parallel()

	env, rec, _ := testEnv()
	env.Vars["NIMBUS_PLATFORM"] = "ios"
	env.Project = &project.Project{
		Name:    "app",
		Dir:     "/work/app",
		Scripts: map[string]string{"build": "npm run build"},
	}

	err := env.RunProjectScript(context.Background(), "build", []string{"--prod"}, map[string]string{"NIMBUS_PLATFORM": "android"})
	if err != nil {
		t.Fatalf("RunProjectScript() error = %v", err)
	}
	if len(rec.scripts) != 1 {
		t.Fatalf("ran %d scripts, want 1", len(rec.scripts))
	}
	s := rec.scripts[0]
	if s.Name != "scripts.build" || s.Source != "npm run build" || s.Dir != "/work/app" {
		t.Errorf("script = %+v", s)
	}
	if s.Env["NIMBUS_PLATFORM"] != "android" || s.Env["NIMBUS_VERSION"] != "1.2.3" {
		t.Errorf("script env = %v", s.Env)
	}
	if env.Vars["NIMBUS_PLATFORM"] != "ios" {
		t.Error("RunProjectScript mutated Env.Vars")
	}
	if len(s.Args) != 1 || s.Args[0] != "--prod" {
		t.Errorf("script args = %v", s.Args)
	}
}

func TestRunProjectScript_Missing(t *testing.T) {
	t.Parallel()

	env, rec, _ := testEnv()
	env.Project = &project.Project{Name: "app", FilePath: "/work/nimbus.cue", Scripts: map[string]string{"lint": "eslint ."}}

	err := env.RunProjectScript(context.Background(), "serve", nil, nil)
	var missing *MissingScriptError
	if !errors.As(err, &missing) {
		t.Fatalf("RunProjectScript() error = %v, want *MissingScriptError", err)
	}
	if !errors.Is(err, ErrMissingScript) || len(missing.Available) != 1 {
		t.Errorf("MissingScriptError = %+v", missing)
	}
	if len(rec.scripts) != 0 {
		t.Error("a script ran for a missing script name")
	}
}

func TestPrintf(t *testing.T) {
	t.Parallel()

	env, _, out := testEnv()
	env.Printf("%s=%d\n", "port", 8100)
	env.Println("done")
	if got := out.String(); got != "port=8100\ndone\n" {
		t.Errorf("output = %q", got)
	}
}

func TestHookProject(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if hp := env.HookProject(); hp.Name != "" || hp.Dir != "" {
		t.Errorf("HookProject() outside a project = %+v", hp)
	}

	env.Project = &project.Project{
		Name: "app",
		Type: "capacitor",
		Dir:  "/work/app",
		Integrations: map[string]project.Integration{
			"cordova":   {Enabled: false},
			"capacitor": {Enabled: true},
			"android":   {Enabled: true},
		},
	}
	hp := env.HookProject()
	if hp.Name != "app" || hp.Type != "capacitor" || hp.Dir != "/work/app" {
		t.Errorf("HookProject() = %+v", hp)
	}
	if len(hp.Integrations) != 2 || hp.Integrations[0] != "android" || hp.Integrations[1] != "capacitor" {
		t.Errorf("Integrations = %v, want [android capacitor]", hp.Integrations)
	}
	if !hp.HasIntegration("capacitor") || hp.HasIntegration("cordova") {
		t.Error("HasIntegration() returned unexpected values")
	}
}
