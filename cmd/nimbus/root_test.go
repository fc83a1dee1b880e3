// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nimbus-cli/internal/app/execute"
	"nimbus-cli/internal/config"
	"nimbus-cli/internal/project"
	"nimbus-cli/pkg/types"
)

const testProject = `
name: "Field Notes"
type: "custom"
scripts: {
	build: "echo built"
	fail:  "exit 7"
}
`

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q, want %q", got, "dev (built from source)")
		}
	})
}

// testOptions points the executor at temporary project, config and plugin
// directories so the host environment does not leak in.
func testOptions(t *testing.T, withProject bool) (execute.Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	workDir := t.TempDir()
	if withProject {
		path := filepath.Join(workDir, project.FileName)
		if err := os.WriteFile(path, []byte(testProject), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return execute.Options{
		Version:     "1.2.3",
		Stdin:       strings.NewReader(""),
		Stdout:      stdout,
		Stderr:      stderr,
		WorkDir:     workDir,
		Environ:     map[string]string{},
		PluginsDir:  t.TempDir(),
		LoadOptions: config.LoadOptions{ConfigDirPath: t.TempDir()},
	}, stdout, stderr
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		withProject bool
		wantCode    types.ExitCode
		wantStdout  string
		wantStderr  []string
	}{
		{
			name:       "success",
			args:       []string{"version"},
			wantStdout: "nimbus 1.2.3",
		},
		{
			name:        "script output",
			args:        []string{"build"},
			withProject: true,
			wantStdout:  "built",
		},
		{
			name:       "unknown command exits with usage code",
			args:       []string{"biuld"},
			wantCode:   types.ExitUsage,
			wantStderr: []string{"Error:", "Did you mean 'nimbus build'?"},
		},
		{
			name:       "invalid option value exits with usage code",
			args:       []string{"serve", "--port", "99999"},
			wantCode:   types.ExitUsage,
			wantStderr: []string{"Error:", "--help"},
		},
		{
			name:        "script exit status is propagated",
			args:        []string{"run", "fail"},
			withProject: true,
			wantCode:    7,
			wantStderr:  []string{"Error:"},
		},
		{
			name:       "outside a project",
			args:       []string{"build"},
			wantCode:   types.ExitFailure,
			wantStderr: []string{"Error:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, stdout, stderr := testOptions(t, tt.withProject)
			err := run(context.Background(), opts, tt.args)

			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("run(%v) = %v, stderr: %s", tt.args, err, stderr)
				}
				if !strings.Contains(stdout.String(), tt.wantStdout) {
					t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
				}
				return
			}

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("run(%v) = %v, want *ExitError", tt.args, err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d (err: %v)", exitErr.Code, tt.wantCode, err)
			}
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Errorf("run(%v) error does not carry a *ServiceError", tt.args)
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr = %q, want it to contain %q", stderr, want)
				}
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     string
		wantCode types.ExitCode
	}{
		{name: "arguments pass through", args: []string{"version"}, want: "nimbus 1.2.3"},
		{name: "help is answered from the tree", args: []string{"help", "serve"}, want: "nimbus serve"},
		{name: "options are not parsed by cobra", args: []string{"--quiet", "version"}, want: "nimbus 1.2.3"},
		{name: "failures carry the exit code", args: []string{"nope"}, wantCode: types.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, stdout, _ := testOptions(t, false)
			root := newRootCommand(opts)
			root.SetArgs(tt.args)
			err := root.ExecuteContext(context.Background())

			if tt.wantCode != 0 {
				var exitErr *ExitError
				if !errors.As(err, &exitErr) || exitErr.Code != tt.wantCode {
					t.Fatalf("Execute(%v) = %v, want exit code %d", tt.args, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute(%v) = %v", tt.args, err)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.want)
			}
		})
	}
}
