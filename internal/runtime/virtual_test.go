// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"nimbus-cli/pkg/types"
)

func TestVirtualRuntime_Run(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime(nil, map[string]string{"NIMBUS_BASE": "base", "NIMBUS_SHARED": "runtime"})

	tests := []struct {
		name   string
		script Script
		want   string
	}{
		{
			name:   "echo",
			script: Script{Name: "echo", Source: "echo 'Hello from nimbus'"},
			want:   "Hello from nimbus",
		},
		{
			name: "multi-line",
			script: Script{Name: "multi", Source: `VAR="test value"
echo "Variable is: $VAR"`},
			want: "Variable is: test value",
		},
		{
			name:   "positional args keep option-like values",
			script: Script{Name: "args", Source: `echo "$#:$1:$2"`, Args: []string{"-v", "--env=staging"}},
			want:   "2:-v:--env=staging",
		},
		{
			name: "script env overrides runtime env",
			script: Script{
				Name:   "env",
				Source: `echo "$NIMBUS_BASE $NIMBUS_SHARED"`,
				Env:    map[string]string{"NIMBUS_SHARED": "script"},
			},
			want: "base script",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout bytes.Buffer
			tt.script.Stdout = &stdout
			if err := rt.Run(context.Background(), tt.script); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := strings.TrimSpace(stdout.String()); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVirtualRuntime_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rt := NewVirtualRuntime(nil, nil)

	out, err := rt.Output(context.Background(), Script{Name: "pwd", Source: "pwd", Dir: dir})
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	got, err := filepath.EvalSymlinks(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", out, err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", dir, err)
	}
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestVirtualRuntime_Stdin(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime(nil, nil)
	out, err := rt.Output(context.Background(), Script{
		Name:   "read",
		Source: `read line; echo "got $line"`,
		Stdin:  strings.NewReader("hello\n"),
	})
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if strings.TrimSpace(out) != "got hello" {
		t.Errorf("Output() = %q, want %q", out, "got hello")
	}
}

func TestVirtualRuntime_ExitStatus(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime(nil, nil)
	err := rt.Run(context.Background(), Script{Name: "fail", Source: "exit 3"})

	var exitErr *ExitStatusError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitStatusError", err)
	}
	if exitErr.Code != 3 || exitErr.Script != "fail" {
		t.Errorf("ExitStatusError = %+v, want script fail, code 3", exitErr)
	}
	if !errors.Is(err, ErrScriptFailed) {
		t.Error("errors.Is(err, ErrScriptFailed) = false")
	}
	if got := ExitCodeOf(err); got != 3 {
		t.Errorf("ExitCodeOf() = %d, want 3", got)
	}
}

func TestVirtualRuntime_InvalidScripts(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime(nil, nil)

	tests := []struct {
		name   string
		source string
		want   error
	}{
		{name: "empty", source: "  \n", want: ErrEmptyScript},
		{name: "unterminated if", source: "if true; then echo", want: ErrScriptSyntax},
		{name: "unterminated quote", source: `echo "oops`, want: ErrScriptSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := Script{Name: tt.name, Source: tt.source}
			if err := rt.Validate(s); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
			if err := rt.Run(context.Background(), s); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVirtualRuntime_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := NewVirtualRuntime(nil, nil)
	if err := rt.Run(ctx, Script{Name: "loop", Source: "while true; do :; done"}); err == nil {
		t.Fatal("Run() with cancelled context returned nil")
	}
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{name: "nil", err: nil, want: types.ExitSuccess},
		{name: "plain error", err: errors.New("boom"), want: types.ExitFailure},
		{name: "exit status", err: &ExitStatusError{Script: "s", Code: 42}, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExitCodeOf(tt.err); got != tt.want {
				t.Errorf("ExitCodeOf(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
