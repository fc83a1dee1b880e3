// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		toComplete string
		want       []string
		notWant    []string
	}{
		{name: "root commands", args: nil, toComplete: "se", want: []string{"serve"}, notWant: []string{"build"}},
		{name: "namespace children", args: []string{"config"}, toComplete: "", want: []string{"get", "path", "show"}},
		{name: "alias of a child", args: []string{"plugins"}, toComplete: "l", want: []string{"list", "ls"}},
		{name: "options of a command", args: []string{"serve"}, toComplete: "--p", want: []string{"--port"}, notWant: []string{"--host"}},
		{name: "global options", args: []string{"serve"}, toComplete: "--verb", want: []string{"--verbose"}},
		{name: "no candidates for inputs", args: []string{"serve"}, toComplete: "x"},
		{name: "unknown command", args: []string{"nope"}, toComplete: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, _, _ := testOptions(t, false)
			got, directive := completeArgs(opts)(&cobra.Command{}, tt.args, tt.toComplete)
			if directive != cobra.ShellCompDirectiveNoFileComp {
				t.Fatalf("directive = %v, want NoFileComp", directive)
			}

			names := make([]string, len(got))
			for i, c := range got {
				name, _, _ := strings.Cut(c, "\t")
				names[i] = name
			}
			if len(tt.want) == 0 && len(tt.notWant) == 0 && len(names) != 0 {
				t.Errorf("completions = %v, want none", names)
			}
			for _, w := range tt.want {
				if !slices.Contains(names, w) {
					t.Errorf("completions = %v, want %q", names, w)
				}
			}
			for _, nw := range tt.notWant {
				if slices.Contains(names, nw) {
					t.Errorf("completions = %v, must not contain %q", names, nw)
				}
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Parallel()

	cmd := newCompletionCommand()
	if err := cmd.Args(cmd, []string{"bash"}); err != nil {
		t.Errorf("Args(bash) = %v", err)
	}
	if err := cmd.Args(cmd, []string{"tcsh"}); err == nil {
		t.Error("Args(tcsh) should fail")
	}
}
